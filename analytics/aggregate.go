package analytics

import (
	"strings"

	"shopsmart/api/models"
)

const (
	// NoDataLabel is the single type-distribution bucket shown for an empty log.
	NoDataLabel = "No Data"
	// NoInterestLabel is the single category bucket shown when no keyword matched.
	NoInterestLabel = "None"
)

// CategoryKeywords are matched literally against event details, in this order.
var CategoryKeywords = []string{"Electronics", "Fashion", "Furniture", "Groceries", "Fitness"}

// TypeDistribution counts events per type, ordered by first appearance.
// An empty log yields a single {No Data, 1} placeholder.
func TypeDistribution(events []models.Event) []models.CountEntry {
	if len(events) == 0 {
		return []models.CountEntry{{Name: NoDataLabel, Value: 1}}
	}

	index := make(map[models.EventType]int)
	var out []models.CountEntry
	for _, e := range events {
		i, ok := index[e.Type]
		if !ok {
			i = len(out)
			index[e.Type] = i
			out = append(out, models.CountEntry{Name: string(e.Type)})
		}
		out[i].Value++
	}
	return out
}

// CategoryInterest counts, per keyword, the events whose details contain it.
// One event may count toward several keywords. With no match anywhere the
// result is a single {None, 0} placeholder.
func CategoryInterest(events []models.Event) []models.CountEntry {
	counts := make([]int, len(CategoryKeywords))
	for _, e := range events {
		for i, keyword := range CategoryKeywords {
			if strings.Contains(e.Details, keyword) {
				counts[i]++
			}
		}
	}

	var out []models.CountEntry
	for i, keyword := range CategoryKeywords {
		if counts[i] > 0 {
			out = append(out, models.CountEntry{Name: keyword, Value: counts[i]})
		}
	}
	if len(out) == 0 {
		return []models.CountEntry{{Name: NoInterestLabel, Value: 0}}
	}
	return out
}

// Total sums the bucket values.
func Total(entries []models.CountEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Value
	}
	return total
}

// AsMap flattens entries for callers that prefer keyed access.
func AsMap(entries []models.CountEntry) map[string]int {
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		out[e.Name] = e.Value
	}
	return out
}
