package insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"shopsmart/api/models"
)

var (
	ErrEmptyResponse = errors.New("no text returned from AI")
	ErrNotObject     = errors.New("AI response is not a JSON object")
)

// ParseInsight decodes the model output, tolerating a surrounding markdown code fence.
// Fields are not validated beyond a successful decode.
func ParseInsight(text string) (models.Insight, error) {
	cleaned := stripCodeFence(text)
	if cleaned == "" {
		return models.Insight{}, ErrEmptyResponse
	}
	if !strings.HasPrefix(cleaned, "{") {
		return models.Insight{}, ErrNotObject
	}

	var in models.Insight
	if err := json.Unmarshal([]byte(cleaned), &in); err != nil {
		return models.Insight{}, fmt.Errorf("decode insight: %w", err)
	}
	return in, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		if len(rest) >= 4 && strings.EqualFold(rest[:4], "json") {
			rest = rest[4:]
		}
		s = strings.TrimSpace(rest)
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
