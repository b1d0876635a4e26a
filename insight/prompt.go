package insight

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"shopsmart/api/models"
)

// TimeLayout renders event times the way the dashboard shows them.
const TimeLayout = "3:04:05 PM"

// FormatEventLog renders one "[time] TYPE: details" line per event, in log order.
func FormatEventLog(events []models.Event, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	lines := make([]string, len(events))
	for i, e := range events {
		ts := time.UnixMilli(e.Timestamp).In(loc).Format(TimeLayout)
		lines[i] = fmt.Sprintf("[%s] %s: %s", ts, e.Type, e.Details)
	}
	return strings.Join(lines, "\n")
}

const promptTemplate = `You are a Senior Marketing Data Analyst AI.
Analyze the following raw user interaction logs from an e-commerce session.

USER LOGS:
%s

Your goal is to "Simplified for Marketers".
1. Identify the user's intent (what are they actually looking for?).
2. Build a brief "User Persona".
3. Suggest what products to show them next.
4. Propose a one-sentence marketing hook.
`

// BuildPrompt embeds a formatted event log into the analyst instructions.
func BuildPrompt(eventLog string) string {
	return fmt.Sprintf(promptTemplate, eventLog)
}

// ResponseSchema constrains the model to the four Insight fields.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {
				Type:        genai.TypeString,
				Description: "A brief 2 sentence summary of what the user did.",
			},
			"userPersona": {
				Type:        genai.TypeString,
				Description: "e.g., 'Budget-conscious Tech Enthusiast' or 'Health-focused Gift Shopper'",
			},
			"predictedInterests": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "List of 3-5 keywords of what they want.",
			},
			"marketingStrategy": {
				Type:        genai.TypeString,
				Description: "Actionable advice for the marketer.",
			},
		},
	}
}
