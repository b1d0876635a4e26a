package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"shopsmart/api/gemini"
	"shopsmart/api/models"
)

func sampleEvents() []models.Event {
	base := time.Date(2026, 10, 14, 15, 4, 5, 0, time.UTC).UnixMilli()
	return []models.Event{
		{ID: "1", Timestamp: base, Type: models.EventSearch, Details: `User searched for query: "shoes"`},
		{ID: "2", Timestamp: base + 1000, Type: models.EventClick, Details: "Clicked product: Running Shoes - Speed 500 (Fashion)"},
		{ID: "3", Timestamp: base + 2000, Type: models.EventAddToCart, Details: "Added to cart: Running Shoes - Speed 500 - $89.99"},
	}
}

func TestFormatEventLog(t *testing.T) {
	got := FormatEventLog(sampleEvents(), time.UTC)
	want := strings.Join([]string{
		`[3:04:05 PM] SEARCH: User searched for query: "shoes"`,
		`[3:04:06 PM] CLICK: Clicked product: Running Shoes - Speed 500 (Fashion)`,
		`[3:04:07 PM] ADD_TO_CART: Added to cart: Running Shoes - Speed 500 - $89.99`,
	}, "\n")
	assert.Equal(t, want, got)
	assert.Equal(t, "", FormatEventLog(nil, time.UTC))
}

func TestBuildPromptEmbedsLog(t *testing.T) {
	p := BuildPrompt("[1:00:00 AM] SEARCH: x")
	assert.Contains(t, p, "USER LOGS:\n[1:00:00 AM] SEARCH: x\n")
	assert.Contains(t, p, "Senior Marketing Data Analyst")
}

func TestResponseSchema(t *testing.T) {
	s := ResponseSchema()
	assert.Equal(t, genai.TypeObject, s.Type)
	require.Len(t, s.Properties, 4)
	assert.Equal(t, genai.TypeArray, s.Properties["predictedInterests"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["predictedInterests"].Items.Type)
	for _, k := range []string{"summary", "userPersona", "marketingStrategy"} {
		assert.Equal(t, genai.TypeString, s.Properties[k].Type, k)
	}
}

func TestParseInsight(t *testing.T) {
	want := models.Insight{Summary: "s", UserPersona: "p", PredictedInterests: []string{"a"}, MarketingStrategy: "m"}
	body := `{"summary":"s","userPersona":"p","predictedInterests":["a"],"marketingStrategy":"m"}`

	valid := []struct {
		name string
		text string
	}{
		{name: "plain", text: body},
		{name: "json fence", text: "```json\n" + body + "\n```"},
		{name: "bare fence", text: "```\n" + body + "\n```"},
		{name: "surrounding whitespace", text: "\n  ```json " + body + " ```  \n"},
	}
	for _, tt := range valid {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInsight(tt.text)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	invalid := []struct {
		name string
		text string
		err  error
	}{
		{name: "empty", text: "", err: ErrEmptyResponse},
		{name: "blank", text: "   \n", err: ErrEmptyResponse},
		{name: "empty fence", text: "```json\n```", err: ErrEmptyResponse},
		{name: "prose", text: "Sorry, I cannot help with that.", err: ErrNotObject},
		{name: "null", text: "null", err: ErrNotObject},
		{name: "array", text: `["a"]`, err: ErrNotObject},
		{name: "truncated", text: `{"summary":"s"`},
		{name: "wrong field type", text: `{"summary":5}`},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInsight(tt.text)
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestRequestor_EmptyLogSkipsService(t *testing.T) {
	gen := new(MockGenerator)
	r := NewRequestor(gen, "gemini-2.5-flash")

	got := r.Analyze(context.Background(), nil)

	assert.Equal(t, models.NoDataInsight(), got)
	gen.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything)
}

func TestRequestor_Success(t *testing.T) {
	gen := new(MockGenerator)
	r := NewRequestor(gen, "gemini-2.5-flash", WithLocation(time.UTC))

	gen.On("GenerateContent", mock.Anything, mock.MatchedBy(func(req gemini.GenerateRequest) bool {
		return req.Model == "gemini-2.5-flash" &&
			req.ResponseMIMEType == "application/json" &&
			req.ResponseSchema != nil &&
			strings.Contains(req.Prompt, "[3:04:06 PM] CLICK: Clicked product: Running Shoes - Speed 500 (Fashion)")
	})).Return("```json\n{\"summary\":\"s\",\"userPersona\":\"p\",\"predictedInterests\":[\"a\"],\"marketingStrategy\":\"m\"}\n```", nil).Once()

	got := r.Analyze(context.Background(), sampleEvents())

	assert.Equal(t, models.Insight{Summary: "s", UserPersona: "p", PredictedInterests: []string{"a"}, MarketingStrategy: "m"}, got)
	gen.AssertExpectations(t)
}

func TestRequestor_FailuresFallBack(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
	}{
		{name: "transport error", err: errors.New("dial tcp: connection refused")},
		{name: "missing key", err: gemini.ErrMissingAPIKey},
		{name: "empty text", text: ""},
		{name: "non-json text", text: "I think the user likes shoes."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockGenerator)
			gen.On("GenerateContent", mock.Anything, mock.Anything).Return(tt.text, tt.err).Once()

			got := NewRequestor(gen, "m").Analyze(context.Background(), sampleEvents())

			assert.Equal(t, models.ErrorInsight(), got)
			gen.AssertExpectations(t)
		})
	}
}
