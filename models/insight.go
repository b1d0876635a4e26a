package models

// Insight is the structured marketing summary shown on the dashboard.
type Insight struct {
	Summary            string   `json:"summary"`
	UserPersona        string   `json:"userPersona"`
	PredictedInterests []string `json:"predictedInterests"`
	MarketingStrategy  string   `json:"marketingStrategy"`
}

// NoDataInsight is returned when there is nothing to analyze yet.
func NoDataInsight() Insight {
	return Insight{
		Summary:            "No user data collected yet.",
		UserPersona:        "Unknown",
		PredictedInterests: []string{},
		MarketingStrategy:  "Wait for user interaction.",
	}
}

// ErrorInsight replaces the analysis whenever the AI call fails for any reason.
func ErrorInsight() Insight {
	return Insight{
		Summary:            "AI analysis failed due to technical error.",
		UserPersona:        "Error",
		PredictedInterests: []string{},
		MarketingStrategy:  "Check API Configuration or Logs.",
	}
}
