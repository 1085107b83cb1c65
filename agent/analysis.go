package agent

// IntakeAnalysis is the structured output of the guided intake workflow.
type IntakeAnalysis struct {
	Summary              string   `json:"summary"`
	AssistantMessage     string   `json:"assistant_message"`
	MissingFields        []string `json:"missing_fields"`
	ClarifyingQuestions  []string `json:"clarifying_questions"`
	RecommendedNextSteps []string `json:"recommended_next_steps"`
	Confidence           *float64 `json:"confidence,omitempty"`
}

// ReviewAnalysis is the structured output of the automated contract
// review workflow.
type ReviewAnalysis struct {
	Summary            string   `json:"summary"`
	AssistantMessage   string   `json:"assistant_message"`
	RiskFlags          []string `json:"risk_flags"`
	RecommendedActions []string `json:"recommended_actions"`
	ComplianceNotes    []string `json:"compliance_notes"`
	Confidence         *float64 `json:"confidence,omitempty"`
}

func stringArraySchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

// IntakeAnalysisSchema is the JSON schema the intake model call is
// constrained to.
func IntakeAnalysisSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":                map[string]any{"type": "string"},
			"assistant_message":      map[string]any{"type": "string"},
			"missing_fields":         stringArraySchema(),
			"clarifying_questions":   stringArraySchema(),
			"recommended_next_steps": stringArraySchema(),
			"confidence":             map[string]any{"type": []string{"number", "null"}},
		},
		"required": []string{
			"summary", "assistant_message", "missing_fields",
			"clarifying_questions", "recommended_next_steps",
		},
		"additionalProperties": false,
	}
}

// ReviewAnalysisSchema is the JSON schema the review model call is
// constrained to.
func ReviewAnalysisSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":             map[string]any{"type": "string"},
			"assistant_message":   map[string]any{"type": "string"},
			"risk_flags":          stringArraySchema(),
			"recommended_actions": stringArraySchema(),
			"compliance_notes":    stringArraySchema(),
			"confidence":          map[string]any{"type": []string{"number", "null"}},
		},
		"required": []string{
			"summary", "assistant_message", "risk_flags",
			"recommended_actions", "compliance_notes",
		},
		"additionalProperties": false,
	}
}
