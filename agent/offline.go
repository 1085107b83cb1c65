package agent

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// requiredIntakeFields drive the offline missing-field detection.
var requiredIntakeFields = []string{
	"contract_number",
	"contract_name",
	"effective_date",
	"expiration_date",
	"premium_amount",
	"limit_amount",
}

// OfflineAnalyzer replaces the live model with deterministic rules so
// both workflows run without external dependencies. It exercises the
// identical state-machine shape and output schemas.
type OfflineAnalyzer struct{}

func NewOfflineAnalyzer() *OfflineAnalyzer {
	return &OfflineAnalyzer{}
}

func (o *OfflineAnalyzer) AnalyseIntake(ctx context.Context, s *State) (*IntakeAnalysis, error) {
	parsed := mapValue(s.Snapshot, "parsed_results")
	contractData := mapValue(parsed, "contract_data")
	partiesData := listValue(parsed, "parties_data")

	var missingFields []string
	for _, field := range requiredIntakeFields {
		if !truthy(contractData[field]) {
			missingFields = append(missingFields, field)
		}
	}

	contractName := "the contract"
	if name, ok := contractData["contract_name"].(string); ok && name != "" {
		contractName = name
	}

	confidence := round2(math.Max(0.3, 1.0-0.1*float64(len(missingFields))))

	clarifyingQuestions := make([]string, 0, len(missingFields))
	for _, field := range missingFields {
		clarifyingQuestions = append(clarifyingQuestions,
			fmt.Sprintf("Can you confirm the value for %s?", strings.ReplaceAll(field, "_", " ")))
	}
	if len(clarifyingQuestions) == 0 {
		clarifyingQuestions = append(clarifyingQuestions,
			"Do you need any further adjustments before approving the extracted data?")
	}

	recommendedNextSteps := []string{
		"Review extracted parties to verify contact details.",
		"Edit any incorrect contract fields in the review form before approval.",
	}
	if len(missingFields) > 0 {
		recommendedNextSteps = append([]string{"Fill in missing required fields highlighted above."}, recommendedNextSteps...)
	}

	summary := fmt.Sprintf("Offline analysis for %s: %d party records detected.", contractName, len(partiesData))
	assistantMessage := fmt.Sprintf("%s Missing fields: %s. This guidance is generated in offline mode.",
		summary, joinOrNone(missingFields))

	return &IntakeAnalysis{
		Summary:              summary,
		AssistantMessage:     assistantMessage,
		MissingFields:        missingFields,
		ClarifyingQuestions:  clarifyingQuestions,
		RecommendedNextSteps: recommendedNextSteps,
		Confidence:           &confidence,
	}, nil
}

func (o *OfflineAnalyzer) AnalyseReview(ctx context.Context, s *State) (*ReviewAnalysis, error) {
	snapshot := s.Snapshot

	contractName := "the contract"
	if name, ok := snapshot["contract_name"].(string); ok && name != "" {
		contractName = name
	}
	status := "unknown"
	if st, ok := snapshot["status"].(string); ok && st != "" {
		status = st
	}
	parties := listValue(snapshot, "parties")

	var riskFlags []string
	if status != "active" && status != "pending_review" {
		riskFlags = append(riskFlags, fmt.Sprintf("Contract status is '%s'.", status))
	}
	if !truthy(snapshot["premium_amount"]) {
		riskFlags = append(riskFlags, "Premium amount is missing.")
	}
	if !truthy(snapshot["retention_amount"]) {
		riskFlags = append(riskFlags, "Retention amount is missing.")
	}
	if len(parties) == 0 {
		riskFlags = append(riskFlags, "No parties linked to the contract.")
	}

	recommendedActions := []string{
		"Document any manual edits made during intake.",
		"Ensure regulatory reporting requirements are updated after approval.",
	}
	if len(parties) == 0 {
		recommendedActions = append([]string{"Associate cedant and reinsurer parties before execution."}, recommendedActions...)
	}

	complianceNotes := []string{
		"Offline mode: review financial limits and commissions manually.",
		"Verify that the contract aligns with internal underwriting guidelines.",
	}

	summary := fmt.Sprintf("Offline review summary for %s: %d parties linked; status '%s'.",
		contractName, len(parties), status)
	assistantMessage := fmt.Sprintf("%s Risk flags: %s. This assessment was generated without calling external LLMs.",
		summary, joinOrNone(riskFlags))

	confidence := 0.7
	if len(riskFlags) > 0 {
		confidence = 0.5
	}

	return &ReviewAnalysis{
		Summary:            summary,
		AssistantMessage:   assistantMessage,
		RiskFlags:          riskFlags,
		RecommendedActions: recommendedActions,
		ComplianceNotes:    complianceNotes,
		Confidence:         &confidence,
	}, nil
}

func mapValue(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

func listValue(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	if v, ok := m[key].([]any); ok {
		return v
	}
	return nil
}

// truthy mirrors the falsiness rules the heuristics were written against:
// nil, empty string, zero, false, and empty containers all count as unset.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
