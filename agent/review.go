package agent

import (
	"context"
)

// ReviewAnalyzer produces the structured compliance/risk analysis for a
// stored contract snapshot.
type ReviewAnalyzer interface {
	AnalyseReview(ctx context.Context, s *State) (*ReviewAnalysis, error)
}

// ReviewAgent runs a compliance- and risk-focused review for an existing
// contract.
type ReviewAgent struct {
	analyzer ReviewAnalyzer
}

func NewReviewAgent(analyzer ReviewAnalyzer) *ReviewAgent {
	return &ReviewAgent{analyzer: analyzer}
}

// Run executes the review workflow for one request.
func (a *ReviewAgent) Run(ctx context.Context, contractID string, contractSnapshot map[string]any, userInput string, history []ChatMessage) (*State, *ReviewAnalysis, error) {
	state := &State{
		ID:        contractID,
		UserInput: userInput,
		History:   history,
		Snapshot:  contractSnapshot,
	}

	var analysis *ReviewAnalysis
	wf := &workflow{
		validate: validateContract,
		stop:     []string{StatusNotFound},
		analyse: func(ctx context.Context, s *State) error {
			result, err := a.analyzer.AnalyseReview(ctx, s)
			if err != nil {
				return err
			}
			analysis = result
			s.Status = StatusComplete
			s.AssistantMessage = result.AssistantMessage
			return nil
		},
	}

	if err := wf.run(ctx, state); err != nil {
		return state, nil, err
	}
	return state, analysis, nil
}

func validateContract(s *State) {
	if s.Snapshot == nil {
		s.Status = StatusNotFound
		s.Errors = append(s.Errors, "Contract not found. Provide a valid contract_id.")
		return
	}
	s.Status = StatusReady
}
