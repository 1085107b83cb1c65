package agent

import (
	"context"
	"fmt"
)

// IntakeAnalyzer produces the structured intake analysis for a completed
// extraction job. LiveAnalyzer calls the model; OfflineAnalyzer applies
// deterministic rules. The variant is chosen once at construction; the
// workflow never branches on which one is active.
type IntakeAnalyzer interface {
	AnalyseIntake(ctx context.Context, s *State) (*IntakeAnalysis, error)
}

// IntakeAgent reviews extraction job payloads and suggests next actions
// for the reviewer.
type IntakeAgent struct {
	analyzer IntakeAnalyzer
}

func NewIntakeAgent(analyzer IntakeAnalyzer) *IntakeAgent {
	return &IntakeAgent{analyzer: analyzer}
}

// Run executes the intake workflow for one request. The returned state is
// terminal; the analysis is nil whenever validation stopped the run. An
// error means the analyzer itself failed and the caller owns converting
// it into an error response.
func (a *IntakeAgent) Run(ctx context.Context, jobID string, jobSnapshot map[string]any, userInput string, history []ChatMessage) (*State, *IntakeAnalysis, error) {
	state := &State{
		ID:        jobID,
		UserInput: userInput,
		History:   history,
		Snapshot:  jobSnapshot,
	}

	var analysis *IntakeAnalysis
	wf := &workflow{
		validate: validateJob,
		stop:     []string{StatusJobNotReady},
		analyse: func(ctx context.Context, s *State) error {
			result, err := a.analyzer.AnalyseIntake(ctx, s)
			if err != nil {
				return err
			}
			analysis = result
			s.Status = StatusReady
			s.AssistantMessage = result.AssistantMessage
			return nil
		},
	}

	if err := wf.run(ctx, state); err != nil {
		return state, nil, err
	}
	return state, analysis, nil
}

// validateJob checks that the extraction job exists and has finished
// before any analysis happens.
func validateJob(s *State) {
	if s.Snapshot == nil {
		s.Status = StatusJobNotReady
		s.Errors = append(s.Errors, "Extraction job not found. Upload a document first.")
		return
	}

	status, _ := s.Snapshot["status"].(string)
	if status != "completed" {
		s.Status = StatusJobNotReady
		s.Errors = append(s.Errors,
			fmt.Sprintf("Extraction job is '%s'. Wait for completion before running the intake agent.", status))
		return
	}

	s.Status = StatusReady
}
