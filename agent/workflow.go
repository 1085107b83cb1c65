package agent

import (
	"context"
	"encoding/json"
)

// ChatMessage is a single role-tagged turn in an agent conversation.
type ChatMessage struct {
	Role    string `json:"role"` // system, user, assistant, tool
	Content string `json:"content"`
}

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Workflow status values
const (
	StatusReady       = "ready"
	StatusComplete    = "complete"
	StatusNotFound    = "not_found"
	StatusJobNotReady = "job_not_ready"
	StatusError       = "error"
)

// State is the per-run workflow record: created fresh for each
// invocation, mutated only by workflow transitions, and discarded once
// the response is returned. Nothing here is persisted.
type State struct {
	ID               string
	UserInput        string
	History          []ChatMessage
	Snapshot         map[string]any
	Status           string
	AssistantMessage string
	Errors           []string
}

// step identifies a node in the two-node workflow graph.
type step int

const (
	stepValidate step = iota
	stepAnalyse
	stepDone
)

// workflow is the validate → analyse → done automaton shared by both
// agents. After validate, any status listed in stop (or the error status)
// routes straight to the terminal node; analyse never runs in that case.
type workflow struct {
	validate func(s *State)
	analyse  func(ctx context.Context, s *State) error
	stop     []string
}

func (w *workflow) run(ctx context.Context, s *State) error {
	for current := stepValidate; current != stepDone; {
		switch current {
		case stepValidate:
			w.validate(s)
			current = w.next(s)
		case stepAnalyse:
			if err := w.analyse(ctx, s); err != nil {
				return err
			}
			current = stepDone
		}
	}
	return nil
}

// next is the transition function out of the validate node.
func (w *workflow) next(s *State) step {
	if s.Status == StatusError {
		return stepDone
	}
	for _, status := range w.stop {
		if s.Status == status {
			return stepDone
		}
	}
	return stepAnalyse
}

// Snapshot converts any JSON-serializable value into the generic map form
// carried by workflow state.
func Snapshot(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var snapshot map[string]any
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}
