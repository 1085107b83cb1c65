package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingAnalyzer records how often analyse ran.
type countingAnalyzer struct {
	intakeCalls int
	reviewCalls int
	err         error
}

func (c *countingAnalyzer) AnalyseIntake(ctx context.Context, s *State) (*IntakeAnalysis, error) {
	c.intakeCalls++
	if c.err != nil {
		return nil, c.err
	}
	return &IntakeAnalysis{
		Summary:          "ok",
		AssistantMessage: "looks good",
	}, nil
}

func (c *countingAnalyzer) AnalyseReview(ctx context.Context, s *State) (*ReviewAnalysis, error) {
	c.reviewCalls++
	if c.err != nil {
		return nil, c.err
	}
	return &ReviewAnalysis{
		Summary:          "ok",
		AssistantMessage: "reviewed",
	}, nil
}

func TestIntakeAgentMissingJob(t *testing.T) {
	analyzer := &countingAnalyzer{}
	a := NewIntakeAgent(analyzer)

	state, analysis, err := a.Run(context.Background(), "job-1", nil, "analyse this", nil)
	require.NoError(t, err)

	assert.Equal(t, StatusJobNotReady, state.Status)
	assert.Nil(t, analysis)
	require.Len(t, state.Errors, 1)
	assert.Equal(t, "Extraction job not found. Upload a document first.", state.Errors[0])

	// Validation stopped the run before analysis.
	assert.Zero(t, analyzer.intakeCalls)
}

func TestIntakeAgentJobStillProcessing(t *testing.T) {
	analyzer := &countingAnalyzer{}
	a := NewIntakeAgent(analyzer)

	snapshot := map[string]any{"status": "processing"}
	state, analysis, err := a.Run(context.Background(), "job-1", snapshot, "", nil)
	require.NoError(t, err)

	assert.Equal(t, StatusJobNotReady, state.Status)
	assert.Nil(t, analysis)
	require.Len(t, state.Errors, 1)
	assert.Equal(t, "Extraction job is 'processing'. Wait for completion before running the intake agent.", state.Errors[0])
	assert.Zero(t, analyzer.intakeCalls)
}

func TestIntakeAgentCompletedJob(t *testing.T) {
	analyzer := &countingAnalyzer{}
	a := NewIntakeAgent(analyzer)

	snapshot := map[string]any{"status": "completed"}
	state, analysis, err := a.Run(context.Background(), "job-1", snapshot, "analyse this", []ChatMessage{
		{Role: RoleUser, Content: "earlier question"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusReady, state.Status)
	require.NotNil(t, analysis)
	assert.Equal(t, "looks good", state.AssistantMessage)
	assert.Equal(t, 1, analyzer.intakeCalls)
	assert.Empty(t, state.Errors)
}

func TestIntakeAgentAnalyzerError(t *testing.T) {
	analyzer := &countingAnalyzer{err: errors.New("model unavailable")}
	a := NewIntakeAgent(analyzer)

	snapshot := map[string]any{"status": "completed"}
	state, analysis, err := a.Run(context.Background(), "job-1", snapshot, "", nil)

	require.Error(t, err)
	assert.Nil(t, analysis)
	require.NotNil(t, state)
	assert.Equal(t, 1, analyzer.intakeCalls)
}

func TestReviewAgentMissingContract(t *testing.T) {
	analyzer := &countingAnalyzer{}
	a := NewReviewAgent(analyzer)

	state, analysis, err := a.Run(context.Background(), "contract-1", nil, "", nil)
	require.NoError(t, err)

	assert.Equal(t, StatusNotFound, state.Status)
	assert.Nil(t, analysis)
	require.Len(t, state.Errors, 1)
	assert.Equal(t, "Contract not found. Provide a valid contract_id.", state.Errors[0])
	assert.Zero(t, analyzer.reviewCalls)
}

func TestReviewAgentExistingContract(t *testing.T) {
	analyzer := &countingAnalyzer{}
	a := NewReviewAgent(analyzer)

	snapshot := map[string]any{"contract_name": "Pacific Quota Share 2024", "status": "active"}
	state, analysis, err := a.Run(context.Background(), "contract-1", snapshot, "review this", nil)
	require.NoError(t, err)

	assert.Equal(t, StatusComplete, state.Status)
	require.NotNil(t, analysis)
	assert.Equal(t, "reviewed", state.AssistantMessage)
	assert.Equal(t, 1, analyzer.reviewCalls)
}

func TestSnapshotRoundTrip(t *testing.T) {
	type record struct {
		Name  string   `json:"name"`
		Count int      `json:"count"`
		Tags  []string `json:"tags"`
	}

	snapshot, err := Snapshot(record{Name: "treaty", Count: 2, Tags: []string{"a"}})
	require.NoError(t, err)

	assert.Equal(t, "treaty", snapshot["name"])
	assert.Equal(t, float64(2), snapshot["count"])
}

func TestSnapshotUnserializable(t *testing.T) {
	_, err := Snapshot(make(chan int))
	assert.Error(t, err)
}
