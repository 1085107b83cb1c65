package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vineetsarpal/re-ink/agent"
	"github.com/vineetsarpal/re-ink/model"
	"github.com/vineetsarpal/re-ink/pkg/logger"
	"github.com/vineetsarpal/re-ink/service"
)

// AgentHandler exposes the intake and review agent workflows over HTTP.
type AgentHandler struct {
	intake    *agent.IntakeAgent
	review    *agent.ReviewAgent
	jobs      *service.ExtractionJobStore
	contracts *service.ContractStore
	parties   *service.PartyStore
}

func NewAgentHandler(intake *agent.IntakeAgent, review *agent.ReviewAgent, jobs *service.ExtractionJobStore, contracts *service.ContractStore, parties *service.PartyStore) *AgentHandler {
	return &AgentHandler{
		intake:    intake,
		review:    review,
		jobs:      jobs,
		contracts: contracts,
		parties:   parties,
	}
}

// agentRequest is the shared request shape for both agent endpoints.
type agentRequest struct {
	JobID      string              `json:"job_id"`
	ContractID string              `json:"contract_id"`
	Message    string              `json:"message"`
	History    []agent.ChatMessage `json:"history"`
}

// Intake runs the guided intake agent against an extraction job.
// POST /api/agent/intake
func (h *AgentHandler) Intake(c *gin.Context) {
	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.JobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id is required"})
		return
	}

	var snapshot map[string]any
	job := h.jobs.Get(req.JobID)
	if job != nil {
		var err error
		snapshot, err = agent.Snapshot(job)
		if err != nil {
			logger.Error(c.Request.Context(), "failed to snapshot extraction job", "job_id", req.JobID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare job snapshot"})
			return
		}
	}

	state, analysis, err := h.intake.Run(c.Request.Context(), req.JobID, snapshot, req.Message, req.History)
	if err != nil {
		logger.Error(c.Request.Context(), "intake agent failed", "job_id", req.JobID, "error", err)
		state.Status = agent.StatusError
		state.AssistantMessage = "I ran into an unexpected error while analysing the extraction results."
		state.Errors = append(state.Errors, err.Error())
	}

	if state.AssistantMessage == "" && len(state.Errors) > 0 {
		state.AssistantMessage = state.Errors[0]
	}

	resp := gin.H{
		"job_id": req.JobID,
		"status": state.Status,
	}
	if analysis != nil {
		resp["analysis"] = analysis
	}
	// Drafts are returned whenever the job carries parsed results, even
	// when the workflow stopped early; the pre-filled approval payload
	// only once the run reached ready.
	if job != nil && job.Parsed != nil {
		resp["contract_data"] = job.Parsed.ContractData
		resp["parties_data"] = job.Parsed.PartiesData
		if state.Status == agent.StatusReady {
			resp["suggested_review_payload"] = suggestedReviewPayload(job.Parsed, state)
		}
	}
	resp["messages"] = appendAssistant(req.History, state.AssistantMessage)
	resp["errors"] = state.Errors

	c.JSON(http.StatusOK, resp)
}

// suggestedReviewPayload assembles the pre-filled approval payload from
// the parsed drafts. Validation failures surface as per-record error
// strings; an invalid party is dropped while the contract and its valid
// siblings proceed.
func suggestedReviewPayload(parsed *service.ParsedExtraction, state *agent.State) model.ReviewData {
	for _, e := range parsed.ContractData.Validate() {
		state.Errors = append(state.Errors, fmt.Sprintf("contract validation failed: %s", e))
	}

	parties := make([]model.PartyDraft, 0, len(parsed.PartiesData))
	for i := range parsed.PartiesData {
		if errs := parsed.PartiesData[i].Validate(); len(errs) > 0 {
			for _, e := range errs {
				state.Errors = append(state.Errors, fmt.Sprintf("party %d validation failed: %s", i+1, e))
			}
			continue
		}
		parties = append(parties, parsed.PartiesData[i])
	}

	return model.ReviewData{
		Contract:         parsed.ContractData,
		Parties:          parties,
		CreateNewParties: true,
	}
}

// Review runs the contract review agent against a stored contract.
// POST /api/agent/review
func (h *AgentHandler) Review(c *gin.Context) {
	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.ContractID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contract_id is required"})
		return
	}

	var snapshot map[string]any
	contract := h.contracts.Get(req.ContractID)
	if contract != nil {
		var err error
		snapshot, err = agent.Snapshot(contract)
		if err != nil {
			logger.Error(c.Request.Context(), "failed to snapshot contract", "contract_id", req.ContractID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare contract snapshot"})
			return
		}
		snapshot["parties"] = h.linkedParties(contract)
	}

	state, analysis, err := h.review.Run(c.Request.Context(), req.ContractID, snapshot, req.Message, req.History)
	if err != nil {
		logger.Error(c.Request.Context(), "review agent failed", "contract_id", req.ContractID, "error", err)
		state.Status = agent.StatusError
		state.AssistantMessage = "An unexpected error occurred while reviewing the contract."
		state.Errors = append(state.Errors, err.Error())
	}

	if state.AssistantMessage == "" && len(state.Errors) > 0 {
		state.AssistantMessage = state.Errors[0]
	}

	resp := gin.H{
		"contract_id": req.ContractID,
		"status":      state.Status,
		"messages":    appendAssistant(req.History, state.AssistantMessage),
		"errors":      state.Errors,
	}
	if analysis != nil {
		resp["analysis"] = analysis
	}

	c.JSON(http.StatusOK, resp)
}

// linkedParties resolves a contract's party links into snapshot-friendly
// party values. Dangling links are skipped.
func (h *AgentHandler) linkedParties(contract *model.Contract) []any {
	parties := make([]any, 0, len(contract.PartyLinks))
	for _, link := range contract.PartyLinks {
		party := h.parties.Get(link.PartyID)
		if party == nil {
			continue
		}
		snapshot, err := agent.Snapshot(party)
		if err != nil {
			continue
		}
		snapshot["role"] = link.Role
		parties = append(parties, snapshot)
	}
	return parties
}

// appendAssistant returns the conversation with the assistant's reply
// appended, when there is one.
func appendAssistant(history []agent.ChatMessage, assistantMessage string) []agent.ChatMessage {
	messages := make([]agent.ChatMessage, 0, len(history)+1)
	messages = append(messages, history...)
	if assistantMessage != "" {
		messages = append(messages, agent.ChatMessage{
			Role:    agent.RoleAssistant,
			Content: assistantMessage,
		})
	}
	return messages
}
