package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vineetsarpal/re-ink/model"
	"github.com/vineetsarpal/re-ink/pkg/logger"
	"github.com/vineetsarpal/re-ink/service"
)

// ReviewHandler turns reviewed extraction drafts into stored contract and
// party records.
type ReviewHandler struct {
	contracts *service.ContractStore
	parties   *service.PartyStore
	jobs      *service.ExtractionJobStore
}

func NewReviewHandler(contracts *service.ContractStore, parties *service.PartyStore, jobs *service.ExtractionJobStore) *ReviewHandler {
	return &ReviewHandler{
		contracts: contracts,
		parties:   parties,
		jobs:      jobs,
	}
}

// ApproveRequest is the review approval payload: the edited contract
// draft, its party drafts, and the extraction job they came from.
type ApproveRequest struct {
	model.ReviewData
	JobID      string `json:"job_id,omitempty"`
	ReviewedBy string `json:"reviewed_by,omitempty"`
}

// Approve validates the reviewed drafts and persists them as contract and
// party records. Validation failures are collected per record so the
// reviewer sees every problem at once.
// POST /api/review/approve
func (h *ReviewHandler) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var errs []string
	errs = append(errs, req.Contract.Validate()...)
	for i := range req.Parties {
		for _, e := range req.Parties[i].Validate() {
			errs = append(errs, fmt.Sprintf("party %d: %s", i+1, e))
		}
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": errs})
		return
	}

	if existing := h.contracts.GetByNumber(req.Contract.ContractNumber); existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "A contract with this contract_number already exists",
		})
		return
	}

	reviewedBy := req.ReviewedBy
	if reviewedBy == "" {
		if username, exists := c.Get("username"); exists {
			reviewedBy, _ = username.(string)
		}
	}

	contract := req.Contract.ToContract()
	contract.ID = uuid.New().String()
	contract.Status = model.StatusForDates(contract.EffectiveDate, contract.ExpirationDate, time.Now())
	contract.ReviewStatus = model.ReviewStatusApproved
	contract.ReviewedBy = reviewedBy
	contract.CreatedAt = time.Now()

	if req.JobID != "" {
		contract.ExtractionJobID = req.JobID
		if job := h.jobs.Get(req.JobID); job != nil {
			contract.SourceDocumentName = job.Filename
			contract.SourceDocumentPath = job.ObjectName
			if job.Parsed != nil {
				contract.ExtractionConfidence = job.Parsed.ConfidenceScore
			}
		}
	}

	created := 0
	for i := range req.Parties {
		party := h.resolveParty(&req.Parties[i], req.CreateNewParties, &created)
		if party == nil {
			continue
		}
		contract.PartyLinks = append(contract.PartyLinks, model.PartyLink{
			PartyID: party.ID,
			Role:    party.PartyType,
		})
	}

	h.contracts.Save(contract)

	logger.Info(c.Request.Context(), "review approved",
		"contract_id", contract.ID,
		"contract_number", contract.ContractNumber,
		"parties_linked", len(contract.PartyLinks),
		"parties_created", created,
	)

	c.JSON(http.StatusCreated, gin.H{
		"contract":        contract,
		"parties_linked":  len(contract.PartyLinks),
		"parties_created": created,
	})
}

// resolveParty matches a draft against existing parties by name, creating
// a new record only when the reviewer opted in.
func (h *ReviewHandler) resolveParty(draft *model.PartyDraft, createNew bool, created *int) *model.Party {
	if existing := h.parties.FindByName(draft.Name); existing != nil {
		return existing
	}
	if !createNew {
		return nil
	}

	party := draft.ToParty()
	party.ID = uuid.New().String()
	party.CreatedAt = time.Now()
	h.parties.Save(party)
	*created++
	return party
}

// Reject marks an extraction job as reviewed and discarded without
// creating any records.
// POST /api/review/reject
func (h *ReviewHandler) Reject(c *gin.Context) {
	var req struct {
		JobID  string `json:"job_id" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	job := h.jobs.Get(req.JobID)
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Extraction job not found"})
		return
	}

	message := "Extraction rejected by reviewer"
	if req.Reason != "" {
		message = fmt.Sprintf("Extraction rejected by reviewer: %s", req.Reason)
	}
	h.jobs.Update(req.JobID, func(j *service.ExtractionJob) {
		j.Message = message
	})

	logger.Info(c.Request.Context(), "review rejected", "job_id", req.JobID)

	c.JSON(http.StatusOK, gin.H{"job_id": req.JobID, "message": message})
}
