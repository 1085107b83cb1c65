package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vineetsarpal/re-ink/model"
	"github.com/vineetsarpal/re-ink/pkg/logger"
	"github.com/vineetsarpal/re-ink/service"
)

// ContractHandler handles contract CRUD endpoints
type ContractHandler struct {
	contracts *service.ContractStore
}

func NewContractHandler(contracts *service.ContractStore) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// List returns all contracts, optionally filtered by status
// GET /api/contracts?status=active
func (h *ContractHandler) List(c *gin.Context) {
	status := c.Query("status")
	contracts := h.contracts.List(status)

	c.JSON(http.StatusOK, gin.H{
		"contracts": contracts,
		"count":     len(contracts),
	})
}

// Get returns a single contract by ID
// GET /api/contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	contract := h.contracts.Get(c.Param("id"))
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	c.JSON(http.StatusOK, contract)
}

// Create creates a contract directly, bypassing the extraction pipeline.
// POST /api/contracts
func (h *ContractHandler) Create(c *gin.Context) {
	var draft model.ContractDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if errs := draft.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": errs})
		return
	}

	if existing := h.contracts.GetByNumber(draft.ContractNumber); existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "A contract with this contract_number already exists",
		})
		return
	}

	contract := draft.ToContract()
	contract.ID = uuid.New().String()
	contract.Status = model.StatusForDates(contract.EffectiveDate, contract.ExpirationDate, time.Now())
	contract.ReviewStatus = model.ReviewStatusPending
	contract.IsManuallyCreated = true
	contract.CreatedAt = time.Now()

	h.contracts.Save(contract)

	logger.Info(c.Request.Context(), "contract created",
		"contract_id", contract.ID,
		"contract_number", contract.ContractNumber,
	)

	c.JSON(http.StatusCreated, contract)
}

// Update replaces the editable fields of an existing contract.
// PUT /api/contracts/:id
func (h *ContractHandler) Update(c *gin.Context) {
	contract := h.contracts.Get(c.Param("id"))
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	var draft model.ContractDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if errs := draft.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": errs})
		return
	}

	if draft.ContractNumber != contract.ContractNumber {
		if existing := h.contracts.GetByNumber(draft.ContractNumber); existing != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error": "A contract with this contract_number already exists",
			})
			return
		}
	}

	updated := draft.ToContract()
	updated.ID = contract.ID
	updated.Status = contract.Status
	updated.ReviewStatus = contract.ReviewStatus
	updated.ReviewedBy = contract.ReviewedBy
	updated.SourceDocumentPath = contract.SourceDocumentPath
	updated.SourceDocumentName = contract.SourceDocumentName
	updated.ExtractionConfidence = contract.ExtractionConfidence
	updated.ExtractionJobID = contract.ExtractionJobID
	updated.IsManuallyCreated = contract.IsManuallyCreated
	updated.PartyLinks = contract.PartyLinks
	updated.CreatedAt = contract.CreatedAt

	h.contracts.Save(updated)

	logger.Info(c.Request.Context(), "contract updated", "contract_id", updated.ID)

	c.JSON(http.StatusOK, updated)
}

// UpdateStatus changes the workflow status of a contract.
// PATCH /api/contracts/:id/status
func (h *ContractHandler) UpdateStatus(c *gin.Context) {
	contract := h.contracts.Get(c.Param("id"))
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	switch req.Status {
	case model.ContractStatusDraft, model.ContractStatusPendingReview,
		model.ContractStatusActive, model.ContractStatusExpired,
		model.ContractStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	h.contracts.UpdateStatus(contract.ID, req.Status)

	logger.Info(c.Request.Context(), "contract status updated",
		"contract_id", contract.ID,
		"status", req.Status,
	)

	c.JSON(http.StatusOK, h.contracts.Get(contract.ID))
}

// Delete removes a contract
// DELETE /api/contracts/:id
func (h *ContractHandler) Delete(c *gin.Context) {
	contract := h.contracts.Get(c.Param("id"))
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	h.contracts.Delete(contract.ID)

	logger.Info(c.Request.Context(), "contract deleted", "contract_id", contract.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}
