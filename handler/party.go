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

// PartyHandler handles party CRUD endpoints
type PartyHandler struct {
	parties *service.PartyStore
}

func NewPartyHandler(parties *service.PartyStore) *PartyHandler {
	return &PartyHandler{parties: parties}
}

// partyRequest is the create/update request body for a party.
type partyRequest struct {
	Name               string `json:"name" binding:"required"`
	PartyType          string `json:"party_type" binding:"required"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	AddressLine1       string `json:"address_line1"`
	AddressLine2       string `json:"address_line2"`
	City               string `json:"city"`
	State              string `json:"state"`
	PostalCode         string `json:"postal_code"`
	Country            string `json:"country"`
	RegistrationNumber string `json:"registration_number"`
	LicenseNumber      string `json:"license_number"`
	Notes              string `json:"notes"`
}

func (r *partyRequest) apply(p *model.Party) {
	p.Name = r.Name
	p.PartyType = r.PartyType
	p.Email = r.Email
	p.Phone = r.Phone
	p.AddressLine1 = r.AddressLine1
	p.AddressLine2 = r.AddressLine2
	p.City = r.City
	p.State = r.State
	p.PostalCode = r.PostalCode
	p.Country = r.Country
	p.RegistrationNumber = r.RegistrationNumber
	p.LicenseNumber = r.LicenseNumber
	p.Notes = r.Notes
}

func validPartyType(partyType string) bool {
	switch partyType {
	case model.PartyTypeCedant, model.PartyTypeReinsurer, model.PartyTypeBroker:
		return true
	}
	return false
}

// List returns all parties
// GET /api/parties
func (h *PartyHandler) List(c *gin.Context) {
	parties := h.parties.List()

	c.JSON(http.StatusOK, gin.H{
		"parties": parties,
		"count":   len(parties),
	})
}

// Get returns a single party by ID
// GET /api/parties/:id
func (h *PartyHandler) Get(c *gin.Context) {
	party := h.parties.Get(c.Param("id"))
	if party == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		return
	}

	c.JSON(http.StatusOK, party)
}

// Create creates a new party
// POST /api/parties
func (h *PartyHandler) Create(c *gin.Context) {
	var req partyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !validPartyType(req.PartyType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party_type must be one of cedant, reinsurer, broker"})
		return
	}

	if existing := h.parties.FindByName(req.Name); existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A party with this name already exists"})
		return
	}

	party := &model.Party{
		ID:        uuid.New().String(),
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	req.apply(party)

	h.parties.Save(party)

	logger.Info(c.Request.Context(), "party created",
		"party_id", party.ID,
		"name", party.Name,
		"party_type", party.PartyType,
	)

	c.JSON(http.StatusCreated, party)
}

// Update replaces the editable fields of an existing party.
// PUT /api/parties/:id
func (h *PartyHandler) Update(c *gin.Context) {
	party := h.parties.Get(c.Param("id"))
	if party == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		return
	}

	var req partyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !validPartyType(req.PartyType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party_type must be one of cedant, reinsurer, broker"})
		return
	}

	if existing := h.parties.FindByName(req.Name); existing != nil && existing.ID != party.ID {
		c.JSON(http.StatusConflict, gin.H{"error": "A party with this name already exists"})
		return
	}

	req.apply(party)
	h.parties.Save(party)

	logger.Info(c.Request.Context(), "party updated", "party_id", party.ID)

	c.JSON(http.StatusOK, party)
}

// Delete removes a party
// DELETE /api/parties/:id
func (h *PartyHandler) Delete(c *gin.Context) {
	party := h.parties.Get(c.Param("id"))
	if party == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		return
	}

	h.parties.Delete(party.ID)

	logger.Info(c.Request.Context(), "party deleted", "party_id", party.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Party deleted"})
}
