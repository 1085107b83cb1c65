package model

import (
	"time"
)

// Contract represents a reinsurance contract record. Amount fields hold
// cleaned numeric strings as produced by the extraction normalizer; date
// fields hold YYYY-MM-DD strings.
type Contract struct {
	ID string `json:"id"`

	// Identification
	ContractNumber  string `json:"contract_number"`
	ContractName    string `json:"contract_name"`
	ContractType    string `json:"contract_type,omitempty"`     // treaty, facultative
	ContractSubType string `json:"contract_sub_type,omitempty"` // quota_share, surplus, xol, ...
	ContractNature  string `json:"contract_nature,omitempty"`   // proportional, non-proportional

	// Dates
	EffectiveDate  string `json:"effective_date,omitempty"`
	ExpirationDate string `json:"expiration_date,omitempty"`
	InceptionDate  string `json:"inception_date,omitempty"`

	// Financial terms
	PremiumAmount   string `json:"premium_amount,omitempty"`
	Currency        string `json:"currency,omitempty"` // ISO 4217
	LimitAmount     string `json:"limit_amount,omitempty"`
	RetentionAmount string `json:"retention_amount,omitempty"`
	CommissionRate  string `json:"commission_rate,omitempty"`

	// Coverage
	LineOfBusiness      string `json:"line_of_business,omitempty"`
	CoverageTerritory   string `json:"coverage_territory,omitempty"`
	CoverageDescription string `json:"coverage_description,omitempty"`

	// Terms
	TermsAndConditions string `json:"terms_and_conditions,omitempty"`
	SpecialProvisions  string `json:"special_provisions,omitempty"`

	// Source document
	SourceDocumentPath string `json:"source_document_path,omitempty"`
	SourceDocumentName string `json:"source_document_name,omitempty"`

	// Workflow
	Status       string `json:"status"`        // draft, pending_review, active, expired, cancelled
	ReviewStatus string `json:"review_status"` // pending, approved, rejected
	ReviewedBy   string `json:"reviewed_by,omitempty"`

	// Extraction metadata
	ExtractionConfidence *float64 `json:"extraction_confidence,omitempty"`
	ExtractionJobID      string   `json:"extraction_job_id,omitempty"`
	IsManuallyCreated    bool     `json:"is_manually_created"`

	Notes    string `json:"notes,omitempty"`
	IsActive bool   `json:"is_active"`

	// Linked parties with their role on this contract
	PartyLinks []PartyLink `json:"party_links,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PartyLink associates a party with a contract in a given role.
type PartyLink struct {
	PartyID string `json:"party_id"`
	Role    string `json:"role"` // cedant, reinsurer, broker
}

// Contract status constants
const (
	ContractStatusDraft         = "draft"
	ContractStatusPendingReview = "pending_review"
	ContractStatusActive        = "active"
	ContractStatusExpired       = "expired"
	ContractStatusCancelled     = "cancelled"
)

// Review status constants
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)
