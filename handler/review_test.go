package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vineetsarpal/re-ink/config"
	"github.com/vineetsarpal/re-ink/model"
	"github.com/vineetsarpal/re-ink/service"
)

type reviewTestEnv struct {
	router    *gin.Engine
	contracts *service.ContractStore
	parties   *service.PartyStore
	jobs      *service.ExtractionJobStore
}

func newReviewTestEnv() *reviewTestEnv {
	gin.SetMode(gin.TestMode)

	contracts := service.NewContractStore(&config.StoreConfig{})
	parties := service.NewPartyStore()
	jobs := service.NewExtractionJobStore()

	h := NewReviewHandler(contracts, parties, jobs)

	router := gin.New()
	router.POST("/api/review/approve", h.Approve)
	router.POST("/api/review/reject", h.Reject)

	return &reviewTestEnv{router: router, contracts: contracts, parties: parties, jobs: jobs}
}

func validApprovePayload() map[string]any {
	return map[string]any{
		"contract": map[string]any{
			"contract_number": "QS-2024-001",
			"contract_name":   "Pacific Quota Share 2024",
			"effective_date":  "2024-01-01",
			"expiration_date": "2090-12-31",
			"premium_amount":  "2500000",
		},
		"parties": []map[string]any{
			{"name": "Pacific Insurance Co", "party_type": "cedant", "is_active": true},
			{"name": "Global Re", "party_type": "reinsurer", "is_active": true},
		},
		"create_new_parties": true,
		"reviewed_by":        "admin",
	}
}

func TestReviewApprove(t *testing.T) {
	env := newReviewTestEnv()

	w := postJSON(t, env.router, "/api/review/approve", validApprovePayload())

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)

	assert.Equal(t, float64(2), body["parties_created"])
	assert.Equal(t, float64(2), body["parties_linked"])

	contract := env.contracts.GetByNumber("QS-2024-001")
	require.NotNil(t, contract)
	assert.Equal(t, model.ReviewStatusApproved, contract.ReviewStatus)
	assert.Equal(t, "admin", contract.ReviewedBy)
	assert.Equal(t, model.ContractStatusActive, contract.Status)
	require.Len(t, contract.PartyLinks, 2)
	assert.Equal(t, "cedant", contract.PartyLinks[0].Role)

	// Parties were persisted.
	assert.NotNil(t, env.parties.FindByName("Pacific Insurance Co"))
	assert.NotNil(t, env.parties.FindByName("Global Re"))
}

func TestReviewApproveReusesExistingParty(t *testing.T) {
	env := newReviewTestEnv()
	env.parties.Save(&model.Party{ID: "p1", Name: "Pacific Insurance Co", PartyType: model.PartyTypeCedant})

	w := postJSON(t, env.router, "/api/review/approve", validApprovePayload())

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)

	// One matched, one created.
	assert.Equal(t, float64(1), body["parties_created"])
	assert.Equal(t, float64(2), body["parties_linked"])

	contract := env.contracts.GetByNumber("QS-2024-001")
	require.NotNil(t, contract)
	assert.Equal(t, "p1", contract.PartyLinks[0].PartyID)
}

func TestReviewApproveSkipsUnknownPartiesWhenCreationDisabled(t *testing.T) {
	env := newReviewTestEnv()

	payload := validApprovePayload()
	payload["create_new_parties"] = false

	w := postJSON(t, env.router, "/api/review/approve", payload)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)

	assert.Equal(t, float64(0), body["parties_created"])
	assert.Equal(t, float64(0), body["parties_linked"])
	assert.Nil(t, env.parties.FindByName("Global Re"))
}

func TestReviewApproveValidationErrors(t *testing.T) {
	env := newReviewTestEnv()

	w := postJSON(t, env.router, "/api/review/approve", map[string]any{
		"contract": map[string]any{
			"contract_name":  "Nameless Treaty",
			"effective_date": "01/01/2024",
		},
		"parties": []map[string]any{
			{"name": "", "party_type": "underwriter"},
		},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)

	details := body["details"].([]any)
	assert.NotEmpty(t, details)

	var hasContractError, hasPartyError bool
	for _, d := range details {
		s := d.(string)
		if s == "contract_number is required" {
			hasContractError = true
		}
		if s == "party 1: party name is required" {
			hasPartyError = true
		}
	}
	assert.True(t, hasContractError, "expected contract_number error in %v", details)
	assert.True(t, hasPartyError, "expected per-party error in %v", details)

	// Nothing was persisted.
	assert.Equal(t, 0, env.contracts.Count())
}

func TestReviewApproveDuplicateContractNumber(t *testing.T) {
	env := newReviewTestEnv()
	env.contracts.Save(&model.Contract{ID: "c1", ContractNumber: "QS-2024-001"})

	w := postJSON(t, env.router, "/api/review/approve", validApprovePayload())

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, env.contracts.Count())
}

func TestReviewApproveLinksExtractionJob(t *testing.T) {
	env := newReviewTestEnv()

	confidence := 0.91
	env.jobs.Create(&service.ExtractionJob{
		ID:         "job-1",
		Filename:   "treaty.pdf",
		ObjectName: "documents/job-1.pdf",
		Status:     service.JobStatusCompleted,
		Parsed:     &service.ParsedExtraction{ConfidenceScore: &confidence},
	})

	payload := validApprovePayload()
	payload["job_id"] = "job-1"

	w := postJSON(t, env.router, "/api/review/approve", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	contract := env.contracts.GetByNumber("QS-2024-001")
	require.NotNil(t, contract)
	assert.Equal(t, "job-1", contract.ExtractionJobID)
	assert.Equal(t, "treaty.pdf", contract.SourceDocumentName)
	assert.Equal(t, "documents/job-1.pdf", contract.SourceDocumentPath)
	require.NotNil(t, contract.ExtractionConfidence)
	assert.InDelta(t, 0.91, *contract.ExtractionConfidence, 0.0001)
}

func TestReviewReject(t *testing.T) {
	env := newReviewTestEnv()
	env.jobs.Create(&service.ExtractionJob{ID: "job-1", Status: service.JobStatusCompleted})

	w := postJSON(t, env.router, "/api/review/reject", map[string]any{
		"job_id": "job-1",
		"reason": "wrong document",
	})

	require.Equal(t, http.StatusOK, w.Code)

	job := env.jobs.Get("job-1")
	assert.Equal(t, "Extraction rejected by reviewer: wrong document", job.Message)
}

func TestReviewRejectUnknownJob(t *testing.T) {
	env := newReviewTestEnv()

	w := postJSON(t, env.router, "/api/review/reject", map[string]any{"job_id": "ghost"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}
