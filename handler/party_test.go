package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vineetsarpal/re-ink/model"
	"github.com/vineetsarpal/re-ink/service"
)

func newPartyTestEnv() (*gin.Engine, *service.PartyStore) {
	gin.SetMode(gin.TestMode)

	parties := service.NewPartyStore()
	h := NewPartyHandler(parties)

	router := gin.New()
	router.GET("/api/parties", h.List)
	router.POST("/api/parties", h.Create)
	router.GET("/api/parties/:id", h.Get)
	router.PUT("/api/parties/:id", h.Update)
	router.DELETE("/api/parties/:id", h.Delete)

	return router, parties
}

func TestPartyCreate(t *testing.T) {
	router, parties := newPartyTestEnv()

	w := postJSON(t, router, "/api/parties", map[string]any{
		"name":                "Pacific Insurance Co",
		"party_type":          "cedant",
		"email":               "contact@pacific.example",
		"country":             "US",
		"registration_number": "REG-42",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)

	assert.NotEmpty(t, body["id"])
	assert.Equal(t, true, body["is_active"])

	saved := parties.FindByName("Pacific Insurance Co")
	require.NotNil(t, saved)
	assert.Equal(t, "REG-42", saved.RegistrationNumber)
}

func TestPartyCreateInvalidType(t *testing.T) {
	router, _ := newPartyTestEnv()

	w := postJSON(t, router, "/api/parties", map[string]any{
		"name":       "Pacific Insurance Co",
		"party_type": "underwriter",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPartyCreateMissingName(t *testing.T) {
	router, _ := newPartyTestEnv()

	w := postJSON(t, router, "/api/parties", map[string]any{"party_type": "cedant"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPartyCreateDuplicateName(t *testing.T) {
	router, parties := newPartyTestEnv()
	parties.Save(&model.Party{ID: "p1", Name: "Global Re", PartyType: model.PartyTypeReinsurer})

	w := postJSON(t, router, "/api/parties", map[string]any{
		"name":       "global re",
		"party_type": "reinsurer",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPartyGetAndList(t *testing.T) {
	router, parties := newPartyTestEnv()
	parties.Save(&model.Party{ID: "p1", Name: "Global Re", PartyType: model.PartyTypeReinsurer})

	req := httptest.NewRequest(http.MethodGet, "/api/parties/p1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/parties", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["count"])
}

func TestPartyUpdate(t *testing.T) {
	router, parties := newPartyTestEnv()
	parties.Save(&model.Party{ID: "p1", Name: "Global Re", PartyType: model.PartyTypeReinsurer})

	req := httptest.NewRequest(http.MethodPut, "/api/parties/p1", jsonBody(t, map[string]any{
		"name":       "Global Re Group",
		"party_type": "reinsurer",
		"city":       "Zurich",
	}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := parties.Get("p1")
	assert.Equal(t, "Global Re Group", updated.Name)
	assert.Equal(t, "Zurich", updated.City)
}

func TestPartyUpdateNameConflict(t *testing.T) {
	router, parties := newPartyTestEnv()
	parties.Save(&model.Party{ID: "p1", Name: "Global Re", PartyType: model.PartyTypeReinsurer})
	parties.Save(&model.Party{ID: "p2", Name: "Atlas Mutual", PartyType: model.PartyTypeCedant})

	req := httptest.NewRequest(http.MethodPut, "/api/parties/p2", jsonBody(t, map[string]any{
		"name":       "Global Re",
		"party_type": "cedant",
	}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPartyDelete(t *testing.T) {
	router, parties := newPartyTestEnv()
	parties.Save(&model.Party{ID: "p1", Name: "Global Re"})

	req := httptest.NewRequest(http.MethodDelete, "/api/parties/p1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, parties.Get("p1"))
}
