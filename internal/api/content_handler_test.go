package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newContentRouter(contentService *MockContentService) *chi.Mux {
	handler := NewContentHandler(contentService)
	r := chi.NewRouter()
	r.Post("/api/skills", handler.CreateSkill)
	r.Get("/api/skills", handler.ListSkills)
	r.Get("/api/skills/{skillID}", handler.GetSkill)
	r.Post("/api/skills/{skillID}/sub-skills", handler.CreateSubSkill)
	r.Get("/api/skills/{skillID}/sub-skills", handler.ListSubSkills)
	r.Post("/api/sub-skills/{subSkillID}/units", handler.CreateUnit)
	r.Get("/api/units/{unitID}", handler.GetUnit)
	r.Put("/api/units/{unitID}/content", handler.UpdateUnitContent)
	return r
}

func TestContentHandler_CreateSkill(t *testing.T) {
	contentService := new(MockContentService)
	router := newContentRouter(contentService)

	skill, err := domain.NewSkill(0, "Cue Control")
	require.NoError(t, err)
	contentService.On("CreateSkill", mock.Anything, 0, "Cue Control").Return(skill, nil)

	req := authenticatedRequest(t, http.MethodPost, "/api/skills", uuid.New(),
		CreateSkillRequest{Position: 0, Title: "Cue Control"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp SkillResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Cue Control", resp.Title)
	assert.Equal(t, skill.ID.String(), resp.ID)
}

func TestContentHandler_CreateSkill_MissingTitle(t *testing.T) {
	contentService := new(MockContentService)
	router := newContentRouter(contentService)

	req := authenticatedRequest(t, http.MethodPost, "/api/skills", uuid.New(),
		CreateSkillRequest{Position: 0})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	contentService.AssertNotCalled(t, "CreateSkill")
}

func TestContentHandler_GetSkill_NotFound(t *testing.T) {
	contentService := new(MockContentService)
	router := newContentRouter(contentService)

	skillID := uuid.New()
	contentService.On("GetSkill", mock.Anything, skillID).
		Return(nil, store.ErrSkillNotFound)

	req := authenticatedRequest(t, http.MethodGet,
		fmt.Sprintf("/api/skills/%s", skillID), uuid.New(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContentHandler_CreateSubSkill_MissingParent(t *testing.T) {
	contentService := new(MockContentService)
	router := newContentRouter(contentService)

	skillID := uuid.New()
	contentService.On("CreateSubSkill", mock.Anything, skillID, 0, "Draw Shots").
		Return(nil, store.ErrIntegrityViolation)

	req := authenticatedRequest(t, http.MethodPost,
		fmt.Sprintf("/api/skills/%s/sub-skills", skillID), uuid.New(),
		CreateSubSkillRequest{Position: 0, Title: "Draw Shots"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestContentHandler_UpdateUnitContent(t *testing.T) {
	contentService := new(MockContentService)
	router := newContentRouter(contentService)

	unitID := uuid.New()
	contentService.On("UpdateUnitContent", mock.Anything, unitID, "revised drill").Return(nil)

	req := authenticatedRequest(t, http.MethodPut,
		fmt.Sprintf("/api/units/%s/content", unitID), uuid.New(),
		UpdateUnitContentRequest{Content: "revised drill"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	contentService.AssertExpectations(t)
}

func TestContentHandler_ListSkills(t *testing.T) {
	contentService := new(MockContentService)
	router := newContentRouter(contentService)

	first, err := domain.NewSkill(0, "Cue Control")
	require.NoError(t, err)
	second, err := domain.NewSkill(1, "Position Play")
	require.NoError(t, err)
	contentService.On("ListSkills", mock.Anything).
		Return([]*domain.Skill{first, second}, nil)

	req := authenticatedRequest(t, http.MethodGet, "/api/skills", uuid.New(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []SkillResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Cue Control", resp[0].Title)
}
