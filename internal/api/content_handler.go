package api

import (
	"net/http"
	"time"

	"github.com/cuelab/skilltrack-api/internal/api/shared"
	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateSkillRequest represents the request body for creating a skill
type CreateSkillRequest struct {
	Position int    `json:"position" validate:"gte=0"`
	Title    string `json:"title" validate:"required,min=1"`
}

// CreateSubSkillRequest represents the request body for creating a sub-skill
type CreateSubSkillRequest struct {
	Position int    `json:"position" validate:"gte=0"`
	Title    string `json:"title" validate:"required,min=1"`
}

// CreateUnitRequest represents the request body for creating a training unit
type CreateUnitRequest struct {
	Position int    `json:"position" validate:"gte=0"`
	Content  string `json:"content" validate:"required,min=1"`
}

// UpdateUnitContentRequest represents the request body for replacing a
// unit's content
type UpdateUnitContentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// SkillResponse represents the response data for a skill
type SkillResponse struct {
	ID        string    `json:"id"`
	Position  int       `json:"position"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubSkillResponse represents the response data for a sub-skill
type SubSkillResponse struct {
	ID        string    `json:"id"`
	SkillID   string    `json:"skill_id"`
	Position  int       `json:"position"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnitResponse represents the response data for a training unit
type UnitResponse struct {
	ID         string    `json:"id"`
	SubSkillID string    `json:"sub_skill_id"`
	Position   int       `json:"position"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ContentHandler handles content hierarchy HTTP requests
type ContentHandler struct {
	contentService service.ContentService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// CreateSkill handles POST /api/skills requests
func (h *ContentHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var req CreateSkillRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	skill, err := h.contentService.CreateSkill(r.Context(), req.Position, req.Title)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, skillToResponse(skill))
}

// ListSkills handles GET /api/skills requests
func (h *ContentHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.contentService.ListSkills(r.Context())
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	responses := make([]SkillResponse, 0, len(skills))
	for _, skill := range skills {
		responses = append(responses, skillToResponse(skill))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetSkill handles GET /api/skills/{skillID} requests
func (h *ContentHandler) GetSkill(w http.ResponseWriter, r *http.Request) {
	skillID, ok := parseUUIDParam(w, r, "skillID")
	if !ok {
		return
	}

	skill, err := h.contentService.GetSkill(r.Context(), skillID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, skillToResponse(skill))
}

// CreateSubSkill handles POST /api/skills/{skillID}/sub-skills requests
func (h *ContentHandler) CreateSubSkill(w http.ResponseWriter, r *http.Request) {
	skillID, ok := parseUUIDParam(w, r, "skillID")
	if !ok {
		return
	}

	var req CreateSubSkillRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	subSkill, err := h.contentService.CreateSubSkill(r.Context(), skillID, req.Position, req.Title)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, subSkillToResponse(subSkill))
}

// ListSubSkills handles GET /api/skills/{skillID}/sub-skills requests
func (h *ContentHandler) ListSubSkills(w http.ResponseWriter, r *http.Request) {
	skillID, ok := parseUUIDParam(w, r, "skillID")
	if !ok {
		return
	}

	subSkills, err := h.contentService.ListSubSkills(r.Context(), skillID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	responses := make([]SubSkillResponse, 0, len(subSkills))
	for _, subSkill := range subSkills {
		responses = append(responses, subSkillToResponse(subSkill))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// CreateUnit handles POST /api/sub-skills/{subSkillID}/units requests
func (h *ContentHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	subSkillID, ok := parseUUIDParam(w, r, "subSkillID")
	if !ok {
		return
	}

	var req CreateUnitRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	unit, err := h.contentService.CreateUnit(r.Context(), subSkillID, req.Position, req.Content)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, unitToResponse(unit))
}

// ListUnits handles GET /api/sub-skills/{subSkillID}/units requests
func (h *ContentHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	subSkillID, ok := parseUUIDParam(w, r, "subSkillID")
	if !ok {
		return
	}

	units, err := h.contentService.ListUnits(r.Context(), subSkillID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	responses := make([]UnitResponse, 0, len(units))
	for _, unit := range units {
		responses = append(responses, unitToResponse(unit))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetUnit handles GET /api/units/{unitID} requests
func (h *ContentHandler) GetUnit(w http.ResponseWriter, r *http.Request) {
	unitID, ok := parseUUIDParam(w, r, "unitID")
	if !ok {
		return
	}

	unit, err := h.contentService.GetUnit(r.Context(), unitID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, unitToResponse(unit))
}

// UpdateUnitContent handles PUT /api/units/{unitID}/content requests
func (h *ContentHandler) UpdateUnitContent(w http.ResponseWriter, r *http.Request) {
	unitID, ok := parseUUIDParam(w, r, "unitID")
	if !ok {
		return
	}

	var req UpdateUnitContentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.contentService.UpdateUnitContent(r.Context(), unitID, req.Content); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseUUIDParam parses a chi URL parameter as a UUID, responding with
// 400 and returning false when it is malformed.
func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func skillToResponse(skill *domain.Skill) SkillResponse {
	return SkillResponse{
		ID:        skill.ID.String(),
		Position:  skill.Position,
		Title:     skill.Title,
		CreatedAt: skill.CreatedAt,
		UpdatedAt: skill.UpdatedAt,
	}
}

func subSkillToResponse(subSkill *domain.SubSkill) SubSkillResponse {
	return SubSkillResponse{
		ID:        subSkill.ID.String(),
		SkillID:   subSkill.SkillID.String(),
		Position:  subSkill.Position,
		Title:     subSkill.Title,
		CreatedAt: subSkill.CreatedAt,
		UpdatedAt: subSkill.UpdatedAt,
	}
}

func unitToResponse(unit *domain.TrainingUnit) UnitResponse {
	return UnitResponse{
		ID:         unit.ID.String(),
		SubSkillID: unit.SubSkillID.String(),
		Position:   unit.Position,
		Content:    unit.Content,
		CreatedAt:  unit.CreatedAt,
		UpdatedAt:  unit.UpdatedAt,
	}
}
