package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cuelab/skilltrack-api/internal/api/shared"
	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateTrainingRequest represents the request body for creating a
// training track
type CreateTrainingRequest struct {
	Title string `json:"title" validate:"required,min=1"`
}

// ComposePlanRequest represents the request body for composing a plan.
// Unit order in the slice becomes the plan order.
type ComposePlanRequest struct {
	UnitIDs []string `json:"unit_ids" validate:"required,min=1,dive,uuid"`
}

// AssignCurriculumDayRequest represents the request body for assigning a
// unit to a curriculum day
type AssignCurriculumDayRequest struct {
	UnitID string `json:"unit_id" validate:"required,uuid"`
}

// TrainingResponse represents the response data for a training track
type TrainingResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlanResponse represents the response data for a training plan
type PlanResponse struct {
	ID         string    `json:"id"`
	TrainingID string    `json:"training_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PlanUnitResponse represents one unit mapping within a plan
type PlanUnitResponse struct {
	UnitID   string `json:"unit_id"`
	Position int    `json:"position"`
}

// CurriculumDayUnitResponse represents one unit assignment on a
// curriculum day
type CurriculumDayUnitResponse struct {
	DayNumber int    `json:"day_number"`
	UnitID    string `json:"unit_id"`
}

// CompositionHandler handles training composition HTTP requests
type CompositionHandler struct {
	compositionService service.CompositionService
}

// NewCompositionHandler creates a new CompositionHandler
func NewCompositionHandler(compositionService service.CompositionService) *CompositionHandler {
	return &CompositionHandler{compositionService: compositionService}
}

// CreateTraining handles POST /api/trainings requests
func (h *CompositionHandler) CreateTraining(w http.ResponseWriter, r *http.Request) {
	var req CreateTrainingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	training, err := h.compositionService.CreateTraining(r.Context(), req.Title)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, trainingToResponse(training))
}

// GetTraining handles GET /api/trainings/{trainingID} requests
func (h *CompositionHandler) GetTraining(w http.ResponseWriter, r *http.Request) {
	trainingID, ok := parseUUIDParam(w, r, "trainingID")
	if !ok {
		return
	}

	training, err := h.compositionService.GetTraining(r.Context(), trainingID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, trainingToResponse(training))
}

// ComposePlan handles POST /api/trainings/{trainingID}/plans requests
func (h *CompositionHandler) ComposePlan(w http.ResponseWriter, r *http.Request) {
	trainingID, ok := parseUUIDParam(w, r, "trainingID")
	if !ok {
		return
	}

	unitIDs, ok := decodePlanUnits(w, r)
	if !ok {
		return
	}

	plan, err := h.compositionService.ComposePlan(r.Context(), trainingID, unitIDs)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, planToResponse(plan))
}

// RecomposePlan handles PUT /api/plans/{planID}/units requests
func (h *CompositionHandler) RecomposePlan(w http.ResponseWriter, r *http.Request) {
	planID, ok := parseUUIDParam(w, r, "planID")
	if !ok {
		return
	}

	unitIDs, ok := decodePlanUnits(w, r)
	if !ok {
		return
	}

	if err := h.compositionService.RecomposePlan(r.Context(), planID, unitIDs); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPlans handles GET /api/trainings/{trainingID}/plans requests
func (h *CompositionHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	trainingID, ok := parseUUIDParam(w, r, "trainingID")
	if !ok {
		return
	}

	plans, err := h.compositionService.ListPlans(r.Context(), trainingID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	responses := make([]PlanResponse, 0, len(plans))
	for _, plan := range plans {
		responses = append(responses, planToResponse(plan))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetPlanUnits handles GET /api/plans/{planID}/units requests
func (h *CompositionHandler) GetPlanUnits(w http.ResponseWriter, r *http.Request) {
	planID, ok := parseUUIDParam(w, r, "planID")
	if !ok {
		return
	}

	mappings, err := h.compositionService.GetPlanUnits(r.Context(), planID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	responses := make([]PlanUnitResponse, 0, len(mappings))
	for _, mapping := range mappings {
		responses = append(responses, PlanUnitResponse{
			UnitID:   mapping.UnitID.String(),
			Position: mapping.Position,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// AssignCurriculumDay handles PUT /api/curriculum/days/{dayNumber} requests
func (h *CompositionHandler) AssignCurriculumDay(w http.ResponseWriter, r *http.Request) {
	dayNumber, ok := parseDayNumber(w, r)
	if !ok {
		return
	}

	var req AssignCurriculumDayRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid unit_id")
		return
	}

	if err := h.compositionService.AssignCurriculumDay(r.Context(), dayNumber, unitID); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetCurriculumDay handles GET /api/curriculum/days/{dayNumber} requests
func (h *CompositionHandler) GetCurriculumDay(w http.ResponseWriter, r *http.Request) {
	dayNumber, ok := parseDayNumber(w, r)
	if !ok {
		return
	}

	dayUnits, err := h.compositionService.GetCurriculumDay(r.Context(), dayNumber)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	responses := make([]CurriculumDayUnitResponse, 0, len(dayUnits))
	for _, dayUnit := range dayUnits {
		responses = append(responses, CurriculumDayUnitResponse{
			DayNumber: dayUnit.DayNumber,
			UnitID:    dayUnit.UnitID.String(),
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// decodePlanUnits decodes and validates a plan composition body,
// returning the unit IDs in request order.
func decodePlanUnits(w http.ResponseWriter, r *http.Request) ([]uuid.UUID, bool) {
	var req ComposePlanRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return nil, false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return nil, false
	}

	unitIDs := make([]uuid.UUID, 0, len(req.UnitIDs))
	for _, raw := range req.UnitIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid unit ID: "+raw)
			return nil, false
		}
		unitIDs = append(unitIDs, id)
	}
	return unitIDs, true
}

// parseDayNumber parses the dayNumber URL parameter.
func parseDayNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	dayNumber, err := strconv.Atoi(chi.URLParam(r, "dayNumber"))
	if err != nil || dayNumber <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid day number")
		return 0, false
	}
	return dayNumber, true
}

func trainingToResponse(training *domain.SpecializedTraining) TrainingResponse {
	return TrainingResponse{
		ID:        training.ID.String(),
		Title:     training.Title,
		CreatedAt: training.CreatedAt,
		UpdatedAt: training.UpdatedAt,
	}
}

func planToResponse(plan *domain.TrainingPlan) PlanResponse {
	return PlanResponse{
		ID:         plan.ID.String(),
		TrainingID: plan.TrainingID.String(),
		CreatedAt:  plan.CreatedAt,
		UpdatedAt:  plan.UpdatedAt,
	}
}
