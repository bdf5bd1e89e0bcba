package api

import (
	"context"
	"net/http"
	"time"

	"github.com/cuelab/skilltrack-api/internal/api/middleware"
	"github.com/cuelab/skilltrack-api/internal/api/shared"
	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/service"
	"github.com/google/uuid"
)

// RecordCompletionRequest represents the request body for recording a
// unit completion
type RecordCompletionRequest struct {
	UnitID    string `json:"unit_id" validate:"required,uuid"`
	DayNumber int    `json:"day_number" validate:"required,gt=0"`
}

// CreateSessionRequest represents the request body for creating a
// training session
type CreateSessionRequest struct {
	PlanID string `json:"plan_id" validate:"required,uuid"`
}

// CompletionResponse represents the response data for a completion event
type CompletionResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UnitID      string    `json:"unit_id"`
	DayNumber   int       `json:"day_number"`
	CompletedAt time.Time `json:"completed_at"`
}

// SkillProgressResponse represents the response data for skill progress
type SkillProgressResponse struct {
	UserID         string    `json:"user_id"`
	SkillID        string    `json:"skill_id"`
	CompletedCount int       `json:"completed_count"`
	Percentage     float64   `json:"percentage"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SpecializedProgressResponse represents the response data for training
// track progress
type SpecializedProgressResponse struct {
	UserID     string    `json:"user_id"`
	TrainingID string    `json:"training_id"`
	Percentage float64   `json:"percentage"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SessionResponse represents the response data for a training session
type SessionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PlanID    string    `json:"plan_id"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressHandler handles completion, progress and session HTTP requests
type ProgressHandler struct {
	progressService service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// RecordCompletion handles POST /api/completions requests
func (h *ProgressHandler) RecordCompletion(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req RecordCompletionRequest
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

	completion, err := h.progressService.RecordCompletion(r.Context(), userID, unitID, req.DayNumber)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, completionToResponse(completion))
}

// ListCompletions handles GET /api/completions requests
func (h *ProgressHandler) ListCompletions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	completions, err := h.progressService.ListCompletions(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	responses := make([]CompletionResponse, 0, len(completions))
	for _, completion := range completions {
		responses = append(responses, completionToResponse(completion))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetSkillProgress handles GET /api/progress/skills/{skillID} requests
func (h *ProgressHandler) GetSkillProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	skillID, ok := parseUUIDParam(w, r, "skillID")
	if !ok {
		return
	}

	progress, err := h.progressService.GetSkillProgress(r.Context(), userID, skillID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SkillProgressResponse{
		UserID:         progress.UserID.String(),
		SkillID:        progress.SkillID.String(),
		CompletedCount: progress.CompletedCount,
		Percentage:     progress.Percentage,
		UpdatedAt:      progress.UpdatedAt,
	})
}

// GetSpecializedProgress handles GET /api/progress/trainings/{trainingID}
// requests
func (h *ProgressHandler) GetSpecializedProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	trainingID, ok := parseUUIDParam(w, r, "trainingID")
	if !ok {
		return
	}

	progress, err := h.progressService.GetSpecializedProgress(r.Context(), userID, trainingID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SpecializedProgressResponse{
		UserID:     progress.UserID.String(),
		TrainingID: progress.TrainingID.String(),
		Percentage: progress.Percentage,
		UpdatedAt:  progress.UpdatedAt,
	})
}

// CreateSession handles POST /api/sessions requests
func (h *ProgressHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid plan_id")
		return
	}

	session, err := h.progressService.CreateSession(r.Context(), userID, planID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(session))
}

// GetSession handles GET /api/sessions/{sessionID} requests
func (h *ProgressHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	sessionID, ok := parseUUIDParam(w, r, "sessionID")
	if !ok {
		return
	}

	session, err := h.progressService.GetSession(r.Context(), sessionID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// StartSession handles POST /api/sessions/{sessionID}/start requests
func (h *ProgressHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	h.transitionSession(w, r, h.progressService.StartSession)
}

// CompleteSession handles POST /api/sessions/{sessionID}/complete requests
func (h *ProgressHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	h.transitionSession(w, r, h.progressService.CompleteSession)
}

// AbandonSession handles POST /api/sessions/{sessionID}/abandon requests
func (h *ProgressHandler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	h.transitionSession(w, r, h.progressService.AbandonSession)
}

// transitionSession is the shared body of the three transition endpoints.
func (h *ProgressHandler) transitionSession(
	w http.ResponseWriter,
	r *http.Request,
	transition func(context.Context, uuid.UUID) (*domain.TrainingSession, error),
) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	sessionID, ok := parseUUIDParam(w, r, "sessionID")
	if !ok {
		return
	}

	session, err := transition(r.Context(), sessionID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// requireUserID extracts the authenticated user ID, responding with 401
// when the auth middleware did not provide one.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

func completionToResponse(completion *domain.UnitCompletion) CompletionResponse {
	return CompletionResponse{
		ID:          completion.ID.String(),
		UserID:      completion.UserID.String(),
		UnitID:      completion.UnitID.String(),
		DayNumber:   completion.DayNumber,
		CompletedAt: completion.CompletedAt,
	}
}

func sessionToResponse(session *domain.TrainingSession) SessionResponse {
	return SessionResponse{
		ID:        session.ID.String(),
		UserID:    session.UserID.String(),
		PlanID:    session.PlanID.String(),
		State:     string(session.State),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}
