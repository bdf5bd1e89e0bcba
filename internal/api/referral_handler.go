package api

import (
	"net/http"

	"github.com/cuelab/skilltrack-api/internal/api/shared"
	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/service"
)

// AcceptInviteRequest represents the request body for accepting an invite
type AcceptInviteRequest struct {
	Code string `json:"code" validate:"required,min=1"`
}

// InviteCodeResponse represents the response data for invite code issuance
type InviteCodeResponse struct {
	Code string `json:"code"`
}

// UserResponse represents the response data for a user's referral state
type UserResponse struct {
	ID               string `json:"id"`
	InviteCode       string `json:"invite_code,omitempty"`
	ReferredByUserID string `json:"referred_by_user_id,omitempty"`
	InvitedCount     int    `json:"invited_count"`
}

// ReferralHandler handles user registration and referral HTTP requests
type ReferralHandler struct {
	referralService service.ReferralService
}

// NewReferralHandler creates a new ReferralHandler
func NewReferralHandler(referralService service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// RegisterUser handles POST /api/users requests. The registered ID is
// the authenticated identity's own ID.
func (h *ReferralHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.referralService.RegisterUser(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// GetMe handles GET /api/users/me requests
func (h *ReferralHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.referralService.GetUser(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// IssueInviteCode handles POST /api/users/me/invite-code requests.
// Issuance is idempotent: a second call returns the same code.
func (h *ReferralHandler) IssueInviteCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	code, err := h.referralService.IssueInviteCode(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, InviteCodeResponse{Code: code})
}

// AcceptInvite handles POST /api/invites/accept requests
func (h *ReferralHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req AcceptInviteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.referralService.AcceptInvite(r.Context(), userID, req.Code); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func userToResponse(user *domain.User) UserResponse {
	response := UserResponse{
		ID:           user.ID.String(),
		InvitedCount: user.InvitedCount,
	}
	if user.InviteCode != nil {
		response.InviteCode = *user.InviteCode
	}
	if user.ReferredByUserID != nil {
		response.ReferredByUserID = user.ReferredByUserID.String()
	}
	return response
}
