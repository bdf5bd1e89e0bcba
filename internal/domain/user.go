package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyInviteCode     = errors.New("invite code cannot be empty")
	ErrSelfReferralLink    = errors.New("user cannot be referred by themselves")
	ErrNegativeInviteCount = errors.New("invited count must not be negative")
	ErrInviteCodeAssigned  = errors.New("invite code is immutable once issued")
)

// User is the learner identity as seen by this core. The identifier is
// issued by the external identity provider; this core never manages
// credentials. Beyond identity, the row carries the referral fields:
// InviteCode is set once and never changes, ReferredByUserID is set at
// invite acceptance, and InvitedCount only grows through the referral
// acceptance operation.
type User struct {
	ID               uuid.UUID  `json:"id"`
	InviteCode       *string    `json:"invite_code,omitempty"`
	ReferredByUserID *uuid.UUID `json:"referred_by_user_id,omitempty"`
	InvitedCount     int        `json:"invited_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewUser registers the externally issued identifier as a local user row
// with no referral linkage yet.
func NewUser(id uuid.UUID) (*User, error) {
	user := &User{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.InviteCode != nil && *u.InviteCode == "" {
		return ErrEmptyInviteCode
	}
	if u.ReferredByUserID != nil && *u.ReferredByUserID == u.ID {
		return ErrSelfReferralLink
	}
	if u.InvitedCount < 0 {
		return ErrNegativeInviteCount
	}
	return nil
}

// AssignInviteCode sets the user's invite code. The code is immutable:
// assigning a second code to the same user is an error.
func (u *User) AssignInviteCode(code string) error {
	if code == "" {
		return ErrEmptyInviteCode
	}
	if u.InviteCode != nil {
		return ErrInviteCodeAssigned
	}

	u.InviteCode = &code
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// LinkReferrer records which user's invite this user accepted.
// Self-referral is rejected here as well as at the service boundary.
func (u *User) LinkReferrer(referrerID uuid.UUID) error {
	if referrerID == u.ID {
		return ErrSelfReferralLink
	}

	u.ReferredByUserID = &referrerID
	u.UpdatedAt = time.Now().UTC()
	return nil
}
