package store

import (
	"context"
	"database/sql"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/google/uuid"
)

// UserStore defines persistence for the learner identity rows and their
// referral fields. The identity itself is issued externally; this store
// only registers the identifier and maintains the referral graph.
type UserStore interface {
	// Create registers an externally issued user identifier.
	// Returns ErrDuplicate if the identifier is already registered.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByInviteCode retrieves the user owning the given invite code.
	// Returns ErrUserNotFound if no user owns the code.
	GetByInviteCode(ctx context.Context, code string) (*domain.User, error)

	// SetInviteCode assigns an invite code to a user that has none yet.
	// The code is immutable: the write only applies when the column is
	// still NULL, and ErrDuplicate is returned otherwise.
	// Returns ErrInviteCodeTaken if the code collides with another user's.
	SetInviteCode(ctx context.Context, userID uuid.UUID, code string) error

	// IncrementInvitedCount atomically increments the user's invite
	// counter in place. Returns ErrUserNotFound if the user does not exist.
	IncrementInvitedCount(ctx context.Context, userID uuid.UUID) error

	// SetReferrer records the inviter on a user that has no referrer yet.
	// Returns ErrDuplicate if the user was already referred,
	// ErrUserNotFound if the user does not exist,
	// ErrIntegrityViolation if the referrer does not exist or equals the
	// user (rejected by a check constraint).
	SetReferrer(ctx context.Context, userID, referrerID uuid.UUID) error

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
