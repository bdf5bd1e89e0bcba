package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/store"
	"github.com/google/uuid"
)

const (
	// inviteCodeBytes of entropy per code; base32 encodes them to a
	// 10-character code that survives being read aloud.
	inviteCodeBytes = 6

	// inviteCodeRetries bounds the collision retry loop. With 48 bits of
	// entropy a second collision in a row means the RNG is broken.
	inviteCodeRetries = 3
)

// inviteCodeEncoding is unpadded base32 so codes are case-insensitive
// and free of URL-hostile characters.
var inviteCodeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// ReferralService manages learner registration and the referral graph:
// issuing invite codes, linking invitees to inviters, and maintaining
// each inviter's counter.
type ReferralService interface {
	// RegisterUser registers an externally issued user identifier.
	RegisterUser(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// IssueInviteCode assigns a fresh invite code to the user, or returns
	// the existing code when one was already issued. Codes are immutable.
	IssueInviteCode(ctx context.Context, userID uuid.UUID) (string, error)

	// AcceptInvite links the user to the owner of the given invite code
	// and increments the owner's invited count, atomically.
	// Returns ErrInvalidInviteCode if no user owns the code,
	// ErrSelfReferral if the user owns it themselves, and
	// ErrAlreadyReferred if the user already has a referrer.
	AcceptInvite(ctx context.Context, userID uuid.UUID, code string) error
}

// referralServiceImpl implements the ReferralService interface
type referralServiceImpl struct {
	userStore  store.UserStore
	transactor store.Transactor
	logger     *slog.Logger
}

var _ ReferralService = (*referralServiceImpl)(nil)

// NewReferralService creates a new ReferralService.
// It returns an error if any of the required dependencies are nil.
func NewReferralService(
	userStore store.UserStore,
	transactor store.Transactor,
	logger *slog.Logger,
) (ReferralService, error) {
	if userStore == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "userStore cannot be nil",
		}
	}
	if transactor == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "transactor cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &referralServiceImpl{
		userStore:  userStore,
		transactor: transactor,
		logger:     logger.With("component", "referral_service"),
	}, nil
}

// RegisterUser registers an externally issued user identifier.
// Registration is idempotent: seeing an already registered ID returns the
// stored user instead of an error, so identity-provider retries are safe.
func (s *referralServiceImpl) RegisterUser(
	ctx context.Context,
	id uuid.UUID,
) (*domain.User, error) {
	user, err := domain.NewUser(id)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			return s.userStore.GetByID(ctx, id)
		}
		s.logger.Error("failed to register user",
			"error", err,
			"user_id", id)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", id)
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *referralServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userStore.GetByID(ctx, id)
}

// IssueInviteCode assigns a fresh invite code to the user. Issuance is
// idempotent: if the user already has a code, that code is returned
// unchanged. A collision with another user's code retries with a fresh
// token.
func (s *referralServiceImpl) IssueInviteCode(
	ctx context.Context,
	userID uuid.UUID,
) (string, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.InviteCode != nil {
		return *user.InviteCode, nil
	}

	for attempt := 0; attempt < inviteCodeRetries; attempt++ {
		code, err := generateInviteCode()
		if err != nil {
			return "", &ServiceError{
				Operation: "issue_invite_code",
				Message:   "failed to generate code",
				Err:       err,
			}
		}

		err = s.userStore.SetInviteCode(ctx, userID, code)
		if err == nil {
			s.logger.Info("invite code issued",
				"user_id", userID,
				"attempt", attempt+1)
			return code, nil
		}

		if errors.Is(err, store.ErrInviteCodeTaken) {
			s.logger.Warn("invite code collision, retrying",
				"user_id", userID,
				"attempt", attempt+1)
			continue
		}

		// A concurrent issuance may have won the race; surface the
		// code it assigned instead of failing.
		if errors.Is(err, store.ErrDuplicate) {
			user, getErr := s.userStore.GetByID(ctx, userID)
			if getErr != nil {
				return "", getErr
			}
			if user.InviteCode != nil {
				return *user.InviteCode, nil
			}
		}

		s.logger.Error("failed to assign invite code",
			"error", err,
			"user_id", userID)
		return "", err
	}

	return "", &ServiceError{
		Operation: "issue_invite_code",
		Message:   fmt.Sprintf("exhausted %d attempts", inviteCodeRetries),
	}
}

// AcceptInvite links the invitee to the code's owner and bumps the
// owner's counter in one transaction. The code lookup happens inside the
// transaction so the link and the counter always agree.
func (s *referralServiceImpl) AcceptInvite(
	ctx context.Context,
	userID uuid.UUID,
	code string,
) error {
	if code == "" {
		return ErrInvalidInviteCode
	}

	err := s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.userStore.WithTx(tx)

		inviter, err := txUsers.GetByInviteCode(ctx, code)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrInvalidInviteCode
			}
			return err
		}
		if inviter.ID == userID {
			return ErrSelfReferral
		}

		if err := txUsers.SetReferrer(ctx, userID, inviter.ID); err != nil {
			if store.IsDuplicateError(err) {
				return ErrAlreadyReferred
			}
			return err
		}
		return txUsers.IncrementInvitedCount(ctx, inviter.ID)
	})
	if err != nil {
		s.logger.Error("failed to accept invite",
			"error", err,
			"user_id", userID)
		return err
	}

	s.logger.Info("invite accepted", "user_id", userID)
	return nil
}

// generateInviteCode returns a fresh random invite code.
func generateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return inviteCodeEncoding.EncodeToString(buf), nil
}
