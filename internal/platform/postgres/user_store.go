package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/platform/logger"
	"github.com/cuelab/skilltrack-api/internal/store"
	"github.com/google/uuid"
)

// UserStore implements the store.UserStore interface using a PostgreSQL
// database as the storage backend.
type UserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserStore creates a new PostgreSQL implementation of the UserStore
// interface.
func NewUserStore(db store.DBTX, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (id, invite_code, referred_by_user_id, invited_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.InviteCode,
		user.ReferredByUserID,
		user.InvitedCount,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, invite_code, referred_by_user_id, invited_count, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("user_id", id.String()))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, MapError(err)
	}

	return user, nil
}

// GetByInviteCode implements store.UserStore.GetByInviteCode
func (s *UserStore) GetByInviteCode(ctx context.Context, code string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, invite_code, referred_by_user_id, invited_count, created_at, updated_at
		FROM users
		WHERE invite_code = $1
	`

	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no user owns invite code")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by invite code",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return user, nil
}

// SetInviteCode implements store.UserStore.SetInviteCode
// The WHERE invite_code IS NULL clause makes immutability a storage-layer
// guarantee: a second assignment never overwrites the issued code.
func (s *UserStore) SetInviteCode(ctx context.Context, userID uuid.UUID, code string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if code == "" {
		return domain.ErrEmptyInviteCode
	}

	query := `
		UPDATE users
		SET invite_code = $1, updated_at = $2
		WHERE id = $3 AND invite_code IS NULL
	`

	result, err := s.db.ExecContext(ctx, query, code, time.Now().UTC(), userID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("invite code collision",
				slog.String("user_id", userID.String()))
		} else {
			log.Error("failed to set invite code",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return MapError(err)
	}

	if err := CheckRowsAffected(result, fmt.Errorf("%w: invite code already issued or user missing", store.ErrDuplicate)); err != nil {
		return err
	}

	log.Info("invite code issued", slog.String("user_id", userID.String()))
	return nil
}

// IncrementInvitedCount implements store.UserStore.IncrementInvitedCount
// The increment happens in SQL so concurrent acceptances serialize on the
// row lock instead of losing updates.
func (s *UserStore) IncrementInvitedCount(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET invited_count = invited_count + 1, updated_at = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), userID)
	if err != nil {
		log.Error("failed to increment invited count",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Debug("invited count incremented", slog.String("user_id", userID.String()))
	return nil
}

// SetReferrer implements store.UserStore.SetReferrer
func (s *UserStore) SetReferrer(ctx context.Context, userID, referrerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET referred_by_user_id = $1, updated_at = $2
		WHERE id = $3 AND referred_by_user_id IS NULL
	`

	result, err := s.db.ExecContext(ctx, query, referrerID, time.Now().UTC(), userID)
	if err != nil {
		log.Error("failed to set referrer",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("referrer_id", referrerID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		// The conditional update matched nothing. Tell a missing user
		// apart from one that already has a referrer.
		var referredBy uuid.NullUUID
		err := s.db.QueryRowContext(ctx,
			`SELECT referred_by_user_id FROM users WHERE id = $1`, userID).Scan(&referredBy)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrUserNotFound
		}
		if err != nil {
			return MapError(err)
		}
		return fmt.Errorf("%w: user already referred", store.ErrDuplicate)
	}

	log.Info("referral linkage recorded",
		slog.String("user_id", userID.String()),
		slog.String("referrer_id", referrerID.String()))
	return nil
}

// scanUser scans one user row from a QueryRowContext result.
func (s *UserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var inviteCode sql.NullString
	var referredBy uuid.NullUUID

	err := row.Scan(
		&user.ID,
		&inviteCode,
		&referredBy,
		&user.InvitedCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if inviteCode.Valid {
		user.InviteCode = &inviteCode.String
	}
	if referredBy.Valid {
		id := referredBy.UUID
		user.ReferredByUserID = &id
	}

	return &user, nil
}
