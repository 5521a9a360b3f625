package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/washboardhq/washboard/internal/store"
)

// RefreshToken is a single-use refresh credential. Only the SHA-256 hash of
// the opaque token is stored; the plaintext exists once, in the login or
// refresh response.
type RefreshToken struct {
	ID        string
	UserID    int
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// RefreshTokenRepository manages refresh token rotation.
type RefreshTokenRepository interface {
	// Issue mints a new refresh token for the user and returns its plaintext.
	Issue(ctx context.Context, userID int, ttl time.Duration) (string, error)

	// Consume validates a plaintext token and deletes it, returning the
	// owning user id. Expired or unknown tokens yield ErrNotFound.
	Consume(ctx context.Context, token string) (int, error)

	// RevokeUser deletes all refresh tokens belonging to a user.
	RevokeUser(ctx context.Context, userID int) error
}

// Compile-time interface guard.
var _ RefreshTokenRepository = (*SQLiteRefreshTokenRepository)(nil)

// SQLiteRefreshTokenRepository implements RefreshTokenRepository using SQLite.
type SQLiteRefreshTokenRepository struct {
	db *sql.DB
}

// NewSQLiteRefreshTokenRepository creates a RefreshTokenRepository and runs
// the auth migrations.
func NewSQLiteRefreshTokenRepository(ctx context.Context, st *store.SQLiteStore) (*SQLiteRefreshTokenRepository, error) {
	if err := st.Migrate(ctx, "auth", refreshTokenMigrations); err != nil {
		return nil, fmt.Errorf("auth migrations: %w", err)
	}
	return &SQLiteRefreshTokenRepository{db: st.DB()}, nil
}

func (r *SQLiteRefreshTokenRepository) Issue(ctx context.Context, userID int, ttl time.Duration) (string, error) {
	// The plaintext token is two UUIDs; only its hash touches the database.
	token := uuid.NewString() + uuid.NewString()
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, hashToken(token), now.Add(ttl), now,
	)
	if err != nil {
		if terr := translateConstraint(err); terr != err {
			return "", terr
		}
		return "", fmt.Errorf("issue refresh token: %w", err)
	}
	return token, nil
}

func (r *SQLiteRefreshTokenRepository) Consume(ctx context.Context, token string) (int, error) {
	hash := hashToken(token)

	var userID int
	var expiresAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, expires_at FROM refresh_tokens WHERE token_hash = ?`,
		hash,
	).Scan(&userID, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("consume refresh token: %w", err)
	}

	// Single use: the row is gone whether or not the token was still live.
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE token_hash = ?`, hash); err != nil {
		return 0, fmt.Errorf("delete refresh token: %w", err)
	}

	if time.Now().UTC().After(expiresAt) {
		return 0, ErrNotFound
	}
	return userID, nil
}

func (r *SQLiteRefreshTokenRepository) RevokeUser(ctx context.Context, userID int) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// refreshTokenMigrations defines the refresh token schema.
var refreshTokenMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create refresh_tokens table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE refresh_tokens (
					id         TEXT PRIMARY KEY,
					user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					token_hash TEXT NOT NULL UNIQUE,
					expires_at DATETIME NOT NULL,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`)
			if err != nil {
				return err
			}
			_, err = tx.Exec(`CREATE INDEX idx_refresh_tokens_user ON refresh_tokens(user_id)`)
			return err
		},
	},
}
