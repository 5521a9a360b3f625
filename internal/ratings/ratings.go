// Package ratings tracks which transactions have already received a
// customer satisfaction rating, so the dashboard prompts at most once per
// order. The ledger is local client state; the rating itself is submitted
// to the API.
package ratings

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/washboardhq/washboard/internal/store"
)

// Store persists the rated-transaction ledger in the client's local
// SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithNow overrides the ledger's time source.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates the ledger and runs its migrations.
func NewStore(ctx context.Context, st *store.SQLiteStore, opts ...Option) (*Store, error) {
	if err := st.Migrate(ctx, "ratings", migrations); err != nil {
		return nil, fmt.Errorf("ratings migrations: %w", err)
	}
	s := &Store{db: st.DB(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IsRated reports whether the transaction already has a recorded rating.
func (s *Store) IsRated(ctx context.Context, transactionID int) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rated_transactions WHERE transaction_id = ?`,
		transactionID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check rating %d: %w", transactionID, err)
	}
	return count > 0, nil
}

// MarkRated records that the transaction was rated. Recording the same
// transaction twice keeps the first entry.
func (s *Store) MarkRated(ctx context.Context, transactionID, stars int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rated_transactions (transaction_id, stars, rated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (transaction_id) DO NOTHING`,
		transactionID, stars, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("mark rated %d: %w", transactionID, err)
	}
	return nil
}

// RatedAt returns when the transaction's rating was recorded.
func (s *Store) RatedAt(ctx context.Context, transactionID int) (time.Time, error) {
	var at time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT rated_at FROM rated_transactions WHERE transaction_id = ?`,
		transactionID,
	).Scan(&at)
	if err != nil {
		return time.Time{}, fmt.Errorf("rated at %d: %w", transactionID, err)
	}
	return at, nil
}

// RatedIDs returns all transaction ids with a recorded rating.
func (s *Store) RatedIDs(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id FROM rated_transactions ORDER BY transaction_id`)
	if err != nil {
		return nil, fmt.Errorf("list rated transactions: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan rated transaction: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// migrations defines the schema for the local ratings ledger.
var migrations = []store.Migration{
	{
		Version:     1,
		Description: "create rated_transactions table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE rated_transactions (
					transaction_id INTEGER PRIMARY KEY,
					stars          INTEGER NOT NULL,
					rated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`)
			return err
		},
	},
}
