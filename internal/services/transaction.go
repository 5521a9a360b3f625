package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/washboardhq/washboard/internal/store"
	"github.com/washboardhq/washboard/pkg/models"
)

// NewTransaction is the input for recording a laundry order. The total
// price is derived from the service's current price at creation time.
type NewTransaction struct {
	CustomerID int
	ServiceID  int
	Quantity   float64
	Status     models.TransactionStatus
	Notes      string
}

// TransactionRepository provides CRUD access to laundry orders. Reads
// return the customer and service nested one level deep, as the API
// serves them.
type TransactionRepository interface {
	// Get returns a single transaction by id.
	Get(ctx context.Context, id int) (*models.Transaction, error)

	// List returns all transactions ordered by creation time, newest first.
	List(ctx context.Context) ([]models.Transaction, error)

	// Create records a new order and returns it with nested records.
	Create(ctx context.Context, in NewTransaction) (*models.Transaction, error)

	// Update modifies an order's customer, service, quantity, status, and
	// notes, recomputing the total price.
	Update(ctx context.Context, id int, in NewTransaction) (*models.Transaction, error)

	// UpdateStatus transitions an order's lifecycle status.
	UpdateStatus(ctx context.Context, id int, status models.TransactionStatus) (*models.Transaction, error)

	// SetRating records the customer satisfaction rating for an order.
	SetRating(ctx context.Context, id, stars int) error

	// Delete removes an order by id.
	Delete(ctx context.Context, id int) error
}

// Compile-time interface guard.
var _ TransactionRepository = (*SQLiteTransactionRepository)(nil)

// SQLiteTransactionRepository implements TransactionRepository using SQLite.
// The customers and services tables must already exist (created by their
// repositories' migrations).
type SQLiteTransactionRepository struct {
	db *sql.DB
}

// NewSQLiteTransactionRepository creates a TransactionRepository and runs
// the transactions migrations.
func NewSQLiteTransactionRepository(ctx context.Context, st *store.SQLiteStore) (*SQLiteTransactionRepository, error) {
	if err := st.Migrate(ctx, "transactions", transactionMigrations); err != nil {
		return nil, fmt.Errorf("transactions migrations: %w", err)
	}
	return &SQLiteTransactionRepository{db: st.DB()}, nil
}

// transactionSelect joins the nested customer and service records.
const transactionSelect = `
	SELECT t.id, t.quantity, t.total_price, t.status, t.notes, t.created_at, t.updated_at,
	       c.id, c.first_name, c.last_name, c.phone, c.email, c.address, c.created_at,
	       s.id, s.name, s.price, s.unit, s.active
	FROM transactions t
	JOIN customers c ON c.id = t.customer_id
	JOIN services s ON s.id = t.service_id`

func (r *SQLiteTransactionRepository) Get(ctx context.Context, id int) (*models.Transaction, error) {
	row := r.db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = ?`, id)
	tx, err := scanTransaction(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

func (r *SQLiteTransactionRepository) List(ctx context.Context) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, transactionSelect+` ORDER BY t.created_at DESC, t.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txs = append(txs, *tx)
	}
	return txs, rows.Err()
}

func (r *SQLiteTransactionRepository) Create(ctx context.Context, in NewTransaction) (*models.Transaction, error) {
	if in.Status == "" {
		in.Status = models.StatusPending
	}
	if !models.ValidTransactionStatus(in.Status) {
		return nil, fmt.Errorf("create transaction: invalid status %q", in.Status)
	}

	price, err := r.servicePrice(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (customer_id, service_id, quantity, total_price, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.CustomerID, in.ServiceID, in.Quantity, price*in.Quantity,
		in.Status, in.Notes, now, now,
	)
	if err != nil {
		if terr := translateConstraint(err); terr != err {
			return nil, terr
		}
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create transaction id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *SQLiteTransactionRepository) Update(ctx context.Context, id int, in NewTransaction) (*models.Transaction, error) {
	if !models.ValidTransactionStatus(in.Status) {
		return nil, fmt.Errorf("update transaction: invalid status %q", in.Status)
	}
	price, err := r.servicePrice(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET customer_id = ?, service_id = ?, quantity = ?, total_price = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		in.CustomerID, in.ServiceID, in.Quantity, price*in.Quantity,
		in.Status, in.Notes, time.Now().UTC(), id,
	)
	if err != nil {
		if terr := translateConstraint(err); terr != err {
			return nil, terr
		}
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *SQLiteTransactionRepository) UpdateStatus(ctx context.Context, id int, status models.TransactionStatus) (*models.Transaction, error) {
	if !models.ValidTransactionStatus(status) {
		return nil, fmt.Errorf("update status: invalid status %q", status)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *SQLiteTransactionRepository) SetRating(ctx context.Context, id, stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("set rating: stars %d out of range", stars)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET rating = ?, updated_at = ? WHERE id = ?`,
		stars, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set rating: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteTransactionRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// servicePrice looks up the current unit price for a service.
func (r *SQLiteTransactionRepository) servicePrice(ctx context.Context, serviceID int) (float64, error) {
	var price float64
	err := r.db.QueryRowContext(ctx,
		`SELECT price FROM services WHERE id = ?`, serviceID,
	).Scan(&price)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrInvalidReference
		}
		return 0, fmt.Errorf("service price %d: %w", serviceID, err)
	}
	return price, nil
}

// scanTransaction scans one joined transaction row.
func scanTransaction(scan func(dest ...any) error) (*models.Transaction, error) {
	var tx models.Transaction
	var notes, custEmail, custAddress sql.NullString

	err := scan(
		&tx.ID, &tx.Quantity, &tx.TotalPrice, &tx.Status, &notes, &tx.CreatedAt, &tx.UpdatedAt,
		&tx.Customer.ID, &tx.Customer.FirstName, &tx.Customer.LastName, &tx.Customer.Phone,
		&custEmail, &custAddress, &tx.Customer.CreatedAt,
		&tx.Service.ID, &tx.Service.Name, &tx.Service.Price, &tx.Service.Unit, &tx.Service.Active,
	)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		tx.Notes = notes.String
	}
	if custEmail.Valid {
		tx.Customer.Email = custEmail.String
	}
	if custAddress.Valid {
		tx.Customer.Address = custAddress.String
	}
	return &tx, nil
}

// transactionMigrations defines the database schema for orders.
var transactionMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create transactions table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE transactions (
					id          INTEGER PRIMARY KEY AUTOINCREMENT,
					customer_id INTEGER NOT NULL REFERENCES customers(id),
					service_id  INTEGER NOT NULL REFERENCES services(id),
					quantity    REAL NOT NULL,
					total_price REAL NOT NULL,
					status      TEXT NOT NULL DEFAULT 'pending',
					notes       TEXT,
					rating      INTEGER,
					created_at  DATETIME NOT NULL,
					updated_at  DATETIME NOT NULL
				)`)
			if err != nil {
				return err
			}
			_, err = tx.Exec(`CREATE INDEX idx_transactions_status ON transactions(status)`)
			return err
		},
	},
}
