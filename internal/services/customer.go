package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/washboardhq/washboard/internal/store"
	"github.com/washboardhq/washboard/pkg/models"
)

// CustomerRepository provides CRUD access to customers.
type CustomerRepository interface {
	// Get returns a single customer by id.
	Get(ctx context.Context, id int) (*models.Customer, error)

	// List returns all customers ordered by creation time.
	List(ctx context.Context) ([]models.Customer, error)

	// Create inserts a new customer and fills in its assigned id.
	Create(ctx context.Context, customer *models.Customer) error

	// Update modifies an existing customer's mutable fields.
	Update(ctx context.Context, customer *models.Customer) error

	// Delete removes a customer by id.
	Delete(ctx context.Context, id int) error
}

// Compile-time interface guard.
var _ CustomerRepository = (*SQLiteCustomerRepository)(nil)

// SQLiteCustomerRepository implements CustomerRepository using SQLite.
type SQLiteCustomerRepository struct {
	db *sql.DB
}

// NewSQLiteCustomerRepository creates a CustomerRepository and runs the
// customers migrations.
func NewSQLiteCustomerRepository(ctx context.Context, st *store.SQLiteStore) (*SQLiteCustomerRepository, error) {
	if err := st.Migrate(ctx, "customers", customerMigrations); err != nil {
		return nil, fmt.Errorf("customers migrations: %w", err)
	}
	return &SQLiteCustomerRepository{db: st.DB()}, nil
}

// customerColumns is the shared SELECT column list for customer queries.
const customerColumns = `id, first_name, last_name, phone, email, address, created_at`

func (r *SQLiteCustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	c, err := scanCustomer(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteCustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *SQLiteCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (first_name, last_name, phone, email, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		customer.FirstName, customer.LastName, customer.Phone,
		customer.Email, customer.Address, customer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create customer id: %w", err)
	}
	customer.ID = int(id)
	return nil
}

func (r *SQLiteCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET first_name = ?, last_name = ?, phone = ?, email = ?, address = ?
		WHERE id = ?`,
		customer.FirstName, customer.LastName, customer.Phone,
		customer.Email, customer.Address, customer.ID,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteCustomerRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		if terr := translateConstraint(err); terr != err {
			return terr
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanCustomer scans one customer row via the given Scan function.
func scanCustomer(scan func(dest ...any) error) (*models.Customer, error) {
	var c models.Customer
	var email, address sql.NullString

	err := scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &email, &address, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		c.Email = email.String
	}
	if address.Valid {
		c.Address = address.String
	}
	return &c, nil
}

// customerMigrations defines the database schema for customers.
var customerMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create customers table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE customers (
					id         INTEGER PRIMARY KEY AUTOINCREMENT,
					first_name TEXT NOT NULL,
					last_name  TEXT NOT NULL,
					phone      TEXT NOT NULL,
					email      TEXT,
					address    TEXT,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`)
			return err
		},
	},
}
