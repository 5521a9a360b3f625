package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/washboardhq/washboard/internal/store"
	"github.com/washboardhq/washboard/pkg/models"
)

// ServiceRepository provides CRUD access to the laundry service catalog.
type ServiceRepository interface {
	// Get returns a single service by id.
	Get(ctx context.Context, id int) (*models.Service, error)

	// List returns the full catalog ordered by name.
	List(ctx context.Context) ([]models.Service, error)

	// Create inserts a new service and fills in its assigned id.
	Create(ctx context.Context, service *models.Service) error

	// Update modifies an existing service's mutable fields.
	Update(ctx context.Context, service *models.Service) error

	// Delete removes a service by id.
	Delete(ctx context.Context, id int) error
}

// Compile-time interface guard.
var _ ServiceRepository = (*SQLiteServiceRepository)(nil)

// SQLiteServiceRepository implements ServiceRepository using SQLite.
type SQLiteServiceRepository struct {
	db *sql.DB
}

// NewSQLiteServiceRepository creates a ServiceRepository and runs the
// services migrations.
func NewSQLiteServiceRepository(ctx context.Context, st *store.SQLiteStore) (*SQLiteServiceRepository, error) {
	if err := st.Migrate(ctx, "services", serviceMigrations); err != nil {
		return nil, fmt.Errorf("services migrations: %w", err)
	}
	return &SQLiteServiceRepository{db: st.DB()}, nil
}

const serviceColumns = `id, name, price, unit, active`

func (r *SQLiteServiceRepository) Get(ctx context.Context, id int) (*models.Service, error) {
	var s models.Service
	err := r.db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.Price, &s.Unit, &s.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service %d: %w", id, err)
	}
	return &s, nil
}

func (r *SQLiteServiceRepository) List(ctx context.Context) ([]models.Service, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+serviceColumns+` FROM services ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.Unit, &s.Active); err != nil {
			return nil, fmt.Errorf("scan service row: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *SQLiteServiceRepository) Create(ctx context.Context, service *models.Service) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO services (name, price, unit, active) VALUES (?, ?, ?, ?)`,
		service.Name, service.Price, service.Unit, service.Active,
	)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create service id: %w", err)
	}
	service.ID = int(id)
	return nil
}

func (r *SQLiteServiceRepository) Update(ctx context.Context, service *models.Service) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE services SET name = ?, price = ?, unit = ?, active = ? WHERE id = ?`,
		service.Name, service.Price, service.Unit, service.Active, service.ID,
	)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteServiceRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		if terr := translateConstraint(err); terr != err {
			return terr
		}
		return fmt.Errorf("delete service: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// serviceMigrations defines the database schema for the service catalog.
var serviceMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create services table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE services (
					id     INTEGER PRIMARY KEY AUTOINCREMENT,
					name   TEXT NOT NULL,
					price  REAL NOT NULL,
					unit   TEXT NOT NULL DEFAULT 'kg',
					active INTEGER NOT NULL DEFAULT 1
				)`)
			return err
		},
	},
}
