package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/washboardhq/washboard/internal/store"
	"github.com/washboardhq/washboard/pkg/models"
)

// UserAccount is a dashboard user together with its stored password hash.
// The hash never leaves the services layer in JSON form.
type UserAccount struct {
	models.User
	PasswordHash string `json:"-"`
}

// UserRepository provides access to dashboard user accounts.
type UserRepository interface {
	// Get returns a single user by id.
	Get(ctx context.Context, id int) (*UserAccount, error)

	// GetByUsername returns a user by username (login path).
	GetByUsername(ctx context.Context, username string) (*UserAccount, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]models.User, error)

	// Create inserts a new user and fills in its assigned id.
	Create(ctx context.Context, account *UserAccount) error

	// Update modifies a user's profile fields (not the password).
	Update(ctx context.Context, user *models.User) error

	// UpdatePassword replaces a user's password hash.
	UpdatePassword(ctx context.Context, id int, passwordHash string) error

	// Delete removes a user by id.
	Delete(ctx context.Context, id int) error
}

// Compile-time interface guard.
var _ UserRepository = (*SQLiteUserRepository)(nil)

// SQLiteUserRepository implements UserRepository using SQLite.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a UserRepository and runs the users
// migrations.
func NewSQLiteUserRepository(ctx context.Context, st *store.SQLiteStore) (*SQLiteUserRepository, error) {
	if err := st.Migrate(ctx, "users", userMigrations); err != nil {
		return nil, fmt.Errorf("users migrations: %w", err)
	}
	return &SQLiteUserRepository{db: st.DB()}, nil
}

// userColumns is the shared SELECT column list for user queries.
const userColumns = `id, username, email, first_name, last_name, phone, role,
	password_hash, created_at`

func (r *SQLiteUserRepository) Get(ctx context.Context, id int) (*UserAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (r *SQLiteUserRepository) GetByUsername(ctx context.Context, username string) (*UserAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by username %q: %w", username, err)
	}
	return u, nil
}

func (r *SQLiteUserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u.User)
	}
	return users, rows.Err()
}

func (r *SQLiteUserRepository) Create(ctx context.Context, account *UserAccount) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	if account.Role == "" {
		account.Role = models.RoleStaff
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, email, first_name, last_name, phone, role, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		account.Username, account.Email, account.FirstName, account.LastName,
		account.Phone, account.Role, account.PasswordHash, account.CreatedAt,
	)
	if err != nil {
		if terr := translateConstraint(err); terr != err {
			return terr
		}
		return fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create user id: %w", err)
	}
	account.ID = int(id)
	return nil
}

func (r *SQLiteUserRepository) Update(ctx context.Context, user *models.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET username = ?, email = ?, first_name = ?, last_name = ?, phone = ?, role = ?
		WHERE id = ?`,
		user.Username, user.Email, user.FirstName, user.LastName, user.Phone, user.Role, user.ID,
	)
	if err != nil {
		if terr := translateConstraint(err); terr != err {
			return terr
		}
		return fmt.Errorf("update user: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteUserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteUserRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanUser scans one user row via the given Scan function, shared between
// *sql.Row and *sql.Rows.
func scanUser(scan func(dest ...any) error) (*UserAccount, error) {
	var u UserAccount
	var phone, passwordHash sql.NullString

	err := scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&phone, &u.Role, &passwordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		u.Phone = phone.String
	}
	if passwordHash.Valid {
		u.PasswordHash = passwordHash.String
	}
	return &u, nil
}

// userMigrations defines the database schema for dashboard users.
var userMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create users table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE users (
					id            INTEGER PRIMARY KEY AUTOINCREMENT,
					username      TEXT NOT NULL UNIQUE,
					email         TEXT NOT NULL UNIQUE,
					first_name    TEXT NOT NULL,
					last_name     TEXT NOT NULL,
					phone         TEXT,
					role          TEXT NOT NULL DEFAULT 'staff',
					password_hash TEXT NOT NULL,
					created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`)
			return err
		},
	},
}
