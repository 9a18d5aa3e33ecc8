package auth

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles user database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new user repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "auth").Logger(),
	}
}

const userColumns = `id, email, username, password_hash, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	var u User
	var createdAt int64
	var updatedAt sql.NullInt64

	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	if updatedAt.Valid {
		t := time.Unix(updatedAt.Int64, 0).UTC()
		u.UpdatedAt = &t
	}
	return &u, nil
}

// Create inserts a new user and returns it with its assigned ID.
func (r *Repository) Create(u *User) error {
	u.CreatedAt = time.Now().UTC()

	result, err := r.db.Exec(`INSERT INTO users
		(email, username, password_hash, is_active, created_at)
		VALUES (?, ?, ?, 1, ?)`,
		u.Email, u.Username, u.PasswordHash, u.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	u.IsActive = true
	return nil
}

// GetByEmail returns a user by email, nil when not found.
func (r *Repository) GetByEmail(email string) (*User, error) {
	user, err := scanUser(r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return user, nil
}

// GetByUsername returns a user by username, nil when not found.
func (r *Repository) GetByUsername(username string) (*User, error) {
	user, err := scanUser(r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE username = ?", username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by username: %w", err)
	}
	return user, nil
}

// GetByID returns a user by ID, nil when not found.
func (r *Repository) GetByID(id int64) (*User, error) {
	user, err := scanUser(r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by id: %w", err)
	}
	return user, nil
}
