package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/tunedeck/tunedeck/internal/user/domain"
)

// PostgresUserRepository implements UserRepository with raw database/sql,
// for deployments that skip the ORM (DB_BACKEND=sql).
type PostgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository creates a new raw SQL user repository
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Migrate creates the users table if it does not exist.
func (r *PostgresUserRepository) Migrate() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Create inserts a new user row and backfills the generated id.
func (r *PostgresUserRepository) Create(user *domain.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := r.db.QueryRow(
		`INSERT INTO users (name, email, password, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		user.Name, user.Email, user.Password, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by ID
func (r *PostgresUserRepository) FindByID(id uint) (*domain.User, error) {
	return r.findOne(`SELECT id, name, email, password, created_at, updated_at FROM users WHERE id = $1`, id)
}

// FindByEmail retrieves a user by email
func (r *PostgresUserRepository) FindByEmail(email string) (*domain.User, error) {
	return r.findOne(`SELECT id, name, email, password, created_at, updated_at FROM users WHERE email = $1`, email)
}

func (r *PostgresUserRepository) findOne(query string, arg interface{}) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Count returns the total number of users
func (r *PostgresUserRepository) Count() (int64, error) {
	var count int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
