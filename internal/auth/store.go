// Package auth stores account credentials in Postgres with bcrypt-hashed
// passwords.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrExists is returned when the username or email is already taken.
	ErrExists = errors.New("auth: username or email already exists")

	// ErrInvalidCredentials is returned for unknown users and wrong
	// passwords alike; callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

const uniqueViolation = "23505"

// Store persists user credentials.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pgx pool against the given URL and verifies the
// connection.
func Connect(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("auth: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("auth: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewStore wraps an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the credentials table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS logwarden_credentials (
			id            BIGSERIAL PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("auth: ensure schema: %w", err)
	}
	return nil
}

// Create registers a new user and returns its id.
func (s *Store) Create(ctx context.Context, username, email, password string) (int64, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO logwarden_credentials (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id`, username, email, hash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, ErrExists
		}
		return 0, fmt.Errorf("auth: create user: %w", err)
	}
	return id, nil
}

// Authenticate checks a username/password pair.
func (s *Store) Authenticate(ctx context.Context, username, password string) error {
	var hash string
	err := s.pool.QueryRow(ctx, `
		SELECT password_hash FROM logwarden_credentials
		WHERE username = $1 OR email = $1`, username).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("auth: lookup user: %w", err)
	}
	if !verifyPassword(password, hash) {
		return ErrInvalidCredentials
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
