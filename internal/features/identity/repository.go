package identity

import (
	"context"
	"database/sql"

	"go-portal/internal/database"
)

type IdentityRepository interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
	UserExists(ctx context.Context, id string) (bool, error)
	CreateAgency(ctx context.Context, userID, name string) (*Agency, error)
	FindAgencyByUser(ctx context.Context, userID string) (*Agency, error)
	EnsureSchema(ctx context.Context) error
}

type IdentityRepositoryImpl struct {
	DB *sql.DB
}

func NewIdentityRepository(pg *database.PostgresDB) IdentityRepository {
	return &IdentityRepositoryImpl{DB: pg.DB}
}

func (r *IdentityRepositoryImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
		CREATE EXTENSION IF NOT EXISTS pgcrypto;

		CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS agencies (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id    UUID NOT NULL UNIQUE REFERENCES users(id),
			name       TEXT NOT NULL,
			logo_url   TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

func (r *IdentityRepositoryImpl) CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error) {
	u := &User{Name: name, Email: email, PasswordHash: passwordHash}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, name, email, passwordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *IdentityRepositoryImpl) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *IdentityRepositoryImpl) FindUserByID(ctx context.Context, id string) (*User, error) {
	u := &User{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *IdentityRepositoryImpl) UserExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *IdentityRepositoryImpl) CreateAgency(ctx context.Context, userID, name string) (*Agency, error) {
	a := &Agency{UserID: userID, Name: name}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO agencies (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, userID, name).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *IdentityRepositoryImpl) FindAgencyByUser(ctx context.Context, userID string) (*Agency, error) {
	a := &Agency{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, name, logo_url, created_at
		FROM agencies WHERE user_id = $1
	`, userID).Scan(&a.ID, &a.UserID, &a.Name, &a.LogoURL, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}
