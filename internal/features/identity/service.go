package identity

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"

	"go-portal/internal/common/apperr"
	"go-portal/pkg/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type IdentityService interface {
	Register(ctx context.Context, name, email, password, agencyName string) (*User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, userID string) (*User, *Agency, error)
	UserExists(ctx context.Context, userID string) (bool, error)
}

// PasswordHasher lets tests swap bcrypt out.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type IdentityServiceImpl struct {
	Repo   IdentityRepository
	Hasher PasswordHasher
	Logger *zap.Logger
}

func NewIdentityService(repo IdentityRepository, hasher PasswordHasher, logger *zap.Logger) IdentityService {
	return &IdentityServiceImpl{
		Repo:   repo,
		Hasher: hasher,
		Logger: logger,
	}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

func (s *IdentityServiceImpl) Register(ctx context.Context, name, email, password, agencyName string) (*User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", apperr.Validation("name, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", apperr.Validation("invalid email address")
	}
	if len(password) < 8 {
		return nil, "", apperr.Validation("password must be at least 8 characters")
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, "", apperr.Internal("failed to hash password", err)
	}

	u, err := s.Repo.CreateUser(ctx, name, email, hash)
	if isUniqueViolation(err) {
		return nil, "", apperr.Conflict("an account with this email already exists")
	}
	if err != nil {
		return nil, "", apperr.Internal("failed to create user", err)
	}

	if agencyName == "" {
		agencyName = name + "'s Agency"
	}
	if _, err := s.Repo.CreateAgency(ctx, u.ID, agencyName); err != nil {
		// User without agency is usable; the agency can be created later
		s.Logger.Warn("failed to create agency at registration",
			zap.String("userId", u.ID), zap.Error(err))
	}

	token, err := utils.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, "", apperr.Internal("failed to issue token", err)
	}

	s.Logger.Info("user registered", zap.String("userId", u.ID))
	return u, token, nil
}

func (s *IdentityServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Repo.FindUserByEmail(ctx, email)
	if err == sql.ErrNoRows {
		return "", apperr.Unauthenticated("invalid credentials")
	}
	if err != nil {
		return "", apperr.Internal("failed to look up user", err)
	}

	if err := s.Hasher.Compare(u.PasswordHash, password); err != nil {
		return "", apperr.Unauthenticated("invalid credentials")
	}

	token, err := utils.GenerateToken(u.ID, u.Email)
	if err != nil {
		return "", apperr.Internal("failed to issue token", err)
	}
	return token, nil
}

func (s *IdentityServiceImpl) CurrentUser(ctx context.Context, userID string) (*User, *Agency, error) {
	u, err := s.Repo.FindUserByID(ctx, userID)
	if err == sql.ErrNoRows {
		return nil, nil, apperr.InvalidUser("no user for session")
	}
	if err != nil {
		return nil, nil, apperr.Internal("failed to look up user", err)
	}

	agency, err := s.Repo.FindAgencyByUser(ctx, userID)
	if err == sql.ErrNoRows {
		agency = nil
	} else if err != nil {
		return nil, nil, apperr.Internal("failed to look up agency", err)
	}
	return u, agency, nil
}

func (s *IdentityServiceImpl) UserExists(ctx context.Context, userID string) (bool, error) {
	return s.Repo.UserExists(ctx, userID)
}
