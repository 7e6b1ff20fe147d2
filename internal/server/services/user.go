// Package services contains server-side business logic: account
// registration and login, city alerts and weather lookup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/skywatch/internal/common"
	"github.com/dmitrijs2005/skywatch/internal/dbx"
	"github.com/dmitrijs2005/skywatch/internal/logging"
	"github.com/dmitrijs2005/skywatch/internal/server/auth"
	"github.com/dmitrijs2005/skywatch/internal/server/config"
	"github.com/dmitrijs2005/skywatch/internal/server/models"
	"github.com/dmitrijs2005/skywatch/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

// RegisterRequest is the input of UserService.Register.
type RegisterRequest struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// normalized trims the identifying fields and lowercases the email.
// The password is taken as sent.
func (r RegisterRequest) normalized() RegisterRequest {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = normalizeEmail(r.Email)
	return r
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserName, validation.Required),
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginRequest is the input of UserService.Login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) normalized() LoginRequest {
	r.Email = normalizeEmail(r.Email)
	return r
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthResult is a successful registration or login: the account and a
// freshly signed session token.
type AuthResult struct {
	User  *models.User
	Token string
}

// UserService provides authentication-related operations:
// - Register: create users and sign them in
// - Login: verify credentials and mint a session token
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	storeTimeout  time.Duration
	log           logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		storeTimeout:  cfg.StoreTimeout,
		log:           log,
	}
}

// Register creates an account with role "user" and returns it with a
// session token. The lookup-then-insert is not atomic; a concurrent
// duplicate is caught by the unique index and reported the same way.
//
// Errors: common.ErrorInvalidInput, common.ErrorAlreadyExists,
// common.ErrorInternal.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req = req.normalized()
	if err := req.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	email := req.Email
	log := logging.FromContext(ctx, s.log)

	_, err := s.findUser(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		log.Error(ctx, "user lookup failed", "err", err)
		return nil, common.ErrorInternal
	}

	hash, err := auth.HashPassword(ctx, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidInput) {
			return nil, err
		}
		log.Error(ctx, "password hashing failed", "err", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     req.UserName,
		Email:        email,
		PasswordHash: hash,
		Role:         common.RoleUser,
	}

	created, err := s.createUser(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		log.Error(ctx, "user insert failed", "err", err)
		return nil, common.ErrorInternal
	}

	token, err := s.issueToken(created)
	if err != nil {
		log.Error(ctx, "token signing failed", "err", err, "user_id", created.ID)
		return nil, common.ErrorInternal
	}

	log.Info(ctx, "user registered", "user_id", created.ID)
	return &AuthResult{User: created, Token: token}, nil
}

// Login checks the credentials and returns the account with a new
// session token.
//
// Errors: common.ErrorInvalidInput, common.ErrorNotFound (unknown email),
// common.ErrorInvalidCredentials, common.ErrorInternal.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	req = req.normalized()
	if err := req.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	log := logging.FromContext(ctx, s.log)

	user, err := s.findUser(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		log.Error(ctx, "user lookup failed", "err", err)
		return nil, common.ErrorInternal
	}

	ok, err := auth.ComparePassword(ctx, user.PasswordHash, req.Password)
	if err != nil {
		log.Error(ctx, "password check failed", "err", err, "user_id", user.ID)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.Error(ctx, "token signing failed", "err", err, "user_id", user.ID)
		return nil, common.ErrorInternal
	}

	return &AuthResult{User: user, Token: token}, nil
}

// --- helpers below ---

func (s *UserService) findUser(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := dbx.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) createUser(ctx context.Context, user *models.User) (*models.User, error) {
	ctx, cancel := dbx.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	return s.repomanager.Users(s.db).Create(ctx, user)
}

func (s *UserService) issueToken(u *models.User) (string, error) {
	return auth.GenerateToken(auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}, s.jwtSecret, s.tokenValidity)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
