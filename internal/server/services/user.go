// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and token verification.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/seniko/internal/common"
	"github.com/dmitrijs2005/seniko/internal/dbx"
	"github.com/dmitrijs2005/seniko/internal/logging"
	"github.com/dmitrijs2005/seniko/internal/server/auth"
	"github.com/dmitrijs2005/seniko/internal/server/models"
	"github.com/dmitrijs2005/seniko/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

// TokenIssuer mints and checks access tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// Options carries the collaborators of UserService.
type Options struct {
	Tokens TokenIssuer
	Hasher auth.PasswordHasher
	Logger logging.Logger
}

// UserService provides authentication-related operations:
// - Register: validate, hash and store a new user
// - Login: verify credentials and mint a token
// - Authenticate: resolve a token back to a user ID
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
	hasher      auth.PasswordHasher
	logger      logging.Logger

	// dummyHash is verified against when the email is unknown so both
	// failure paths cost one hash comparison.
	dummyHash string
}

// NewUserService constructs a UserService. It hashes a throwaway password
// once to obtain a dummy hash at the configured cost.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, opts Options) (*UserService, error) {
	if opts.Tokens == nil || opts.Hasher == nil {
		return nil, fmt.Errorf("%w: user service needs a token issuer and a hasher", common.ErrConfiguration)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	dummy, err := opts.Hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      opts.Tokens,
		hasher:      opts.Hasher,
		logger:      logger.With("module", "user_service"),
		dummyHash:   dummy,
	}, nil
}

// Register validates req, stores a new user with a hashed password and
// returns it. The email check and the insert share one transaction.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := validateRegister(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(errors.Join(common.ErrorInternal, err))
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.FindByEmail(ctx, user.Email)
		switch {
		case err == nil:
			return common.ErrEmailTaken
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		created, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, s.storeError("register", err, common.ErrStoreWriteFailed)
	}

	s.logger.Info(ctx, "User registered", "user_id", created.ID)
	return created, nil
}

// Login checks the credentials and returns a signed token. Unknown email and
// wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (string, error) {
	if err := validateLogin(req); err != nil {
		return "", err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(s.dummyHash, req.Password)
			s.logger.Debug(ctx, "Login rejected", "reason", "unknown email")
			return "", common.ErrorUnauthorized
		}
		return "", s.storeError("login", err, common.ErrStoreReadFailed)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, req.Password)
	if err != nil {
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			With("user_id", user.ID).
			Wrap(errors.Join(common.ErrorInternal, err))
	}
	if !ok {
		s.logger.Debug(ctx, "Login rejected", "reason", "password mismatch", "user_id", user.ID)
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			With("user_id", user.ID).
			Wrap(errors.Join(common.ErrorInternal, err))
	}

	s.logger.Info(ctx, "User logged in", "user_id", user.ID)
	return token, nil
}

// Authenticate returns the user ID carried by a valid token.
func (s *UserService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrInvalidToken
	}
	return s.tokens.Verify(token)
}

// storeError keeps an already classified repository error and classifies
// anything else (begin/commit failures) by whether the store was reachable,
// falling back to kind.
func (s *UserService) storeError(op string, err error, kind error) error {
	for _, known := range []error{
		common.ErrEmailTaken,
		common.ErrStoreUnavailable,
		common.ErrStoreWriteFailed,
		common.ErrStoreReadFailed,
	} {
		if errors.Is(err, known) {
			return err
		}
	}

	if dbx.IsUnavailable(err) {
		kind = common.ErrStoreUnavailable
	}
	return oops.Code("AUTH_STORE_FAILED").
		With("operation", op).
		Wrap(errors.Join(kind, err))
}
