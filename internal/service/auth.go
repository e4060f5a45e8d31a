package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/rentals/pkg/models"
	"github.com/garnizeh/rentals/pkg/repository"
)

// AuthOptions tunes AuthService.
type AuthOptions struct {
	// BcryptCost is the hashing cost for new passwords. Zero means
	// bcrypt.DefaultCost.
	BcryptCost int
	// PurgeOnLogout removes every property when a user logs out.
	PurgeOnLogout bool
}

// AuthService registers users and tracks which one is logged in. At most
// one user carries the login flag at a time.
type AuthService struct {
	users  repository.UserRepo
	props  repository.PropertyRepo
	opts   AuthOptions
	logger *slog.Logger
}

func NewAuthService(users repository.UserRepo, props repository.PropertyRepo, opts AuthOptions, logger *slog.Logger) *AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &AuthService{users: users, props: props, opts: opts, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := models.ValidateCredentials(username, password); err != nil {
		return nil, err
	}
	existing, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %q", ErrUserExists, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Username: username, Password: string(hash)}
	id, err := s.users.Insert(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("register %q: %w", username, err)
	}
	u.ID = id
	s.logger.Info("user registered", slog.Int64("id", id), slog.String("username", username))
	return u, nil
}

// Login checks the password and flags the user as logged in, clearing the
// flag on anyone else.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if err := models.ValidateCredentials(username, password); err != nil {
		return nil, err
	}
	u, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: %q", ErrUserNotFound, username)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidPassword
	}

	flagged, err := s.users.GetByField(ctx, repository.FieldIsLoggedIn, true)
	if err != nil {
		return nil, fmt.Errorf("login %q: %w", username, err)
	}
	for _, other := range flagged {
		if other.ID == u.ID {
			continue
		}
		if err := s.users.UpdateField(ctx, other.ID, repository.FieldIsLoggedIn, false); err != nil {
			return nil, fmt.Errorf("login %q: %w", username, err)
		}
	}
	if err := s.users.UpdateField(ctx, u.ID, repository.FieldIsLoggedIn, true); err != nil {
		return nil, fmt.Errorf("login %q: %w", username, err)
	}

	u.IsLoggedIn = true
	s.logger.Info("user logged in", slog.Int64("id", u.ID), slog.String("username", username))
	return u, nil
}

// Logout clears the login flag of username and, when configured, purges
// the property listings.
func (s *AuthService) Logout(ctx context.Context, username string) error {
	u, err := s.lookup(ctx, username)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("%w: %q", ErrUserNotFound, username)
	}
	if err := s.users.UpdateField(ctx, u.ID, repository.FieldIsLoggedIn, false); err != nil {
		return fmt.Errorf("logout %q: %w", username, err)
	}
	if s.opts.PurgeOnLogout {
		if err := s.props.DeleteAll(ctx); err != nil {
			return fmt.Errorf("logout %q: purge properties: %w", username, err)
		}
	}
	s.logger.Info("user logged out", slog.Int64("id", u.ID), slog.String("username", username))
	return nil
}

// Current returns the logged in user.
func (s *AuthService) Current(ctx context.Context) (*models.User, error) {
	flagged, err := s.users.GetByField(ctx, repository.FieldIsLoggedIn, true)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	if len(flagged) == 0 {
		return nil, ErrNotLoggedIn
	}
	return &flagged[0], nil
}

// User returns the user called username.
func (s *AuthService) User(ctx context.Context, username string) (*models.User, error) {
	u, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: %q", ErrUserNotFound, username)
	}
	return u, nil
}

func (s *AuthService) lookup(ctx context.Context, username string) (*models.User, error) {
	found, err := s.users.GetByField(ctx, repository.FieldUsername, username)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", username, err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}
