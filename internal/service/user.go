package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/siddkalani/CRM-sub000/internal/auth"
	"github.com/siddkalani/CRM-sub000/internal/cache"
	"github.com/siddkalani/CRM-sub000/internal/metrics"
	"github.com/siddkalani/CRM-sub000/internal/model"
	"github.com/siddkalani/CRM-sub000/internal/repository"
)

// User service errors.
var (
	ErrMissingCredentials = errors.New("username, email and password are required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUsernameTaken      = errors.New("username is already taken")
	// ErrInvalidCredentials covers both unknown email and bad password so the
	// response never reveals whether an email exists.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 8

// UserService handles registration, login, and profile updates.
type UserService struct {
	repo     *repository.Repository
	sessions *cache.Cache
	secret   []byte
	tokenTTL time.Duration
	metrics  metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository, sessions *cache.Cache, secret []byte, tokenTTL time.Duration, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		repo:     repo,
		sessions: sessions,
		secret:   secret,
		tokenTTL: tokenTTL,
		metrics:  recorder,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new account with an Argon2id-hashed password.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if username == "" || email == "" || input.Password == "" {
		return nil, ErrMissingCredentials
	}
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           newID(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// LoginOutput carries the issued token and its owner.
type LoginOutput struct {
	AccessToken string
	TokenID     string
	User        *model.User
}

// Login verifies credentials, mints a session token, and registers it on
// the allow-list so it can be revoked before expiry.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginOutput, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		s.metrics.IncLoginFailure()
		return nil, ErrInvalidCredentials
	}

	token, tokenID, err := auth.GenerateToken(user, s.secret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.sessions.PutSession(ctx, tokenID, user.ID, s.tokenTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.metrics.IncLoginSuccess()

	return &LoginOutput{AccessToken: token, TokenID: tokenID, User: user}, nil
}

// Logout revokes a single session token.
func (s *UserService) Logout(ctx context.Context, tokenID, userID string) error {
	if err := s.sessions.DeleteSession(ctx, tokenID, userID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// UpdateProfileInput defines the patch for a profile update.
// Nil fields are left untouched.
type UpdateProfileInput struct {
	Username *string
	Password *string
}

// UpdateProfile applies the supplied fields only. A password change rehashes
// the password and revokes every other live session for the user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput, currentTokenID string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}

	passwordChanged := false
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
		passwordChanged = true
	}

	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if passwordChanged {
		// Other devices lose access once the password changes.
		if err := s.sessions.DeleteUserSessions(ctx, user.ID, currentTokenID); err != nil {
			return nil, fmt.Errorf("failed to revoke stale sessions: %w", err)
		}
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
