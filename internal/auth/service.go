package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"stayscout/internal/database"
	"stayscout/internal/models"
)

var (
	// ErrInvalidCredentials is returned on a failed login. It deliberately
	// does not reveal whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned when registering with an existing username.
	ErrUsernameTaken = errors.New("username is already taken")
)

// Service implements registration and login. Credential hashing is kept
// here, opaque to the rest of the system.
type Service struct {
	db      *database.Database
	manager *Manager
	logger  *logrus.Logger
}

func NewService(db *database.Database, manager *Manager, logger *logrus.Logger) *Service {
	return &Service{
		db:      db,
		manager: manager,
		logger:  logger,
	}
}

// Register creates a new user and returns it together with a session token.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" {
		return nil, "", errors.New("username, email and password are required")
	}

	if _, err := s.db.GetUserByUsername(ctx, username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, "", fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.manager.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")

	return user, token, nil
}

// Login verifies the credentials and returns the user with a session token.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.db.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.manager.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in")

	return user, token, nil
}
