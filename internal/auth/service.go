package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned when the supplied username or password
// does not match the configured operator credential.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service authenticates the appliance's single operator account against a
// credential supplied at startup (see internal/gateway config) and issues
// JWT access tokens on success.
type Service struct {
	username     string
	passwordHash string
	tokens       *TokenService
	logger       *zap.Logger
}

// NewService creates an auth Service bound to one operator credential.
func NewService(username, passwordHash string, tokens *TokenService, logger *zap.Logger) *Service {
	return &Service{
		username:     username,
		passwordHash: passwordHash,
		tokens:       tokens,
		logger:       logger,
	}
}

// Tokens returns the token service for middleware use.
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

// Login checks the supplied credentials against the configured operator
// account and, on success, returns a signed access token.
func (s *Service) Login(_ context.Context, username, password string) (string, error) {
	if username != s.username || !CheckPassword(s.passwordHash, password) {
		s.logger.Warn("login failed", zap.String("username", username))
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.IssueAccessToken(username)
	if err != nil {
		return "", err
	}
	s.logger.Info("operator logged in", zap.String("username", username))
	return token, nil
}
