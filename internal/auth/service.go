package auth

import (
	"errors"
	"strings"
)

// ErrUsernameRequired is returned when login carries no usable username.
var ErrUsernameRequired = errors.New("username is required")

// Service issues and verifies identity tokens. Identity is claim-based only:
// there are no accounts and no passwords, a token simply binds a username to
// a validity window.
type Service struct {
	jwtConfig *JWTConfig
}

// NewService creates an authentication service.
func NewService(jwtConfig *JWTConfig) *Service {
	return &Service{jwtConfig: jwtConfig}
}

// IssueToken validates the username and returns a signed token plus the
// normalized username.
func (s *Service) IssueToken(username string) (string, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", "", ErrUsernameRequired
	}

	token, err := GenerateToken(s.jwtConfig, username)
	if err != nil {
		return "", "", err
	}
	return token, username, nil
}

// ValidateToken verifies a token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}
