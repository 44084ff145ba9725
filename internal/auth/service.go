package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidViewer is returned when a viewer name is empty or too long.
	ErrInvalidViewer = errors.New("invalid viewer name")
	// ErrInvalidToken is returned when a token fails validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNoSecret is returned when tokens are requested without a secret.
	ErrNoSecret = errors.New("jwt secret is not configured")
)

// Viewer is an authenticated overlay client.
type Viewer struct {
	ID       string
	Name     string
	TeamOnly bool
}

// Service issues and checks overlay viewer tokens.
type Service struct {
	jwtConfig *JWTConfig
	now       func() time.Time
}

// NewService creates a viewer token service.
func NewService(jwtConfig *JWTConfig) *Service {
	return &Service{jwtConfig: jwtConfig, now: time.Now}
}

// Enabled reports whether a signing secret is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.jwtConfig != nil && len(s.jwtConfig.Secret) > 0
}

// IssueToken mints a token for a named viewer. A ttl of zero uses the
// configured default.
func (s *Service) IssueToken(name string, teamOnly bool, ttl time.Duration) (string, error) {
	if !s.Enabled() {
		return "", ErrNoSecret
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 64 {
		return "", ErrInvalidViewer
	}

	cfg := *s.jwtConfig
	if ttl > 0 {
		cfg.TTL = ttl
	}
	token, err := GenerateToken(&cfg, name, uuid.NewString(), teamOnly, s.now())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Authenticate validates a token and returns the viewer it names.
func (s *Service) Authenticate(token string) (*Viewer, error) {
	if !s.Enabled() {
		return nil, ErrNoSecret
	}
	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Viewer == "" {
		return nil, fmt.Errorf("%w: missing viewer", ErrInvalidToken)
	}
	return &Viewer{
		ID:       claims.Subject,
		Name:     claims.Viewer,
		TeamOnly: claims.TeamOnly,
	}, nil
}
