package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-marketplace/internal/domains/users/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/users/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// DefaultSessionTTL is how long a login token stays valid when no TTL is configured.
const DefaultSessionTTL = 24 * time.Hour

// Service is the identity provider: registration, sessions, and token resolution.
type Service struct {
	repo       ports.Repository
	sessions   ports.SessionStore
	sessionTTL time.Duration
	newID      func() string
	newToken   func() string
	now        func() time.Time
}

// Option customizes the user service.
type Option func(*Service)

// WithSessionTTL sets how long issued tokens remain valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTokenGenerator overrides how session tokens are minted.
func WithTokenGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newToken = gen
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		sessions:   sessions,
		sessionTTL: DefaultSessionTTL,
		newID:      uuid.NewString,
		newToken:   func() string { return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "") },
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	role := identity.Role(strings.ToLower(strings.TrimSpace(input.Role)))
	user, err := domain.NewUser(s.newID(), input.Email, input.Name, role, input.Password)
	if err != nil {
		return nil, mapError(err)
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*domain.Session, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, nil, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, nil, mapError(ports.ErrInvalidCredentials)
		}
		return nil, nil, mapError(err)
	}
	if !user.CheckPassword(password) {
		return nil, nil, mapError(ports.ErrInvalidCredentials)
	}
	session := domain.Session{
		Token:     s.newToken(),
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, nil, mapError(err)
	}
	return &session, user, nil
}

// Logout revokes the token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil && !errors.Is(err, ports.ErrSessionNotFound) {
		return mapError(err)
	}
	return nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (identity.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return identity.Identity{}, mapError(ports.ErrSessionNotFound)
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return identity.Identity{}, mapError(err)
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, token)
		return identity.Identity{}, mapError(errSessionExpired)
	}
	return identity.Identity{Email: session.Email, Role: session.Role}, nil
}

var _ ports.Service = (*Service)(nil)
