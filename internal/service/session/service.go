package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"paintshop/internal/domain"
	tokenrepo "paintshop/internal/repository/token"
	userrepo "paintshop/internal/repository/user"
	"paintshop/internal/validation"
)

const (
	AdminID           = "admin-1"
	DefaultAdminEmail = "admin@example.com"
)

// Config tunes token signing and the admin identity.
type Config struct {
	Secret     []byte
	TTL        time.Duration
	AdminEmail string
}

// Service handles login, registration and token checks.
type Service struct {
	users      userrepo.Repository
	tokens     *tokenManager
	ttl        time.Duration
	adminEmail string
	logger     *zap.Logger
}

func New(users userrepo.Repository, tokens tokenrepo.Repository, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	admin := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if admin == "" {
		admin = DefaultAdminEmail
	}
	return &Service{
		users:      users,
		tokens:     newTokenManager(tokens, cfg.Secret, logger),
		ttl:        cfg.TTL,
		adminEmail: admin,
		logger:     logger,
	}
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"notblank"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

// Session is an issued token plus the identity it carries.
type Session struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Login accepts the configured admin email as the fixed admin identity. Any other email
// either matches a registered account (password checked) or gets a regular identity
// derived from the address, remembered for later logins.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.Password = strings.TrimSpace(in.Password)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var (
		u   *domain.User
		err error
	)
	if in.Email == s.adminEmail {
		u, err = s.adminUser(ctx)
	} else {
		u, err = s.regularUser(ctx, in.Email, in.Password)
	}
	if err != nil {
		return nil, err
	}
	sess, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	s.logger.Info("login", zap.String("user_id", u.ID), zap.Bool("admin", u.IsAdmin))
	return sess, nil
}

// Register always creates a regular user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Password = strings.TrimSpace(in.Password)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Email == s.adminEmail {
		return nil, domain.ErrAlreadyExists
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, domain.User{
		ID:           newUserID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", u.ID))
	return s.issue(ctx, u)
}

// Logout revokes the token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return domain.ErrUnauthorized
		}
		return err
	}
	return nil
}

// Authenticate returns the user bound to a valid, unrevoked token.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	c, err := s.tokens.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	u, err := s.users.GetByID(ctx, c.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// PurgeExpiredTokens drops revocation records of tokens that can no longer validate.
func (s *Service) PurgeExpiredTokens(ctx context.Context) (int, error) {
	n, err := s.tokens.Purge(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired tokens purged", zap.Int("count", n))
	}
	return n, nil
}

// TokenTTLSeconds exposes the token lifetime in seconds.
func (s *Service) TokenTTLSeconds() int {
	return int(s.ttl.Seconds())
}

func (s *Service) issue(ctx context.Context, u *domain.User) (*Session, error) {
	token, exp, err := s.tokens.Issue(ctx, u, s.ttl)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token, ExpiresAt: exp}, nil
}

func (s *Service) adminUser(ctx context.Context) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, AdminID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.createOrGet(ctx, domain.User{ID: AdminID, Name: "Admin", Email: s.adminEmail, IsAdmin: true})
}

func (s *Service) regularUser(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.PasswordHash == "" {
			return u, nil
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			return nil, domain.ErrInvalidCredentials
		}
		return u, nil
	case errors.Is(err, domain.ErrNotFound):
		return s.createOrGet(ctx, domain.User{ID: newUserID(), Name: localPart(email), Email: email})
	default:
		return nil, err
	}
}

// createOrGet tolerates a concurrent login creating the same identity first.
func (s *Service) createOrGet(ctx context.Context, u domain.User) (*domain.User, error) {
	created, err := s.users.Create(ctx, u)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return s.users.GetByEmail(ctx, u.Email)
	}
	return created, err
}

func newUserID() string {
	return "user-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
