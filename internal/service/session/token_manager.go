package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"paintshop/internal/domain"
	tokenrepo "paintshop/internal/repository/token"
)

// ErrInvalidToken indicates the provided token could not be validated.
var ErrInvalidToken = errors.New("invalid token")

const issuer = "paintshop"

type claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

// tokenManager signs HS256 session tokens and records their ids so they can be revoked.
type tokenManager struct {
	repo   tokenrepo.Repository
	secret []byte
	logger *zap.Logger
	now    func() time.Time
}

func newTokenManager(repo tokenrepo.Repository, secret []byte, logger *zap.Logger) *tokenManager {
	return &tokenManager{repo: repo, secret: secret, logger: logger, now: time.Now}
}

func (m *tokenManager) Issue(ctx context.Context, u *domain.User, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(ttl)
	for i := 0; i < 5; i++ {
		jti := uuid.NewString()
		err := m.repo.Create(ctx, tokenrepo.Token{
			ID:        jti,
			UserID:    u.ID,
			Kind:      tokenrepo.KindSession,
			ExpiresAt: expiresAt,
		})
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return "", time.Time{}, err
		}
		c := claims{
			Name:  u.Name,
			Email: u.Email,
			Admin: u.IsAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        jti,
				Subject:   u.ID,
				Issuer:    issuer,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("sign token: %w", err)
		}
		return signed, expiresAt, nil
	}
	return "", time.Time{}, errors.New("token collision")
}

// Validate checks signature, expiry and revocation and returns the claims.
func (m *tokenManager) Validate(ctx context.Context, raw string) (*claims, error) {
	c, err := m.parse(raw)
	if err != nil {
		return nil, err
	}
	rec, err := m.repo.Get(ctx, c.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if rec.Kind != tokenrepo.KindSession || rec.UserID != c.Subject {
		return nil, ErrInvalidToken
	}
	if m.now().After(rec.ExpiresAt) {
		if err := m.repo.Delete(ctx, rec.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			m.logger.Debug("delete expired token record", zap.String("jti", rec.ID), zap.Error(err))
		}
		return nil, ErrInvalidToken
	}
	return c, nil
}

// Revoke deletes the token record. Revoking an already revoked token is not an error.
func (m *tokenManager) Revoke(ctx context.Context, raw string) error {
	c, err := m.parse(raw)
	if err != nil {
		return err
	}
	if err := m.repo.Delete(ctx, c.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (m *tokenManager) Purge(ctx context.Context) (int, error) {
	return m.repo.DeleteExpired(ctx, m.now())
}

func (m *tokenManager) parse(raw string) (*claims, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(raw, c,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.ID == "" || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}
