// Package guest issues anonymous identities that own a cart before login.
package guest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid guest token")

const (
	audience = "guest"
	idPrefix = "guest-"
)

// Service signs guest tokens. Tokens are self-contained; nothing is stored.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Service{secret: secret, ttl: ttl, now: time.Now}
}

// Issue returns a new guest id and the token that proves it.
func (s *Service) Issue() (token, guestID string, err error) {
	guestID = idPrefix + uuid.NewString()
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   guestID,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign guest token: %w", err)
	}
	return token, guestID, nil
}

// Lookup returns the guest id carried by a valid token.
func (s *Service) Lookup(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !strings.HasPrefix(claims.Subject, idPrefix) {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
