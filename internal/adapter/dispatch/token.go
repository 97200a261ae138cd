package dispatch

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quickeats/courier-client/pkg/logger"
)

// TokenSource supplies the bearer token for dispatch calls. Session
// issuance and refresh live outside this core.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource hands out a fixed token. It decodes the JWT claims
// (without verifying the signature — the server does that) purely to
// warn ahead of time when the token is about to expire.
type StaticTokenSource struct {
	token string
	log   logger.Logger

	expiresAt *time.Time
}

func NewStaticTokenSource(token string, log logger.Logger) *StaticTokenSource {
	s := &StaticTokenSource{
		token: token,
		log:   log,
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			s.expiresAt = &exp.Time
		}
	}

	return s
}

func (s *StaticTokenSource) Token(ctx context.Context) (string, error) {
	if s.expiresAt != nil && time.Now().After(*s.expiresAt) {
		s.log.Warn(ctx, "auth token is expired, dispatch calls will be rejected",
			"expired_at", s.expiresAt.Format(time.RFC3339),
		)
	}
	return s.token, nil
}
