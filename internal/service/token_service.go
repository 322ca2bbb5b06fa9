package service

import (
	"errors"
	"fmt"
	"time"

	"exam-byte/internal/config"
	"exam-byte/internal/domain"
	"exam-byte/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const tokenIssuer = "exam-byte"

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionClaims identifies the session a bearer token grants access to.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenService issues and validates session tokens.
type TokenService interface {
	Issue(sessionID string, examDuration time.Duration) (string, time.Time, error)
	Validate(token string) (*SessionClaims, error)
}

type tokenServiceImpl struct {
	secret []byte
	grace  time.Duration
	now    func() time.Time
}

// NewTokenService creates an HS256 token service from the jwt config section.
func NewTokenService(cfg config.JWTConfig) TokenService {
	return &tokenServiceImpl{secret: []byte(cfg.SecretKey), grace: cfg.Grace, now: time.Now}
}

// Issue signs a token that stays valid for the exam duration plus the grace
// period, long enough to read results after a timeout.
func (s *tokenServiceImpl) Issue(sessionID string, examDuration time.Duration) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(examDuration + s.grace)
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, domain.NewInternalError("failed to sign session token", err)
	}
	return signed, expires, nil
}

func (s *tokenServiceImpl) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("Session token expired", zap.Error(err))
		} else {
			logger.Get().Warn("Session token validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidSessionToken
	}
	return claims, nil
}
