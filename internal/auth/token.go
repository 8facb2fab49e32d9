package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tripplanner/backend/internal/domain"
)

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Claims is the JWT payload. Subject holds the user id.
type Claims struct {
	Email string    `json:"email"`
	Type  TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer. secret must not be empty.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue returns a fresh access/refresh token pair for user.
func (i *TokenIssuer) Issue(user domain.User) (access, refresh string, err error) {
	access, err = i.sign(user, TokenAccess, i.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = i.sign(user, TokenRefresh, i.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (i *TokenIssuer) sign(user domain.User, typ TokenType, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		Email: user.Email,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth.TokenIssuer.sign: %w", err)
	}
	return signed, nil
}

// Verify parses token, checks its signature, expiry, and type, and returns
// the Session it describes. Every failure is reported as domain.ErrUnauthorized.
func (i *TokenIssuer) Verify(token string, want TokenType) (Session, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "token expired"
		}
		return Session{}, fmt.Errorf("auth.TokenIssuer.Verify: %w: %s", domain.ErrUnauthorized, msg)
	}
	if claims.Type != want {
		return Session{}, fmt.Errorf("auth.TokenIssuer.Verify: %w: expected %s token", domain.ErrUnauthorized, want)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Session{}, fmt.Errorf("auth.TokenIssuer.Verify: %w: invalid subject", domain.ErrUnauthorized)
	}
	return Session{UserID: userID, Email: claims.Email}, nil
}
