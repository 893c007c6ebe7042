package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mailsign/signup-backend/internal/common/clock"
	userdomain "github.com/mailsign/signup-backend/internal/user/domain"
)

// TokenIssuer signs short-lived bearer tokens asserting the user's
// identity. Tokens are stateless: nothing is stored, validity is signature
// plus expiry. No endpoint in this service consumes them.
type TokenIssuer struct {
	jwtSecret []byte
	clock     clock.Clock
	tokenTTL  time.Duration
}

func NewTokenIssuer(jwtSecret string, tokenTTL time.Duration, clk clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret: []byte(jwtSecret),
		clock:     clk,
		tokenTTL:  tokenTTL,
	}
}

func (ti *TokenIssuer) Issue(user userdomain.User) (string, error) {
	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"sub":   string(user.ID),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ti.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	incrementTokensIssued()
	return tokenString, nil
}
