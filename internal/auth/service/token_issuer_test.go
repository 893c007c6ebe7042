package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mailsign/signup-backend/internal/auth/service"
	"github.com/mailsign/signup-backend/internal/common/clock"
	userdomain "github.com/mailsign/signup-backend/internal/user/domain"
)

func TestTokenIssuer_Issue_Claims(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(issuedAt)
	issuer := service.NewTokenIssuer(testJWTSecret, time.Hour, clk)

	user := userdomain.User{ID: "user-123", Email: "u@x.com"}

	tokenString, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if tokenString == "" {
		t.Fatal("expected token to be set")
	}

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	}, jwt.WithTimeFunc(clk.Now))
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}

	if claims["sub"] != "user-123" {
		t.Errorf("expected sub user-123, got %v", claims["sub"])
	}

	if claims["email"] != "u@x.com" {
		t.Errorf("expected email u@x.com, got %v", claims["email"])
	}

	exp := int64(claims["exp"].(float64))
	iat := int64(claims["iat"].(float64))

	if iat != issuedAt.Unix() {
		t.Errorf("expected iat %d, got %d", issuedAt.Unix(), iat)
	}

	if exp-iat != int64(time.Hour.Seconds()) {
		t.Errorf("expected expiry exactly 1h after issuance, got %ds", exp-iat)
	}
}

func TestTokenIssuer_Issue_RejectedAfterExpiry(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(issuedAt)
	issuer := service.NewTokenIssuer(testJWTSecret, time.Hour, clk)

	tokenString, err := issuer.Issue(userdomain.User{ID: "user-123", Email: "u@x.com"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	clk.SetTime(issuedAt.Add(time.Hour + time.Minute))

	_, err = jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	}, jwt.WithTimeFunc(clk.Now))

	if err == nil {
		t.Error("expected expired token to fail verification")
	}
}
