package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/orgball2608/directorflow-agent/internal/domain"
	"github.com/orgball2608/directorflow-agent/pkg/logger"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestAnonymousByDefault(t *testing.T) {
	p := NewProvider("secret", logger.NewNop())
	if p.UserID() != domain.AnonymousUserID {
		t.Fatalf("UserID = %q", p.UserID())
	}
	if p.Authenticated() {
		t.Fatal("expected anonymous")
	}
}

func TestLoginVerifiesSignature(t *testing.T) {
	p := NewProvider("secret", logger.NewNop())
	exp := time.Now().Add(time.Hour).Unix()

	if _, err := p.Login(signed(t, "other", jwt.MapClaims{"sub": "u1", "exp": exp})); err == nil {
		t.Fatal("expected signature error")
	}

	u, err := p.Login(signed(t, "secret", jwt.MapClaims{"sub": "u1", "email": "a@b.c", "exp": exp}))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != "u1" || u.Email != "a@b.c" || p.UserID() != "u1" {
		t.Fatalf("user = %+v, current %q", u, p.UserID())
	}
}

func TestLoginRejectsExpiredUnverifiedToken(t *testing.T) {
	p := NewProvider("", logger.NewNop())
	tok := signed(t, "whatever", jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()})
	if _, err := p.Login(tok); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestWaitReturnsAfterRestore(t *testing.T) {
	p := NewProvider("secret", logger.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	p.Restore(ctx, signed(t, "secret", jwt.MapClaims{"sub": "u2", "exp": time.Now().Add(time.Hour).Unix()}))

	u, err := p.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if u.ID != "u2" {
		t.Fatalf("user = %+v", u)
	}
}

func TestLogoutResetsReady(t *testing.T) {
	p := NewProvider("secret", logger.NewNop())
	if _, err := p.Login(signed(t, "secret", jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})); err != nil {
		t.Fatalf("Login: %v", err)
	}
	p.Logout()

	select {
	case <-p.Ready():
		t.Fatal("ready should be open after logout")
	default:
	}
	if p.UserID() != domain.AnonymousUserID {
		t.Fatalf("UserID = %q", p.UserID())
	}
}
