package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rogerio-castellano/catalog-sync/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("s3cret")
	token, err := auth.GenerateToken("operator", secret, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	sub, err := auth.ParseToken(token, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub != "operator" {
		t.Errorf("expected subject operator, got %q", sub)
	}
}

func TestParseTokenRejects(t *testing.T) {
	secret := []byte("s3cret")
	expired, _ := auth.GenerateToken("operator", secret, -time.Minute)
	otherKey, _ := auth.GenerateToken("operator", []byte("other"), time.Minute)

	tests := map[string]string{
		"expired":   expired,
		"wrong key": otherKey,
		"garbage":   "not-a-token",
	}
	for name, token := range tests {
		if _, err := auth.ParseToken(token, secret); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}
