package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "test-secret-with-enough-length"

func TestVerify_RoundTrip(t *testing.T) {
	tok, err := Issue(secret, DefaultAudience, "user-42", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := NewVerifier(secret, DefaultAudience).Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("expected subject user-42, got %q", claims.Subject)
	}
}

func TestVerify_Rejects(t *testing.T) {
	good, _ := Issue(secret, DefaultAudience, "u", time.Hour)
	expired, _ := Issue(secret, DefaultAudience, "u", -time.Hour)
	wrongAud, _ := Issue(secret, "other", "u", time.Hour)
	noSubject, _ := Issue(secret, DefaultAudience, "", time.Hour)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u", "aud": DefaultAudience, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		v     *Verifier
		token string
		want  error
	}{
		{"empty", NewVerifier(secret, DefaultAudience), "", ErrMissingToken},
		{"wrong secret", NewVerifier("another-secret", DefaultAudience), good, ErrInvalidToken},
		{"expired", NewVerifier(secret, DefaultAudience), expired, ErrInvalidToken},
		{"wrong audience", NewVerifier(secret, DefaultAudience), wrongAud, ErrInvalidToken},
		{"no subject", NewVerifier(secret, DefaultAudience), noSubject, ErrInvalidToken},
		{"alg none", NewVerifier(secret, DefaultAudience), none, ErrInvalidToken},
		{"garbage", NewVerifier(secret, DefaultAudience), "a.b.c", ErrInvalidToken},
		{"no secret", NewVerifier("", DefaultAudience), good, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.v.Verify(tt.token)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestVerify_AudienceOptional(t *testing.T) {
	tok, _ := Issue(secret, "", "u", time.Hour)
	if _, err := NewVerifier(secret, "").Verify(tok); err != nil {
		t.Fatalf("expected token without audience to pass, got %v", err)
	}
}

func TestUserIDContext(t *testing.T) {
	if _, ok := UserIDFrom(context.Background()); ok {
		t.Fatal("expected no user on empty context")
	}
	ctx := WithUserID(context.Background(), "user-1")
	if id, ok := UserIDFrom(ctx); !ok || id != "user-1" {
		t.Fatalf("expected user-1, got %q (%v)", id, ok)
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":  "abc",
		"bearer  abc": "abc",
		"Basic abc":   "",
		"":            "",
	}
	for in, want := range tests {
		if got := BearerToken(in); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}
