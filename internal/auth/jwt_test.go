package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aliskhannn/nqesh-reviewer/internal/auth"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := auth.NewVerifier("secret", "https://id.example.test")

	token, err := v.Issue("user-7", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := v.Verify("Bearer " + token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !id.SignedIn || id.UserID != "user-7" {
		t.Errorf("expected signed-in user-7, got %+v", id)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	v := auth.NewVerifier("secret", "issuer-a")

	expired, _ := v.Issue("u", -time.Minute)
	otherIssuer, _ := auth.NewVerifier("secret", "issuer-b").Issue("u", time.Hour)
	otherSecret, _ := auth.NewVerifier("other", "issuer-a").Issue("u", time.Hour)
	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "issuer-a",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", auth.ErrMissingToken},
		{"bearer only", "Bearer ", auth.ErrMissingToken},
		{"garbage", "not-a-token", auth.ErrInvalidToken},
		{"expired", expired, auth.ErrInvalidToken},
		{"wrong issuer", otherIssuer, auth.ErrInvalidToken},
		{"wrong secret", otherSecret, auth.ErrInvalidToken},
		{"no subject", noSubject, auth.ErrInvalidToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := v.Verify(tc.token)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			if id.SignedIn {
				t.Error("expected anonymous identity on failure")
			}
		})
	}
}
