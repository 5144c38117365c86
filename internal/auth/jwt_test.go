package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signHS256(t *testing.T, secret, subject, email string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"exp":   expires.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestNewJWTVerifierRequiresSecret(t *testing.T) {
	if _, err := NewJWTVerifier("   "); err == nil {
		t.Error("expected error for blank secret")
	}
	if _, err := NewJWTVerifier(testSecret); err != nil {
		t.Errorf("NewJWTVerifier() error = %v", err)
	}
}

func TestVerify(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid", signHS256(t, testSecret, "user-1", "a@b.co", future), false},
		{"expired", signHS256(t, testSecret, "user-1", "a@b.co", time.Now().Add(-time.Hour)), true},
		{"wrong secret", signHS256(t, "other-secret", "user-1", "a@b.co", future), true},
		{"empty subject", signHS256(t, testSecret, "", "a@b.co", future), true},
		{"garbage", "not.a.jwt", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := verifier.Verify(tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidToken) {
					t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if identity.SubjectID != "user-1" {
				t.Errorf("SubjectID = %q, want user-1", identity.SubjectID)
			}
			if identity.Email != "a@b.co" {
				t.Errorf("Email = %q, want a@b.co", identity.Email)
			}
		})
	}
}

func TestVerifyRejectsNonHMAC(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	// alg=none style tokens must never pass.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(none) error = %v, want ErrInvalidToken", err)
	}
}
