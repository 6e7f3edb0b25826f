package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func bearer(token string) *AuthRequest {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return &AuthRequest{Headers: h}
}

func TestJWTAuthenticator(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := NewJWTAuthenticator(JWTConfig{
		Issuer:   "svchealth",
		Audience: "ops",
		Now:      func() time.Time { return now },
	}, NewStaticKeyProvider(testSecret))

	valid := jwt.MapClaims{
		"sub":   "alice",
		"iss":   "svchealth",
		"aud":   "ops",
		"exp":   now.Add(time.Hour).Unix(),
		"roles": []any{"admin", "viewer"},
	}
	with := func(k string, v any) jwt.MapClaims {
		c := jwt.MapClaims{}
		for key, val := range valid {
			c[key] = val
		}
		c[k] = v
		return c
	}

	tests := []struct {
		name    string
		token   string
		wantOK  bool
		wantErr error
	}{
		{"valid", signToken(t, jwt.SigningMethodHS256, testSecret, valid), true, nil},
		{"expired", signToken(t, jwt.SigningMethodHS256, testSecret, with("exp", now.Add(-time.Minute).Unix())), false, ErrTokenExpired},
		{"wrong issuer", signToken(t, jwt.SigningMethodHS256, testSecret, with("iss", "other")), false, ErrInvalidCredentials},
		{"wrong audience", signToken(t, jwt.SigningMethodHS256, testSecret, with("aud", "public")), false, ErrInvalidCredentials},
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("other"), valid), false, ErrInvalidCredentials},
		{"malformed", "not.a.jwt", false, ErrTokenMalformed},
		{"empty", "", false, ErrMissingCredentials},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := a.Authenticate(context.Background(), bearer(tc.token))
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if res.Authenticated != tc.wantOK {
				t.Errorf("Authenticated = %v, want %v (err %v)", res.Authenticated, tc.wantOK, res.Error)
			}
			if !errors.Is(res.Error, tc.wantErr) {
				t.Errorf("Error = %v, want %v", res.Error, tc.wantErr)
			}
		})
	}
}

func TestJWTAuthenticator_Identity(t *testing.T) {
	now := time.Now()
	a := NewJWTAuthenticator(JWTConfig{}, NewStaticKeyProvider(testSecret))
	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub":   "alice",
		"exp":   now.Add(time.Hour).Unix(),
		"roles": []any{"admin"},
	})

	res, err := a.Authenticate(context.Background(), bearer(token))
	if err != nil || !res.Authenticated {
		t.Fatalf("Authenticate = %+v, %v", res, err)
	}
	id := res.Identity
	if id.Principal != "alice" || !id.HasRole("admin") || id.Method != AuthMethodJWT {
		t.Errorf("identity = %+v", id)
	}
	if id.ExpiresAt.Unix() != now.Add(time.Hour).Unix() {
		t.Errorf("ExpiresAt = %v", id.ExpiresAt)
	}
}

func TestJWTAuthenticator_RejectsNoneAlg(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{}, NewStaticKeyProvider(testSecret))
	token := signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"sub": "mallory"})

	res, err := a.Authenticate(context.Background(), bearer(token))
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if res.Authenticated {
		t.Error("token with alg=none was accepted")
	}
}

func TestJWTAuthenticator_Supports(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{}, NewStaticKeyProvider(testSecret))
	if !a.Supports(bearer("x")) {
		t.Error("Supports() = false for bearer header")
	}
	if a.Supports(apiKeyRequest("x")) {
		t.Error("Supports() = true without bearer header")
	}
}
