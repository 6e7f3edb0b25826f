package auth

import (
	"context"
	"errors"
	"testing"
)

type stubAuthenticator struct {
	name     string
	supports bool
	result   *AuthResult
	err      error
	calls    int
}

func (s *stubAuthenticator) Name() string { return s.name }
func (s *stubAuthenticator) Supports(*AuthRequest) bool { return s.supports }
func (s *stubAuthenticator) Authenticate(context.Context, *AuthRequest) (*AuthResult, error) {
	s.calls++
	return s.result, s.err
}

func TestCompositeAuthenticator(t *testing.T) {
	ok := AuthSuccess(&Identity{Principal: "ops", Method: AuthMethodAPIKey})
	denied := AuthFailure(ErrInvalidCredentials, "jwt")
	boom := errors.New("store offline")

	tests := []struct {
		name      string
		auths     []*stubAuthenticator
		wantOK    bool
		wantErr   error
		wantCause error
	}{
		{
			name:   "first success wins",
			auths:  []*stubAuthenticator{{name: "a", supports: true, result: ok}, {name: "b", supports: true, result: denied}},
			wantOK: true,
		},
		{
			name:      "unsupported skipped",
			auths:     []*stubAuthenticator{{name: "a", supports: false, result: ok}, {name: "b", supports: true, result: denied}},
			wantCause: ErrInvalidCredentials,
		},
		{
			name:      "none supported",
			auths:     []*stubAuthenticator{{name: "a"}},
			wantCause: ErrMissingCredentials,
		},
		{
			name:    "internal error stops",
			auths:   []*stubAuthenticator{{name: "a", supports: true, err: boom}, {name: "b", supports: true, result: ok}},
			wantErr: boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auths := make([]Authenticator, len(tt.auths))
			for i, a := range tt.auths {
				auths[i] = a
			}
			c := NewCompositeAuthenticator(auths...)

			res, err := c.Authenticate(context.Background(), &AuthRequest{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Authenticate() error = %v, want %v", err, tt.wantErr)
				}
				if tt.auths[1].calls != 0 {
					t.Fatal("authenticator after an internal error was called")
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if res.Authenticated != tt.wantOK {
				t.Fatalf("Authenticated = %v, want %v", res.Authenticated, tt.wantOK)
			}
			if tt.wantCause != nil && !errors.Is(res.Error, tt.wantCause) {
				t.Fatalf("Error = %v, want %v", res.Error, tt.wantCause)
			}
		})
	}
}

func TestIdentityContext(t *testing.T) {
	if IdentityFromContext(context.Background()) != nil {
		t.Fatal("expected nil identity")
	}
	id := &Identity{Principal: "ops", Roles: []string{"admin"}}
	got := IdentityFromContext(WithIdentity(context.Background(), id))
	if got != id {
		t.Fatalf("IdentityFromContext() = %v", got)
	}
	if !got.HasRole("admin") || got.HasRole("root") {
		t.Fatal("HasRole mismatch")
	}
}
