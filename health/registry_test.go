package health

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRegistry_RegisterValidation(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		svcName string
		svc     Service
		wantErr error
	}{
		{"empty name", "", Static(true, true), ErrInvalidServiceName},
		{"blank name", "   ", Static(true, true), ErrInvalidServiceName},
		{"newline", "a\nb", Static(true, true), ErrInvalidServiceName},
		{"too long", strings.Repeat("x", 600), Static(true, true), ErrInvalidServiceName},
		{"nil service", "chat", nil, ErrNilService},
		{"valid", "chat", Static(true, true), nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := r.Register(tc.svcName, tc.svc)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Register() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegistry_ReplaceKeepsOrder(t *testing.T) {
	r := NewRegistry()
	first := Static(true, true)
	second := Static(false, false)

	_ = r.Register("chat", first)
	_ = r.Register("pdf", first)
	_ = r.Register("chat", second)

	if got := r.Names(); len(got) != 2 || got[0] != "chat" || got[1] != "pdf" {
		t.Errorf("Names() = %v, want [chat pdf]", got)
	}
	svc, ok := r.Lookup("chat")
	if !ok {
		t.Fatal("Lookup(chat) not found")
	}
	configured, _ := svc.IsConfigured(context.Background())
	if configured {
		t.Error("Lookup returned the replaced service")
	}
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("chat", Static(true, true))

	if !r.Unregister("chat") {
		t.Error("Unregister(chat) = false, want true")
	}
	if r.Unregister("chat") {
		t.Error("second Unregister(chat) = true, want false")
	}
	if _, ok := r.Lookup("chat"); ok {
		t.Error("chat still registered")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistry_GenerationAdvances(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("chat", Static(true, true))
	b, _ := r.lookup("chat")

	ran := r.ifCurrent("chat", b.gen, func() {})
	if !ran {
		t.Fatal("ifCurrent with current generation did not run")
	}

	_ = r.Register("chat", Static(true, true))
	if r.ifCurrent("chat", b.gen, func() { t.Error("ran for stale generation") }) {
		t.Error("ifCurrent reported stale generation as current")
	}
}
