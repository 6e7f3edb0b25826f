package secret

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvProvider_Resolve(t *testing.T) {
	p := NewEnvProvider(func(k string) (string, bool) {
		if k == "API_KEY" {
			return "abc", true
		}
		return "", false
	})

	got, err := p.Resolve(context.Background(), "API_KEY")
	if err != nil || got != "abc" {
		t.Fatalf("Resolve(API_KEY) = %q, %v", got, err)
	}
	if _, err := p.Resolve(context.Background(), "NOPE"); err == nil {
		t.Fatalf("expected error for unset variable")
	}
	if p.Name() != "env" {
		t.Fatalf("Name() = %q", p.Name())
	}
}

func TestFileProvider_Resolve(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("tok-123\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "crlf"), []byte("win\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	p := NewFileProvider(dir)
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "relative", ref: "token", want: "tok-123"},
		{name: "absolute", ref: filepath.Join(dir, "token"), want: "tok-123"},
		{name: "crlf", ref: "crlf", want: "win"},
		{name: "missing", ref: "absent", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Resolve(context.Background(), tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFileProvider("").Resolve(ctx, "/etc/hostname"); err == nil {
		t.Fatalf("expected context error")
	}
}
