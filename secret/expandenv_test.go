package secret

import (
	"strings"
	"testing"
)

func TestExpandEnvStrict_MissingVarErrors(t *testing.T) {
	t.Setenv("PRESENT", "ok")

	_, err := ExpandEnvStrict("a=${PRESENT} b=${MISSING}")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "MISSING") {
		t.Fatalf("expected missing var name in error, got: %v", err)
	}
}

func TestExpandEnvStrict_DollarEscape(t *testing.T) {
	t.Setenv("X", "y")

	out, err := ExpandEnvStrict("$$${X}")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "$y" {
		t.Fatalf("ExpandEnvStrict() = %q, want %q", out, "$y")
	}
}

func TestExpandStrict_CustomLookup(t *testing.T) {
	vars := map[string]string{"HOST": "db.internal", "PORT": "5432"}
	lookup := func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr string
	}{
		{name: "plain", in: "no refs", want: "no refs"},
		{name: "braced", in: "${HOST}:${PORT}", want: "db.internal:5432"},
		{name: "bare unset is empty", in: "x$UNSET", want: "x"},
		{name: "missing listed once", in: "${A}${A}${B}", wantErr: "A, B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandStrict(tt.in, lookup)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ExpandStrict() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExpandStrict() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("ExpandStrict() = %q, want %q", got, tt.want)
			}
		})
	}
}
