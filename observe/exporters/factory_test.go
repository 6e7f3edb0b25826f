package exporters

import (
	"bytes"
	"context"
	"testing"
)

func TestNewTracingExporter(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"none", Config{Name: "none"}, false},
		{"empty", Config{}, false},
		{"stdout", Config{Name: "stdout", Writer: &bytes.Buffer{}}, false},
		{"otlp without endpoint", Config{Name: "otlp"}, true},
		{"otlp with endpoint", Config{Name: "otlp", Endpoint: "localhost:4317", Insecure: true}, false},
		{"unknown", Config{Name: "zipkin"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exp, err := NewTracingExporter(context.Background(), tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if exp != nil {
				_ = exp.Shutdown(context.Background())
			}
		})
	}
}

func TestNewMetricsReader(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"none", Config{Name: "none"}, false},
		{"stdout", Config{Name: "stdout", Writer: &bytes.Buffer{}}, false},
		{"otlp without endpoint", Config{Name: "otlp"}, true},
		{"unknown", Config{Name: "statsd"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewMetricsReader(context.Background(), tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if r != nil {
				_ = r.Shutdown(context.Background())
			}
		})
	}
}
