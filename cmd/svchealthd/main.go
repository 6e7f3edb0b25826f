// Command svchealthd serves aggregated subsystem health over HTTP.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitRuntime
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			code = exitErr.Code
		}
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, "Error:", msg)
		}
		os.Exit(code)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "svchealthd",
		Short: "Subsystem health aggregation daemon",
		Long:  "svchealthd probes registered subsystems, caches the results and serves an aggregated health view.",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage: true,
		// main prints errors so a bare unhealthy exit stays quiet.
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Path to svchealth.yaml")
	root.PersistentFlags().String("log-level", "", "Override telemetry.logging.level")

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("svchealthd version %s\n", version))

	root.AddCommand(newServeCmd())
	root.AddCommand(newCheckCmd())
	return root
}

// Exit codes.
const (
	exitRuntime   = 1
	exitUnhealthy = 1
	exitConfig    = 2
)

// exitError carries a process exit code back to main.
type exitError struct {
	Code    int
	Message string
}

func (e *exitError) Error() string { return e.Message }

func exitErrorf(code int, format string, args ...any) *exitError {
	return &exitError{Code: code, Message: fmt.Sprintf(format, args...)}
}
