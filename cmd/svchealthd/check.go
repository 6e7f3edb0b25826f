package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/svchealth/health"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [service...]",
		Short: "Probe services once and print the result as JSON",
		Long: "Probe every configured service (or only the named ones) and print the snapshot.\n" +
			"Exits with status 1 when the result is unhealthy.",
		RunE: runCheck,
	}
	cmd.Flags().Bool("summary", false, "Print the summary instead of the full snapshot")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg, configPath, false)
	if err != nil {
		return exitErrorf(exitRuntime, "%v", err)
	}
	defer func() {
		_ = a.close(context.Background())
	}()

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	if len(args) > 0 {
		results := make([]health.Result, 0, len(args))
		for _, name := range args {
			results = append(results, a.monitor.CheckServiceHealth(ctx, name))
		}
		if err := enc.Encode(results); err != nil {
			return exitErrorf(exitRuntime, "encoding results: %v", err)
		}
		if health.OverallStatus(results) == health.StatusUnhealthy {
			return &exitError{Code: exitUnhealthy}
		}
		return nil
	}

	snap := a.monitor.CheckAllServices(ctx)
	var out any = snap
	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		out = health.Summarize(snap)
	}
	if err := enc.Encode(out); err != nil {
		return exitErrorf(exitRuntime, "encoding snapshot: %v", err)
	}
	if snap.Overall == health.StatusUnhealthy {
		return &exitError{Code: exitUnhealthy}
	}
	return nil
}
