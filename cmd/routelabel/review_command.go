package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"routelabel/internal/logging"
	"routelabel/internal/metrics"
	"routelabel/internal/pipeline"
	"routelabel/internal/terminal"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	var verbose bool
	var skipPreflight bool
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review and label every route in the route tree",
		Long: "Start an interactive session: routes are scored in the background while " +
			"frames are shown one at a time. Type a label or its key to file a frame, " +
			"SKIP n to change the cadence, or QUIT to stop.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if level := strings.TrimSpace(logLevel); level != "" {
				cfg.Logging.Level = level
			}

			runID := time.Now().UTC().Format("20060102T150405.000Z")
			logger, err := logging.NewFromConfig(cfg, runID, !verbose)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			out := cmd.OutOrStdout()
			var collector *metrics.Collector
			if addr := strings.TrimSpace(metricsAddr); addr != "" {
				collector = metrics.New()
				server, err := metrics.Serve(addr, collector, logger)
				if err != nil {
					return err
				}
				defer server.Close()
				fmt.Fprintf(out, "Metrics: http://%s/metrics\n", server.Addr())
			}

			fmt.Fprintf(out, "Preview image: %s\n", cfg.Paths.PreviewPath)
			result, err := pipeline.Run(signalCtx, cfg, pipeline.Options{
				Source:        terminal.NewLineSource(cmd.InOrStdin(), out),
				Preview:       terminal.NewPreview(cfg.Paths.PreviewPath, out, logger),
				Out:           out,
				Logger:        logger,
				Metrics:       collector,
				SkipPreflight: skipPreflight,
			})
			if err != nil {
				return err
			}

			s := result.Summary
			fmt.Fprintf(out, "Session %s: %d route(s), %d frame(s) shown, %d filed, %d skipped in %s\n",
				result.SessionID, s.Routes, s.Shown, s.Filed, s.Skipped, result.Duration.Round(time.Second))
			fmt.Fprintf(out, "Log: %s\n", logging.RunLogPath(cfg.Paths.LogDir, runID))
			return nil
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override logging.level for this session")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show info logs on the console during review")
	cmd.Flags().BoolVar(&skipPreflight, "no-preflight", false, "Skip directory and model endpoint checks")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during review (e.g. 127.0.0.1:9464)")
	return cmd
}
