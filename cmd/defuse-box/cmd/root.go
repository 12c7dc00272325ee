package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/oklog/run"
	"github.com/spf13/cobra"

	"github.com/oshokin/defuse-box/internal/config"
	"github.com/oshokin/defuse-box/internal/logger"
	"github.com/oshokin/defuse-box/internal/service/session"
	"github.com/oshokin/defuse-box/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// backend overrides the configured hardware backend.
	backend string
	// reportPath is where the session report is written.
	reportPath string
	// logLevel overrides the configured log level.
	logLevel string
	// logFile receives the logs instead of stderr.
	logFile string

	// rootCmd represents the base command for running a live session.
	rootCmd = &cobra.Command{
		Use:   "defuse-box",
		Short: "Run a defuse-the-bomb prop session.",
		Long: `Arms the bomb and runs one session until every puzzle is solved or the countdown expires.

The sim backend replays the configured input script in real time and mirrors the display on the terminal.
The periph backend drives a Raspberry Pi: buttons and wires on GPIO, dials on an MCP3008 ADC,
the buzzer, RGB indicators and servo on GPIO outputs.
A JSON report is printed to stdout, or written to --report, when the session ends.`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: configureLogger,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return session.Run(ctx, options(cmd))
			})
		},
	}

	// simulateCmd runs the configured scenario on a virtual clock.
	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Replay the configured input script on a virtual clock.",
		Long: `Runs the session against the simulated board, stepping a virtual clock by simulation.step
until the bomb is defused or detonates, and prints the report. No real time passes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return session.Simulate(ctx, options(cmd))
			})
		},
	}

	// initConfigCmd writes the sample configuration.
	initConfigCmd = &cobra.Command{
		Use:   "init-config",
		Short: "Write the sample configuration file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Save(configPath, config.Default()); err != nil {
				return fmt.Errorf("save settings: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", configPath)

			return nil
		},
	}
)

// Execute runs the defuse-box CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// options builds session options from the flags.
func options(cmd *cobra.Command) *session.Options {
	return &session.Options{
		ConfigPath: configPath,
		Backend:    backend,
		ReportPath: reportPath,
		Display:    displayWriter(cmd, reportPath),
		Output:     cmd.OutOrStdout(),
	}
}

// displayWriter picks the terminal stream of the countdown. Stdout is free
// when the report goes to a file; otherwise the display shares stderr with
// the logs unless they are sent to --log-file.
func displayWriter(cmd *cobra.Command, report string) io.Writer {
	if report != "" {
		return cmd.OutOrStdout()
	}

	return cmd.ErrOrStderr()
}

// configureLogger redirects the logs to --log-file and applies the log level
// from the flag, or from the configuration file when the flag is not set.
func configureLogger(_ *cobra.Command, _ []string) error {
	if logFile != "" {
		f, err := os.OpenFile(filepath.Clean(logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, config.DefaultFilePermissions)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}

		logger.SetLogger(logger.NewWithWriter(f, nil))
	}

	level := logLevel
	if level == "" {
		if cfg, err := config.Load(configPath); err == nil {
			level = cfg.LogLevel
		}
	}

	if level == "" {
		return nil
	}

	parsed, ok := logger.ParseLogLevel(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}

	logger.SetLevel(parsed)

	return nil
}

// runWithSignals runs fn until it returns or a termination signal arrives.
func runWithSignals(fn func(ctx context.Context) error) error {
	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				logger.Info(signalCtx, "Termination signal received")

				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Session.
	{
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		g.Add(
			func() error {
				return fn(ctx)
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVarP(&reportPath, "report", "r", "", "path to write the session report (stdout when empty)")
	rootCmd.Flags().StringVarP(&backend, "backend", "b", "", "hardware backend override (sim, periph)")

	rootCmd.AddCommand(simulateCmd, initConfigCmd)
}
