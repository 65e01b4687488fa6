// File created by olandr (c) 2025.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

// Command pollwatch prints the files created, modified and deleted under a
// directory, detected by polling it.
//
// Usage:
//
//	pollwatch [flags] [root]
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/olandr/pollwatch"
	"github.com/olandr/pollwatch/internal/config"
	"github.com/olandr/pollwatch/internal/logging"
)

type flags struct {
	config      string
	delay       time.Duration
	recursive   bool
	createBase  bool
	logLevel    string
	logFormat   string
	metricsAddr string
	noColor     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newCommand(&flags{})
}

func newCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pollwatch [flags] [root]",
		Short: "Report file changes under a directory by polling it",
		Long: `pollwatch lists a directory tree periodically and prints one line for
every regular file which was created, modified or deleted since the
previous listing. Files present at start-up are never reported.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, args)
			if err != nil {
				return err
			}
			color.NoColor = color.NoColor || f.noColor
			return run(cmd.Context(), cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "path to a YAML configuration file")
	fl.DurationVarP(&f.delay, "delay", "d", pollwatch.DefaultDelay, "poll interval")
	fl.BoolVarP(&f.recursive, "recursive", "r", false, "watch every subdirectory too")
	fl.BoolVar(&f.createBase, "create-base", false, "create the root directory when missing")
	fl.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	fl.StringVar(&f.logFormat, "log-format", "text", "log format: text, json or logfmt")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "serve /metrics and /healthz on this address")
	fl.BoolVar(&f.noColor, "no-color", false, "disable coloured output")
	return cmd
}

// resolveConfig loads the configuration file and overrides it with the flags
// given explicitly and the root argument.
func resolveConfig(cmd *cobra.Command, f *flags, args []string) (*config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, err
	}
	fl := cmd.Flags()
	if fl.Changed("delay") {
		cfg.Delay = f.delay
	}
	if fl.Changed("recursive") {
		cfg.Depth = pollwatch.Shallow.String()
		if f.recursive {
			cfg.Depth = pollwatch.Recursive.String()
		}
	}
	if fl.Changed("create-base") {
		cfg.CreateBase = f.createBase
	}
	if fl.Changed("log-level") {
		cfg.Logger.Level = f.logLevel
	}
	if fl.Changed("log-format") {
		cfg.Logger.Format = f.logFormat
	}
	if fl.Changed("metrics-addr") {
		cfg.Metrics.Addr = f.metricsAddr
	}
	if len(args) == 1 {
		cfg.Root = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logging.Setup(os.Stderr, cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return err
	}

	c := make(chan fsnotify.Event, 1024)
	options := cfg.Options()
	options.Logger = logger
	options.ErrorHandler = func(err error) {
		logger.Error("callback failed", "error", err)
	}
	w, err := pollwatch.New(cfg.Root, pollwatch.FsnotifyCallbacks(c), options)
	if err != nil {
		return err
	}
	if err := w.Start(cfg.Root, cfg.CreateBase); err != nil {
		return err
	}
	defer w.Stop()

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           newRouter(w, w.Root()),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("serving metrics", "addr", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer shutdown(srv, logger)
	}

	printEvents(ctx, os.Stdout, c)
	logger.Info("shutting down", "root", w.Root())
	return nil
}

func shutdown(srv *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown", "error", err)
	}
}
