package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"github.com/charlyisidore/vitrine-sub001/internal/build"
	"github.com/charlyisidore/vitrine-sub001/internal/config"
	"github.com/charlyisidore/vitrine-sub001/internal/observability"
	"github.com/charlyisidore/vitrine-sub001/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"vitrine.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output string `short:"o" help:"Output directory override"`
		Debug  bool   `help:"Disable minification and reload injection"`
	} `cmd:"" help:"Build the site once"`

	Watch struct {
		Output string `short:"o" help:"Output directory override"`
	} `cmd:"" help:"Build the site and rebuild on input changes"`
}

func main() {
	kctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	fs := afero.NewOsFs()
	recorder := observability.NewRecorder(prometheus.NewRegistry())

	switch kctx.Command() {
	case "build":
		if CLI.Build.Output != "" {
			cfg.OutputDir = CLI.Build.Output
		}
		if CLI.Build.Debug {
			cfg.Debug = true
		}
		if _, err := build.Run(context.Background(), cfg, fs, build.Options{Recorder: recorder}); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "watch":
		if CLI.Watch.Output != "" {
			cfg.OutputDir = CLI.Watch.Output
		}
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		if err := watch.New(cfg, fs, recorder).Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	}
}
