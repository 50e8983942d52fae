package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/swapdesk/config"
)

const usage = `usage: swapdesk [flags] <command> [args]

commands:
  programs                  list reward programs
  stakes   <address>        show staked positions for an address
  orders   <address>        list resting limit orders for a maker
  cancel   <address> [hash ...]  cancel orders on-chain (all, or by hash)
  swap                      create a signed limit order (see swap -h)
  activity                  show recent order activity

flags:
`

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	cmd := flag.Arg(0)
	if cmd == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := dispatch(ctx, cfg, cmd, flag.Args()[1:]); err != nil {
		slog.Error("command failed", "command", cmd, "err", err)
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, cfg *config.Config, cmd string, args []string) error {
	switch cmd {
	case "programs":
		return runPrograms(ctx, cfg)
	case "stakes":
		if len(args) < 1 {
			return fmt.Errorf("stakes: provider address is required")
		}
		return runStakes(ctx, cfg, args[0])
	case "orders":
		if len(args) < 1 {
			return fmt.Errorf("orders: maker address is required")
		}
		return runOrders(ctx, cfg, args[0])
	case "cancel":
		if len(args) < 1 {
			return fmt.Errorf("cancel: maker address is required")
		}
		return runCancel(ctx, cfg, args[0], args[1:])
	case "swap":
		return runSwap(ctx, cfg, args)
	case "activity":
		return runActivity(ctx, cfg)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
