// FILE: src/cmd/instaroid/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"instaroid/src/cmd/instaroid/commands"
	"instaroid/src/internal/config"
	"instaroid/src/internal/version"

	"github.com/lixenwraith/log"
)

var logger *log.Logger

func main() {
	router := commands.NewCommandRouter()
	handled, err := router.Route(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if handled {
		os.Exit(0)
	}

	flagCfg, err := ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stdConsole = newConsole(flagCfg.Quiet, os.Stdout, os.Stderr)

	if flagCfg.ShowVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	cfg, err := config.Load(flagCfg.Overrides, flagCfg.ConfigFile)
	if err != nil {
		if flagCfg.ConfigFile != "" && strings.Contains(err.Error(), "not found") {
			stdConsole.Exit(2, "Config file not found: %s\n", flagCfg.ConfigFile)
		}
		stdConsole.Exit(1, "Failed to load config: %v\n", err)
	}
	if flagCfg.Quiet {
		cfg.Quiet = true
	}

	if flagCfg.DumpConfig != "" {
		if err := cfg.SaveToFile(flagCfg.DumpConfig); err != nil {
			stdConsole.Exit(1, "Failed to write config: %v\n", err)
		}
		stdConsole.Printf("Configuration written to %s\n", flagCfg.DumpConfig)
		os.Exit(0)
	}

	if err := initializeLogger(cfg); err != nil {
		stdConsole.Exit(1, "Failed to initialize logger: %v\n", err)
	}
	defer shutdownLogger()

	logger.Info("msg", "Instaroid starting",
		"version", version.String(),
		"config_file", cfg.ConfigFile,
		"log_output", cfg.Logging.Output)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := bootstrapServer(cfg, stdConsole)
	if err != nil {
		logger.Error("msg", "Failed to bootstrap server", "error", err)
		shutdownLogger()
		os.Exit(1)
	}

	if enableStatusReporter() {
		go statusReporter(ctx, srv)
	}

	signals := NewSignalHandler(logger, func() { logStatus(srv) })
	defer signals.Stop()

	sig := signals.Wait(ctx)
	logger.Info("msg", "Shutdown signal received, starting graceful shutdown...", "signal", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		srv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("msg", "Shutdown complete")
	case <-shutdownCtx.Done():
		logger.Error("msg", "Shutdown timeout exceeded - forcing exit")
		shutdownLogger()
		os.Exit(1)
	}
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			stdConsole.Errorf("Logger shutdown error: %v\n", err)
		}
	}
}
