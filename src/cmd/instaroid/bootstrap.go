// FILE: src/cmd/instaroid/bootstrap.go
package main

import (
	"fmt"
	"strings"

	"instaroid/src/internal/config"
	"instaroid/src/internal/ingress"
	"instaroid/src/internal/sink"
	"instaroid/src/internal/version"

	"github.com/lixenwraith/log"
)

// bootstrapServer creates the sink and the ingress server in front of it, then starts listening
func bootstrapServer(cfg *config.Config, out *console) (*ingress.Server, error) {
	s := sink.New(cfg.Server.Sink, logger)

	srv, err := ingress.New(cfg.Server, s, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingress server: %w", err)
	}

	if err := srv.Start(); err != nil {
		return nil, err
	}

	logger.Info("msg", "Instaroid started",
		"version", version.Short(),
		"address", srv.Addr(),
		"capacity", cfg.Server.Sink.Capacity)

	displayEndpoints(out, cfg.Server)
	return srv, nil
}

// displayEndpoints prints the reachable routes for the operator
func displayEndpoints(out *console, cfg *config.ServerConfig) {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	scheme := "http"
	if cfg.TLS != nil && cfg.TLS.Enabled {
		scheme = "https"
	}
	base := fmt.Sprintf("%s://%s:%d", scheme, host, cfg.Port)

	out.Printf("Ingest:   POST   %s%s\n", base, cfg.IngestPath)
	out.Printf("Inspect:  GET    %s%s  (DELETE to clear)\n", base, cfg.IngestPath)
	out.Printf("Stats:    GET    %s%s/stats\n", base, cfg.IngestPath)
	out.Printf("Health:   GET    %s/health\n", base)
	if cfg.MetricsPath != "" {
		out.Printf("Metrics:  GET    %s%s\n", base, cfg.MetricsPath)
	}
}

// initializeLogger sets up the process logger from the logging section
func initializeLogger(cfg *config.Config) error {
	args, err := loggerArgs(cfg)
	if err != nil {
		return err
	}

	logger = log.NewLogger()
	if err := logger.ApplyConfigString(args...); err != nil {
		return err
	}
	return logger.Start()
}

// loggerArgs translates the logging section into key=value overrides for the logger
func loggerArgs(cfg *config.Config) ([]string, error) {
	if cfg.Quiet {
		return []string{
			"disable_file=true",
			"enable_console=false",
			"level=255",
		}, nil
	}

	levelValue, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	args := []string{fmt.Sprintf("level=%d", levelValue)}

	switch cfg.Logging.Output {
	case "none":
		args = append(args, "disable_file=true", "enable_console=false")

	case "stdout", "stderr":
		args = append(args,
			"disable_file=true",
			"enable_console=true",
			"console_target="+cfg.Logging.Output)

	case "file":
		args = append(args, "disable_file=false", "enable_console=false")
		args = appendFileArgs(args, cfg.Logging)

	case "both":
		args = append(args, "disable_file=false", "enable_console=true")
		args = appendFileArgs(args, cfg.Logging)
		args = appendConsoleTarget(args, cfg.Logging)

	default:
		return nil, fmt.Errorf("invalid log output mode: %s", cfg.Logging.Output)
	}

	if cfg.Logging.Console != nil && cfg.Logging.Console.Format != "" {
		args = append(args, "format="+cfg.Logging.Console.Format)
	}
	return args, nil
}

// appendFileArgs adds rotation settings. The logger's max_size_mb and
// max_total_size_mb keys take kilobytes.
func appendFileArgs(args []string, cfg *config.LogConfig) []string {
	if cfg.File == nil {
		return args
	}
	args = append(args,
		"directory="+cfg.File.Directory,
		"name="+cfg.File.Name,
		fmt.Sprintf("max_size_mb=%d", cfg.File.MaxSizeMB*1024),
		fmt.Sprintf("max_total_size_mb=%d", cfg.File.MaxTotalSizeMB*1024))

	if cfg.File.RetentionHours > 0 {
		args = append(args, fmt.Sprintf("retention_period_hrs=%.1f", cfg.File.RetentionHours))
	}
	return args
}

func appendConsoleTarget(args []string, cfg *config.LogConfig) []string {
	target := "stderr"
	if cfg.Console != nil && cfg.Console.Target != "" {
		target = cfg.Console.Target
	}
	return append(args, "console_target="+target)
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
