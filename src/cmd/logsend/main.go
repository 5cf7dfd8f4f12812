// FILE: src/cmd/logsend/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"instaroid/src/internal/client"
	"instaroid/src/internal/config"
	"instaroid/src/internal/core"
	"instaroid/src/internal/source"

	"github.com/lixenwraith/log"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("logsend", flag.ContinueOnError)
	var (
		configFile = fs.String("config", "", "Config file path (uses the [client] section)")
		endpoint   = fs.String("endpoint", "", "Ingest URL, overrides client.endpoint")
		message    = fs.String("m", "", "Send a single message instead of reading stdin")
		levelName  = fs.String("level", "info", "Level for -m messages")
		component  = fs.String("component", "logsend", "Component name attached to every entry")
		dataJSON   = fs.String("data", "", "JSON object attached to the -m message")
		userID     = fs.String("user", "", "User id attached to every entry")
		verbose    = fs.Bool("verbose", false, "Log delivery diagnostics to stderr")
	)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "logsend - ship lines to an Instaroid ingress endpoint")
		fmt.Fprintln(os.Stderr, "\nUsage: logsend [options] [--client.key=value ...]")
		fmt.Fprintln(os.Stderr, "\nExamples:")
		fmt.Fprintln(os.Stderr, "  tail -f app.log | logsend -component api")
		fmt.Fprintln(os.Stderr, "  logsend -m 'deploy finished' -level warn -data '{\"release\":\"1.4\"}'")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		fs.PrintDefaults()
	}

	flags, overrides := splitArgs(args)
	if err := fs.Parse(flags); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(overrides, *configFile)
	if err != nil {
		return err
	}
	if *endpoint != "" {
		cfg.Client.Endpoint = *endpoint
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Shutdown(time.Second)

	local := client.NewMemoryStorage()
	if *userID != "" {
		local.Set("userId", *userID)
	}
	transport := client.NewHTTPTransport(cfg.Client.Endpoint,
		time.Duration(cfg.Client.TimeoutMS)*time.Millisecond, logger)
	defer transport.CloseIdleConnections()

	buf, err := client.NewBuffer(cfg.Client, transport,
		client.NewIdentity(client.NewMemoryStorage(), local), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	buf.Start(ctx)

	if *message != "" {
		err = sendOne(buf, *message, *levelName, *dataJSON, *component)
	} else {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Reading lines from stdin, Ctrl-D to finish")
		}
		err = source.NewLineSource(os.Stdin, buf, *component, logger).Run(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	}

	buf.Stop()
	if pending := buf.Pending(); pending > 0 {
		return fmt.Errorf("%d entries could not be delivered to %s", pending, cfg.Client.Endpoint)
	}
	return err
}

func sendOne(buf *client.Buffer, message, levelName, dataJSON, component string) error {
	level, err := core.ParseLevel(levelName)
	if err != nil {
		return err
	}

	// an explicit -level wins over a quieter client.level
	if !level.Enabled(buf.Level()) {
		buf.SetLevel(level)
	}

	var data core.Data
	if dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
			return fmt.Errorf("invalid -data object: %w", err)
		}
	}

	buf.Log(level, message, data, component)
	return nil
}

func newLogger(verbose bool) (*log.Logger, error) {
	logger := log.NewLogger()
	level := log.LevelWarn
	if verbose {
		level = log.LevelDebug
	}
	if err := logger.ApplyConfigString(
		"disable_file=true",
		"enable_console=true",
		"console_target=stderr",
		fmt.Sprintf("level=%d", level)); err != nil {
		return nil, err
	}
	return logger, logger.Start()
}

// splitArgs treats any --a.b=c style argument as a config override
func splitArgs(args []string) (flags, overrides []string) {
	for _, arg := range args {
		if strings.HasPrefix(arg, "--") {
			if key, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "="); strings.Contains(key, ".") {
				overrides = append(overrides, arg)
				continue
			}
		}
		flags = append(flags, arg)
	}
	return flags, overrides
}
