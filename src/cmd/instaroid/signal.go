// FILE: src/cmd/instaroid/signal.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/log"
)

// SignalHandler waits for termination signals. SIGHUP logs a status report instead.
type SignalHandler struct {
	logger  *log.Logger
	sigChan chan os.Signal
	onHUP   func()
}

func NewSignalHandler(logger *log.Logger, onHUP func()) *SignalHandler {
	sh := &SignalHandler{
		logger:  logger,
		sigChan: make(chan os.Signal, 1),
		onHUP:   onHUP,
	}

	signal.Notify(sh.sigChan,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)

	return sh
}

// Wait returns the terminating signal, or nil when ctx is done first
func (sh *SignalHandler) Wait(ctx context.Context) os.Signal {
	for {
		select {
		case sig := <-sh.sigChan:
			if sig == syscall.SIGHUP {
				sh.logger.Info("msg", "Status signal received", "signal", sig)
				if sh.onHUP != nil {
					sh.onHUP()
				}
				continue
			}
			return sig
		case <-ctx.Done():
			return nil
		}
	}
}

func (sh *SignalHandler) Stop() {
	signal.Stop(sh.sigChan)
}
