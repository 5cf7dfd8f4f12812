// FILE: src/cmd/instaroid/output.go
package main

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// console carries operator-facing text that is not part of the structured log:
// the endpoint banner, dump-config confirmations and fatal startup errors.
// Quiet mode drops the informational lines; errors are always written.
type console struct {
	quiet bool
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
}

func newConsole(quiet bool, out, err io.Writer) *console {
	return &console{quiet: quiet, out: out, err: err}
}

// stdConsole is the process console, replaced once flags are parsed
var stdConsole = newConsole(false, os.Stdout, os.Stderr)

func (c *console) Printf(format string, args ...any) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) Errorf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.err, format, args...)
}

// Exit reports an error and terminates with code
func (c *console) Exit(code int, format string, args ...any) {
	c.Errorf(format, args...)
	os.Exit(code)
}
