// FILE: src/cmd/instaroid/flags.go
package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// FlagConfig holds the process flags that are not part of the config file
type FlagConfig struct {
	ConfigFile  string
	ShowVersion bool
	Quiet       bool
	DumpConfig  string

	// Dotted --section.key=value arguments forwarded to the config loader
	Overrides []string
}

// ParseFlags separates config overrides from process flags and parses the latter
func ParseFlags(args []string, errOut io.Writer) (*FlagConfig, error) {
	flags, overrides := splitArgs(args)

	fc := &FlagConfig{Overrides: overrides}
	fs := flag.NewFlagSet("instaroid", flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.StringVar(&fc.ConfigFile, "config", "", "Config file path")
	fs.StringVar(&fc.ConfigFile, "c", "", "Config file path (shorthand)")
	fs.BoolVar(&fc.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&fc.ShowVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&fc.Quiet, "quiet", false, "Suppress all console output")
	fs.BoolVar(&fc.Quiet, "q", false, "Suppress all console output (shorthand)")
	fs.StringVar(&fc.DumpConfig, "dump-config", "", "Write the effective configuration to path and exit")

	if err := fs.Parse(flags); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return fc, nil
}

// splitArgs treats any --a.b=c style argument as a config override
func splitArgs(args []string) (flags, overrides []string) {
	for _, arg := range args {
		name := strings.TrimLeft(arg, "-")
		if strings.HasPrefix(arg, "--") {
			if key, _, _ := strings.Cut(name, "="); strings.Contains(key, ".") {
				overrides = append(overrides, arg)
				continue
			}
		}
		flags = append(flags, arg)
	}
	return flags, overrides
}
