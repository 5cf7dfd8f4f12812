// FILE: src/cmd/instaroid/commands/help.go
package commands

import (
	"fmt"
	"strings"
)

const generalHelpTemplate = `Instaroid: telemetry ingress and log inspection for Instaroid clients.

Usage:
  instaroid [command] [options]
  instaroid [options] [--section.key=value ...]

Commands:
%s

Server Options:
  -c, --config <path>        Path to configuration file (default: ~/.config/instaroid.toml)
  -h, --help                 Display this help message and exit
  -v, --version              Display version information and exit
  -q, --quiet                Suppress all console output, including errors
      --dump-config <path>   Write the effective configuration as TOML and exit

Configuration Sources (Precedence: CLI > Env > File > Defaults):
  --server.port=4000                     CLI override of any config key
  INSTAROID_SERVER_PORT=4000             Environment override
  INSTAROID_CONFIG_FILE, INSTAROID_CONFIG_DIR
  INSTAROID_DISABLE_STATUS_REPORTER=1    Disable the periodic status report

Examples:
  # Start on a custom port with JSON console lines
  instaroid --server.port=4000 --server.sink.format=json

  # Protect the inspection API with a bcrypt user
  instaroid auth -u admin >> ~/.config/instaroid.toml
`

// HelpCommand prints general or per-command help
type HelpCommand struct {
	router *CommandRouter
}

func NewHelpCommand(router *CommandRouter) *HelpCommand {
	return &HelpCommand{router: router}
}

func (c *HelpCommand) Execute(args []string) error {
	if len(args) > 0 && args[0] != "" {
		if handler, exists := c.router.GetCommand(args[0]); exists {
			fmt.Print(handler.Help())
			return nil
		}
		return fmt.Errorf("unknown command: %s", args[0])
	}

	fmt.Printf(generalHelpTemplate, c.formatCommandList())
	return nil
}

func (c *HelpCommand) Description() string {
	return "Display help information"
}

func (c *HelpCommand) Help() string {
	return `Help Command - Display help information

Usage:
  instaroid help              Show general help
  instaroid help <command>    Show help for a specific command
`
}

// formatCommandList aligns descriptions after the longest command name
func (c *HelpCommand) formatCommandList() string {
	names := c.router.Names()
	maxLen := 0
	for _, name := range names {
		maxLen = max(maxLen, len(name))
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		handler, _ := c.router.GetCommand(name)
		padding := strings.Repeat(" ", maxLen-len(name)+2)
		lines = append(lines, fmt.Sprintf("  %s%s%s", name, padding, handler.Description()))
	}
	return strings.Join(lines, "\n")
}
