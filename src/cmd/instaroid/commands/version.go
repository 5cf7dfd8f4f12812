// FILE: src/cmd/instaroid/commands/version.go
package commands

import (
	"fmt"

	"instaroid/src/internal/version"
)

type VersionCommand struct{}

func NewVersionCommand() *VersionCommand {
	return &VersionCommand{}
}

func (c *VersionCommand) Execute(args []string) error {
	fmt.Println(version.String())
	return nil
}

func (c *VersionCommand) Description() string {
	return "Show version information"
}

func (c *VersionCommand) Help() string {
	return `Version Command - Show Instaroid version information

Usage:
  instaroid version
  instaroid -v
  instaroid --version
`
}
