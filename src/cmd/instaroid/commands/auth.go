// FILE: src/cmd/instaroid/commands/auth.go
package commands

import (
	"instaroid/src/internal/auth"
)

// AuthCommand generates credentials for the inspection API
type AuthCommand struct {
	gen *auth.GeneratorCommand
}

func NewAuthCommand() *AuthCommand {
	return &AuthCommand{gen: auth.NewGeneratorCommand()}
}

func (c *AuthCommand) Execute(args []string) error {
	return c.gen.Execute(args)
}

func (c *AuthCommand) Description() string {
	return "Generate authentication credentials (bcrypt users, bearer tokens)"
}

func (c *AuthCommand) Help() string {
	return `Auth Command - Generate credentials for the inspection API

Usage:
  instaroid auth -u <username> [-p <password>] [-c <cost>]
  instaroid auth -t [-l <bytes>]

Options:
  -u    Username for basic auth; prompts for the password when -p is omitted
  -p    Password to hash
  -c    bcrypt cost
  -t    Generate a random bearer token
  -l    Token length in bytes (default 32)

The output is a TOML snippet for the [server.auth] section.
`
}
