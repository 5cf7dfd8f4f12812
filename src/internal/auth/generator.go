// FILE: src/internal/auth/generator.go
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

type GeneratorCommand struct {
	output io.Writer
	errOut io.Writer

	// Reads a password without echo
	readPassword func() ([]byte, error)
}

func NewGeneratorCommand() *GeneratorCommand {
	return &GeneratorCommand{
		output: os.Stdout,
		errOut: os.Stderr,
		readPassword: func() ([]byte, error) {
			return term.ReadPassword(int(os.Stdin.Fd()))
		},
	}
}

func (g *GeneratorCommand) Execute(args []string) error {
	cmd := flag.NewFlagSet("auth", flag.ContinueOnError)
	cmd.SetOutput(g.errOut)

	var (
		username = cmd.String("u", "", "Username for basic auth")
		password = cmd.String("p", "", "Password to hash (will prompt if not provided)")
		cost     = cmd.Int("c", bcrypt.DefaultCost, "bcrypt cost")
		genToken = cmd.Bool("t", false, "Generate random bearer token")
		tokenLen = cmd.Int("l", 32, "Token length in bytes")
	)

	cmd.Usage = func() {
		fmt.Fprintln(g.errOut, "Generate credentials for the Instaroid inspection API")
		fmt.Fprintln(g.errOut, "\nUsage: instaroid auth [options]")
		fmt.Fprintln(g.errOut, "\nExamples:")
		fmt.Fprintln(g.errOut, "  # Generate bcrypt hash for user")
		fmt.Fprintln(g.errOut, "  instaroid auth -u admin")
		fmt.Fprintln(g.errOut, "  ")
		fmt.Fprintln(g.errOut, "  # Generate 64-byte bearer token")
		fmt.Fprintln(g.errOut, "  instaroid auth -t -l 64")
		fmt.Fprintln(g.errOut, "\nOptions:")
		cmd.PrintDefaults()
	}

	if err := cmd.Parse(args); err != nil {
		return err
	}

	if *genToken {
		return g.generateToken(*tokenLen)
	}

	if *username == "" {
		cmd.Usage()
		return fmt.Errorf("username required for password hash generation")
	}

	return g.generatePasswordHash(*username, *password, *cost)
}

func (g *GeneratorCommand) generatePasswordHash(username, password string, cost int) error {
	if password == "" {
		pass1, err := g.promptPassword("Enter password: ")
		if err != nil {
			return err
		}
		pass2, err := g.promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if pass1 != pass2 {
			return fmt.Errorf("passwords don't match")
		}
		password = pass1
	}

	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	fmt.Fprintln(g.output, "\n# TOML Configuration (add to instaroid.toml):")
	fmt.Fprintln(g.output, "[[server.auth.basic_auth.users]]")
	fmt.Fprintf(g.output, "username = %q\n", username)
	fmt.Fprintf(g.output, "password_hash = %q\n", string(hash))

	return nil
}

func (g *GeneratorCommand) generateToken(length int) error {
	if length < 16 {
		fmt.Fprintln(g.errOut, "Warning: tokens < 16 bytes are cryptographically weak")
	}
	if length > 512 {
		return fmt.Errorf("token length exceeds maximum (512 bytes)")
	}
	if length < 1 {
		return fmt.Errorf("token length must be positive")
	}

	token := make([]byte, length)
	if _, err := rand.Read(token); err != nil {
		return fmt.Errorf("failed to generate random bytes: %w", err)
	}

	b64 := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(token)

	fmt.Fprintln(g.output, "\n# TOML Configuration (add to instaroid.toml):")
	fmt.Fprintln(g.output, "[server.auth.bearer_auth]")
	fmt.Fprintf(g.output, "tokens = [%q]\n\n", b64)

	fmt.Fprintln(g.output, "# Generated Token:")
	fmt.Fprintf(g.output, "%s\n", b64)

	return nil
}

func (g *GeneratorCommand) promptPassword(prompt string) (string, error) {
	fmt.Fprint(g.errOut, prompt)
	password, err := g.readPassword()
	fmt.Fprintln(g.errOut)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
