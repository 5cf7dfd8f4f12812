// FILE: src/cmd/instaroid/commands/router.go
package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Handler is implemented by every subcommand
type Handler interface {
	Execute(args []string) error
	Description() string
	Help() string
}

// CommandRouter dispatches os.Args to a subcommand before the server starts
type CommandRouter struct {
	commands map[string]Handler
}

func NewCommandRouter() *CommandRouter {
	router := &CommandRouter{
		commands: make(map[string]Handler),
	}

	router.commands["auth"] = NewAuthCommand()
	router.commands["version"] = NewVersionCommand()
	router.commands["help"] = NewHelpCommand(router)

	return router
}

// Route runs the subcommand named by args[1]. It reports false when args
// belong to the server itself (no arguments, or a leading flag).
func (r *CommandRouter) Route(args []string) (bool, error) {
	if len(args) < 2 || args[1] == "" {
		return false, nil
	}

	cmdName := args[1]
	handler, exists := r.commands[cmdName]

	for _, arg := range args[1:] {
		if arg == "-h" || arg == "--help" {
			if exists && cmdName != "help" {
				fmt.Print(handler.Help())
				return true, nil
			}
			return true, r.commands["help"].Execute(nil)
		}
	}

	if !exists {
		if !strings.HasPrefix(cmdName, "-") {
			return false, fmt.Errorf("unknown command: %s\n\nRun 'instaroid help' for usage", cmdName)
		}
		return false, nil
	}

	return true, handler.Execute(args[2:])
}

func (r *CommandRouter) GetCommand(name string) (Handler, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// Names returns the registered command names in sorted order
func (r *CommandRouter) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ShowCommands writes the aligned command list to w
func (r *CommandRouter) ShowCommands(w io.Writer) {
	for _, name := range r.Names() {
		fmt.Fprintf(w, "  %-10s %s\n", name, r.commands[name].Description())
	}
	fmt.Fprintln(w, "\nUse 'instaroid <command> --help' for command-specific help")
}
