package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

type visibility int

const (
	always visibility = iota
	guestOnly
	memberOnly
)

type command struct {
	names []string
	usage string
	help  string
	shown visibility
	run   func(ctx context.Context, args []string) error
}

// execIface is the command surface the REPL drives. The real App satisfies
// it; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	commands() []command
	// afterCommand runs once per input line, after the command returned.
	afterCommand(ctx context.Context)
}

// runREPL reads commands from reader until EOF, "exit" or "quit", or until
// ctx is cancelled. The first word of a line selects the command; the rest
// are its arguments. Command errors are not printed here: handlers report
// their own failures to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for ctx.Err() == nil {
		fmt.Fprintf(w, "quotehub (%s)> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := strings.ToLower(parts[0]), parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "help", "?":
			printHelp(w, a.commands(), a.isLoggedIn())
			continue
		}

		cmd, ok := findCommand(a.commands(), name)
		if !ok {
			fmt.Fprintln(w, "Unknown command:", name)
			continue
		}
		_ = cmd.run(ctx, args)
		a.afterCommand(ctx)
	}
}

func findCommand(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		for _, n := range c.names {
			if n == name {
				return c, true
			}
		}
	}
	return command{}, false
}

func printHelp(w io.Writer, cmds []command, loggedIn bool) {
	fmt.Fprintln(w, "Available commands:")
	for _, c := range cmds {
		if (c.shown == guestOnly && loggedIn) || (c.shown == memberOnly && !loggedIn) {
			continue
		}
		fmt.Fprintf(w, "  %-28s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(w, "  %-28s %s\n", "exit", "leave the program")
}
