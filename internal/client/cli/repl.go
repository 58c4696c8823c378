package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errNotLoggedIn = errors.New("please login first")

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Recover(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Passwd(ctx context.Context) error
	Suggest(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// Command errors are printed and the loop continues. It returns on EOF or
// "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "fb%s> ", statusFn())
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		var cmdErr error
		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: whoami, profile, passwd, suggest, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: register, login, recover, exit")
			}
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "recover":
			cmdErr = a.Recover(ctx)
		case "whoami", "profile", "passwd", "suggest", "logout":
			if !a.isLoggedIn() {
				cmdErr = errNotLoggedIn
				break
			}
			switch cmd {
			case "whoami":
				cmdErr = a.WhoAmI(ctx)
			case "profile":
				cmdErr = a.Profile(ctx)
			case "passwd":
				cmdErr = a.Passwd(ctx)
			case "suggest":
				cmdErr = a.Suggest(ctx)
			case "logout":
				cmdErr = a.Logout(ctx)
			}
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", cmdErr)
		}
	}
}
