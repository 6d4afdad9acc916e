package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	SendCode(ctx context.Context) error
	Verify(ctx context.Context) error
	MagicLink(ctx context.Context) error
	OAuth(ctx context.Context) error
	Callback(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
}

func (a *App) repl(ctx context.Context) {
	printlnFn("Boundary console (type 'help' for commands)")
	runREPL(ctx, a, bufio.NewScanner(os.Stdin))
}

// runREPL reads a line, parses the first token as the command, and dispatches
// to methods on 'a'. Unknown commands are reported back to the user. The loop
// exits on scanner EOF or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are prompt-level I/O failures;
// flow errors are rendered by the handlers themselves.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		status := ""
		if a.isLoggedIn() {
			status = "(signed in) "
		}
		printlnFn(fmt.Sprintf("boundary %s> ", status))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, logout, exit")
			} else {
				printlnFn("Available commands: login, register, sendcode, verify, magiclink, oauth, callback, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "sendcode":
			_ = a.SendCode(ctx)

		case "verify":
			_ = a.Verify(ctx)

		case "magiclink":
			_ = a.MagicLink(ctx)

		case "oauth":
			_ = a.OAuth(ctx)

		case "callback":
			_ = a.Callback(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", parts[0])
		}
	}
}

// parseCallbackURL extracts code, state and the provider error from a pasted
// redirect URL.
func parseCallbackURL(raw string) (code, state, providerErr string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", "", err
	}
	q := u.Query()
	return q.Get("code"), q.Get("state"), q.Get("error"), nil
}
