package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kaanoon/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isResolving() bool
	Navigate(ctx context.Context, nav session.NavigationIntent)
	Login(ctx context.Context) error
	GoogleLogin(ctx context.Context) error
	Signup(ctx context.Context) error
	Verify(ctx context.Context, code string) error
	Resend(ctx context.Context) error
	Status(ctx context.Context) error
	Back(ctx context.Context) error
	Profile(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the kaanoon CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	While the session is loading only exit | quit is accepted.
//
//	Not logged in:
//	  - help             show available commands
//	  - login            sign in with email and password
//	  - google           sign in with Google
//	  - signup           create an account
//	  - verify [code]    verify the emailed code
//	  - resend           send a new code
//	  - status           show the code and resend countdown
//	  - back             abandon verification
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - help             show available commands
//	  - profile          show the account card
//	  - logout           sign out
//	  - exit | quit      leave the program
//
// Public commands used while signed in show the dashboard instead; signed-in
// commands used while signed out send the user to login. Errors returned by
// command handlers are ignored here; handlers print their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("kaanoon %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if a.isResolving() {
			printlnFn("Loading...")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, logout, exit")
			} else {
				printlnFn("Available commands: login, google, signup, verify [code], resend, status, back, exit")
			}

		case "login", "google", "signup", "verify", "resend", "status", "back":
			if a.isLoggedIn() {
				a.Navigate(ctx, session.Go(session.NavigateDashboard))
				continue
			}
			switch cmd {
			case "login":
				_ = a.Login(ctx)
			case "google":
				_ = a.GoogleLogin(ctx)
			case "signup":
				_ = a.Signup(ctx)
			case "verify":
				code := ""
				if len(args) > 0 {
					code = strings.Join(args, "")
				}
				_ = a.Verify(ctx, code)
			case "resend":
				_ = a.Resend(ctx)
			case "status":
				_ = a.Status(ctx)
			case "back":
				_ = a.Back(ctx)
			}

		case "profile", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please sign in first.")
				a.Navigate(ctx, session.Go(session.NavigateLogin))
				continue
			}
			if cmd == "profile" {
				_ = a.Profile(ctx)
			} else {
				_ = a.Logout(ctx)
			}

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
