package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Where(ctx context.Context) error
	Go(ctx context.Context, href string) error
	Back(ctx context.Context) error
	Register(ctx context.Context) error
	Verify(ctx context.Context) error
	Login(ctx context.Context) error
	Unlock(ctx context.Context) error
	Passcode(ctx context.Context) error
	Onboarding(ctx context.Context, status string) error
	Profile(ctx context.Context) error
	Lock(ctx context.Context) error
	Logout(ctx context.Context, wipe bool) error
	Reload(ctx context.Context) error
}

// runREPL starts the read–eval–print loop of the wallet shell.
//
// It reads a line from r, parses the first token as the command and
// dispatches to methods on a. Command errors are printed and the loop goes
// on. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help              show available commands
//	  - where             current location and the guard's decision
//	  - go <href>         navigate, e.g. go /(tabs)/portfolio
//	  - back              previous screen
//	  - reload            remount the route guard
//	  - exit | quit       leave the program
//
//	Signed out:
//	  - register, verify  create an account and confirm the email
//	  - login             sign in with email and password
//	  - unlock            sign in with the passcode of the stored account
//
//	Signed in:
//	  - passcode          create and confirm a passcode
//	  - onboarding <s>    move onboarding to status s
//	  - profile           refresh and show the profile
//	  - lock              keep the account, require the passcode
//	  - logout [--wipe]   sign out; --wipe also forgets the welcome screen
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader, w io.Writer) {
	for {
		prompt := "wallet> "
		if s := statusFn(); s != "" {
			prompt = fmt.Sprintf("wallet %s> ", s)
		}
		fmt.Fprint(w, prompt)

		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: where, go <href>, back, passcode, onboarding <status>, profile, lock, logout [--wipe], reload, exit")
			} else {
				fmt.Fprintln(w, "Available commands: where, go <href>, back, register, verify, login, unlock, reload, exit")
			}

		case "where":
			cmdErr = a.Where(ctx)
		case "go":
			cmdErr = a.Go(ctx, arg)
		case "back":
			cmdErr = a.Back(ctx)
		case "register":
			cmdErr = a.Register(ctx)
		case "verify":
			cmdErr = a.Verify(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "unlock":
			cmdErr = a.Unlock(ctx)
		case "passcode":
			cmdErr = a.Passcode(ctx)
		case "onboarding":
			cmdErr = a.Onboarding(ctx, arg)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "lock":
			cmdErr = a.Lock(ctx)
		case "logout":
			cmdErr = a.Logout(ctx, arg == "--wipe")
		case "reload":
			cmdErr = a.Reload(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, errorStyle.Render("Error: "+cmdErr.Error()))
		}
	}
}
