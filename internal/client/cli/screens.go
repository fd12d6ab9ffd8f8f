package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/gophwallet/internal/client/routing"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).PaddingRight(2)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type screen struct {
	title string
	hint  string
}

// screens is keyed by location path.
var screens = map[string]screen{
	"/":                 {"Welcome", "New here? 'go /(auth)/sign-up', then 'register'. Have an account? 'go /(auth)/sign-in', then 'login'."},
	"/sign-in":          {"Sign in", "Type 'login'."},
	"/sign-up":          {"Create account", "Type 'register'."},
	"/verify-email":     {"Verify your email", "Type 'verify' and enter the 6-digit code we sent."},
	"/login-passcode":   {"Welcome back", "Type 'unlock' and enter your passcode."},
	"/create-passcode":  {"Create a passcode", "Type 'passcode' to choose 6 digits."},
	"/confirm-passcode": {"Confirm your passcode", "Type 'passcode' to repeat it."},
	"/wallet":           {"Wallet", "Type 'go /(tabs)/portfolio' or 'go /(tabs)/settings'."},
	"/portfolio":        {"Portfolio", "Type 'onboarding <status>' to continue verification."},
	"/settings":         {"Settings", "Type 'profile', 'lock' or 'logout'."},
}

func screenFor(path string) screen {
	if s, ok := screens[path]; ok {
		return s
	}
	return screen{title: "Not found", hint: "Type 'back' or 'go /'."}
}

// render draws the screen for loc. Until the guard is ready only a neutral
// loading screen is shown. Showing the welcome screen sets the welcome flag.
func (a *App) render(ctx context.Context, loc routing.Location) {
	if !a.guard.Ready() {
		fmt.Fprintln(a.out, mutedStyle.Render("Loading..."))
		return
	}

	s := screenFor(loc.Path)
	fmt.Fprintln(a.out, titleStyle.Render(s.title))
	fmt.Fprintln(a.out, mutedStyle.Render(loc.Href()))
	fmt.Fprintln(a.out, s.hint)

	if loc.Path == "/" {
		if err := a.welcome.MarkSeen(ctx); err != nil {
			a.logger.Error(ctx, "mark welcome seen", "error", err)
		}
	}
}

func (a *App) printError(err error) {
	fmt.Fprintln(a.out, errorStyle.Render("Error: "+err.Error()))
}
