package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophwallet/internal/client/routing"
	"github.com/dmitrijs2005/gophwallet/internal/client/services"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getSecret     = GetSecret
)

var errUsage = errors.New("usage")

// Register prompts for an email and a password, creates the account and
// opens the verification screen.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getSecret(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}

	if err := a.auth.Register(ctx, email, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Check your inbox for a 6-digit code.")
	a.history.Push(routing.RouteVerifyEmail)
	return nil
}

// Verify submits the emailed code for the pending registration.
func (a *App) Verify(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter the 6-digit code", a.out)
	if err != nil {
		return err
	}
	if err := a.auth.VerifyEmail(ctx, code); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Email verified.")
	a.afterSignIn()
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getSecret(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	if err := a.auth.Login(ctx, email, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Signed in.")
	a.afterSignIn()
	return nil
}

// afterSignIn sends a user without a passcode to create one and everyone
// else to the tabs.
func (a *App) afterSignIn() {
	if u := a.sessions.Snapshot().User; u != nil && !u.HasPasscode {
		a.history.Push(routing.RouteCreatePasscode)
		return
	}
	a.history.Replace(routing.RouteTabs)
}

// Unlock opens a session for the stored account with its passcode.
func (a *App) Unlock(ctx context.Context) error {
	passcode, err := getSecret(a.reader, "Enter passcode", a.out)
	if err != nil {
		return err
	}
	if err := a.auth.UnlockWithPasscode(ctx, passcode); err != nil {
		return err
	}
	a.history.Replace(routing.RouteTabs)
	return nil
}

// Passcode walks through the create and confirm screens. A mismatch returns
// to the create screen.
func (a *App) Passcode(ctx context.Context) error {
	if a.history.Location().Path != "/create-passcode" {
		a.history.Push(routing.RouteCreatePasscode)
	}

	first, err := getSecret(a.reader, "Choose a 6-digit passcode", a.out)
	if err != nil {
		return err
	}
	if err := a.auth.CreatePasscode(ctx, first); err != nil {
		return err
	}

	a.history.Replace(routing.RouteConfirmPasscode)
	second, err := getSecret(a.reader, "Repeat the passcode", a.out)
	if err != nil {
		return err
	}
	if err := a.auth.ConfirmPasscode(ctx, second); err != nil {
		if errors.Is(err, services.ErrPasscodeMismatch) {
			a.history.Replace(routing.RouteCreatePasscode)
		}
		return err
	}

	fmt.Fprintln(a.out, "Passcode saved.")
	a.history.Replace(routing.RouteTabs)
	return nil
}

func (a *App) Onboarding(ctx context.Context, status string) error {
	if status == "" {
		return fmt.Errorf("%w: onboarding <status>", errUsage)
	}
	if err := a.auth.AdvanceOnboarding(ctx, status); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Onboarding:", a.sessions.Snapshot().EffectiveOnboardingStatus())
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	if err := a.auth.RefreshProfile(ctx); err != nil {
		return err
	}
	u := a.sessions.Snapshot().User
	if u == nil {
		return nil
	}
	fmt.Fprintf(a.out, "id: %s\nemail: %s\npasscode: %t\nonboarding: %s\n", u.ID, u.Email, u.HasPasscode, u.OnboardingStatus)
	return nil
}

// Lock keeps the account on the device and returns to the unlock screen,
// or to sign-in when no passcode is set.
func (a *App) Lock(ctx context.Context) error {
	if err := a.auth.Lock(ctx); err != nil {
		return err
	}
	if u := a.sessions.Snapshot().User; u != nil && u.HasPasscode {
		a.history.Replace(routing.RouteLoginPasscode)
	} else {
		a.history.Replace(routing.RouteSignIn)
	}
	return nil
}

func (a *App) Logout(ctx context.Context, wipe bool) error {
	if err := a.auth.Logout(ctx, wipe); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	a.history.Replace(routing.RouteWelcome)
	return nil
}

// Where prints the current location and the guard's latest decision.
func (a *App) Where(context.Context) error {
	loc := a.history.Location()
	d := a.guard.LastDecision()

	fmt.Fprintln(a.out, "location:", loc.Href())
	if d.State != nil {
		fmt.Fprintf(a.out, "state: %s\ndecision: %s\n", d.State, d.Reason)
	}
	fmt.Fprintln(a.out, "redirected:", a.guard.HasRedirected())
	return nil
}

func (a *App) Go(_ context.Context, href string) error {
	if href == "" {
		return fmt.Errorf("%w: go <href>", errUsage)
	}
	a.history.Push(href)
	return nil
}

func (a *App) Back(context.Context) error {
	if !a.history.Back() {
		return errors.New("already on the first screen")
	}
	return nil
}

// Reload remounts the guard, which re-validates the session and re-arms
// the one-shot redirect.
func (a *App) Reload(ctx context.Context) error {
	a.guard.Unmount()
	if err := a.guard.Mount(ctx); err != nil {
		return err
	}
	if !a.guard.HasRedirected() {
		a.render(ctx, a.history.Location())
	}
	return nil
}
