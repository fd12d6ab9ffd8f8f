package routing

import "github.com/dmitrijs2005/gophwallet/internal/client/models"

// Decision is the outcome of one evaluation. An empty Target means stay.
type Decision struct {
	State  AuthState
	Target string
	Reason string
}

// Redirect reports whether the decision asks for navigation.
func (d Decision) Redirect() bool {
	return d.Target != ""
}

// DetermineRoute returns the href the user should be moved to, or ok=false
// when the current location is already right. It is pure.
func DetermineRoute(session models.Session, cfg RouteConfig, hasSeenWelcome bool) (target string, ok bool) {
	d := Decide(session, cfg, hasSeenWelcome)
	return d.Target, d.Redirect()
}

// Decide classifies the session and runs the matching branch.
func Decide(session models.Session, cfg RouteConfig, hasSeenWelcome bool) Decision {
	state := ClassifySession(session)
	d := decideFor(state, cfg, hasSeenWelcome)
	d.State = state
	return d
}

func decideFor(state AuthState, cfg RouteConfig, hasSeenWelcome bool) Decision {
	switch s := state.(type) {
	case Authenticated:
		return authenticatedRoute(s, cfg)
	case StoredCredentials:
		return storedCredentialsRoute(s, cfg)
	case PendingVerification:
		return pendingVerificationRoute(cfg)
	case Guest:
		return guestRoute(cfg, hasSeenWelcome)
	default:
		return stay("unclassified session")
	}
}

func authenticatedRoute(s Authenticated, cfg RouteConfig) Decision {
	switch {
	case cfg.InCriticalFlow():
		return stay("critical flow in progress")
	case s.OnboardingStatus == models.OnboardingCompleted && cfg.InTabsGroup:
		return stay("onboarded user in tabs")
	case !cfg.InTabsGroup:
		return redirect(RouteTabs, "authenticated outside tabs")
	default:
		return stay("authenticated user in tabs")
	}
}

func storedCredentialsRoute(s StoredCredentials, cfg RouteConfig) Decision {
	switch {
	case cfg.InAuthGroup:
		return stay("auth flow manages its own screens")
	case s.User.HasPasscode && !cfg.IsOnLoginPasscode:
		return redirect(RouteLoginPasscode, "returning user must enter passcode")
	case !s.User.HasPasscode && !cfg.IsOnWelcomeScreen:
		return redirect(RouteSignIn, "account setup incomplete")
	default:
		return stay("stored credentials on welcome")
	}
}

// A pending registration sitting on the welcome screen is left alone.
func pendingVerificationRoute(cfg RouteConfig) Decision {
	switch {
	case cfg.IsOnVerifyEmail:
		return stay("verifying email")
	case !cfg.IsOnWelcomeScreen:
		return redirect(RouteVerifyEmail, "email verification pending")
	default:
		return stay("pending verification on welcome")
	}
}

func guestRoute(cfg RouteConfig, hasSeenWelcome bool) Decision {
	switch {
	case hasSeenWelcome && cfg.InAuthGroup:
		return stay("guest in auth flow")
	case !hasSeenWelcome && !cfg.IsOnWelcomeScreen:
		return redirect(RouteWelcome, "welcome not seen")
	case cfg.InTabsGroup || (!cfg.InAuthGroup && !cfg.IsOnWelcomeScreen):
		return redirect(RouteWelcome, "guest outside public screens")
	default:
		return stay("guest on public screen")
	}
}

func stay(reason string) Decision {
	return Decision{Reason: reason}
}

func redirect(target, reason string) Decision {
	return Decision{Target: target, Reason: reason}
}
