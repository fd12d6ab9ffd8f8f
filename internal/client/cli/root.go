package cli

import (
	"fmt"
	"strings"
)

// getStatus is shown in the prompt, e.g. "(alice@example.com online)".
func (a *App) getStatus() string {
	var parts []string

	s := a.sessions.Snapshot()
	switch {
	case s.HasLiveSession() && s.User != nil:
		parts = append(parts, s.User.Email)
	case s.User != nil:
		parts = append(parts, s.User.Email+" locked")
	case s.PendingVerificationEmail != "":
		parts = append(parts, s.PendingVerificationEmail+" unverified")
	}
	if m := a.currentMode(); m != "" {
		parts = append(parts, string(m))
	}

	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Snapshot().HasLiveSession()
}
