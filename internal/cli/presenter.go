package cli

import (
	"context"
	"fmt"

	"github.com/teamgensourei/boundary/internal/authflow"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// StateChanged renders an auth state transition.
func (a *App) StateChanged(ctx context.Context, snap authflow.Snapshot) {
	switch snap.State {
	case authflow.StateAuthenticated:
		if snap.Session != nil && snap.Session.User != nil {
			u := snap.Session.User
			printlnFn(fmt.Sprintf("Signed in as %s <%s>", u.DisplayName, u.Email))
		} else {
			printlnFn("Signed in.")
		}
	case authflow.StateAwaitingEmailCode:
		if snap.Pending != nil {
			printlnFn(fmt.Sprintf("A verification code was sent to %s. Use 'verify' to finish.", snap.Pending.Email))
		}
	case authflow.StateAwaitingOAuthCallback:
		printlnFn("Waiting for the provider callback. Paste the redirect URL with 'callback'.")
	case authflow.StateUnauthenticated:
		printlnFn("Signed out.")
	}
}

// Notice renders an informational message from the auth core.
func (a *App) Notice(ctx context.Context, message string) {
	printlnFn(message)
}

// strengthBar renders a 4-segment meter for a 0-100 score.
func strengthBar(score int) string {
	filled := score / 25
	bar := ""
	for i := 0; i < 4; i++ {
		if i < filled {
			bar += "#"
		} else {
			bar += "-"
		}
	}
	label := "weak"
	switch {
	case score == 100:
		label = "strong"
	case score >= 50:
		label = "fair"
	}
	return fmt.Sprintf("[%s] %s", bar, label)
}
