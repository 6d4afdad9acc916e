package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/teamgensourei/boundary/internal/authflow"
	"github.com/teamgensourei/boundary/internal/password"
	"github.com/teamgensourei/boundary/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// reportFlowErr prints a flow error in user terms. Validation problems and
// double submissions are ordinary dialogue, not failures.
func reportFlowErr(err error) {
	if err == nil {
		return
	}
	var vErr *authflow.ValidationError
	if errors.As(err, &vErr) {
		printlnFn(vErr.Message)
		return
	}
	if errors.Is(err, authflow.ErrInFlight) {
		printlnFn("Still working on the previous request.")
		return
	}
	printlnFn("Error:", err)
}

// Login prompts for an identifier and password and runs the password flow.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter username or scratch", os.Stdout)
	if err != nil {
		return err
	}

	pass, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(pass)

	reportFlowErr(a.controller.SubmitLogin(ctx, identifier, string(pass)))
	return nil
}

// newPassword prompts for a password and its confirmation, showing the
// strength meter after the first entry.
func (a *App) newPassword() ([]byte, []byte, error) {
	pass, err := getPassword("Choose a password", os.Stdout)
	if err != nil {
		return nil, nil, err
	}
	printlnFn("Strength:", strengthBar(password.StrengthScore(string(pass))))

	confirm, err := getPassword("Confirm password", os.Stdout)
	if err != nil {
		shared.WipeByteArray(pass)
		return nil, nil, err
	}
	return pass, confirm, nil
}

// Register runs the single-step registration.
func (a *App) Register(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	pass, confirm, err := a.newPassword()
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(pass)
	defer shared.WipeByteArray(confirm)

	reportFlowErr(a.controller.SubmitRegistration(ctx, identifier, email, string(pass), string(confirm)))
	return nil
}

// SendCode starts the two-step registration by mailing a code.
func (a *App) SendCode(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	reportFlowErr(a.controller.SubmitSendCode(ctx, identifier, email))
	return nil
}

// Verify finishes the two-step registration with the mailed code.
func (a *App) Verify(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter the code from the email", os.Stdout)
	if err != nil {
		return err
	}

	pass, confirm, err := a.newPassword()
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(pass)
	defer shared.WipeByteArray(confirm)

	reportFlowErr(a.controller.SubmitVerifyCode(ctx, code, string(pass), string(confirm)))
	return nil
}

// MagicLink asks the server to mail a one-time sign-in link.
func (a *App) MagicLink(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	reportFlowErr(a.controller.RequestMagicLink(ctx, email))
	return nil
}

// OAuth starts the provider sign-in and prints the URL to open.
func (a *App) OAuth(ctx context.Context) error {
	authorizeURL, err := a.controller.StartOAuth(ctx)
	if err != nil {
		reportFlowErr(err)
		return nil
	}
	printlnFn("Open this URL in a browser to continue:")
	printlnFn(authorizeURL)
	printlnFn("Then paste the redirect URL here with the 'callback' command.")
	return nil
}

// Callback consumes the pasted redirect URL of a pending OAuth flow.
func (a *App) Callback(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Paste the redirect URL", os.Stdout)
	if err != nil {
		return err
	}

	code, state, providerErr, err := parseCallbackURL(raw)
	if err != nil {
		printlnFn("That does not look like a redirect URL:", err)
		return nil
	}

	reportFlowErr(a.controller.CompleteOAuth(ctx, code, state, providerErr))
	return nil
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	reportFlowErr(a.controller.Logout(ctx))
	return nil
}

// WhoAmI prints the current session's profile.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.controller.Snapshot()
	if snap.State != authflow.StateAuthenticated || snap.Session == nil || snap.Session.User == nil {
		printlnFn("Not signed in.")
		return nil
	}
	u := snap.Session.User
	printlnFn(fmt.Sprintf("%s <%s> level %d verified=%t since %s",
		u.DisplayName, u.Email, u.Level, u.Verified, u.CreatedAt.Format("2006-01-02")))
	return nil
}
