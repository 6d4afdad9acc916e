// Package cli provides the interactive Boundary console client.
//
// It wires configuration, the local credential store, the identity API
// client, and an interactive REPL over the auth flow controller. The App is
// the controller's presenter: state transitions and notices from the auth
// core are rendered here.
//
// Key commands:
//   - login / register / sendcode+verify — password and email-code sign-up
//   - magiclink — request a one-time sign-in link by email
//   - oauth / callback — provider sign-in with a pasted redirect URL
//   - whoami / logout
//
// The REPL is started via App.Run(ctx, startupURL), which blocks until the
// user exits. A non-empty startupURL resumes a pending flow (OAuth callback
// or emailed link) before the prompt appears.
package cli
