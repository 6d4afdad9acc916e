package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) SendCode(ctx context.Context) error {
	f.calls = append(f.calls, "sendcode")
	return nil
}
func (f *fakeExec) Verify(ctx context.Context) error {
	f.calls = append(f.calls, "verify")
	return nil
}
func (f *fakeExec) MagicLink(ctx context.Context) error {
	f.calls = append(f.calls, "magiclink")
	return nil
}
func (f *fakeExec) OAuth(ctx context.Context) error {
	f.calls = append(f.calls, "oauth")
	return nil
}
func (f *fakeExec) Callback(ctx context.Context) error {
	f.calls = append(f.calls, "callback")
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}

func muteOutput(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRunREPL_DispatchAndExit(t *testing.T) {
	muteOutput(t)

	input := strings.Join([]string{
		"help",
		"sendcode",
		"verify",
		"login",
		"help",
		"whoami",
		"",
		"nonsense",
		"logout",
		"exit",
		"whoami", // never reached
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, bufio.NewScanner(strings.NewReader(input)))

	assert.Equal(t, []string{"sendcode", "verify", "login", "whoami", "logout"}, exec.calls)
}

func TestRunREPL_EOFStopsLoop(t *testing.T) {
	muteOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, bufio.NewScanner(strings.NewReader("oauth\ncallback\n")))

	assert.Equal(t, []string{"oauth", "callback"}, exec.calls)
}

func TestParseCallbackURL(t *testing.T) {
	code, state, providerErr, err := parseCallbackURL(" https://app.example.com/?code=c1&state=s1 ")
	require.NoError(t, err)
	assert.Equal(t, "c1", code)
	assert.Equal(t, "s1", state)
	assert.Empty(t, providerErr)

	_, _, providerErr, err = parseCallbackURL("https://app.example.com/?error=access_denied")
	require.NoError(t, err)
	assert.Equal(t, "access_denied", providerErr)
}

func TestStrengthBar(t *testing.T) {
	assert.Equal(t, "[----] weak", strengthBar(0))
	assert.Equal(t, "[#---] weak", strengthBar(25))
	assert.Equal(t, "[##--] fair", strengthBar(50))
	assert.Equal(t, "[####] strong", strengthBar(100))
}
