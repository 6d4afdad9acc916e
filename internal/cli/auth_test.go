package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamgensourei/boundary/internal/api"
	"github.com/teamgensourei/boundary/internal/authflow"
	"github.com/teamgensourei/boundary/internal/logging"
	"github.com/teamgensourei/boundary/internal/models"
)

// stubClient answers every auth operation with a fixed result.
type stubClient struct {
	res *api.AuthResult
	err error
}

func (s *stubClient) Login(ctx context.Context, identifier, password string) (*api.AuthResult, error) {
	return s.res, s.err
}
func (s *stubClient) RegisterDirect(ctx context.Context, identifier, email, password string) (*api.RegisterResult, error) {
	if s.res == nil {
		return nil, s.err
	}
	return &api.RegisterResult{AuthResult: *s.res}, s.err
}
func (s *stubClient) RegisterSendCode(ctx context.Context, identifier, email string) error {
	return s.err
}
func (s *stubClient) RegisterVerifyCode(ctx context.Context, email, code, password string) (*api.AuthResult, error) {
	return s.res, s.err
}
func (s *stubClient) RequestMagicLink(ctx context.Context, email string) (string, error) {
	return "", s.err
}
func (s *stubClient) ConsumeMagicLink(ctx context.Context, token string) (*api.AuthResult, error) {
	return s.res, s.err
}
func (s *stubClient) VerifyEmailToken(ctx context.Context, token string) (*api.AuthResult, error) {
	return s.res, s.err
}
func (s *stubClient) ExchangeOAuthCode(ctx context.Context, code, verifier string) (*api.AuthResult, error) {
	return s.res, s.err
}
func (s *stubClient) Logout(ctx context.Context, token string) error { return s.err }
func (s *stubClient) Close() error                                   { return nil }

// nullStore drops everything.
type nullStore struct{}

func (nullStore) SaveSession(ctx context.Context, s *models.Session) error  { return nil }
func (nullStore) LoadSession(ctx context.Context) (*models.Session, error)  { return nil, nil }
func (nullStore) ClearSession(ctx context.Context) error                    { return nil }
func (nullStore) SavePKCE(ctx context.Context, f *models.PKCESession) error { return nil }
func (nullStore) LoadPKCE(ctx context.Context) (*models.PKCESession, error) { return nil, nil }
func (nullStore) ClearPKCE(ctx context.Context) error                       { return nil }

func stubInput(t *testing.T, lines []string, passwords []string) {
	t.Helper()

	origText := getSimpleText
	origPass := getPassword
	t.Cleanup(func() {
		getSimpleText = origText
		getPassword = origPass
	})

	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) {
		require.NotEmpty(t, lines, "unexpected text prompt")
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}
	getPassword = func(string, io.Writer) ([]byte, error) {
		require.NotEmpty(t, passwords, "unexpected password prompt")
		pw := passwords[0]
		passwords = passwords[1:]
		return []byte(pw), nil
	}
}

func newTestApp(client api.Client) *App {
	app := &App{
		log:    logging.NewNop(),
		reader: bufio.NewReader(strings.NewReader("")),
	}
	app.controller = authflow.NewController(client, nullStore{}, app,
		authflow.Capabilities{MagicLink: true, OAuth: true, EmailCode: true},
		authflow.OAuthConfig{
			ClientID:     "client-1",
			RedirectURI:  "https://app.example.com",
			AuthorizeURL: "https://provider.example.com/authorize",
		}, logging.NewNop())
	return app
}

func TestAppLogin_Success(t *testing.T) {
	muteOutput(t)
	stubInput(t, []string{"alice"}, []string{"Passw0rd"})

	app := newTestApp(&stubClient{res: &api.AuthResult{
		Token: "tok1",
		User:  &models.UserProfile{ID: "u1", DisplayName: "Alice"},
	}})

	require.NoError(t, app.Login(context.Background()))
	assert.True(t, app.isLoggedIn())
}

func TestAppLogin_APIErrorLeavesSignedOut(t *testing.T) {
	muteOutput(t)
	stubInput(t, []string{"alice"}, []string{"Passw0rd"})

	app := newTestApp(&stubClient{err: &api.Error{Kind: api.KindAPI, Message: "wrong credentials"}})

	require.NoError(t, app.Login(context.Background()))
	assert.False(t, app.isLoggedIn())
}

func TestAppSendCodeThenVerify(t *testing.T) {
	muteOutput(t)
	stubInput(t,
		[]string{"alice", "a@x.com", "123456"},
		[]string{"Passw0rd", "Passw0rd"})

	app := newTestApp(&stubClient{res: &api.AuthResult{
		Token: "tok1",
		User:  &models.UserProfile{ID: "u1"},
	}})
	ctx := context.Background()

	require.NoError(t, app.SendCode(ctx))
	assert.False(t, app.isLoggedIn())

	require.NoError(t, app.Verify(ctx))
	assert.True(t, app.isLoggedIn())
}

func TestAppOAuth_PrintsAuthorizeURL(t *testing.T) {
	var printed []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		for _, a := range args {
			if s, ok := a.(string); ok {
				printed = append(printed, s)
			}
		}
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })

	app := newTestApp(&stubClient{})
	require.NoError(t, app.OAuth(context.Background()))

	found := false
	for _, s := range printed {
		if strings.HasPrefix(s, "https://provider.example.com/authorize?") {
			found = true
		}
	}
	assert.True(t, found, "authorize URL must be printed, got %v", printed)
}
