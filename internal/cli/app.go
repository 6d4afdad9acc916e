package cli

import (
	"bufio"
	"context"
	"net/http"
	"os"

	"github.com/teamgensourei/boundary/internal/api"
	"github.com/teamgensourei/boundary/internal/authflow"
	"github.com/teamgensourei/boundary/internal/bootstrap"
	"github.com/teamgensourei/boundary/internal/config"
	"github.com/teamgensourei/boundary/internal/credstore"
	"github.com/teamgensourei/boundary/internal/logging"

	_ "modernc.org/sqlite"
)

// App is the interactive console client. It renders auth state transitions
// (it is the controller's presenter) and translates REPL commands into
// controller operations.
type App struct {
	config     *config.Config
	controller *authflow.Controller
	boot       *bootstrap.Bootstrapper
	store      *credstore.SQLiteStore
	client     api.Client
	log        logging.Logger
	reader     *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	store, err := credstore.Open(ctx, cfg.CredentialDB)
	if err != nil {
		return nil, err
	}

	client := api.NewHTTPClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout})

	app := &App{
		config: cfg,
		store:  store,
		client: client,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
	}

	caps := authflow.Capabilities{
		MagicLink: cfg.EnableMagicLink,
		OAuth:     cfg.EnableOAuth,
		EmailCode: cfg.EnableEmailCode,
	}
	oauth := authflow.OAuthConfig{
		ClientID:       cfg.OAuthClientID,
		RedirectURI:    cfg.OAuthRedirectURI,
		AuthorizeURL:   cfg.OAuthAuthorizeURL,
		Scopes:         cfg.OAuthScopes,
		VerifierLength: cfg.PKCEVerifierLength,
		StateLength:    cfg.OAuthStateLength,
	}

	app.controller = authflow.NewController(client, store, app, caps, oauth, log)
	app.boot = bootstrap.New(app.controller, store, log)

	return app, nil
}

// Run bootstraps the session (startupURL may carry an OAuth callback or an
// emailed link) and enters the REPL. Blocks until the user exits.
func (a *App) Run(ctx context.Context, startupURL string) error {
	defer a.Close()

	if err := a.boot.Run(ctx, startupURL); err != nil {
		// A failed resume is not fatal; the user can sign in manually.
		printlnFn("Startup sign-in failed:", err)
	}

	a.repl(ctx)
	return nil
}

// Close releases the API client and the credential store.
func (a *App) Close() {
	if err := a.client.Close(); err != nil {
		a.log.Warn(context.Background(), "closing api client", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn(context.Background(), "closing credential store", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.controller.Snapshot().State == authflow.StateAuthenticated
}
