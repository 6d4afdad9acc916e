package authflow

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teamgensourei/boundary/internal/api"
	"github.com/teamgensourei/boundary/internal/credstore"
	"github.com/teamgensourei/boundary/internal/logging"
	"github.com/teamgensourei/boundary/internal/models"
	"github.com/teamgensourei/boundary/internal/password"
	"github.com/teamgensourei/boundary/internal/pkce"
)

// flowKind identifies one class of submission for the in-flight guard.
type flowKind int

const (
	flowLogin flowKind = iota
	flowRegister
	flowSendCode
	flowVerifyCode
	flowMagicLink
	flowOAuthExchange
	flowTokenConsume
)

// Controller owns the auth flow state and all transitions. Safe for use
// from multiple goroutines; API calls are made without holding the state
// lock, and their results are discarded if the flow was reset while they
// were in flight.
type Controller struct {
	client    api.Client
	store     credstore.Store
	presenter Presenter
	caps      Capabilities
	oauth     OAuthConfig
	log       logging.Logger

	mu       sync.Mutex
	state    State
	session  *models.Session
	pending  *models.PendingRegistration
	inflight map[flowKind]string
}

// NewController builds a controller in StateUnauthenticated.
func NewController(client api.Client, store credstore.Store, presenter Presenter, caps Capabilities, oauth OAuthConfig, log logging.Logger) *Controller {
	return &Controller{
		client:    client,
		store:     store,
		presenter: presenter,
		caps:      caps,
		oauth:     oauth,
		log:       log,
		state:     StateUnauthenticated,
		inflight:  make(map[flowKind]string),
	}
}

// Snapshot returns the current state and its payload.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{State: c.state, Session: c.session, Pending: c.pending}
}

func (c *Controller) notify(ctx context.Context, snap Snapshot) {
	if c.presenter != nil {
		c.presenter.StateChanged(ctx, snap)
	}
}

func (c *Controller) notice(ctx context.Context, message string) {
	if c.presenter != nil {
		c.presenter.Notice(ctx, message)
	}
}

// begin reserves the in-flight slot for a flow kind. The returned id tags
// this flow instance; a second submission of the same kind is rejected
// until the first resolves.
func (c *Controller) begin(kind flowKind) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[kind]; busy {
		return "", false
	}
	id := uuid.NewString()
	c.inflight[kind] = id
	return id, true
}

// end releases the slot and reports whether the result is still current.
// A flow reset (Abandon, logout) wipes the slots, so a resolution arriving
// afterwards is stale and must be discarded.
func (c *Controller) end(kind flowKind, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.inflight[kind]
	if !ok || cur != id {
		return false
	}
	delete(c.inflight, kind)
	return true
}

// establishSession records a successful authentication: state, in-memory
// session, durable store, presenter. Any pending registration is consumed.
func (c *Controller) establishSession(ctx context.Context, res *api.AuthResult) error {
	session := &models.Session{Token: res.Token, User: res.User}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.session = session
	c.pending = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()

	// The remote session exists regardless of local persistence, so the
	// transition is signalled even when the save fails.
	err := c.store.SaveSession(ctx, session)
	if err != nil {
		c.log.Warn(ctx, "session not persisted", "error", err)
	}
	c.notify(ctx, snap)
	return err
}

// SubmitLogin drives the password login flow. On success the session is
// established and persisted; on failure the state does not move.
func (c *Controller) SubmitLogin(ctx context.Context, identifier, pass string) error {
	if strings.TrimSpace(identifier) == "" || pass == "" {
		return validationf("identifier and password are required")
	}

	id, ok := c.begin(flowLogin)
	if !ok {
		return ErrInFlight
	}

	res, err := c.client.Login(ctx, identifier, pass)
	if !c.end(flowLogin, id) {
		c.log.Debug(ctx, "discarding stale login resolution")
		return nil
	}
	if err != nil {
		return err
	}
	return c.establishSession(ctx, res)
}

// SubmitRegistration drives the single-step registration. When the server
// answers requiresVerification, no session exists yet: the user is told to
// check their email and the state stays Unauthenticated.
func (c *Controller) SubmitRegistration(ctx context.Context, identifier, email, pass, confirm string) error {
	if strings.TrimSpace(identifier) == "" || strings.TrimSpace(email) == "" || pass == "" {
		return validationf("all fields are required")
	}
	if pass != confirm {
		return validationf("passwords do not match")
	}
	if !password.IsValid(pass) {
		return validationf("password must be at least %d characters with an uppercase letter, a lowercase letter, and a digit", password.MinLength)
	}

	id, ok := c.begin(flowRegister)
	if !ok {
		return ErrInFlight
	}

	res, err := c.client.RegisterDirect(ctx, identifier, email, pass)
	if !c.end(flowRegister, id) {
		return nil
	}
	if err != nil {
		return err
	}
	if res.RequiresVerification {
		c.notice(ctx, "Account created. Check your email to verify it before signing in.")
		return nil
	}
	return c.establishSession(ctx, &res.AuthResult)
}

// SubmitSendCode starts the two-step registration: the server mails a code
// and the machine moves to AwaitingEmailCode holding the pending data.
func (c *Controller) SubmitSendCode(ctx context.Context, identifier, email string) error {
	if !c.caps.EmailCode {
		return validationf("email-code registration is not enabled")
	}
	if strings.TrimSpace(identifier) == "" || strings.TrimSpace(email) == "" {
		return validationf("identifier and email are required")
	}

	id, ok := c.begin(flowSendCode)
	if !ok {
		return ErrInFlight
	}

	err := c.client.RegisterSendCode(ctx, identifier, email)
	if !c.end(flowSendCode, id) {
		return nil
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.pending = &models.PendingRegistration{
		Identifier: identifier,
		Email:      email,
		VerifiedAt: time.Now(),
	}
	c.state = StateAwaitingEmailCode
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(ctx, snap)
	return nil
}

// SubmitVerifyCode completes the two-step registration with the mailed code
// and the chosen password. On failure the machine stays in
// AwaitingEmailCode so the user can retry the code.
func (c *Controller) SubmitVerifyCode(ctx context.Context, code, pass, confirm string) error {
	c.mu.Lock()
	pending := c.pending
	state := c.state
	c.mu.Unlock()

	if state != StateAwaitingEmailCode || pending == nil {
		return validationf("no registration in progress")
	}
	if strings.TrimSpace(code) == "" {
		return validationf("verification code is required")
	}
	if pass != confirm {
		return validationf("passwords do not match")
	}
	if !password.IsValid(pass) {
		return validationf("password must be at least %d characters with an uppercase letter, a lowercase letter, and a digit", password.MinLength)
	}

	id, ok := c.begin(flowVerifyCode)
	if !ok {
		return ErrInFlight
	}

	res, err := c.client.RegisterVerifyCode(ctx, pending.Email, code, pass)
	if !c.end(flowVerifyCode, id) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.establishSession(ctx, res)
}

// RequestMagicLink asks the server to mail a single-use login link. The
// acknowledgement is neutral whether or not the address exists, so the
// endpoint cannot be used to enumerate accounts; only a transport failure
// is surfaced.
func (c *Controller) RequestMagicLink(ctx context.Context, email string) error {
	if !c.caps.MagicLink {
		return validationf("magic-link login is not enabled")
	}
	if strings.TrimSpace(email) == "" {
		return validationf("email is required")
	}

	id, ok := c.begin(flowMagicLink)
	if !ok {
		return ErrInFlight
	}

	message, err := c.client.RequestMagicLink(ctx, email)
	if !c.end(flowMagicLink, id) {
		return nil
	}
	if err != nil {
		if errors.Is(err, api.ErrNetwork) {
			return err
		}
		// Server-side rejections are masked behind the neutral notice.
		c.log.Debug(ctx, "magic link request rejected", "error", err)
	}
	if message == "" {
		message = "If that address is registered, a sign-in link is on its way."
	}
	c.notice(ctx, message)
	return nil
}

// StartOAuth creates and persists the PKCE session and returns the
// authorize URL for the presenter to open. The machine moves to
// AwaitingOAuthCallback.
func (c *Controller) StartOAuth(ctx context.Context) (string, error) {
	if !c.caps.OAuth {
		return "", validationf("oauth login is not enabled")
	}

	verifierLen := c.oauth.VerifierLength
	if verifierLen == 0 {
		verifierLen = pkce.DefaultVerifierLength
	}
	stateLen := c.oauth.StateLength
	if stateLen == 0 {
		stateLen = pkce.DefaultStateLength
	}

	verifier, err := pkce.GenerateVerifier(verifierLen)
	if err != nil {
		return "", err
	}
	state, err := pkce.GenerateState(stateLen)
	if err != nil {
		return "", err
	}

	flow := &models.PKCESession{CodeVerifier: verifier, State: state}
	if err := c.store.SavePKCE(ctx, flow); err != nil {
		return "", err
	}

	c.mu.Lock()
	c.state = StateAwaitingOAuthCallback
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(ctx, snap)

	params := url.Values{
		"response_type":         {"code"},
		"client_id":             {c.oauth.ClientID},
		"redirect_uri":          {c.oauth.RedirectURI},
		"scope":                 {strings.Join(c.oauth.Scopes, " ")},
		"state":                 {state},
		"code_challenge":        {pkce.DeriveChallenge(verifier)},
		"code_challenge_method": {"S256"},
	}
	return c.oauth.AuthorizeURL + "?" + params.Encode(), nil
}

// CompleteOAuth handles the provider's callback. The persisted PKCE session
// is consumed exactly once: on a state mismatch the flow is rejected before
// any network call; otherwise the pair is cleared unconditionally after the
// exchange, success or not.
func (c *Controller) CompleteOAuth(ctx context.Context, code, state, providerErr string) error {
	flow, err := c.store.LoadPKCE(ctx)
	if err != nil {
		return err
	}

	if providerErr != "" {
		c.abortOAuth(ctx)
		return &api.Error{Kind: api.KindAPI, Message: "provider reported: " + providerErr}
	}

	if flow == nil || state == "" || state != flow.State {
		c.abortOAuth(ctx)
		return &SecurityError{Message: "oauth state mismatch"}
	}

	id, ok := c.begin(flowOAuthExchange)
	if !ok {
		return ErrInFlight
	}

	res, exchangeErr := c.client.ExchangeOAuthCode(ctx, code, flow.CodeVerifier)

	// Consumed exactly once, whatever the exchange outcome.
	if err := c.store.ClearPKCE(ctx); err != nil {
		c.log.Warn(ctx, "pkce session not cleared", "error", err)
	}

	if !c.end(flowOAuthExchange, id) {
		c.log.Debug(ctx, "discarding stale oauth exchange resolution")
		return nil
	}
	if exchangeErr != nil {
		c.toUnauthenticated(ctx)
		return exchangeErr
	}
	return c.establishSession(ctx, res)
}

// abortOAuth destroys the pending OAuth artifacts and resets to
// Unauthenticated. No network call is made.
func (c *Controller) abortOAuth(ctx context.Context) {
	if err := c.store.ClearPKCE(ctx); err != nil {
		c.log.Warn(ctx, "pkce session not cleared", "error", err)
	}
	c.toUnauthenticated(ctx)
}

func (c *Controller) toUnauthenticated(ctx context.Context) {
	c.mu.Lock()
	changed := c.state != StateUnauthenticated
	c.state = StateUnauthenticated
	c.session = nil
	c.pending = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if changed {
		c.notify(ctx, snap)
	}
}

// ConsumeMagicLink redeems an emailed sign-in token. An already-active
// session is replaced wholesale on success (last-writer-wins); on failure
// the previous state is kept.
func (c *Controller) ConsumeMagicLink(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return validationf("token is required")
	}

	id, ok := c.begin(flowTokenConsume)
	if !ok {
		return ErrInFlight
	}

	res, err := c.client.ConsumeMagicLink(ctx, token)
	if !c.end(flowTokenConsume, id) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.establishSession(ctx, res)
}

// ConsumeEmailToken redeems an email-verification token from a URL. Same
// last-writer-wins policy as ConsumeMagicLink.
func (c *Controller) ConsumeEmailToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return validationf("token is required")
	}

	id, ok := c.begin(flowTokenConsume)
	if !ok {
		return ErrInFlight
	}

	res, err := c.client.VerifyEmailToken(ctx, token)
	if !c.end(flowTokenConsume, id) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.establishSession(ctx, res)
}

// Logout ends the session: the remote invalidation is best-effort, the
// local credential store is always cleared.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session != nil {
		if err := c.client.Logout(ctx, session.Token); err != nil {
			c.log.Warn(ctx, "remote logout failed, clearing local session anyway", "error", err)
		}
	}

	err := c.store.ClearSession(ctx)

	c.mu.Lock()
	c.state = StateUnauthenticated
	c.session = nil
	c.pending = nil
	c.invalidateInflightLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(ctx, snap)
	return err
}

// HandleUnauthorized is called when any authenticated call, inside or
// outside this package, comes back Unauthorized: the session is dead, the
// store is cleared, and the machine drops to Unauthenticated. This is the
// only involuntary transition.
func (c *Controller) HandleUnauthorized(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateAuthenticated {
		c.mu.Unlock()
		return nil
	}
	c.state = StateUnauthenticated
	c.session = nil
	c.pending = nil
	c.invalidateInflightLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	err := c.store.ClearSession(ctx)
	c.notice(ctx, "Session expired. Please sign in again.")
	c.notify(ctx, snap)
	return err
}

// Restore adopts a session loaded from the credential store without
// re-validating it against the server. A later Unauthorized response will
// correct the state if the token has been revoked.
func (c *Controller) Restore(ctx context.Context, session *models.Session) {
	c.mu.Lock()
	c.state = StateAuthenticated
	c.session = session
	c.pending = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(ctx, snap)
}

// Abandon is called when the user navigates away from a pending multi-step
// flow. The transient state dies, in-flight resolutions become stale, and
// a pending OAuth round trip is cleared locally; no server call is made.
func (c *Controller) Abandon(ctx context.Context) error {
	c.mu.Lock()
	var err error
	if c.state == StateAwaitingOAuthCallback {
		err = c.store.ClearPKCE(ctx)
	}
	if c.state == StateAwaitingEmailCode || c.state == StateAwaitingOAuthCallback {
		c.state = StateUnauthenticated
	}
	c.pending = nil
	c.invalidateInflightLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(ctx, snap)
	return err
}

// invalidateInflightLocked makes every outstanding flow resolution stale.
// Callers hold c.mu.
func (c *Controller) invalidateInflightLocked() {
	c.inflight = make(map[flowKind]string)
}
