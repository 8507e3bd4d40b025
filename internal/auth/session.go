// Package auth holds the client-side session state machine. Every
// authentication path — password, signup, magic link, OIDC — funnels
// through Session.AuthenticateWithToken, which is the only place a
// token is persisted, so "a session exists" always implies "the user
// has been fetched".
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/vaulthub/hubctl/internal/api"
	"github.com/vaulthub/hubctl/internal/logging"
	"github.com/vaulthub/hubctl/internal/metrics"
	"github.com/vaulthub/hubctl/internal/tokenstore"
)

// State is the coarse session state.
type State int

const (
	// StateLoading holds until Bootstrap finishes; route guards must
	// not read authentication before then.
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

// SourceMagic and SourceOIDC tag how a token was obtained.
const (
	SourceMagic = "magic"
	SourceOIDC  = "oidc"
)

// AuthenticateOptions tunes the shared token-acceptance routine.
type AuthenticateOptions struct {
	// Source tags the token origin (SourceMagic, SourceOIDC, or empty).
	Source string
	// RedirectTo overrides the post-login destination (default dashboard).
	RedirectTo string
	// ShowNotice enables the "signed in with your magic link" notice
	// (only honored when Source is SourceMagic).
	ShowNotice bool
}

// Session owns the in-memory auth state and the operations the UI
// layer calls. All mutations run through the named operations; there
// are no raw setters.
type Session struct {
	client    *api.Client
	store     tokenstore.Store
	logger    *logging.Logger
	notifier  Notifier
	navigator Navigator
	metrics   *metrics.Client

	mu      sync.RWMutex
	user    *api.User
	loading bool
}

// NewSession creates a session in the loading state.
func NewSession(client *api.Client, store tokenstore.Store, logger *logging.Logger, notifier Notifier, navigator Navigator, m *metrics.Client) *Session {
	return &Session{
		client:    client,
		store:     store,
		logger:    logger,
		notifier:  notifier,
		navigator: navigator,
		metrics:   m,
		loading:   true,
	}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loading {
		return StateLoading
	}
	if s.user != nil {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

// IsAuthenticated reports whether a user is established. Invariant:
// true exactly when User() is non-nil.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns the authenticated user, or nil.
func (s *Session) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsLoading reports whether Bootstrap has finished.
func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Login exchanges credentials for a session. Errors are returned to
// the caller for inline display, never swallowed.
func (s *Session) Login(ctx context.Context, email, password string) error {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.recordFlow("login", "failure")
		return err
	}
	if resp.Token == "" {
		s.recordFlow("login", "failure")
		return errors.New("server returned no session token")
	}
	if err := s.AuthenticateWithToken(ctx, resp.Token, AuthenticateOptions{RedirectTo: RouteDashboard}); err != nil {
		s.recordFlow("login", "failure")
		return err
	}
	s.recordFlow("login", "success")
	return nil
}

// Signup registers an account and starts its first session.
func (s *Session) Signup(ctx context.Context, email, password, name string) error {
	resp, err := s.client.Signup(ctx, email, password, name)
	if err != nil {
		s.recordFlow("signup", "failure")
		return err
	}
	if resp.Token == "" {
		s.recordFlow("signup", "failure")
		return errors.New("server returned no session token")
	}
	if err := s.AuthenticateWithToken(ctx, resp.Token, AuthenticateOptions{RedirectTo: RouteDashboard}); err != nil {
		s.recordFlow("signup", "failure")
		return err
	}
	s.recordFlow("signup", "success")
	return nil
}

// OIDCEntryURL returns the server-hosted OIDC login URL. The flow
// completes out of process; the returned token fragment is handed to
// Bootstrap on the way back.
func (s *Session) OIDCEntryURL(redirectURI string) string {
	return s.client.OIDCLoginURL(redirectURI)
}

// Logout ends the session. The server logout call exists only to
// record an audit entry; its failure is logged and never blocks
// clearing local state.
func (s *Session) Logout(ctx context.Context) error {
	if _, err := s.store.Get(); err == nil {
		if err := s.client.Logout(ctx); err != nil {
			s.logger.Warn("logout audit call failed: %v", err)
		}
	}

	clearErr := s.store.Clear()

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	s.navigator.Navigate(RouteHome)
	return clearErr
}

// RequestMagicLink asks for a login link to be emailed. Failures are
// both notified and rethrown so forms can render inline feedback.
func (s *Session) RequestMagicLink(ctx context.Context, email string) error {
	if err := s.client.RequestMagicLink(ctx, email); err != nil {
		s.notifier.Error(err.Error())
		return err
	}
	s.notifier.Success("We've sent you a login link. Please check your email.")
	return nil
}

// RequestPasswordReset asks for reset instructions. The success notice
// is identical whether or not the account exists, to prevent account
// enumeration.
func (s *Session) RequestPasswordReset(ctx context.Context, email string) error {
	if err := s.client.RequestPasswordReset(ctx, email); err != nil {
		s.notifier.Error(err.Error())
		return err
	}
	s.notifier.Success("If an account exists with this email, you'll receive password reset instructions shortly.")
	return nil
}

// AuthenticateWithToken is the shared token-acceptance routine:
// persist the token, fetch the user, mark authenticated, then
// navigate. If the user fetch fails the token is left in place; the
// caller decides whether to clear it.
func (s *Session) AuthenticateWithToken(ctx context.Context, token string, opts AuthenticateOptions) error {
	if err := s.store.Set(token); err != nil {
		return err
	}

	user, err := s.client.GetCurrentUser(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.loading = false
	s.mu.Unlock()

	if opts.Source == SourceMagic && opts.ShowNotice {
		s.notifier.Success("You are now signed in with your magic link.")
	}

	dest := opts.RedirectTo
	if dest == "" {
		dest = RouteDashboard
	}
	s.navigator.Navigate(dest)
	return nil
}

// recordFlow is a nil-safe metrics helper.
func (s *Session) recordFlow(flow, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordAuthFlow(flow, outcome)
	}
}
