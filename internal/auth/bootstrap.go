package auth

import (
	"context"
	"errors"

	"github.com/vaulthub/hubctl/internal/tokenstore"
)

// Bootstrap establishes the session state once at startup. fragment is
// the URL fragment delivered by an OIDC or magic-link return redirect
// ("" when starting without one). The steps are strictly sequential:
// the fragment path is tried first and, whether it succeeds or fails,
// the stored-token path is NOT attempted afterwards — a rejected
// one-time token must not silently fall back to an older session.
// The loading flag is cleared exactly once on every terminal path.
func (s *Session) Bootstrap(ctx context.Context, fragment string) State {
	defer s.finishLoading()

	intent := ParseFragment(fragment)
	switch intent.Kind {
	case IntentMagicLink, IntentOIDC:
		opts := AuthenticateOptions{
			RedirectTo: RouteDashboard,
			Source:     SourceOIDC,
		}
		if intent.Kind == IntentMagicLink {
			opts.Source = SourceMagic
			opts.ShowNotice = true
		}

		if err := s.AuthenticateWithToken(ctx, intent.Token, opts); err != nil {
			s.logger.Debug("fragment token rejected: %v", err)
			s.recordFlow(opts.Source, "failure")
			if clearErr := s.store.Clear(); clearErr != nil {
				s.logger.Warn("failed to clear stored token: %v", clearErr)
			}
			if intent.Kind == IntentMagicLink {
				s.notifier.Error("Unable to sign in with this magic link. Please request a new one.")
			}
			return StateUnauthenticated
		}
		s.recordFlow(opts.Source, "success")
		return StateAuthenticated

	case IntentNone:
		// Fall through to the stored-token check.
	}

	token, err := s.store.Get()
	if err != nil {
		if !errors.Is(err, tokenstore.ErrNotFound) {
			s.logger.Warn("token store read failed: %v", err)
		}
		return StateUnauthenticated
	}
	if token == "" {
		return StateUnauthenticated
	}

	user, err := s.client.GetCurrentUser(ctx)
	if err != nil {
		s.logger.Debug("stored token rejected: %v", err)
		if clearErr := s.store.Clear(); clearErr != nil {
			s.logger.Warn("failed to clear stored token: %v", clearErr)
		}
		return StateUnauthenticated
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return StateAuthenticated
}

// finishLoading clears the loading flag if still set.
func (s *Session) finishLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}
