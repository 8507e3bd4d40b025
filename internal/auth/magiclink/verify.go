// Package magiclink drives the one-time login-link exchange. The flow
// is deliberately strict about token shape and redirect targets: a
// link token is validated before any network call, and every redirect
// destination the server suggests is resolved against the server
// origin so a crafted link can never send the user off-site.
package magiclink

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"sync"
	"time"

	"github.com/vaulthub/hubctl/internal/api"
	"github.com/vaulthub/hubctl/internal/auth"
	"github.com/vaulthub/hubctl/internal/logging"
)

// Status tracks a verification attempt.
type Status int

const (
	StatusIdle Status = iota
	StatusProcessing
	StatusSuccess
	StatusError
)

// Token shape limits. Links shorter than the minimum cannot carry a
// real token; the maximum guards against abuse via enormous URLs.
const (
	minTokenLength = 16
	maxTokenLength = 2048
)

var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Messages shown for the two pre-flight rejection cases. They are
// distinct on purpose so support can tell a truncated link apart from
// a mangled one.
const (
	msgTokenMissing   = "This login link is missing its token. Please request a new one."
	msgTokenMalformed = "This login link is invalid or has been corrupted. Please request a new one."
	msgGenericFailure = "Unable to verify this login link. Please request a new one."
)

// defaultRedirectDelay is the pause between showing the success state
// and navigating, long enough to read the confirmation.
const defaultRedirectDelay = 1500 * time.Millisecond

// ShapeValid reports whether token looks like a real link token. It
// says nothing about whether the server will accept it.
func ShapeValid(token string) bool {
	return len(token) >= minTokenLength &&
		len(token) <= maxTokenLength &&
		tokenPattern.MatchString(token)
}

// Verifier runs the exchange of a link token for a session and owns
// the resulting status. It is safe for concurrent use.
type Verifier struct {
	client    *api.Client
	session   *auth.Session
	navigator auth.Navigator
	logger    *logging.Logger

	redirectDelay time.Duration

	mu         sync.Mutex
	status     Status
	message    string
	token      string
	shapeOK    bool
	lastStatus int
	cancel     chan struct{}
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithRedirectDelay overrides the success-to-navigation pause.
func WithRedirectDelay(d time.Duration) Option {
	return func(v *Verifier) { v.redirectDelay = d }
}

func NewVerifier(client *api.Client, session *auth.Session, navigator auth.Navigator, logger *logging.Logger, opts ...Option) *Verifier {
	v := &Verifier{
		client:        client,
		session:       session,
		navigator:     navigator,
		logger:        logger,
		redirectDelay: defaultRedirectDelay,
		status:        StatusIdle,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Status returns the current verification status.
func (v *Verifier) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Message returns the user-facing message for the current status.
func (v *Verifier) Message() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.message
}

// CanRetry reports whether offering a retry makes sense: only when the
// token itself is plausible and the last failure was not a definitive
// server verdict. A 4xx means the token is spent or rejected and
// retrying can only fail again.
func (v *Verifier) CanRetry() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status != StatusError || !v.shapeOK {
		return false
	}
	return v.lastStatus == 0 || v.lastStatus >= 500
}

// Verify exchanges token for a session. On a JSON reply the session is
// established through the shared acceptance routine; on a redirect
// reply the server has set its own session cookie and we only follow
// the (origin-checked) destination after a short pause.
func (v *Verifier) Verify(ctx context.Context, token string) Status {
	v.mu.Lock()
	if v.status == StatusProcessing {
		v.mu.Unlock()
		return StatusProcessing
	}
	v.token = token
	v.shapeOK = ShapeValid(token)
	v.lastStatus = 0
	v.status = StatusProcessing
	v.message = ""
	shapeOK := v.shapeOK
	v.mu.Unlock()

	if !shapeOK {
		msg := msgTokenMalformed
		if token == "" {
			msg = msgTokenMissing
		}
		return v.fail(msg, 0)
	}

	result, err := v.client.ConsumeMagicLink(ctx, token)
	if err != nil {
		msg := msgGenericFailure
		status := 0
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			status = apiErr.Status
			if apiErr.Message != "" {
				msg = apiErr.Message
			}
		}
		v.logger.Debug("magic link consume failed: %v", err)
		return v.fail(msg, status)
	}

	if result.Redirected {
		target := v.resolveTarget(result.Location, auth.RouteLogin)
		v.succeed("Login link verified. Redirecting...")
		v.scheduleRedirect(ctx, target)
		return StatusSuccess
	}

	if result.Token == "" {
		return v.fail(msgGenericFailure, result.Status)
	}

	opts := auth.AuthenticateOptions{
		Source:     auth.SourceMagic,
		ShowNotice: true,
		RedirectTo: v.resolveTarget(result.RedirectURL, auth.RouteDashboard),
	}
	if err := v.session.AuthenticateWithToken(ctx, result.Token, opts); err != nil {
		status := 0
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			status = apiErr.Status
		}
		v.logger.Debug("session establishment failed: %v", err)
		return v.fail(msgGenericFailure, status)
	}

	v.succeed("You are now signed in.")
	return StatusSuccess
}

// Retry re-runs verification with the original token.
func (v *Verifier) Retry(ctx context.Context) Status {
	if !v.CanRetry() {
		return v.Status()
	}
	v.mu.Lock()
	token := v.token
	v.status = StatusIdle
	v.mu.Unlock()
	return v.Verify(ctx, token)
}

// CancelRedirect stops a pending post-success navigation, for when the
// user acts before the timer fires.
func (v *Verifier) CancelRedirect() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		close(v.cancel)
		v.cancel = nil
	}
}

// resolveTarget resolves raw against the server origin and returns its
// path (plus query) when it stays on that origin. Anything else,
// including unparsable values, collapses to fallback.
func (v *Verifier) resolveTarget(raw, fallback string) string {
	if raw == "" {
		return fallback
	}
	base, err := url.Parse(v.client.BaseURL())
	if err != nil {
		return fallback
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return fallback
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != base.Scheme || resolved.Host != base.Host {
		return fallback
	}
	target := resolved.Path
	if target == "" {
		target = "/"
	}
	if resolved.RawQuery != "" {
		target += "?" + resolved.RawQuery
	}
	return target
}

func (v *Verifier) fail(msg string, httpStatus int) Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = StatusError
	v.message = msg
	v.lastStatus = httpStatus
	return StatusError
}

func (v *Verifier) succeed(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = StatusSuccess
	v.message = msg
}

// scheduleRedirect navigates to target after the delay unless the
// context ends or CancelRedirect runs first.
func (v *Verifier) scheduleRedirect(ctx context.Context, target string) {
	v.mu.Lock()
	if v.cancel != nil {
		close(v.cancel)
	}
	cancel := make(chan struct{})
	v.cancel = cancel
	v.mu.Unlock()

	go func() {
		timer := time.NewTimer(v.redirectDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
			v.navigator.Navigate(target)
		case <-ctx.Done():
		case <-cancel:
		}
	}()
}
