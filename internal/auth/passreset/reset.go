// Package passreset implements the forgot-password flow: requesting
// reset instructions and confirming a new password against a one-time
// reset token. Password strength is checked locally so the confirm
// endpoint is only ever called with a password the server will accept.
package passreset

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/vaulthub/hubctl/internal/api"
	"github.com/vaulthub/hubctl/internal/auth"
	"github.com/vaulthub/hubctl/internal/logging"
)

// Rule is one password strength requirement.
type Rule struct {
	ID    string
	Label string
	Check func(password string) bool
}

// Rules are the strength requirements, in display order. All must
// pass, together with the confirmation match, before any network call.
var Rules = []Rule{
	{
		ID:    "length",
		Label: "At least 8 characters",
		Check: func(p string) bool { return len(p) >= 8 },
	},
	{
		ID:    "uppercase",
		Label: "One uppercase letter",
		Check: func(p string) bool { return strings.ContainsFunc(p, unicode.IsUpper) },
	},
	{
		ID:    "lowercase",
		Label: "One lowercase letter",
		Check: func(p string) bool { return strings.ContainsFunc(p, unicode.IsLower) },
	},
	{
		ID:    "digit",
		Label: "One number",
		Check: func(p string) bool { return strings.ContainsFunc(p, unicode.IsDigit) },
	},
	{
		ID:    "symbol",
		Label: "One special character",
		Check: func(p string) bool {
			return strings.ContainsFunc(p, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r)
			})
		},
	},
}

// Failures returns the IDs of the rules password does not meet.
func Failures(password string) []string {
	var failed []string
	for _, rule := range Rules {
		if !rule.Check(password) {
			failed = append(failed, rule.ID)
		}
	}
	return failed
}

// ValidationError reports why a new password was rejected locally.
type ValidationError struct {
	// FailedRules holds rule IDs from Rules, empty when only the
	// confirmation mismatched.
	FailedRules []string
	Mismatch    bool
}

func (e *ValidationError) Error() string {
	if e.Mismatch && len(e.FailedRules) == 0 {
		return "passwords do not match"
	}
	labels := make([]string, 0, len(e.FailedRules))
	for _, id := range e.FailedRules {
		for _, rule := range Rules {
			if rule.ID == id {
				labels = append(labels, strings.ToLower(rule.Label))
				break
			}
		}
	}
	msg := "password needs: " + strings.Join(labels, ", ")
	if e.Mismatch {
		msg += " (and the confirmation does not match)"
	}
	return msg
}

// Validate checks password against every rule and the confirmation.
func Validate(password, confirm string) error {
	failed := Failures(password)
	mismatch := password != confirm
	if len(failed) == 0 && !mismatch {
		return nil
	}
	return &ValidationError{FailedRules: failed, Mismatch: mismatch}
}

// ErrMissingToken means the reset link carried no token. There is
// nothing to prompt for; the user needs a fresh link.
var ErrMissingToken = errors.New("This password reset link is invalid. Please request a new one.")

// Flow drives the two reset steps against the API.
type Flow struct {
	client    *api.Client
	notifier  auth.Notifier
	navigator auth.Navigator
	logger    *logging.Logger
}

func NewFlow(client *api.Client, notifier auth.Notifier, navigator auth.Navigator, logger *logging.Logger) *Flow {
	return &Flow{client: client, notifier: notifier, navigator: navigator, logger: logger}
}

// Request asks for reset instructions. The success notice never
// reveals whether the account exists.
func (f *Flow) Request(ctx context.Context, email string) error {
	if err := f.client.RequestPasswordReset(ctx, email); err != nil {
		f.notifier.Error(err.Error())
		return err
	}
	f.notifier.Success("If an account exists with this email, you'll receive password reset instructions shortly.")
	return nil
}

// Confirm sets the new password. A missing token short-circuits with a
// static message, and strength validation gates the network call so
// the one-time token is not burned on a password the server would
// reject anyway.
func (f *Flow) Confirm(ctx context.Context, token, password, confirm string) error {
	if token == "" {
		f.notifier.Error(ErrMissingToken.Error())
		return ErrMissingToken
	}

	if err := Validate(password, confirm); err != nil {
		f.notifier.Error(err.Error())
		return err
	}

	if err := f.client.ConfirmPasswordReset(ctx, token, password); err != nil {
		f.logger.Debug("password reset confirm failed: %v", err)
		f.notifier.Error(err.Error())
		return err
	}

	f.notifier.Success("Your password has been reset. You can now log in with your new password.")
	f.navigator.Navigate(auth.RouteLogin)
	return nil
}
