package auth

import "github.com/vaulthub/hubctl/internal/logging"

// Route paths mirrored from the web console. Navigation in the CLI is
// advisory (the navigator decides what to do with the destination) but
// the flows agree on these names.
const (
	RouteHome      = "/"
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
)

// Notifier surfaces user-visible notices, the CLI analogue of the
// console's toast messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Navigator receives navigation side effects from the auth flows.
type Navigator interface {
	Navigate(path string)
}

// logNotifier prints notices through the CLI logger.
type logNotifier struct {
	logger *logging.Logger
}

// NewLogNotifier returns a Notifier backed by the CLI logger.
func NewLogNotifier(logger *logging.Logger) Notifier {
	return logNotifier{logger: logger}
}

func (n logNotifier) Success(msg string) { n.logger.Info("%s", msg) }
func (n logNotifier) Error(msg string)   { n.logger.Error("%s", msg) }

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// NopNavigator ignores navigation. Commands that print their own
// follow-up output use it.
func NopNavigator() Navigator {
	return NavigatorFunc(func(string) {})
}
