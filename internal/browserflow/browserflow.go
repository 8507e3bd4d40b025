// Package browserflow hosts the loopback half of browser-mediated
// logins. The server delivers the session token in the URL fragment of
// its return redirect, and fragments are never sent to a server, so
// the landing page runs a tiny script that re-submits the fragment as
// a query parameter to the same loopback listener, where the CLI picks
// it up.
package browserflow

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/browser"

	"github.com/vaulthub/hubctl/internal/logging"
)

// ErrClosed means the listener shut down before a callback arrived.
var ErrClosed = errors.New("callback listener closed")

const landingPage = `<!DOCTYPE html>
<html>
<head><title>Vault Hub CLI</title></head>
<body>
<p>Completing sign-in&hellip;</p>
<script>
var h = window.location.hash.replace(/^#/, "");
window.location.replace("/done" + (h ? "?fragment=" + encodeURIComponent(h) : ""));
</script>
</body>
</html>`

const donePage = `<!DOCTYPE html>
<html>
<head><title>Vault Hub CLI</title></head>
<body>
<p>You may close this tab and return to your terminal.</p>
</body>
</html>`

// Flow is a one-shot loopback callback listener. It binds a random
// port on 127.0.0.1 and hands the first delivered fragment to Wait.
type Flow struct {
	logger   *logging.Logger
	listener net.Listener
	server   *http.Server

	once     sync.Once
	fragment chan string
	closed   chan struct{}
}

// Listen binds the loopback listener and starts serving.
func Listen(logger *logging.Logger) (*Flow, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("binding loopback listener: %w", err)
	}

	f := &Flow{
		logger:   logger,
		listener: listener,
		fragment: make(chan string, 1),
		closed:   make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", f.handleCallback)
	mux.HandleFunc("/done", f.handleDone)

	f.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := f.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Debug("callback server stopped: %v", err)
		}
		close(f.closed)
	}()

	return f, nil
}

// RedirectURI is the value to hand the server as the return target.
func (f *Flow) RedirectURI() string {
	return fmt.Sprintf("http://%s/callback", f.listener.Addr().String())
}

func (f *Flow) handleCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(landingPage))
}

func (f *Flow) handleDone(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(donePage))

	// Only the first delivery counts; the buffered channel drops the rest.
	select {
	case f.fragment <- r.URL.Query().Get("fragment"):
	default:
	}
}

// Wait blocks until the browser delivers a fragment, the context is
// cancelled, or the listener closes. The returned fragment may be
// empty when the browser arrived without one.
func (f *Flow) Wait(ctx context.Context) (string, error) {
	select {
	case fragment := <-f.fragment:
		return fragment, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-f.closed:
		return "", ErrClosed
	}
}

// Close shuts the listener down. Safe to call more than once.
func (f *Flow) Close() error {
	var err error
	f.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err = f.server.Shutdown(ctx)
	})
	return err
}

// Open launches the system browser at url, falling back to printing
// the URL when no browser can be started (headless hosts, SSH).
func Open(url string, logger *logging.Logger) {
	if err := browser.OpenURL(url); err != nil {
		logger.Warn("could not open a browser: %v", err)
		logger.Info("Open this URL to continue: %s", url)
	}
}
