package auth_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/vaulthub/hubctl/internal/api"
	"github.com/vaulthub/hubctl/internal/auth"
	"github.com/vaulthub/hubctl/internal/logging"
	"github.com/vaulthub/hubctl/internal/tokenstore"
)

// recorder captures notices and navigations for assertions.
type recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	navigated []string
}

func (r *recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigated = append(r.navigated, path)
}

// fakeServer is a minimal Vault Hub API double. Handlers may be nil,
// in which case the route 404s.
type fakeServer struct {
	t *testing.T

	loginHandler  func(w http.ResponseWriter, r *http.Request)
	signupHandler func(w http.ResponseWriter, r *http.Request)
	logoutHandler func(w http.ResponseWriter, r *http.Request)
	meHandler     func(w http.ResponseWriter, r *http.Request)
	anyHandler    func(w http.ResponseWriter, r *http.Request) bool

	mu      sync.Mutex
	meCalls int
}

func (f *fakeServer) MeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meCalls
}

func (f *fakeServer) start(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.anyHandler != nil && f.anyHandler(w, r) {
			return
		}
		switch r.URL.Path {
		case "/api/auth/login":
			if f.loginHandler != nil {
				f.loginHandler(w, r)
				return
			}
		case "/api/auth/signup":
			if f.signupHandler != nil {
				f.signupHandler(w, r)
				return
			}
		case "/api/auth/logout":
			if f.logoutHandler != nil {
				f.logoutHandler(w, r)
				return
			}
		case "/api/user/me":
			f.mu.Lock()
			f.meCalls++
			f.mu.Unlock()
			if f.meHandler != nil {
				f.meHandler(w, r)
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

// okJSON writes v as a 200 JSON body.
func okJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// newSession wires a Session against the fake server with a memory
// token store and a quiet logger.
func newSession(t *testing.T, f *fakeServer) (*auth.Session, tokenstore.Store, *recorder) {
	t.Helper()
	server := f.start(t)

	store := tokenstore.NewMemory()
	rec := &recorder{}
	logger := logging.NewWithWriter(io.Discard, false, true)
	client := api.NewClient(server.URL, api.WithTokenSource(api.StoreTokenSource(store)), api.WithLogger(logger))
	session := auth.NewSession(client, store, logger, rec, rec, nil)
	return session, store, rec
}
