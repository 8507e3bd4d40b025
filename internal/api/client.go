// Package api is the single choke point for Vault Hub REST traffic.
// Every outbound request flows through Client.do, which attaches the
// bearer token, derives user-facing error messages, and coalesces
// concurrent 401 responses into one invalidation callback.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/vaulthub/hubctl/internal/logging"
	"github.com/vaulthub/hubctl/internal/metrics"
	"github.com/vaulthub/hubctl/internal/tokenstore"
)

// defaultUnauthorizedWindow is how long a fired invalidation callback
// suppresses further ones. Several in-flight requests failing on the
// same expired token must not each trigger a redirect to login.
const defaultUnauthorizedWindow = time.Second

// TokenSource yields the bearer token to attach to outbound requests.
type TokenSource interface {
	// Token returns the current token and whether one is present.
	Token() (string, bool)
}

// storeTokenSource adapts a tokenstore.Store into a TokenSource.
type storeTokenSource struct {
	store tokenstore.Store
}

func (s storeTokenSource) Token() (string, bool) {
	token, err := s.store.Get()
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// StoreTokenSource reads the bearer token from a token store on every
// request. A request already in flight when the store is cleared keeps
// whatever header it captured at send time.
func StoreTokenSource(store tokenstore.Store) TokenSource {
	return storeTokenSource{store: store}
}

// Client talks to the Vault Hub API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *logging.Logger
	metrics    *metrics.Client

	onUnauthorized     func()
	unauthorizedWindow time.Duration

	mu        sync.Mutex
	lastFired time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client's
// CheckRedirect is overridden so redirect responses reach the caller.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets where the bearer token is read from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHandler installs fn to run when a 401 is received,
// at most once per debounce window.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithUnauthorizedWindow overrides the 401 debounce window.
func WithUnauthorizedWindow(d time.Duration) Option {
	return func(c *Client) { c.unauthorizedWindow = d }
}

// WithLogger sets the debug logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics enables request instrumentation.
func WithMetrics(m *metrics.Client) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates an API client for the given base URL
// (e.g. "https://vault.example.com").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:            baseURL,
		httpClient:         &http.Client{Timeout: 30 * time.Second},
		logger:             logging.New(false, false),
		unauthorizedWindow: defaultUnauthorizedWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Redirect replies (magic-link consume) must surface as-is.
	c.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// do performs one JSON request. A non-2xx reply is turned into *Error
// via the message precedence rules; 2xx bodies are decoded into out
// when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	resp, body, err := c.roundTrip(ctx, method, path, in)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.failure(resp, body)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// roundTrip sends the request and reads the whole body.
func (c *Client) roundTrip(ctx context.Context, method, path string, in interface{}) (*http.Response, []byte, error) {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("%s %s transport error: %v", method, path, err)
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.metrics != nil {
		c.metrics.RecordRequest(method, metrics.StatusClass(resp.StatusCode), time.Since(start).Seconds())
	}
	c.logger.Debug("%s %s -> %d (%dB)", method, path, resp.StatusCode, len(body))

	return resp, body, nil
}

// failure builds the typed error for a non-2xx response and runs the
// 401 side effect.
func (c *Client) failure(resp *http.Response, body []byte) error {
	apiErr := newError(resp.StatusCode, http.StatusText(resp.StatusCode), resp.Header, body)
	if resp.StatusCode == http.StatusUnauthorized {
		if c.metrics != nil {
			c.metrics.RecordUnauthorized()
		}
		c.fireUnauthorized()
	}
	return apiErr
}

// fireUnauthorized runs the invalidation callback, coalescing repeats
// inside the debounce window into a single call.
func (c *Client) fireUnauthorized() {
	if c.onUnauthorized == nil {
		return
	}

	c.mu.Lock()
	now := time.Now()
	if now.Sub(c.lastFired) < c.unauthorizedWindow {
		c.mu.Unlock()
		return
	}
	c.lastFired = now
	c.mu.Unlock()

	c.onUnauthorized()
}

// --- Auth endpoints ---

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers an account and returns its first session token.
func (c *Client) Signup(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", SignupRequest{Email: email, Password: password, Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout records the logout in the server audit trail. Callers treat
// failures as best-effort.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// RequestMagicLink asks the server to email a login link.
func (c *Client) RequestMagicLink(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/magic-link/request", map[string]string{"email": email}, nil)
}

// ConsumeMagicLink exchanges a one-time magic-link token. The server
// may answer with JSON ({token, redirectUrl?}) or a redirect; both are
// surfaced in the result. Error statuses come back as *Error.
func (c *Client) ConsumeMagicLink(ctx context.Context, token string) (*MagicLinkConsumeResult, error) {
	resp, body, err := c.roundTrip(ctx, http.MethodPost, "/api/auth/magic-link/consume", map[string]string{"token": token})
	if err != nil {
		return nil, err
	}

	result := &MagicLinkConsumeResult{Status: resp.StatusCode}

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		result.Redirected = true
		result.Location = resp.Header.Get("Location")
		return result, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.failure(resp, body)
	}

	var payload struct {
		Token       string `json:"token"`
		RedirectURL string `json:"redirectUrl"`
	}
	if len(body) > 0 {
		// A 2xx body that is not JSON is treated as token-less.
		_ = json.Unmarshal(body, &payload)
	}
	result.Token = payload.Token
	result.RedirectURL = payload.RedirectURL
	return result, nil
}

// RequestPasswordReset asks the server to email reset instructions.
// The server answers 2xx whether or not the account exists.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/password-reset/request", map[string]string{"email": email}, nil)
}

// ConfirmPasswordReset sets a new password against a reset token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	payload := map[string]string{"token": token, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/api/auth/password-reset/confirm", payload, nil)
}

// OIDCLoginURL returns the server-hosted OIDC entry point. When
// redirectURI is non-empty the server is asked to deliver the token
// fragment there instead of the web console.
func (c *Client) OIDCLoginURL(redirectURI string) string {
	entry := c.baseURL + "/api/auth/login/oidc"
	if redirectURI != "" {
		entry += "?redirect_uri=" + url.QueryEscape(redirectURI)
	}
	return entry
}

// --- User / config / status endpoints ---

// GetCurrentUser fetches the authenticated account.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/user/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAppConfig fetches the public application configuration.
func (c *Client) GetAppConfig(ctx context.Context) (*AppConfig, error) {
	var out AppConfig
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStatus probes server health.
func (c *Client) GetStatus(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Vault endpoints ---

// GetVaults lists vaults one page at a time.
func (c *Client) GetVaults(ctx context.Context, pageSize, pageIndex int) (*VaultsResponse, error) {
	var out VaultsResponse
	path := "/api/vaults?" + pageQuery(pageSize, pageIndex).Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVault fetches a vault including its secret value.
func (c *Client) GetVault(ctx context.Context, uniqueID string) (*Vault, error) {
	var out Vault
	if err := c.do(ctx, http.MethodGet, "/api/vaults/"+url.PathEscape(uniqueID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateVault creates a vault.
func (c *Client) CreateVault(ctx context.Context, req CreateVaultRequest) (*Vault, error) {
	var out Vault
	if err := c.do(ctx, http.MethodPost, "/api/vaults", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateVault updates a vault.
func (c *Client) UpdateVault(ctx context.Context, uniqueID string, req UpdateVaultRequest) (*Vault, error) {
	var out Vault
	if err := c.do(ctx, http.MethodPut, "/api/vaults/"+url.PathEscape(uniqueID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteVault deletes a vault.
func (c *Client) DeleteVault(ctx context.Context, uniqueID string) error {
	return c.do(ctx, http.MethodDelete, "/api/vaults/"+url.PathEscape(uniqueID), nil, nil)
}

// --- API key endpoints ---

// GetAPIKeys lists API keys one page at a time.
func (c *Client) GetAPIKeys(ctx context.Context, pageSize, pageIndex int) (*APIKeysResponse, error) {
	var out APIKeysResponse
	path := "/api/api-keys?" + pageQuery(pageSize, pageIndex).Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAPIKey creates a key; the plaintext key appears only in this
// response.
func (c *Client) CreateAPIKey(ctx context.Context, req CreateAPIKeyRequest) (*CreateAPIKeyResponse, error) {
	var out CreateAPIKeyResponse
	if err := c.do(ctx, http.MethodPost, "/api/api-keys", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAPIKey renames or re-scopes a key.
func (c *Client) UpdateAPIKey(ctx context.Context, id int, req UpdateAPIKeyRequest) (*APIKey, error) {
	var out APIKey
	if err := c.do(ctx, http.MethodPut, "/api/api-keys/"+strconv.Itoa(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAPIKey revokes a key.
func (c *Client) DeleteAPIKey(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/api/api-keys/"+strconv.Itoa(id), nil, nil)
}

// --- Audit endpoints ---

// AuditLogFilter narrows an audit listing. Zero values mean no filter.
type AuditLogFilter struct {
	VaultUniqueID string
	Source        string // web or cli
}

// GetAuditLogs lists audit entries one page at a time.
func (c *Client) GetAuditLogs(ctx context.Context, pageSize, pageIndex int, filter AuditLogFilter) (*AuditLogsResponse, error) {
	q := pageQuery(pageSize, pageIndex)
	if filter.VaultUniqueID != "" {
		q.Set("vaultUniqueId", filter.VaultUniqueID)
	}
	if filter.Source != "" {
		q.Set("source", filter.Source)
	}

	var out AuditLogsResponse
	if err := c.do(ctx, http.MethodGet, "/api/audit-logs?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAuditMetrics summarizes recent audit activity.
func (c *Client) GetAuditMetrics(ctx context.Context) (*AuditMetricsResponse, error) {
	var out AuditMetricsResponse
	if err := c.do(ctx, http.MethodGet, "/api/audit-logs/metrics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func pageQuery(pageSize, pageIndex int) url.Values {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("pageIndex", strconv.Itoa(pageIndex))
	return q
}
