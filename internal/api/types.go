package api

import "time"

// LoginRequest is the credential login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the registration payload.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AuthResponse carries the session token issued by login and signup.
type AuthResponse struct {
	Token string `json:"token"`
}

// User is the authenticated account returned by /api/user/me.
type User struct {
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// AppConfig is the public application configuration, used to decide
// which login affordances to offer.
type AppConfig struct {
	OidcEnabled  bool `json:"oidcEnabled"`
	EmailEnabled bool `json:"emailEnabled"`
}

// StatusResponse reports server health.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// MagicLinkConsumeResult is the outcome of exchanging a magic-link
// token. Exactly one of the two shapes occurs on success: a JSON body
// carrying a session token (Token non-empty), or a redirect-style
// reply (Redirected true, Location from the header, possibly empty).
type MagicLinkConsumeResult struct {
	Status      int
	Token       string
	RedirectURL string
	Redirected  bool
	Location    string
}

// VaultLite is a vault without its secret value, as returned by list
// endpoints.
type VaultLite struct {
	UniqueID    string    `json:"uniqueId"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Vault includes the decrypted secret value.
type Vault struct {
	VaultLite
	Value string `json:"value"`
}

// VaultsResponse is a paginated vault listing.
type VaultsResponse struct {
	Vaults     []VaultLite `json:"vaults"`
	TotalCount int         `json:"totalCount"`
	PageSize   int         `json:"pageSize"`
	PageIndex  int         `json:"pageIndex"`
}

// CreateVaultRequest creates a vault.
type CreateVaultRequest struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateVaultRequest updates a vault; empty fields are left unchanged
// by the server.
type UpdateVaultRequest struct {
	Name        string `json:"name,omitempty"`
	Value       string `json:"value,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// APIKey is a programmatic access key scoped to a set of vaults.
type APIKey struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	VaultUniqueIDs []string   `json:"vaultUniqueIds,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	LastUsedAt     *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// APIKeysResponse is a paginated key listing.
type APIKeysResponse struct {
	APIKeys    []APIKey `json:"apiKeys"`
	TotalCount int      `json:"totalCount"`
	PageSize   int      `json:"pageSize"`
	PageIndex  int      `json:"pageIndex"`
}

// CreateAPIKeyRequest creates a key.
type CreateAPIKeyRequest struct {
	Name           string     `json:"name"`
	VaultUniqueIDs []string   `json:"vaultUniqueIds,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}

// CreateAPIKeyResponse carries the one-time plaintext key.
type CreateAPIKeyResponse struct {
	APIKey APIKey `json:"apiKey"`
	Key    string `json:"key"`
}

// UpdateAPIKeyRequest updates a key's name or vault scope.
type UpdateAPIKeyRequest struct {
	Name           string   `json:"name,omitempty"`
	VaultUniqueIDs []string `json:"vaultUniqueIds,omitempty"`
}

// AuditLog is one recorded action.
type AuditLog struct {
	Action    string     `json:"action"`
	Source    string     `json:"source,omitempty"`
	IPAddress string     `json:"ipAddress,omitempty"`
	UserAgent string     `json:"userAgent,omitempty"`
	Vault     *VaultLite `json:"vault,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// AuditLogsResponse is a paginated audit listing.
type AuditLogsResponse struct {
	AuditLogs  []AuditLog `json:"auditLogs"`
	TotalCount int        `json:"totalCount"`
	PageSize   int        `json:"pageSize"`
	PageIndex  int        `json:"pageIndex"`
}

// AuditMetricsResponse summarizes recent audit activity.
type AuditMetricsResponse struct {
	TotalLogs     int `json:"totalLogs"`
	Last24Hours   int `json:"last24Hours"`
	Last7Days     int `json:"last7Days"`
	UniqueSources int `json:"uniqueSources"`
}
