// Package tokenstore persists the session bearer token across CLI
// invocations. It is pure storage: no network calls, no token
// validation. The store is the single source of truth for "is a
// session present".
package tokenstore

import "errors"

// ErrNotFound is returned by Get when no token is stored.
var ErrNotFound = errors.New("no session token stored")

// Store persists a single opaque bearer token.
type Store interface {
	// Set persists the token, replacing any previous one.
	Set(token string) error
	// Get returns the stored token, or ErrNotFound.
	Get() (string, error)
	// Clear removes the token. Clearing an empty store is not an error.
	Clear() error
	// Source names the backend for diagnostics ("keyring", "file", "memory").
	Source() string
}

// Memory is an in-process Store used by tests and one-shot flows that
// must not touch the host keyring.
type Memory struct {
	token string
	set   bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Set(token string) error {
	m.token = token
	m.set = true
	return nil
}

func (m *Memory) Get() (string, error) {
	if !m.set {
		return "", ErrNotFound
	}
	return m.token, nil
}

func (m *Memory) Clear() error {
	m.token = ""
	m.set = false
	return nil
}

func (m *Memory) Source() string { return "memory" }
