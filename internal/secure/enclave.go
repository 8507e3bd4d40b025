// Package secure provides memory-safe handling of bearer tokens held in
// process memory between requests. It wraps memguard so that plaintext
// tokens are encrypted at rest in memory, protected from swapping via
// mlock, and wiped on destruction. Call memguard.Purge in a defer at
// process exit for full cleanup.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Buffer holds a sensitive byte string inside an encrypted memguard
// enclave. The zero value is not usable; construct with NewBuffer.
type Buffer struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	destroyed bool
}

// NewBuffer copies data into a protected memory region. The caller
// retains ownership of data and should zero it afterwards.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{enclave: memguard.NewEnclave(data)}
}

// OpenString decrypts the buffer and returns the plaintext as a string.
// The returned string is an ordinary Go string; callers must not log it
// and should keep its lifetime short. Returns "" after Destroy.
func (b *Buffer) OpenString() (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed || b.enclave == nil {
		return "", nil
	}

	locked, err := b.enclave.Open()
	if err != nil {
		return "", err
	}
	defer locked.Destroy()
	// string() copies out of the locked region before it is wiped.
	return string(locked.Bytes()), nil
}

// Destroy marks the buffer as destroyed. Idempotent; subsequent
// OpenString calls return the empty string. The encrypted enclave data
// is safe to leave for the garbage collector.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.enclave = nil
	b.destroyed = true
}
