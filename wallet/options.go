package wallet

import "errors"

// Options configures Manager initialization.
//
// The wallet core deliberately carries little configuration: the cipher, the
// artifact names and the cache discipline are fixed parts of the format, so
// only operational toggles live here.
type Options struct {
	// EnableMemoryLock requests that the process memory be locked against
	// swapping (mlockall). Best effort: on platforms or configurations where
	// locking is denied the Manager still runs, with key material protected
	// only by memguard buffers.
	EnableMemoryLock bool `json:"enable_memory_lock"`

	// MaxPayloadSize bounds the plaintext size EncryptAndWrite accepts, in
	// bytes. Zero selects the default. Wallet metadata documents are tiny;
	// the bound exists to catch corrupted callers early.
	MaxPayloadSize int `json:"max_payload_size,omitempty"`
}

// DefaultMaxPayloadSize bounds metadata payloads; a name or currency
// document is a few dozen bytes, so anything near this limit is a bug.
const DefaultMaxPayloadSize = 1 << 20

func validateOptions(options Options) error {
	if options.MaxPayloadSize < 0 {
		return errors.New("max payload size cannot be negative")
	}
	return nil
}
