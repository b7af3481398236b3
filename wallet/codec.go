package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/TJLW/airbitz-core/persist"
)

// RecordCodec encrypts and decrypts wallet metadata payloads to and from a
// storage backend. It is a pure transformation over the store: no state, no
// logging, and it never retains the key it is handed.
//
// Cipher: AES-256-GCM. The stored artifact is a random 96-bit nonce followed
// by the ciphertext and authentication tag. A wrong key or a tampered file
// fails the authentication check and surfaces as a CryptoError, never as a
// successfully decrypted garbage payload.
type RecordCodec struct {
	store      persist.Store
	maxPayload int
}

// NewRecordCodec returns a codec bound to the given storage backend.
// maxPayload bounds the plaintext size accepted for encryption; zero selects
// DefaultMaxPayloadSize.
func NewRecordCodec(store persist.Store, maxPayload int) *RecordCodec {
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayloadSize
	}
	return &RecordCodec{store: store, maxPayload: maxPayload}
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptAndWrite encrypts payload with the given 256-bit key and writes the
// result to path. The write goes through the store's atomic write primitive,
// so readers never observe a torn file.
func (c *RecordCodec) EncryptAndWrite(path string, key, payload []byte) error {
	if len(payload) > c.maxPayload {
		return CryptoError{Op: "encrypt", Err: fmt.Errorf("payload too large: %d bytes", len(payload))}
	}

	aead, err := newAEAD(key)
	if err != nil {
		return CryptoError{Op: "encrypt", Err: err}
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return CryptoError{Op: "encrypt", Err: fmt.Errorf("failed to generate nonce: %w", err)}
	}

	sealed := aead.Seal(nonce, nonce, payload, nil)

	if err = c.store.Write(path, sealed); err != nil {
		return IOError{Path: path, Err: err}
	}
	return nil
}

// ReadAndDecrypt reads path and decrypts it with the given key, returning
// the plaintext bytes. A missing or unreadable file is an IOError; malformed
// ciphertext or a failed integrity check is a CryptoError.
func (c *RecordCodec) ReadAndDecrypt(path string, key []byte) ([]byte, error) {
	data, err := c.store.Read(path)
	if err != nil {
		return nil, IOError{Path: path, Err: err}
	}

	aead, err := newAEAD(key)
	if err != nil {
		return nil, CryptoError{Op: "decrypt", Err: err}
	}

	if len(data) < aead.NonceSize()+aead.Overhead() {
		return nil, CryptoError{Op: "decrypt", Err: errors.New("encrypted data too short")}
	}

	nonce := data[:aead.NonceSize()]
	ciphertext := data[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, CryptoError{Op: "decrypt", Err: fmt.Errorf("authentication failed: %w", err)}
	}

	return plaintext, nil
}
