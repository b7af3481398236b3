package wallet

import "fmt"

// The error types below form the failure taxonomy for wallet loads and
// metadata persistence. Callers discriminate with errors.As; every error
// produced by this package is either one of these types or a plain wrapped
// error from a collaborator.

// NotFoundError indicates the wallet identity is unknown to the account's
// wallet list. This is the "wallet does not exist" case, distinct from
// MissingFieldError which signals corrupted or truncated metadata for a
// wallet that does exist.
type NotFoundError struct {
	WalletID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("wallet %s not found", e.WalletID)
}

// MissingFieldError indicates the wallet's metadata record exists but lacks
// one of the required key-material fields. Treated as corruption, not
// absence: a load that hits this must not fall back to defaults.
type MissingFieldError struct {
	WalletID string
	Field    string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("wallet %s metadata missing required field %q", e.WalletID, e.Field)
}

// EncodingError indicates a hex-encoded key field could not be decoded.
type EncodingError struct {
	Field string
	Err   error
}

func (e EncodingError) Error() string {
	return fmt.Sprintf("malformed hex in field %q: %v", e.Field, e.Err)
}

func (e EncodingError) Unwrap() error { return e.Err }

// CryptoError indicates encryption or decryption failed. Wrong-key
// decryption surfaces here (the AEAD authentication check fails), never as
// a ParseError or a garbage payload.
type CryptoError struct {
	Op  string // "encrypt" or "decrypt"
	Err error
}

func (e CryptoError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e CryptoError) Unwrap() error { return e.Err }

// IOError indicates a storage read or write failed. A file that simply does
// not exist is not reported through the codec as IOError during cache
// population; existence is checked first and absence maps to defaults.
type IOError struct {
	Path string
	Err  error
}

func (e IOError) Error() string {
	return fmt.Sprintf("storage access failed for %s: %v", e.Path, e.Err)
}

func (e IOError) Unwrap() error { return e.Err }

// ParseError indicates a decrypted payload was not the expected JSON shape.
type ParseError struct {
	Path string
	Err  error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("malformed payload in %s: %v", e.Path, e.Err)
}

func (e ParseError) Unwrap() error { return e.Err }
