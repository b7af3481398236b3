package wallet

import (
	"errors"

	"github.com/awnumar/memguard"
)

const unsetCurrency = -1

// Record holds the cached state for one wallet identity: the decrypted key
// material plus the mutable metadata read from the wallet's sync directory.
// Records are created only by the cache's populate path and destroyed only
// by a full cache clear; the key material lives in memguard locked buffers
// owned exclusively by the record, so eviction wipes the pages rather than
// waiting for the garbage collector.
type Record struct {
	id             string
	masterKey      *memguard.LockedBuffer
	coinSeed       *memguard.LockedBuffer
	syncAccountKey string

	// Mutable metadata, guarded by the owning cache's lock.
	name         string
	currencyCode int
}

// newRecord seals the decoded key material into locked buffers. The input
// slices are wiped by memguard as part of buffer construction, so callers
// must not touch them afterwards. Both keys are required; a record is never
// built partially.
func newRecord(id string, masterKey, coinSeed []byte, syncAccountKey string) (*Record, error) {
	if len(masterKey) == 0 {
		return nil, errors.New("empty master key")
	}
	if len(coinSeed) == 0 {
		return nil, errors.New("empty coin seed")
	}

	return &Record{
		id:             id,
		masterKey:      memguard.NewBufferFromBytes(masterKey),
		coinSeed:       memguard.NewBufferFromBytes(coinSeed),
		syncAccountKey: syncAccountKey,
		name:           "",
		currencyCode:   unsetCurrency,
	}, nil
}

// ID returns the wallet identity. Immutable after creation.
func (r *Record) ID() string { return r.id }

// Name returns the cached display name ("" when unset).
func (r *Record) Name() string { return r.name }

// CurrencyCode returns the cached currency code (-1 when unset).
func (r *Record) CurrencyCode() int { return r.currencyCode }

// SyncAccountKey returns the opaque key used by the sync layer.
func (r *Record) SyncAccountKey() string { return r.syncAccountKey }

// MasterKey returns a copy of the master key bytes. The copy isolates
// callers (in particular the encryption primitive) from the record's own
// buffer, so no reference to the protected memory escapes the record.
// Callers should wipe the copy when done.
func (r *Record) MasterKey() ([]byte, error) {
	return copyBuffer(r.masterKey)
}

// CoinSeed returns a copy of the coin seed bytes, under the same ownership
// rule as MasterKey.
func (r *Record) CoinSeed() ([]byte, error) {
	return copyBuffer(r.coinSeed)
}

func copyBuffer(buf *memguard.LockedBuffer) ([]byte, error) {
	if buf == nil || !buf.IsAlive() {
		return nil, errors.New("record has been destroyed")
	}
	out := make([]byte, buf.Size())
	copy(out, buf.Bytes())
	return out, nil
}

// destroy wipes and releases the record's secret buffers. Called only by
// the owning cache while holding its lock.
func (r *Record) destroy() {
	if r.masterKey != nil {
		r.masterKey.Destroy()
		r.masterKey = nil
	}
	if r.coinSeed != nil {
		r.coinSeed.Destroy()
		r.coinSeed = nil
	}
	r.name = ""
	r.currencyCode = unsetCurrency
}
