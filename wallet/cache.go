package wallet

import (
	"encoding/json"
	"log"
	"path"
	"sync"

	"github.com/awnumar/memguard"

	"github.com/TJLW/airbitz-core/audit"
	"github.com/TJLW/airbitz-core/persist"
)

// Fixed names and field keys of the per-wallet metadata artifacts. These are
// part of the on-disk format shared with the sync layer and must not change.
const (
	nameFilename     = "WalletName.json"
	currencyFilename = "Currency.json"
)

type nameDoc struct {
	WalletName string `json:"walletName"`
}

type currencyDoc struct {
	Num int `json:"num"`
}

// Cache is the process-wide authority on cached wallet records. It owns the
// map from wallet identity to Record, lazy population from the store, the
// at-most-one-record-per-identity invariant, and full eviction.
//
// Locking is deliberately coarse: one mutex serializes every read, write and
// population across all identities, and it is held across the file reads and
// decryption a population performs. Wallet-record access is infrequent and
// secret-bearing, so correctness wins over concurrency granularity here. A
// slow load for one wallet blocking an update for another is accepted.
type Cache struct {
	mu      sync.Mutex
	records map[string]*Record
	codec   *RecordCodec
	store   persist.Store
	audit   audit.Logger
}

// NewCache returns an empty cache over the given store and codec. A nil
// audit logger is replaced with a no-op logger so call sites never have to
// guard.
func NewCache(store persist.Store, codec *RecordCodec, auditLogger audit.Logger) *Cache {
	if auditLogger == nil {
		auditLogger = audit.NewNoOpLogger()
	}
	return &Cache{
		records: make(map[string]*Record),
		codec:   codec,
		store:   store,
		audit:   auditLogger,
	}
}

// GetOrLoad returns the cached record for walletID, populating it on first
// access. Repeated calls after a successful load return the same record
// without touching the store again.
//
// Population is all-or-nothing: any failure (key resolution, decryption,
// parsing) aborts the call with no cache mutation, so the next call retries
// from a clean slate. The two absence cases that are NOT failures: a sync
// directory that does not exist yet (new wallet, both fields default) and an
// individual metadata file that does not exist (that field defaults, the
// other is still loaded).
func (c *Cache) GetOrLoad(walletID string, account Account) (*Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec, ok := c.records[walletID]; ok {
		return rec, nil
	}

	rec, err := c.populate(walletID, account)
	if err != nil {
		c.logAudit("wallet_load", false, map[string]interface{}{
			"wallet_id": walletID,
			"error":     err.Error(),
		})
		return nil, err
	}

	// Add-if-absent keeps the at-most-one-per-identity invariant even if a
	// second call site ever populates the same identity: the freshly built
	// record loses and is destroyed, the existing one is returned.
	winner := c.addLocked(rec)

	c.logAudit("wallet_load", true, map[string]interface{}{
		"wallet_id": walletID,
	})
	return winner, nil
}

// populate builds a record from the account metadata and the wallet's sync
// directory. Caller holds c.mu.
func (c *Cache) populate(walletID string, account Account) (*Record, error) {
	rec, err := resolveRecord(account, walletID)
	if err != nil {
		return nil, err
	}

	syncDir := account.SyncDirectory(walletID)

	dirExists, err := c.store.DirExists(syncDir)
	if err != nil {
		rec.destroy()
		return nil, IOError{Path: syncDir, Err: err}
	}

	// A missing sync directory means the wallet has never persisted any
	// metadata. Not an error; the record keeps its defaults.
	if !dirExists {
		return rec, nil
	}

	masterKey, err := rec.MasterKey()
	if err != nil {
		rec.destroy()
		return nil, err
	}
	defer memguard.WipeBytes(masterKey)

	name, err := c.loadName(path.Join(syncDir, nameFilename), masterKey)
	if err != nil {
		rec.destroy()
		return nil, err
	}
	rec.name = name

	currency, err := c.loadCurrency(path.Join(syncDir, currencyFilename), masterKey)
	if err != nil {
		rec.destroy()
		return nil, err
	}
	rec.currencyCode = currency

	return rec, nil
}

func (c *Cache) loadName(filePath string, masterKey []byte) (string, error) {
	exists, err := c.store.Exists(filePath)
	if err != nil {
		return "", IOError{Path: filePath, Err: err}
	}
	if !exists {
		return "", nil
	}

	plaintext, err := c.codec.ReadAndDecrypt(filePath, masterKey)
	if err != nil {
		return "", err
	}

	var doc nameDoc
	if err = json.Unmarshal(trimTerminator(plaintext), &doc); err != nil {
		return "", ParseError{Path: filePath, Err: err}
	}
	return doc.WalletName, nil
}

func (c *Cache) loadCurrency(filePath string, masterKey []byte) (int, error) {
	exists, err := c.store.Exists(filePath)
	if err != nil {
		return unsetCurrency, IOError{Path: filePath, Err: err}
	}
	if !exists {
		return unsetCurrency, nil
	}

	plaintext, err := c.codec.ReadAndDecrypt(filePath, masterKey)
	if err != nil {
		return unsetCurrency, err
	}

	var doc currencyDoc
	if err = json.Unmarshal(trimTerminator(plaintext), &doc); err != nil {
		return unsetCurrency, ParseError{Path: filePath, Err: err}
	}
	return doc.Num, nil
}

// addLocked inserts rec unless an entry for its identity already exists, in
// which case rec is destroyed and the existing entry returned. Caller holds
// c.mu.
func (c *Cache) addLocked(rec *Record) *Record {
	if existing, ok := c.records[rec.id]; ok {
		rec.destroy()
		return existing
	}
	c.records[rec.id] = rec
	return rec
}

// Clear destroys every cached record, wiping the secret buffers, and empties
// the map. Subsequent GetOrLoad calls repopulate from the store.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rec := range c.records {
		rec.destroy()
	}
	c.records = make(map[string]*Record)

	c.logAudit("wallet_cache_clear", true, nil)
}

// Len reports the number of cached records.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// withRecord runs fn on the record for walletID under the cache lock,
// loading it first if needed. Facade mutations go through here so in-place
// field updates stay serialized with populations and clears.
func (c *Cache) withRecord(walletID string, account Account, fn func(*Record) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.records[walletID]
	if !ok {
		var err error
		rec, err = c.populate(walletID, account)
		if err != nil {
			c.logAudit("wallet_load", false, map[string]interface{}{
				"wallet_id": walletID,
				"error":     err.Error(),
			})
			return err
		}
		rec = c.addLocked(rec)
	}

	return fn(rec)
}

// logAudit records an audit event. An audit backend failure must not fail
// the wallet operation itself, but losing a security event silently is not
// acceptable either, so it is reported on the process log.
func (c *Cache) logAudit(action string, success bool, metadata map[string]interface{}) {
	if err := c.audit.Log(action, success, metadata); err != nil {
		log.Printf("ERROR: audit logging failed for %s: %v", action, err)
	}
}

// trimTerminator strips the trailing terminator the original payload format
// carries (a NUL from C-string serialization, or a newline) before JSON
// parsing.
func trimTerminator(b []byte) []byte {
	for len(b) > 0 {
		switch b[len(b)-1] {
		case 0, '\n', '\r', ' ', '\t':
			b = b[:len(b)-1]
		default:
			return b
		}
	}
	return b
}
