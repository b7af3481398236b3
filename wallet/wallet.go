package wallet

import (
	"encoding/json"
	"fmt"
	"log"
	"path"

	"github.com/awnumar/memguard"

	"github.com/TJLW/airbitz-core/audit"
	"github.com/TJLW/airbitz-core/internal/mem"
	"github.com/TJLW/airbitz-core/persist"
)

// Initialize memguard before any wallet operation so interrupted processes
// still wipe protected buffers.
func init() {
	memguard.CatchInterrupt()
}

// Info is a read-only snapshot of a wallet's metadata, assembled by GetInfo.
type Info struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CurrencyCode int    `json:"currency_code"`
	Archived     bool   `json:"archived"`
	Balance      int64  `json:"balance"`
}

// Manager is the external-facing surface of the wallet metadata core. It
// composes the record cache, the encrypted-record codec and the account and
// balance collaborators into the operations the rest of the engine calls.
//
// A Manager is created per login session and torn down at logout; the cache
// it owns is the only holder of decrypted wallet key material in the
// process.
type Manager struct {
	store    persist.Store
	cache    *Cache
	codec    *RecordCodec
	account  Account
	balances BalanceSource
	audit    audit.Logger

	memoryProtectionLevel mem.ProtectionLevel
}

// New creates a wallet Manager over the given storage backend and
// collaborators.
//
// Initialization steps:
//  1. Validates configuration options
//  2. Tests storage backend connectivity
//  3. Sets up memory protection (best-effort, non-fatal)
//  4. Builds the empty record cache
//
// Parameters:
//   - options: configuration options (memory locking, etc.)
//   - store: storage backend holding the per-wallet sync directories
//   - account: the account/login subsystem's wallet-list view
//   - balances: balance computation collaborator
//   - auditLogger: logger for security events (nil creates a no-op logger)
//
// Returns the initialized Manager, or an error if the options are invalid
// or the storage backend is unreachable.
func New(options Options, store persist.Store, account Account, balances BalanceSource, auditLogger audit.Logger) (*Manager, error) {
	if err := validateOptions(options); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if account == nil {
		return nil, fmt.Errorf("account is required")
	}
	if balances == nil {
		return nil, fmt.Errorf("balance source is required")
	}

	// Audit operations must never fail on a nil logger.
	if auditLogger == nil {
		auditLogger = audit.NewNoOpLogger()
	}

	// Early connectivity check prevents initializing over unusable storage.
	if err := store.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to storage backend: %w", err)
	}

	codec := NewRecordCodec(store, options.MaxPayloadSize)
	m := &Manager{
		store:                 store,
		cache:                 NewCache(store, codec, auditLogger),
		codec:                 codec,
		account:               account,
		balances:              balances,
		audit:                 auditLogger,
		memoryProtectionLevel: mem.ProtectionNone,
	}

	if options.EnableMemoryLock {
		// Best effort: the cache still protects key material through
		// memguard buffers when the platform refuses a full memory lock.
		level, err := mem.Lock()
		if err != nil {
			fmt.Printf("WARNING: cannot fully protect memory: %v\n", err)
		}
		m.memoryProtectionLevel = level
	}

	return m, nil
}

// SetName sets the wallet's display name and persists it to the wallet's
// sync directory as an encrypted WalletName.json.
//
// The in-memory record is updated before the encrypted write. On a write
// failure the update is NOT rolled back, so memory state runs ahead of disk
// state until a retry succeeds. Callers needing strict agreement must treat
// a failed SetName as retryable and re-issue the write (the original core
// behaves the same way; see the package design notes).
//
// The master key handed to the encryption primitive is a copy taken out of
// the record's protected buffer and wiped afterwards; cache-internal
// mutation never races the encryption call's view of the key.
func (m *Manager) SetName(walletID, name string) error {
	err := m.cache.withRecord(walletID, m.account, func(rec *Record) error {
		rec.name = name

		payload, err := encodePayload(nameDoc{WalletName: name})
		if err != nil {
			return err
		}

		masterKey, err := rec.MasterKey()
		if err != nil {
			return err
		}
		defer memguard.WipeBytes(masterKey)

		filePath := path.Join(m.account.SyncDirectory(walletID), nameFilename)
		return m.codec.EncryptAndWrite(filePath, masterKey, payload)
	})

	m.logAudit("wallet_set_name", err == nil, map[string]interface{}{
		"wallet_id": walletID,
	})
	return err
}

// SetCurrency sets the wallet's currency code and persists it to the
// wallet's sync directory as an encrypted Currency.json. Same consistency
// caveat as SetName: the in-memory update is not rolled back on a failed
// write.
func (m *Manager) SetCurrency(walletID string, currencyCode int) error {
	err := m.cache.withRecord(walletID, m.account, func(rec *Record) error {
		rec.currencyCode = currencyCode

		payload, err := encodePayload(currencyDoc{Num: currencyCode})
		if err != nil {
			return err
		}

		masterKey, err := rec.MasterKey()
		if err != nil {
			return err
		}
		defer memguard.WipeBytes(masterKey)

		filePath := path.Join(m.account.SyncDirectory(walletID), currencyFilename)
		return m.codec.EncryptAndWrite(filePath, masterKey, payload)
	})

	m.logAudit("wallet_set_currency", err == nil, map[string]interface{}{
		"wallet_id": walletID,
	})
	return err
}

// GetInfo assembles a read-only snapshot of the wallet: identity, name,
// currency code, the archived flag from the account's wallet list and the
// balance from the balance collaborator.
//
// The snapshot is all-or-nothing: a failure from either collaborator aborts
// the whole call and no partial Info is ever returned.
func (m *Manager) GetInfo(walletID string) (*Info, error) {
	var info *Info
	err := m.cache.withRecord(walletID, m.account, func(rec *Record) error {
		archived, err := m.account.Archived(walletID)
		if err != nil {
			return err
		}

		balance, err := m.balances.Balance(walletID)
		if err != nil {
			return err
		}

		info = &Info{
			ID:           rec.id,
			Name:         rec.name,
			CurrencyCode: rec.currencyCode,
			Archived:     archived,
			Balance:      balance,
		}
		return nil
	})

	m.logAudit("wallet_get_info", err == nil, map[string]interface{}{
		"wallet_id": walletID,
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Store exposes the storage backend the Manager was built over, for status
// reporting and connectivity checks.
func (m *Manager) Store() persist.Store {
	return m.store
}

// logAudit records an audit event, reporting (but not propagating) audit
// backend failures so security events are never lost silently.
func (m *Manager) logAudit(action string, success bool, metadata map[string]interface{}) {
	if err := m.audit.Log(action, success, metadata); err != nil {
		log.Printf("ERROR: audit logging failed for %s: %v", action, err)
	}
}

// ClearCache destroys every cached record, wiping the decrypted key
// material. Called at logout and account-switch boundaries. Subsequent
// operations repopulate from the store.
func (m *Manager) ClearCache() {
	m.cache.Clear()
}

// MemoryProtection describes the memory protection level achieved at
// initialization.
func (m *Manager) MemoryProtection() string {
	return m.memoryProtectionLevel.String()
}

// Close clears the cache and releases the audit logger.
func (m *Manager) Close() error {
	m.cache.Clear()
	return m.audit.Close()
}

// encodePayload serializes a metadata document with the trailing newline
// terminator the on-disk format carries.
func encodePayload(doc interface{}) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}
	return append(b, '\n'), nil
}
