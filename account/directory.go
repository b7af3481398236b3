// Package account provides a store-backed implementation of the wallet
// package's account collaborator interface. The real engine resolves wallet
// membership through the login subsystem; this adapter serves the CLI and
// integration tests by reading a per-account wallet list from the same
// storage backend the wallet metadata lives in.
package account

import (
	"encoding/json"
	"fmt"
	"path"
	"sync"

	"github.com/TJLW/airbitz-core/persist"
	"github.com/TJLW/airbitz-core/wallet"
)

const listFilename = "Wallets.json"

type walletEntry struct {
	wallet.Metadata
	Archived bool `json:"Archived"`
}

type walletList struct {
	Wallets map[string]walletEntry `json:"wallets"`
}

// Directory is an account's wallet list, read from <base>/Wallets.json in
// the store. It satisfies wallet.Account.
type Directory struct {
	store persist.Store
	base  string

	mu   sync.RWMutex
	list *walletList // lazily loaded, invalidated on writes
}

// NewDirectory returns a Directory for the account rooted at base within
// the store.
func NewDirectory(store persist.Store, base string) (*Directory, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if base == "" {
		return nil, fmt.Errorf("account base path is required")
	}
	return &Directory{store: store, base: base}, nil
}

// WalletMetadata implements wallet.Account.
func (d *Directory) WalletMetadata(walletID string) (wallet.Metadata, error) {
	entry, err := d.entry(walletID)
	if err != nil {
		return wallet.Metadata{}, err
	}
	return entry.Metadata, nil
}

// Archived implements wallet.Account.
func (d *Directory) Archived(walletID string) (bool, error) {
	entry, err := d.entry(walletID)
	if err != nil {
		return false, err
	}
	return entry.Archived, nil
}

// SyncDirectory implements wallet.Account. The directory may not exist yet
// for wallets that have never persisted metadata.
func (d *Directory) SyncDirectory(walletID string) string {
	return path.Join(d.base, "wallets", walletID)
}

// List returns the known wallet identities.
func (d *Directory) List() ([]string, error) {
	list, err := d.load()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(list.Wallets))
	for id := range list.Wallets {
		ids = append(ids, id)
	}
	return ids, nil
}

// AddWallet registers a wallet's metadata in the account list. Wallet
// creation proper (key generation, login-package registration) happens
// elsewhere; this only records the already-derived material.
func (d *Directory) AddWallet(walletID string, meta wallet.Metadata, archived bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	list, err := d.loadLocked()
	if err != nil {
		return err
	}

	if list.Wallets == nil {
		list.Wallets = make(map[string]walletEntry)
	}
	list.Wallets[walletID] = walletEntry{Metadata: meta, Archived: archived}

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to serialize wallet list: %w", err)
	}

	if err = d.store.Write(path.Join(d.base, listFilename), data); err != nil {
		return fmt.Errorf("failed to write wallet list: %w", err)
	}

	d.list = list
	return nil
}

// SetArchived flips a wallet's archived flag in the account list.
func (d *Directory) SetArchived(walletID string, archived bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	list, err := d.loadLocked()
	if err != nil {
		return err
	}

	entry, ok := list.Wallets[walletID]
	if !ok {
		return wallet.NotFoundError{WalletID: walletID}
	}
	entry.Archived = archived
	list.Wallets[walletID] = entry

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to serialize wallet list: %w", err)
	}

	if err = d.store.Write(path.Join(d.base, listFilename), data); err != nil {
		return fmt.Errorf("failed to write wallet list: %w", err)
	}

	d.list = list
	return nil
}

func (d *Directory) entry(walletID string) (walletEntry, error) {
	list, err := d.load()
	if err != nil {
		return walletEntry{}, err
	}

	entry, ok := list.Wallets[walletID]
	if !ok {
		return walletEntry{}, wallet.NotFoundError{WalletID: walletID}
	}
	return entry, nil
}

func (d *Directory) load() (*walletList, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loadLocked()
}

func (d *Directory) loadLocked() (*walletList, error) {
	if d.list != nil {
		return d.list, nil
	}

	listPath := path.Join(d.base, listFilename)

	exists, err := d.store.Exists(listPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check wallet list: %w", err)
	}
	if !exists {
		// Account with no wallets yet
		d.list = &walletList{Wallets: make(map[string]walletEntry)}
		return d.list, nil
	}

	data, err := d.store.Read(listPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet list: %w", err)
	}

	var list walletList
	if err = json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("malformed wallet list: %w", err)
	}

	d.list = &list
	return d.list, nil
}
