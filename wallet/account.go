package wallet

// Metadata is the per-wallet record served by the account's wallet list.
// DataKey and CoinSeed are hex encoded; SyncKey is an opaque string consumed
// by the sync layer. The JSON field names are fixed by the account wire
// format and must not change.
type Metadata struct {
	DataKey  string `json:"MK"`
	SyncKey  string `json:"SyncKey"`
	CoinSeed string `json:"BitcoinSeed"`
}

// Account is the slice of the account/login subsystem this package needs.
// Implementations own wallet membership; this package only caches and serves
// information about wallets whose identity is already known.
type Account interface {
	// WalletMetadata returns the metadata record for the given wallet
	// identity, or a NotFoundError if the account does not know it.
	WalletMetadata(walletID string) (Metadata, error)

	// Archived reports whether the wallet is flagged archived in the
	// account's wallet list.
	Archived(walletID string) (bool, error)

	// SyncDirectory returns the store path of the wallet's sync directory.
	// The directory may not exist yet for freshly created wallets.
	SyncDirectory(walletID string) string
}

// BalanceSource computes a wallet's balance in the smallest currency unit.
// Balance computation lives outside this package (it depends on transaction
// state this cache knows nothing about).
type BalanceSource interface {
	Balance(walletID string) (int64, error)
}
