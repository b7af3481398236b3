package wallet

import (
	"encoding/hex"

	"github.com/awnumar/memguard"
)

// resolveRecord looks up a wallet's metadata in the account's wallet list
// and turns the hex-encoded key fields into a sealed Record. This step never
// touches the store directly; it only consumes the account collaborator and
// the hex codec.
//
// Failure modes are kept distinct on purpose:
//   - NotFoundError: the account has no such wallet
//   - MissingFieldError: the wallet exists but its metadata is incomplete,
//     which signals corruption or a version mismatch rather than absence
//   - EncodingError: a key field is present but not valid hex
func resolveRecord(account Account, walletID string) (*Record, error) {
	meta, err := account.WalletMetadata(walletID)
	if err != nil {
		return nil, err
	}

	if meta.DataKey == "" {
		return nil, MissingFieldError{WalletID: walletID, Field: "MK"}
	}
	if meta.CoinSeed == "" {
		return nil, MissingFieldError{WalletID: walletID, Field: "BitcoinSeed"}
	}
	if meta.SyncKey == "" {
		return nil, MissingFieldError{WalletID: walletID, Field: "SyncKey"}
	}

	masterKey, err := hex.DecodeString(meta.DataKey)
	if err != nil {
		return nil, EncodingError{Field: "MK", Err: err}
	}

	coinSeed, err := hex.DecodeString(meta.CoinSeed)
	if err != nil {
		memguard.WipeBytes(masterKey)
		return nil, EncodingError{Field: "BitcoinSeed", Err: err}
	}

	// newRecord wipes the decoded slices as it seals them.
	return newRecord(walletID, masterKey, coinSeed, meta.SyncKey)
}
