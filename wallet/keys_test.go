package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveRecord(t *testing.T) {
	account := newTestAccount(t, "W1")

	rec, err := resolveRecord(account, "W1")
	require.NoError(t, err)
	defer rec.destroy()

	require.Equal(t, "W1", rec.ID())
	require.Equal(t, "sync-W1", rec.SyncAccountKey())

	key, err := rec.MasterKey()
	require.NoError(t, err)
	require.Len(t, key, 32)
}

func TestResolveRecordUnknownWallet(t *testing.T) {
	account := newTestAccount(t)

	_, err := resolveRecord(account, "missing")
	var notFound NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "missing", notFound.WalletID)
}

func TestResolveRecordMissingFields(t *testing.T) {
	cases := []struct {
		name  string
		meta  Metadata
		field string
	}{
		{
			name:  "no master key",
			meta:  Metadata{CoinSeed: "aa11", SyncKey: "s"},
			field: "MK",
		},
		{
			name:  "no coin seed",
			meta:  Metadata{DataKey: "aa11", SyncKey: "s"},
			field: "BitcoinSeed",
		},
		{
			name:  "no sync key",
			meta:  Metadata{DataKey: "aa11", CoinSeed: "aa11"},
			field: "SyncKey",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			account := newTestAccount(t)
			account.metadata["W1"] = tc.meta

			_, err := resolveRecord(account, "W1")
			var missing MissingFieldError
			require.ErrorAs(t, err, &missing)
			require.Equal(t, "W1", missing.WalletID)
			require.Equal(t, tc.field, missing.Field)
		})
	}
}

func TestResolveRecordBadHex(t *testing.T) {
	cases := []struct {
		name  string
		meta  Metadata
		field string
	}{
		{
			name:  "master key not hex",
			meta:  Metadata{DataKey: "zz", CoinSeed: "aa11", SyncKey: "s"},
			field: "MK",
		},
		{
			name:  "coin seed not hex",
			meta:  Metadata{DataKey: "aa11", CoinSeed: "zz", SyncKey: "s"},
			field: "BitcoinSeed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			account := newTestAccount(t)
			account.metadata["W1"] = tc.meta

			_, err := resolveRecord(account, "W1")
			var encErr EncodingError
			require.ErrorAs(t, err, &encErr)
			require.Equal(t, tc.field, encErr.Field)
		})
	}
}

func TestRecordDestroyBlocksKeyAccess(t *testing.T) {
	account := newTestAccount(t, "W1")

	rec, err := resolveRecord(account, "W1")
	require.NoError(t, err)

	rec.destroy()

	_, err = rec.MasterKey()
	require.Error(t, err)
	_, err = rec.CoinSeed()
	require.Error(t, err)
	require.Equal(t, "", rec.Name())
	require.Equal(t, unsetCurrency, rec.CurrencyCode())
}

func TestNewRecordRejectsEmptyKeys(t *testing.T) {
	_, err := newRecord("W1", nil, []byte{0xAA}, "s")
	require.Error(t, err)

	_, err = newRecord("W1", []byte{0xAA}, nil, "s")
	require.Error(t, err)
}
