package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TJLW/airbitz-core/persist"
	"github.com/TJLW/airbitz-core/wallet"
)

func newTestDirectory(t *testing.T) (*Directory, persist.Store) {
	t.Helper()
	store, err := persist.NewFileSystemStore(t.TempDir())
	require.NoError(t, err)

	dir, err := NewDirectory(store, "accounts/alice")
	require.NoError(t, err)
	return dir, store
}

func testMetadata() wallet.Metadata {
	return wallet.Metadata{
		DataKey:  "aa11",
		CoinSeed: "bb22",
		SyncKey:  "cc33",
	}
}

func TestNewDirectoryValidation(t *testing.T) {
	store, err := persist.NewFileSystemStore(t.TempDir())
	require.NoError(t, err)

	_, err = NewDirectory(nil, "accounts/alice")
	assert.Error(t, err)

	_, err = NewDirectory(store, "")
	assert.Error(t, err)
}

func TestDirectoryEmptyAccount(t *testing.T) {
	dir, _ := newTestDirectory(t)

	ids, err := dir.List()
	require.NoError(t, err)
	require.Empty(t, ids)

	_, err = dir.WalletMetadata("W1")
	var notFound wallet.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "W1", notFound.WalletID)

	_, err = dir.Archived("W1")
	require.ErrorAs(t, err, &notFound)
}

func TestDirectoryAddWallet(t *testing.T) {
	dir, _ := newTestDirectory(t)

	require.NoError(t, dir.AddWallet("W1", testMetadata(), false))

	meta, err := dir.WalletMetadata("W1")
	require.NoError(t, err)
	require.Equal(t, testMetadata(), meta)

	archived, err := dir.Archived("W1")
	require.NoError(t, err)
	assert.False(t, archived)

	ids, err := dir.List()
	require.NoError(t, err)
	require.Equal(t, []string{"W1"}, ids)
}

func TestDirectorySetArchived(t *testing.T) {
	dir, _ := newTestDirectory(t)

	require.NoError(t, dir.AddWallet("W1", testMetadata(), false))
	require.NoError(t, dir.SetArchived("W1", true))

	archived, err := dir.Archived("W1")
	require.NoError(t, err)
	assert.True(t, archived)

	var notFound wallet.NotFoundError
	err = dir.SetArchived("missing", true)
	require.ErrorAs(t, err, &notFound)
}

func TestDirectoryPersistsAcrossInstances(t *testing.T) {
	dir, store := newTestDirectory(t)

	require.NoError(t, dir.AddWallet("W1", testMetadata(), true))

	// A fresh Directory over the same store sees the registered wallet.
	reopened, err := NewDirectory(store, "accounts/alice")
	require.NoError(t, err)

	meta, err := reopened.WalletMetadata("W1")
	require.NoError(t, err)
	require.Equal(t, testMetadata(), meta)

	archived, err := reopened.Archived("W1")
	require.NoError(t, err)
	assert.True(t, archived)
}

func TestDirectorySyncDirectory(t *testing.T) {
	dir, _ := newTestDirectory(t)
	require.Equal(t, "accounts/alice/wallets/W1", dir.SyncDirectory("W1"))
}

func TestDirectoryMalformedList(t *testing.T) {
	dir, store := newTestDirectory(t)

	require.NoError(t, store.Write("accounts/alice/Wallets.json", []byte("{broken")))

	_, err := dir.List()
	assert.Error(t, err)
}
