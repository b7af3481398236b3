package wallet

import (
	"encoding/hex"
	"path"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TJLW/airbitz-core/persist"
)

func newTestCache(t *testing.T) (*Cache, persist.Store) {
	t.Helper()
	store := newTestStore(t)
	codec := NewRecordCodec(store, 0)
	return NewCache(store, codec, nil), store
}

// masterKeyOf decodes a test account's master key for writing fixtures.
func masterKeyOf(t *testing.T, account *fakeAccount, walletID string) []byte {
	t.Helper()
	key, err := hex.DecodeString(account.metadata[walletID].DataKey)
	require.NoError(t, err)
	return key
}

func TestGetOrLoadNewWalletDefaults(t *testing.T) {
	cache, _ := newTestCache(t)
	account := newTestAccount(t, "W1")

	rec, err := cache.GetOrLoad("W1", account)
	require.NoError(t, err)
	require.Equal(t, "W1", rec.ID())
	require.Equal(t, "", rec.Name())
	require.Equal(t, -1, rec.CurrencyCode())
	require.Equal(t, "sync-W1", rec.SyncAccountKey())
}

func TestGetOrLoadReturnsCachedRecord(t *testing.T) {
	cache, _ := newTestCache(t)
	account := newTestAccount(t, "W1")

	first, err := cache.GetOrLoad("W1", account)
	require.NoError(t, err)

	// Drop the wallet from the account; a cached record must be served
	// without consulting the collaborators again.
	delete(account.metadata, "W1")

	second, err := cache.GetOrLoad("W1", account)
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestGetOrLoadIndependentFields(t *testing.T) {
	cache, store := newTestCache(t)
	account := newTestAccount(t, "W1")
	key := masterKeyOf(t, account, "W1")

	// Persist only the name file; the currency file stays absent.
	codec := NewRecordCodec(store, 0)
	payload, err := encodePayload(nameDoc{WalletName: "Groceries"})
	require.NoError(t, err)
	namePath := path.Join(account.SyncDirectory("W1"), nameFilename)
	require.NoError(t, codec.EncryptAndWrite(namePath, key, payload))

	rec, err := cache.GetOrLoad("W1", account)
	require.NoError(t, err)
	require.Equal(t, "Groceries", rec.Name())
	require.Equal(t, -1, rec.CurrencyCode())
}

func TestGetOrLoadCorruptFileIsFatal(t *testing.T) {
	cache, store := newTestCache(t)
	account := newTestAccount(t, "W1")

	// Materialize the sync directory with garbage where the name file goes.
	namePath := path.Join(account.SyncDirectory("W1"), nameFilename)
	require.NoError(t, store.Write(namePath, []byte("not ciphertext")))

	_, err := cache.GetOrLoad("W1", account)
	var cryptoErr CryptoError
	require.ErrorAs(t, err, &cryptoErr)

	// A failed load leaves no entry behind; the next call starts clean.
	require.Equal(t, 0, cache.Len())

	key := masterKeyOf(t, account, "W1")
	codec := NewRecordCodec(store, 0)
	payload, err := encodePayload(nameDoc{WalletName: "Recovered"})
	require.NoError(t, err)
	require.NoError(t, codec.EncryptAndWrite(namePath, key, payload))

	rec, err := cache.GetOrLoad("W1", account)
	require.NoError(t, err)
	require.Equal(t, "Recovered", rec.Name())
}

func TestGetOrLoadBadJSONIsParseError(t *testing.T) {
	cache, store := newTestCache(t)
	account := newTestAccount(t, "W1")
	key := masterKeyOf(t, account, "W1")

	// Valid ciphertext, invalid JSON inside.
	codec := NewRecordCodec(store, 0)
	namePath := path.Join(account.SyncDirectory("W1"), nameFilename)
	require.NoError(t, codec.EncryptAndWrite(namePath, key, []byte("{truncated")))

	_, err := cache.GetOrLoad("W1", account)
	var parseErr ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, 0, cache.Len())
}

func TestGetOrLoadFailureLeavesNoEntry(t *testing.T) {
	cache, _ := newTestCache(t)
	account := newTestAccount(t) // empty account

	_, err := cache.GetOrLoad("W1", account)
	var notFound NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, 0, cache.Len())
}

func TestConcurrentGetOrLoadSingleRecord(t *testing.T) {
	cache, _ := newTestCache(t)
	account := newTestAccount(t, "W1")

	const callers = 16
	records := make([]*Record, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			records[i], errs[i] = cache.GetOrLoad("W1", account)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}
	require.Equal(t, 1, cache.Len())
	for i := 1; i < callers; i++ {
		require.Same(t, records[0], records[i], "all callers observe the same record")
	}
}

func TestAddIfAbsentDiscardsLoser(t *testing.T) {
	cache, _ := newTestCache(t)
	account := newTestAccount(t, "W1")

	cache.mu.Lock()
	winner, err := cache.populate("W1", account)
	require.NoError(t, err)
	require.Same(t, winner, cache.addLocked(winner))

	loser, err := cache.populate("W1", account)
	require.NoError(t, err)
	require.Same(t, winner, cache.addLocked(loser), "second populate loses the race")
	cache.mu.Unlock()

	// The losing record's secrets were wiped.
	_, err = loser.MasterKey()
	require.Error(t, err)
	_, err = winner.MasterKey()
	require.NoError(t, err)
}

func TestClearRepopulatesFromDisk(t *testing.T) {
	cache, store := newTestCache(t)
	account := newTestAccount(t, "W1")
	key := masterKeyOf(t, account, "W1")

	codec := NewRecordCodec(store, 0)
	payload, err := encodePayload(nameDoc{WalletName: "Rent"})
	require.NoError(t, err)
	namePath := path.Join(account.SyncDirectory("W1"), nameFilename)
	require.NoError(t, codec.EncryptAndWrite(namePath, key, payload))

	first, err := cache.GetOrLoad("W1", account)
	require.NoError(t, err)

	cache.Clear()
	require.Equal(t, 0, cache.Len())

	// Evicted records no longer expose key material.
	_, err = first.MasterKey()
	require.Error(t, err)

	second, err := cache.GetOrLoad("W1", account)
	require.NoError(t, err)
	require.NotSame(t, first, second)
	require.Equal(t, "Rent", second.Name())

	firstKey := masterKeyOf(t, account, "W1")
	secondKey, err := second.MasterKey()
	require.NoError(t, err)
	require.Equal(t, firstKey, secondKey, "re-population yields equal field values")
}

func TestRecordKeyCopies(t *testing.T) {
	cache, _ := newTestCache(t)
	account := newTestAccount(t, "W1")

	rec, err := cache.GetOrLoad("W1", account)
	require.NoError(t, err)

	copy1, err := rec.MasterKey()
	require.NoError(t, err)
	copy2, err := rec.MasterKey()
	require.NoError(t, err)
	require.Equal(t, copy1, copy2)

	// Mutating a copy must not touch the record's buffer.
	copy1[0] ^= 0xFF
	copy3, err := rec.MasterKey()
	require.NoError(t, err)
	require.Equal(t, copy2, copy3)
}

func TestTrimTerminator(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want string
	}{
		{"nul terminated", []byte("{\"num\":840}\x00"), `{"num":840}`},
		{"newline terminated", []byte("{\"num\":840}\n"), `{"num":840}`},
		{"clean", []byte(`{"num":840}`), `{"num":840}`},
		{"empty", []byte{}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, string(trimTerminator(tc.in)))
		})
	}
}
