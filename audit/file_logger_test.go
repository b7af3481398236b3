package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileLogger(t *testing.T) *FileLogger {
	t.Helper()
	logger, err := NewFileLogger(&Config{
		Enabled: true,
		Type:    FileAuditType,
		Options: map[string]interface{}{
			"file_path": filepath.Join(t.TempDir(), "audit.jsonl"),
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })
	return logger
}

func TestNewLoggerFactory(t *testing.T) {
	logger, err := NewLogger(nil)
	require.NoError(t, err)
	require.IsType(t, &NoOpLogger{}, logger)

	logger, err = NewLogger(&Config{Enabled: false, Type: FileAuditType})
	require.NoError(t, err)
	require.IsType(t, &NoOpLogger{}, logger)

	_, err = NewLogger(&Config{Enabled: true, Type: "bogus"})
	assert.Error(t, err)
}

func TestFileLoggerMissingPath(t *testing.T) {
	_, err := NewFileLogger(&Config{Enabled: true, Type: FileAuditType})
	assert.Error(t, err)
}

func TestFileLoggerLogAndQuery(t *testing.T) {
	logger := newTestFileLogger(t)

	require.NoError(t, logger.Log("wallet_load", true, map[string]interface{}{
		"wallet_id": "W1",
	}))
	require.NoError(t, logger.Log("wallet_load", false, map[string]interface{}{
		"wallet_id": "W2",
		"error":     "decrypt failed",
	}))
	require.NoError(t, logger.Log("cache_clear", true, nil))

	result, err := logger.Query(QueryOptions{})
	require.NoError(t, err)
	require.Equal(t, 3, result.TotalCount)
	require.Len(t, result.Events, 3)
	assert.False(t, result.HasMore)

	// Metadata fields are lifted into event columns.
	for _, event := range result.Events {
		require.NotEmpty(t, event.ID)
		require.False(t, event.Timestamp.IsZero())
		if event.WalletID == "W2" {
			require.Equal(t, "decrypt failed", event.Error)
			require.False(t, event.Success)
		}
	}

	byWallet, err := logger.Query(QueryOptions{WalletID: "W1"})
	require.NoError(t, err)
	require.Equal(t, 1, byWallet.Filtered)
	require.Equal(t, "wallet_load", byWallet.Events[0].Action)
}

func TestFileLoggerQueryFilters(t *testing.T) {
	logger := newTestFileLogger(t)

	require.NoError(t, logger.Log("wallet_load", true, map[string]interface{}{"wallet_id": "W1"}))
	require.NoError(t, logger.Log("wallet_load", false, map[string]interface{}{"wallet_id": "W1"}))
	require.NoError(t, logger.Log("name_set", true, map[string]interface{}{"wallet_id": "W2"}))

	result, err := logger.Query(QueryOptions{Action: "wallet_load"})
	require.NoError(t, err)
	require.Equal(t, 2, result.Filtered)

	failed := false
	result, err = logger.Query(QueryOptions{Success: &failed})
	require.NoError(t, err)
	require.Equal(t, 1, result.Filtered)
	require.Equal(t, "wallet_load", result.Events[0].Action)

	result, err = logger.Query(QueryOptions{WalletID: "W2"})
	require.NoError(t, err)
	require.Equal(t, 1, result.Filtered)
	require.Equal(t, "name_set", result.Events[0].Action)

	future := time.Now().UTC().Add(time.Hour)
	result, err = logger.Query(QueryOptions{Since: &future})
	require.NoError(t, err)
	require.Equal(t, 0, result.Filtered)
}

func TestFileLoggerPagination(t *testing.T) {
	logger := newTestFileLogger(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, logger.Log("wallet_load", true, nil))
	}

	result, err := logger.Query(QueryOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, result.Events, 2)
	assert.True(t, result.HasMore)

	result, err = logger.Query(QueryOptions{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.False(t, result.HasMore)
}

func TestFileLoggerReopenAfterClose(t *testing.T) {
	logger := newTestFileLogger(t)

	require.NoError(t, logger.Log("wallet_load", true, nil))
	require.NoError(t, logger.Close())

	// Log after Close reopens the file lazily.
	require.NoError(t, logger.Log("wallet_load", true, nil))

	result, err := logger.Query(QueryOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalCount)
}

func TestNoOpLogger(t *testing.T) {
	logger := &NoOpLogger{}
	require.NoError(t, logger.Log("anything", true, nil))

	result, err := logger.Query(QueryOptions{})
	require.NoError(t, err)
	require.Empty(t, result.Events)
	require.NoError(t, logger.Close())
}
