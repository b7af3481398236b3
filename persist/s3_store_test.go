package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3StoreValidation(t *testing.T) {
	_, err := NewS3Store(S3Config{Bucket: "wallets"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")

	_, err = NewS3Store(S3Config{Endpoint: "minio.local:9000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")
}

func TestNewS3StoreFromConfigTypeMismatch(t *testing.T) {
	_, err := NewS3StoreFromConfig(StoreConfig{
		Type:   StoreTypeFileSystem,
		Config: map[string]interface{}{"endpoint": "minio.local:9000"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid store type")
}

func TestNewS3StoreFromConfigBadOptions(t *testing.T) {
	_, err := NewS3StoreFromConfig(StoreConfig{
		Type: StoreTypeS3,
		Config: map[string]interface{}{
			"endpoint": "minio.local:9000",
			"bucket":   "wallets",
			"use_ssl":  "yes", // must be a bool
		},
	})
	require.Error(t, err)
}

func TestS3ObjectKeyMapping(t *testing.T) {
	prefixed := &S3Store{bucketName: "wallets", keyPrefix: "tenants/acme"}

	key, err := prefixed.objectKey("accounts/alice/wallets/W1/WalletName.json")
	require.NoError(t, err)
	require.Equal(t, "tenants/acme/accounts/alice/wallets/W1/WalletName.json", key)

	bare := &S3Store{bucketName: "wallets"}
	key, err = bare.objectKey("accounts/alice/Wallets.json")
	require.NoError(t, err)
	require.Equal(t, "accounts/alice/Wallets.json", key)
}

func TestS3ObjectKeyValidation(t *testing.T) {
	store := &S3Store{bucketName: "wallets", keyPrefix: "tenants/acme"}

	for _, path := range []string{"", "/etc/passwd", "../outside", "a/../../b"} {
		_, err := store.objectKey(path)
		assert.Error(t, err, "path %q", path)
	}
}
