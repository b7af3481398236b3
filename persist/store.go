package persist

// Store defines the file primitives the wallet core needs from a storage
// backend: existence checks, whole-file reads and atomic whole-file writes,
// addressed by slash-separated relative paths. All data passed through this
// interface is already encrypted by the wallet layer; backends never see
// plaintext metadata or key material.
type Store interface {
	// Exists reports whether a file is present at path.
	Exists(path string) (bool, error)

	// DirExists reports whether the directory (or key prefix, for object
	// stores) exists. A wallet whose sync directory is absent has never
	// persisted any metadata.
	DirExists(path string) (bool, error)

	// Read returns the full contents of the file at path. Missing files are
	// an error; callers check Exists first when absence is expected.
	Read(path string) ([]byte, error)

	// Write replaces the file at path with data, creating parent
	// directories as needed. The write is atomic for single-writer use:
	// readers observe either the old or the new contents, never a torn
	// file.
	Write(path string, data []byte) error

	// Delete removes the file at path. Deleting a missing file is not an
	// error.
	Delete(path string) error

	// Ping tests connectivity for remote backends.
	Ping() error

	// Close releases any resources the store holds.
	Close() error

	// GetType identifies the backend ("filesystem", "s3").
	GetType() string
}

// StoreConfig selects and configures a storage backend.
type StoreConfig struct {
	// Type must be one of the StoreType constants.
	Type StoreType `json:"type"`

	// Config holds backend-specific settings. For the filesystem backend
	// this is {"base_path": ...}; for S3 it carries the endpoint,
	// credentials and bucket settings of S3Config.
	Config map[string]interface{} `json:"config"`
}

// StoreType represents the supported storage backends.
type StoreType string

const (
	// StoreTypeFileSystem stores wallet sync directories on the local
	// filesystem.
	StoreTypeFileSystem StoreType = "filesystem"

	// StoreTypeS3 stores wallet sync directories in an S3-compatible
	// object store.
	StoreTypeS3 StoreType = "s3"
)
