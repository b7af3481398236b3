package misc

import "os"

const (
	// FilePermissions for persisted wallet artifacts: user read + write.
	FilePermissions os.FileMode = 0600

	// DirPermissions for account and sync directories: user only.
	DirPermissions os.FileMode = 0700
)
