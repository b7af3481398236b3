//go:build !linux && !darwin && !freebsd && !openbsd && !netbsd && !dragonfly

package mem

// On platforms without mlockall, memguard buffer wiping is the only
// protection on offer.

func lockMemoryPlatform() (ProtectionLevel, error) {
	return ProtectionPartial, nil
}

func unlockMemoryPlatform() error {
	return nil
}
