//go:build !unix

package storage

import "os"

// lockFile is a no-op where flock is unavailable
func lockFile(file *os.File) error {
	return nil
}

// unlockFile is a no-op where flock is unavailable
func unlockFile(file *os.File) error {
	return nil
}
