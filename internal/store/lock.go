package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// LockFileName guards imports into one data directory.
const LockFileName = "import.lock"

type importLock struct {
	file *os.File
}

// acquireImportLock takes a non-blocking exclusive lock next to the database.
// In-memory stores have nothing to guard and get a nil lock.
func (s *Store) acquireImportLock() (*importLock, error) {
	if s.dataDir == "" {
		return nil, nil
	}

	lockFile, err := os.OpenFile(filepath.Join(s.dataDir, LockFileName), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open import lock: %w", err)
	}

	if err := lockFileExclusiveNonBlocking(lockFile); err != nil {
		lockFile.Close()
		if isWouldBlockError(err) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("failed to acquire import lock: %w", err)
	}

	return &importLock{file: lockFile}, nil
}

func (l *importLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
