//go:build unix

package dag

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// repoLock is an exclusive advisory lock on the repository's lock file,
// held for the read-mutate-write cycle of one command.
type repoLock struct {
	f *os.File
}

// acquireLock takes the lock without blocking; a held lock yields ErrLocked.
func acquireLock(path string) (*repoLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("lock repository: %w", err)
	}
	return &repoLock{f: f}, nil
}

func (l *repoLock) release() error {
	if l == nil || l.f == nil {
		return nil
	}
	defer func() { l.f = nil }()
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		l.f.Close()
		return fmt.Errorf("unlock repository: %w", err)
	}
	return l.f.Close()
}
