package publish

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/sitepub/internal/messages"
)

// cloneLock serializes deploys that share a working clone, across processes.
type cloneLock struct {
	file *os.File
}

var flockFn = unix.Flock
var lockSleep = time.Sleep
var lockPollEvery = 100 * time.Millisecond

// lockClone opens or creates path and waits up to timeout for an exclusive lock on it.
func lockClone(path string, timeout time.Duration) (*cloneLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.LockOpenFileFmt, path, err)
	}
	if err := waitForFlock(file, timeout); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf(messages.LockAcquireFmt, path, err)
	}
	return &cloneLock{file: file}, nil
}

func (l *cloneLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := flockFn(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}

func waitForFlock(file *os.File, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf(messages.LockTimeoutFmt, timeout, file.Name())
		}
		lockSleep(lockPollEvery)
	}
}
