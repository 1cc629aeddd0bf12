// Package pid keeps a single pass running per host. A second concurrent pass
// would add its own load to the readings of the first.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/ecopass/internal/errors"
)

const (
	pidFile = "ecopass.pid"
)

// Path returns the location of the PID file.
func Path() string {
	return filepath.Join(os.TempDir(), pidFile)
}

// Write writes the current process ID to the PID file. It fails with
// ErrAlreadyRunning while another live process holds the file; a stale file
// is replaced.
func Write() error {
	return WriteAt(Path())
}

// WriteAt is Write with an explicit file path.
func WriteAt(path string) error {
	return writeAt(path, os.Getpid())
}

// isAlive is swapped out by tests.
var isAlive = isRunning

func writeAt(path string, self int) error {
	errFactory := errors.New()

	// One retry covers the removal of a stale file.
	for attempt := 0; attempt < 2; attempt++ {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_, err = file.WriteString(strconv.Itoa(self))
			if closeErr := file.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return errFactory.Wrap(errors.ErrInternal, err)
			}
			return nil
		}
		if !os.IsExist(err) {
			return errFactory.Wrap(errors.ErrInternal, err)
		}

		holder, err := readHolder(path)
		switch {
		case os.IsNotExist(err):
			continue
		case err != nil:
			return errFactory.Wrap(errors.ErrInternal, err)
		case holder == self:
			return nil
		case holder == holderPending:
			return errFactory.WithMessage(errors.ErrAlreadyRunning, "PID file is being written by another process")
		case holder > 0 && isAlive(holder):
			return errFactory.WithData(errors.ErrAlreadyRunning, holder)
		}

		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errFactory.Wrap(errors.ErrInternal, err)
		}
	}

	return errFactory.WithMessage(errors.ErrAlreadyRunning, "PID file was recreated by another process")
}

// holderPending marks a PID file created but not yet written.
const holderPending = -1

// readHolder returns the PID recorded in path, holderPending for an empty
// file, or 0 when the content is not a PID.
func readHolder(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return holderPending, nil
	}

	holder, err := strconv.Atoi(content)
	if err != nil {
		return 0, nil
	}

	return holder, nil
}

// Remove removes the PID file.
func Remove() error {
	return RemoveAt(Path())
}

// RemoveAt is Remove with an explicit file path.
func RemoveAt(path string) error {
	errFactory := errors.New()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

func isRunning(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// EPERM still means the process exists, it just belongs to someone else.
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
