package runtimepath

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrAlreadyRunning is returned by Acquire when another live process holds
// the PID file.
var ErrAlreadyRunning = errors.New("deskrain is already running")

// Instance is a held PID file.
type Instance struct {
	path string
	pid  int
}

// Acquire claims the PID file at path. A file left behind by a process that
// no longer exists is replaced.
func Acquire(path string) (*Instance, error) {
	pid := os.Getpid()
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(pid) + "\n")
			cerr := f.Close()
			if err := errors.Join(werr, cerr); err != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write %s: %w", path, err)
			}
			return &Instance{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create %s: %w", path, err)
		}

		if owner, ok := readPID(path); ok && processAlive(owner) {
			return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, owner)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale %s: %w", path, err)
		}
	}
	return nil, fmt.Errorf("failed to claim %s: lost race with another instance", path)
}

// Release removes the PID file if it still names this process.
func (i *Instance) Release() error {
	if i == nil {
		return nil
	}
	if owner, ok := readPID(i.path); !ok || owner != i.pid {
		return nil
	}
	if err := os.Remove(i.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
