package views

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

const adminStateVersion = 1

type adminState struct {
	Version   int  `toml:"version"`
	AdminMode bool `toml:"admin_mode"`
}

// AdminFlag is the locally persisted admin-mode toggle. It hides or shows
// mutation controls and is not an access control: anyone can flip it.
type AdminFlag struct {
	mu      sync.RWMutex
	path    string
	enabled bool
}

// LoadAdminFlag reads the flag from path. A missing file means off.
func LoadAdminFlag(path string) (*AdminFlag, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("state path is required")
	}
	flag := &AdminFlag{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return flag, nil
	}
	var state adminState
	if _, err := toml.DecodeFile(path, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state %s: %w", path, err)
	}
	flag.enabled = state.AdminMode
	return flag, nil
}

// Enabled implements Capability
func (a *AdminFlag) Enabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Set changes the flag and persists it before returning
func (a *AdminFlag) Set(on bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.save(on); err != nil {
		return err
	}
	a.enabled = on
	return nil
}

// Toggle flips the flag and returns the new value
func (a *AdminFlag) Toggle() (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	next := !a.enabled
	if err := a.save(next); err != nil {
		return a.enabled, err
	}
	a.enabled = next
	return next, nil
}

// Path is the state file location
func (a *AdminFlag) Path() string {
	return a.path
}

func (a *AdminFlag) save(on bool) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(adminState{Version: adminStateVersion, AdminMode: on}); err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := writeFileAtomic(a.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write state %s: %w", a.path, err)
	}
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it into place
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	_ = tmp.Chmod(perm)
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	committed = true
	return nil
}
