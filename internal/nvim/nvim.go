package nvim

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neovim/go-client/nvim"

	"github.com/sokinpui/dsrename/model"
)

// ErrNoInstance is returned when no running Neovim advertises its socket.
var ErrNoInstance = errors.New("no running Neovim instance ($NVIM or $NVIM_LISTEN_ADDRESS)")

// Manager handles the connection to a running Neovim instance.
type Manager struct {
	nvim *nvim.Nvim
}

// Address returns the socket of the Neovim instance the tool was started
// from, if any.
func Address() string {
	if addr := os.Getenv("NVIM"); addr != "" {
		return addr
	}
	return os.Getenv("NVIM_LISTEN_ADDRESS")
}

// New connects to the running Neovim instance. It never starts one.
func New() (*Manager, error) {
	addr := Address()
	if addr == "" {
		return nil, ErrNoInstance
	}
	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nvim at %s: %w", addr, err)
	}
	return &Manager{nvim: v}, nil
}

// Close disconnects from Neovim.
func (m *Manager) Close() {
	if m.nvim != nil {
		m.nvim.Close()
	}
}

// processSequentially runs processFn over items in order, splitting the
// reported paths into succeeded and failed.
func processSequentially[T any](
	items []T,
	processFn func(item T) (path string, success bool),
) (succeeded, failed []string) {
	for _, item := range items {
		path, success := processFn(item)
		if success {
			succeeded = append(succeeded, path)
		} else {
			failed = append(failed, path)
		}
	}
	return succeeded, failed
}

// RenameBuffers points every loaded buffer of a relocated file at its new
// path. Files without an open buffer are neither updated nor failed.
func (m *Manager) RenameBuffers(renames []model.FileRename) (updated, failed []string) {
	buffers, err := m.nvim.Buffers()
	if err != nil {
		for _, r := range renames {
			failed = append(failed, r.OldPath)
		}
		return nil, failed
	}

	byName := make(map[string]nvim.Buffer, len(buffers))
	for _, b := range buffers {
		name, err := m.nvim.BufferName(b)
		if err != nil || name == "" {
			continue
		}
		byName[filepath.Clean(name)] = b
	}

	var open []model.FileRename
	for _, r := range renames {
		if _, ok := byName[filepath.Clean(r.OldPath)]; ok {
			open = append(open, r)
		}
	}

	return processSequentially(open, func(r model.FileRename) (string, bool) {
		buf := byName[filepath.Clean(r.OldPath)]
		return r.NewPath, m.nvim.SetBufferName(buf, r.NewPath) == nil
	})
}

// Reload makes Neovim re-read buffers whose files changed on disk.
func (m *Manager) Reload() error {
	return m.nvim.Command("silent! checktime")
}
