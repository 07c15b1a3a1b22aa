// Package scratch manages the run-scoped temporary directory that owns every
// benchmark artifact. One run owns the directory exclusively for its
// lifetime; after teardown no artifact path may be referenced again.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Manager creates and tears down a scratch directory.
type Manager struct {
	dir    string
	logger *zap.Logger
	done   atomic.Bool
}

// New returns a manager for the given directory.
// If logger is nil, a no-op logger is used.
func New(dir string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{dir: dir, logger: logger}
}

// Dir returns the scratch directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// Path returns the path of filename inside the scratch directory.
func (m *Manager) Path(filename string) string {
	return filepath.Join(m.dir, filename)
}

// Prepare creates the scratch directory if absent. Idempotent: an existing
// directory is not an error.
func (m *Manager) Prepare() error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	return nil
}

// Teardown removes each named file that exists inside the scratch directory,
// then the directory itself. Individual deletion failures are logged and
// collected; directory removal is still attempted. Subsequent calls are
// no-ops, so Teardown runs at most once per run.
func (m *Manager) Teardown(filenames []string) error {
	if !m.done.CompareAndSwap(false, true) {
		return nil
	}

	var errs *multierror.Error
	for _, name := range filenames {
		path := m.Path(name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			m.logger.Warn("removing artifact",
				zap.String("path", path),
				zap.Error(err),
			)
			errs = multierror.Append(errs, fmt.Errorf("removing %s: %w", name, err))
		}
	}

	if err := os.Remove(m.dir); err != nil && !os.IsNotExist(err) {
		m.logger.Warn("removing scratch directory",
			zap.String("dir", m.dir),
			zap.Error(err),
		)
		errs = multierror.Append(errs, fmt.Errorf("removing scratch directory: %w", err))
	}

	return errs.ErrorOrNil()
}
