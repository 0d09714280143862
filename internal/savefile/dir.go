package savefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ErrBadName is returned for save names outside [A-Za-z0-9_-]{1,64}.
var ErrBadName = errors.New("savefile: invalid save name")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidName reports whether name can be used as a save or owner name.
func ValidName(name string) bool { return namePattern.MatchString(name) }

// Dir maps user-facing save names to files inside one directory.
type Dir struct {
	root string
}

// NewDir creates root if needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: mkdir %s: %w", ErrIO, root, err)
	}
	return &Dir{root: root}, nil
}

// Sub returns the directory of one owner inside d, creating it if needed.
// Owners follow the same naming rule as saves.
func (d *Dir) Sub(owner string) (*Dir, error) {
	if !ValidName(owner) {
		return nil, fmt.Errorf("%w: owner %q", ErrBadName, owner)
	}
	return NewDir(filepath.Join(d.root, owner))
}

// Path returns the file for name.
func (d *Dir) Path(name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return filepath.Join(d.root, name+".json"), nil
}
