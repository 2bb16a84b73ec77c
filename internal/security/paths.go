// Package security guards the files the CLI is asked to write.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoots reports an output path that resolves outside every
// allowed root.
var ErrOutsideRoots = errors.New("output path outside allowed directories")

// CheckOutputPath rejects a path that resolves, after symlinks, outside all
// of roots. With no roots the working directory and the temp directory are
// allowed. The path itself need not exist yet.
func CheckOutputPath(path string, roots ...string) error {
	if len(roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		roots = []string{cwd, os.TempDir()}
	}

	target, err := canonical(path)
	if err != nil {
		return err
	}
	for _, root := range roots {
		r, err := canonical(root)
		if err != nil {
			continue
		}
		if within(target, r) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrOutsideRoots, path)
}

// canonical resolves symlinks on the longest existing prefix of p and
// re-attaches the rest, so a dangling leaf cannot hide a linked parent.
func canonical(p string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", p, err)
	}
	rest := ""
	dir := abs
	for {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

func within(p, root string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
