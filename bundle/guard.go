// Package bundle owns the on-disk layout of a page bundle: one directory per
// slug under a fixed content root, holding index.md and an optional logo.jpg.
package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

var (
	// ErrPathTraversal is returned whenever a slug would place a bundle outside the content root.
	ErrPathTraversal = errors.New("path traversal blocked")
	// ErrEmptySlug is returned when a slug resolves to the content root itself.
	ErrEmptySlug = errors.New("slug resolves to the content root")
)

// ResolveDir maps slug to its bundle directory under root. The check works
// on canonical paths (symlinks and .. resolved) and touches nothing on disk,
// so it must run before any directory is created.
func ResolveDir(root, slug string) (string, error) {
	if !filepath.IsAbs(root) {
		return "", fmt.Errorf("content root %q must be absolute", root)
	}
	if filepath.IsAbs(slug) || filepath.VolumeName(slug) != "" || strings.HasPrefix(slug, `\`) {
		return "", fmt.Errorf("%w: absolute slug %q", ErrPathTraversal, slug)
	}
	for _, part := range strings.FieldsFunc(slug, isSeparator) {
		if part == ".." {
			return "", fmt.Errorf("%w: %q", ErrPathTraversal, slug)
		}
	}

	realRoot, err := canonical(root)
	if err != nil {
		return "", fmt.Errorf("resolve content root: %w", err)
	}
	dir, err := canonical(filepath.Join(realRoot, slug))
	if err != nil {
		return "", fmt.Errorf("resolve bundle dir: %w", err)
	}

	rel, err := filepath.Rel(realRoot, dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPathTraversal, err)
	}
	switch {
	case rel == ".":
		return "", fmt.Errorf("%w: %q", ErrEmptySlug, slug)
	case rel == "..", strings.HasPrefix(rel, ".."+string(filepath.Separator)), filepath.IsAbs(rel):
		return "", fmt.Errorf("%w: %q resolves to %s", ErrPathTraversal, slug, dir)
	}
	return dir, nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// canonical resolves symlinks along the longest existing prefix of p and
// re-appends the part that does not exist yet.
func canonical(p string) (string, error) {
	cur := filepath.Clean(p)
	var rest []string
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return filepath.Clean(p), nil
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
		cur = parent
	}
}
