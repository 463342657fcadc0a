// Package pathkey canonicalizes user-supplied paths into the form
// used as the ledger's store key.
//
// Two different spellings of the same file (relative path, path
// through a symlinked directory, NFD-encoded name on macOS) must
// resolve to one canonical key, or the same file could be tracked
// twice. Canonical form is: absolute, symlinks in the directory
// chain resolved, Unicode NFC normalized.
package pathkey

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// Canonical returns the store key for a user-supplied path.
//
// The path itself does not have to exist: a tracked file that has
// vanished must still resolve to the key it was stored under, so
// when symlink resolution of the full path fails, the parent
// directory is resolved instead and the base name rejoined.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// Path may have vanished; canonicalize through the parent.
		dir, base := filepath.Split(abs)
		resolvedDir, dirErr := filepath.EvalSymlinks(filepath.Clean(dir))
		if dirErr != nil {
			resolved = filepath.Clean(abs)
		} else {
			resolved = filepath.Join(resolvedDir, base)
		}
	}

	return norm.NFC.String(resolved), nil
}

// Chain expands a path into its symlink reference chain: the path
// itself, then each successive link target, ending at the first
// non-symlink. A non-symlink path yields a one-element chain.
//
// Relative link targets are resolved against the directory of the
// link that contains them. Cyclic link chains are cut off at the
// same depth the kernel uses before returning ELOOP.
func Chain(path string) ([]string, error) {
	const maxLinkDepth = 40

	chain := []string{path}
	current := path

	for len(chain) <= maxLinkDepth {
		info, err := os.Lstat(current)
		if err != nil {
			return chain, err
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return chain, nil
		}

		target, err := os.Readlink(current)
		if err != nil {
			return chain, err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(current), target)
		}
		chain = append(chain, target)
		current = target
	}

	return chain, fmt.Errorf("%s: too many levels of symbolic links", path)
}
