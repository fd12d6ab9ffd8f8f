// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the directory that will hold the file at path,
// so "--db ~/.gophwallet/wallet.db" works on first run. A leading "~/" is
// expanded to the user's home directory. The resolved path is returned.
// SQLite special names such as ":memory:" are returned unchanged.
func EnsureParentDir(path string) (string, error) {
	if strings.HasPrefix(path, ":") || strings.HasPrefix(path, "file:") {
		return path, nil
	}

	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home dir: %w", err)
		}
		path = filepath.Join(home, rest)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return path, nil
}
