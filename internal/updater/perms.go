package updater

import (
	"fmt"
	"os"
	"path/filepath"
)

// checkWritePermission verifies the running binary can be replaced in
// place by creating and removing a temp file next to it.
func checkWritePermission() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	dir := filepath.Dir(exe)
	tmp := filepath.Join(dir, ".abstractgen.update.test")
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("no write permission to %s: %w", dir, err)
	}
	f.Close()
	os.Remove(tmp)
	return nil
}
