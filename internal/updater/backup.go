package updater

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/creativeprojects/go-selfupdate"

	"github.com/rzstudio/abstractgen/internal/logging"
	"github.com/rzstudio/abstractgen/internal/version"
)

const (
	backupFilename     = "abstractgen.backup"
	backupInfoFilename = "backup.json"
)

type backupInfo struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	ExecPath  string    `json:"exec_path"`
}

// backupManager keeps one copy of the previous binary under the user cache
// directory so a bad update can be reverted.
type backupManager struct {
	dir    string
	info   *backupInfo
	logger logging.Logger
}

func newBackupManager(logger logging.Logger) (*backupManager, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache directory: %w", err)
	}

	dir := filepath.Join(cache, "abstractgen", "backup")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	m := &backupManager{dir: dir, logger: logger}
	m.load()
	return m, nil
}

func (m *backupManager) load() {
	data, err := os.ReadFile(filepath.Join(m.dir, backupInfoFilename))
	if err != nil {
		return // no backup
	}

	var info backupInfo
	if err := json.Unmarshal(data, &info); err != nil {
		m.logger.Warn("Failed to parse backup info", "error", err)
		return
	}
	if _, err := os.Stat(filepath.Join(m.dir, backupFilename)); err != nil {
		m.logger.Warn("Backup metadata present but binary missing", "dir", m.dir)
		return
	}

	m.info = &info
}

func (m *backupManager) create() error {
	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	if err := copyFile(exe, filepath.Join(m.dir, backupFilename)); err != nil {
		return err
	}

	info := backupInfo{
		Version:   version.Version,
		CreatedAt: time.Now(),
		ExecPath:  exe,
	}
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal backup info: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, backupInfoFilename), data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup info: %w", err)
	}

	m.info = &info
	m.logger.Info("Backup created", "version", info.Version, "dir", m.dir)
	return nil
}

func (m *backupManager) restore() error {
	if m.info == nil {
		return fmt.Errorf("no backup available")
	}
	return copyFile(filepath.Join(m.dir, backupFilename), m.info.ExecPath)
}

func (m *backupManager) hasBackup() bool {
	return m.info != nil
}

func (m *backupManager) version() string {
	if m.info == nil {
		return ""
	}
	return m.info.Version
}

func copyFile(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", srcPath, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy %s: %w", srcPath, err)
	}
	return nil
}
