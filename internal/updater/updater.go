// Package updater self-updates the binary from GitHub releases, keeping a
// backup of the replaced executable for rollback.
package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/creativeprojects/go-selfupdate"

	"github.com/rzstudio/abstractgen/internal/logging"
	"github.com/rzstudio/abstractgen/internal/version"
)

// DefaultRepository is the release source.
const DefaultRepository = "rzstudio/abstractgen"

// UpdateInfo describes an available release.
type UpdateInfo struct {
	CurrentVersion  string    `json:"current_version"`
	LatestVersion   string    `json:"latest_version"`
	ReleaseNotes    string    `json:"release_notes"`
	ReleaseURL      string    `json:"release_url"`
	PublishedAt     time.Time `json:"published_at"`
	UpdateAvailable bool      `json:"update_available"`
}

// Options configures an Updater.
type Options struct {
	Repository string // GitHub repo slug, defaults to DefaultRepository
	Prerelease bool
}

// Updater checks for and applies releases.
type Updater struct {
	repository selfupdate.Repository
	updater    *selfupdate.Updater
	backups    *backupManager

	latest *selfupdate.Release
	logger logging.Logger
}

// New creates an Updater. Fails when the running binary's directory is not
// writable, since an update could never be applied.
func New(opts Options) (*Updater, error) {
	logger := logging.GetLogger("updater")

	if opts.Repository == "" {
		opts.Repository = DefaultRepository
	}

	if err := checkWritePermission(); err != nil {
		return nil, err
	}

	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub source: %w", err)
	}

	su, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     source,
		Prerelease: opts.Prerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	backups, err := newBackupManager(logger)
	if err != nil {
		logger.Warn("Backup manager unavailable, updates will not be reversible", "error", err)
	}

	return &Updater{
		repository: selfupdate.ParseSlug(opts.Repository),
		updater:    su,
		backups:    backups,
		logger:     logger,
	}, nil
}

// Check queries GitHub for the latest release and compares it against the
// running version. A "dev" build is always considered outdated.
func (u *Updater) Check(ctx context.Context) (*UpdateInfo, error) {
	current := version.Version

	release, found, err := u.updater.DetectLatest(ctx, u.repository)
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("repository has no releases")
	}

	info := &UpdateInfo{
		CurrentVersion: current,
		LatestVersion:  release.Version(),
	}
	if current != "dev" && !release.GreaterThan(current) {
		return info, nil
	}

	u.latest = release
	info.ReleaseNotes = release.ReleaseNotes
	info.ReleaseURL = release.URL
	info.PublishedAt = release.PublishedAt
	info.UpdateAvailable = true
	return info, nil
}

// Apply downloads the latest release and replaces the running binary. The
// previous binary is backed up first and restored when the swap fails.
func (u *Updater) Apply(ctx context.Context) error {
	if u.latest == nil {
		info, err := u.Check(ctx)
		if err != nil {
			return err
		}
		if !info.UpdateAvailable {
			return fmt.Errorf("no update available, already at %s", info.CurrentVersion)
		}
	}

	if u.backups != nil {
		if err := u.backups.create(); err != nil {
			return fmt.Errorf("failed to back up current binary: %w", err)
		}
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	if err := u.updater.UpdateTo(ctx, u.latest, exe); err != nil {
		u.attemptRollback()
		return fmt.Errorf("failed to apply update: %w", err)
	}

	u.logger.Info("Update applied", "version", u.latest.Version())
	return nil
}

// Rollback restores the backed up binary.
func (u *Updater) Rollback() error {
	if u.backups == nil || !u.backups.hasBackup() {
		return fmt.Errorf("no backup available for rollback")
	}
	if err := u.backups.restore(); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	u.logger.Info("Rolled back", "version", u.backups.version())
	return nil
}

// BackupVersion reports the version held in the backup, empty when none.
func (u *Updater) BackupVersion() string {
	if u.backups == nil {
		return ""
	}
	return u.backups.version()
}

func (u *Updater) attemptRollback() {
	if u.backups == nil || !u.backups.hasBackup() {
		u.logger.Error("No backup available for automatic rollback")
		return
	}
	if err := u.backups.restore(); err != nil {
		u.logger.Error("Failed to restore backup", "error", err)
		return
	}
	u.logger.Info("Automatic rollback completed")
}
