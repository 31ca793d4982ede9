// Package backup parses iOS device backups: the three plist metadata
// documents, the Manifest.db logical file index and the opaque content files
// stored under content-hash derived names.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-version"
	"gorm.io/gorm"
)

// SupportedVersion is the only backup format version this tool has been
// tested against (the Version key of Status.plist).
const SupportedVersion = "3.3"

// Backup is a single parsed device backup: the backup root, the fileID→path
// index, the three metadata documents and an open handle to Manifest.db.
// It is immutable once Open returns.
type Backup struct {
	Path  string
	Index PathIndex

	Info     *Info
	Manifest *Manifest
	Status   *Status

	db *gorm.DB
}

// Open parses the backup rooted at the given directory. Every sub-resource
// (the three plists, the path index, the manifest database) must load for
// Open to succeed; the returned error names whichever one failed.
func Open(root string) (*Backup, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("backup path %s does not exist: %w", root, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("backup path %s is not a folder", root)
	}

	b := &Backup{Path: root}

	data, err := os.ReadFile(filepath.Join(root, "Info.plist"))
	if err != nil {
		return nil, fmt.Errorf("failed to read Info.plist: %w", err)
	}
	if b.Info, err = ParseInfo(data); err != nil {
		return nil, err
	}
	if data, err = os.ReadFile(filepath.Join(root, "Manifest.plist")); err != nil {
		return nil, fmt.Errorf("failed to read Manifest.plist: %w", err)
	}
	if b.Manifest, err = ParseManifest(data); err != nil {
		return nil, err
	}
	if data, err = os.ReadFile(filepath.Join(root, "Status.plist")); err != nil {
		return nil, fmt.Errorf("failed to read Status.plist: %w", err)
	}
	if b.Status, err = ParseStatus(data); err != nil {
		return nil, err
	}

	cache := filepath.Join(root, IndexFileName)
	b.Index, err = LoadIndex(cache)
	if errors.Is(err, ErrNoCache) {
		log.Info("Scanning backup files...")
		if b.Index, err = BuildIndex(root); err != nil {
			return nil, err
		}
		if err := b.Index.Save(cache); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"files": len(b.Index),
			"cache": cache,
		}).Info("Indexed backup")
	} else if err != nil {
		return nil, err
	} else {
		log.WithFields(log.Fields{
			"files": len(b.Index),
		}).Debug("Loaded path index cache")
	}

	if b.db, err = openManifestDB(filepath.Join(root, "Manifest.db")); err != nil {
		return nil, err
	}

	if b.IsEncrypted() {
		log.Warn("backup is encrypted: extracted files will be the raw ciphertext, NOT usable content")
	}

	return b, nil
}

// Close releases the manifest database handle.
func (b *Backup) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (b *Backup) DeviceName() string { return b.Info.DeviceName }

func (b *Backup) ProductType() string { return b.Info.ProductType }

func (b *Backup) ProductVersion() string { return b.Info.ProductVersion }

func (b *Backup) SerialNumber() string { return b.Info.SerialNumber }

// FormatVersion is the backup format version recorded in Status.plist.
func (b *Backup) FormatVersion() string { return b.Status.Version }

func (b *Backup) IsEncrypted() bool { return b.Manifest.IsEncrypted }

func (b *Backup) IsFullBackup() bool { return b.Status.IsFullBackup }

func (b *Backup) Date() time.Time { return b.Status.Date }

// CheckVersion enforces the backup format version gate. A mismatch is fatal
// unless override is set, in which case the run proceeds with a warning only.
func (b *Backup) CheckVersion(override bool) error {
	found, err := version.NewVersion(b.Status.Version)
	if err != nil {
		return fmt.Errorf("failed to parse backup status version %q: %w", b.Status.Version, err)
	}
	if !found.Equal(version.Must(version.NewVersion(SupportedVersion))) {
		log.Warnf("this tool has only been tested with v%s of the backup format (found v%s); it may not function properly", SupportedVersion, b.Status.Version)
		if !override {
			return fmt.Errorf("unsupported backup format version %s (expected %s): pass --override to proceed anyway", b.Status.Version, SupportedVersion)
		}
	}
	return nil
}
