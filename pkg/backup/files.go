package backup

import (
	"fmt"
	"os"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Manifest row flags.
const (
	FlagFile      = 1
	FlagDirectory = 2
	FlagSymlink   = 4
)

// File is a row of the Manifest.db Files table: one logical file the device
// backed up, keyed by the same fileID the on-disk content file is named after.
type File struct {
	FileID       string `gorm:"column:fileID;primaryKey" json:"file_id"`
	Domain       string `gorm:"column:domain" json:"domain"`
	RelativePath string `gorm:"column:relativePath" json:"relative_path"`
	Flags        int    `gorm:"column:flags" json:"flags"`
}

// TableName overrides gorm's pluralized snake_case default.
func (File) TableName() string {
	return "Files"
}

// IsDirectory reports whether the row describes a directory (which has no
// on-disk content file, so it can never resolve in the path index).
func (f *File) IsDirectory() bool {
	return f.Flags == FlagDirectory
}

// openManifestDB opens the backup's Manifest.db. The database is never
// written to; it is the read-only source of truth for logical paths.
func openManifestDB(path string) (*gorm.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find manifest database %s: %w", path, err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest database %s: %w", path, err)
	}
	// logical paths are case sensitive; sqlite LIKE is not (by default)
	if err := db.Exec("PRAGMA case_sensitive_like = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to configure manifest database %s: %w", path, err)
	}
	return db, nil
}

// Files returns every row of the manifest's Files table.
func (b *Backup) Files() ([]File, error) {
	var files []File
	if err := b.db.Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to query manifest files: %w", err)
	}
	return files, nil
}

// FilesMatching returns the rows whose relativePath matches the given SQL
// LIKE pattern (case-sensitive). An empty pattern matches every row. Zero
// matches is not an error.
func (b *Backup) FilesMatching(pattern string) ([]File, error) {
	if pattern == "" {
		return b.Files()
	}
	var files []File
	if err := b.db.Where("relativePath LIKE ?", pattern).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to query manifest files matching %q: %w", pattern, err)
	}
	return files, nil
}
