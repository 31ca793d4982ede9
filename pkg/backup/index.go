package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// IndexFileName is the name of the path index cache artifact written to the
// backup root once a full scan has completed.
const IndexFileName = "ibackup.json"

// ErrNoCache is returned by LoadIndex when no cache artifact exists yet.
var ErrNoCache = errors.New("path index cache not found")

// PathIndex maps a fileID (the opaque content-hash derived name a file is
// stored under on disk) to its path relative to the backup root. It is built
// once by a full directory scan and read-only afterwards.
type PathIndex map[string]string

// BuildIndex walks the whole directory tree under root and records every
// non-directory entry. Backups are normally a flat 2-level hash-bucket layout
// but the walk makes no assumption about depth.
func BuildIndex(root string) (PathIndex, error) {
	idx := make(PathIndex)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		idx[d.Name()] = filepath.ToSlash(rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan backup directory %s: %w", root, err)
	}
	return idx, nil
}

// LoadIndex reads a previously saved path index. A missing cache is reported
// as ErrNoCache so callers can fall back to a full rescan; a corrupt cache is
// NOT treated as empty (that would silently skip every file at extraction
// time) and instead tells the operator how to recover.
func LoadIndex(path string) (PathIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCache
		}
		return nil, fmt.Errorf("failed to read path index cache %s: %w", path, err)
	}
	var idx PathIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("path index cache %s is corrupt (delete it to force a rescan): %w", path, err)
	}
	return idx, nil
}

// Save persists the index next to the backup it was built from. Callers must
// only save after a complete scan so a partial cache is never written.
func (i PathIndex) Save(path string) error {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal path index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o660); err != nil {
		return fmt.Errorf("failed to write path index cache %s: %w", path, err)
	}
	return nil
}

// Resolve returns the on-disk path (relative to the backup root) for a fileID.
func (i PathIndex) Resolve(fileID string) (string, bool) {
	rel, ok := i[fileID]
	return rel, ok
}
