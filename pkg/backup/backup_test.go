package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// writeTestBackup lays out a synthetic backup: the three metadata documents,
// a Manifest.db with the given rows and hash-bucketed content files.
func writeTestBackup(t *testing.T, version string, rows []File, content map[string]string) string {
	t.Helper()
	root := t.TempDir()

	docs := map[string]string{
		"Info.plist":     testInfoPlist,
		"Manifest.plist": testManifestPlist,
		"Status.plist":   strings.Replace(testStatusPlist, "<string>3.3</string>", "<string>"+version+"</string>", 1),
	}
	for name, data := range docs {
		if err := os.WriteFile(filepath.Join(root, name), []byte(data), 0o660); err != nil {
			t.Fatal(err)
		}
	}

	for fileID, data := range content {
		dir := filepath.Join(root, fileID[:2])
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, fileID), []byte(data), 0o660); err != nil {
			t.Fatal(err)
		}
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(root, "Manifest.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create test manifest database: %v", err)
	}
	if err := db.AutoMigrate(&File{}); err != nil {
		t.Fatalf("failed to migrate test manifest database: %v", err)
	}
	if len(rows) > 0 {
		if err := db.Create(&rows).Error; err != nil {
			t.Fatalf("failed to seed test manifest database: %v", err)
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.Close()

	return root
}

func TestOpen(t *testing.T) {
	rows := []File{
		{FileID: "aa11photo", Domain: "CameraRollDomain", RelativePath: "Media/DCIM/100APPLE/IMG_0001.JPG", Flags: FlagFile},
		{FileID: "bb22sms", Domain: "HomeDomain", RelativePath: "Library/SMS/sms.db", Flags: FlagFile},
	}
	content := map[string]string{
		"aa11photo": "jpeg bytes",
		"bb22sms":   "sqlite bytes",
	}
	root := writeTestBackup(t, "3.3", rows, content)

	b, err := Open(root)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()

	if b.DeviceName() != "Test iPhone" {
		t.Errorf("DeviceName() = %q, want %q", b.DeviceName(), "Test iPhone")
	}
	if b.FormatVersion() != "3.3" {
		t.Errorf("FormatVersion() = %q, want %q", b.FormatVersion(), "3.3")
	}
	if b.IsEncrypted() {
		t.Error("IsEncrypted() = true, want false")
	}
	if !b.IsFullBackup() {
		t.Error("IsFullBackup() = false, want true")
	}

	for fileID := range content {
		if _, ok := b.Index.Resolve(fileID); !ok {
			t.Errorf("Index missing content file %s", fileID)
		}
	}
	if _, err := os.Stat(filepath.Join(root, IndexFileName)); err != nil {
		t.Errorf("Open() did not persist the path index cache: %v", err)
	}

	files, err := b.Files()
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	if len(files) != len(rows) {
		t.Errorf("Files() returned %d rows, want %d", len(files), len(rows))
	}

	photos, err := b.FilesMatching("Media/DCIM/%APPLE/%")
	if err != nil {
		t.Fatalf("FilesMatching() error = %v", err)
	}
	if len(photos) != 1 || photos[0].FileID != "aa11photo" {
		t.Errorf("FilesMatching() = %+v, want the single camera roll row", photos)
	}

	none, err := b.FilesMatching("Media/PhotoData/%")
	if err != nil {
		t.Fatalf("FilesMatching() with zero matches should not error, got %v", err)
	}
	if len(none) != 0 {
		t.Errorf("FilesMatching() = %+v, want empty", none)
	}
}

func TestOpenReusesCache(t *testing.T) {
	content := map[string]string{"aa11photo": "jpeg bytes"}
	root := writeTestBackup(t, "3.3", nil, content)

	b, err := Open(root)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	first := b.Index
	b.Close()

	// second Open must load the persisted cache, not rescan
	b, err = Open(root)
	if err != nil {
		t.Fatalf("Open() error on cached run = %v", err)
	}
	defer b.Close()
	for fileID := range first {
		if _, ok := b.Index.Resolve(fileID); !ok {
			t.Errorf("cached index missing %s", fileID)
		}
	}
}

func TestOpenMissingDocument(t *testing.T) {
	root := writeTestBackup(t, "3.3", nil, nil)
	if err := os.Remove(filepath.Join(root, "Status.plist")); err != nil {
		t.Fatal(err)
	}
	_, err := Open(root)
	if err == nil {
		t.Fatal("Open() should fail when a metadata document is missing")
	}
	if !strings.Contains(err.Error(), "Status.plist") {
		t.Errorf("Open() error %q does not name the missing document", err)
	}
}

func TestOpenBadPath(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Open() should fail on a nonexistent backup path")
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		override bool
		wantErr  bool
	}{
		{name: "supported", version: "3.3", override: false, wantErr: false},
		{name: "supported with override", version: "3.3", override: true, wantErr: false},
		{name: "unsupported", version: "3.2", override: false, wantErr: true},
		{name: "unsupported with override", version: "3.2", override: true, wantErr: false},
		{name: "equivalent", version: "3.3.0", override: false, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Backup{Status: &Status{Version: tt.version}}
			if err := b.CheckVersion(tt.override); (err != nil) != tt.wantErr {
				t.Errorf("CheckVersion(%v) with version %s error = %v, wantErr %v", tt.override, tt.version, err, tt.wantErr)
			}
		})
	}
}
