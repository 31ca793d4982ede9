package backup

import (
	"fmt"
	"sort"
	"strings"
)

// Extractor is a named extraction profile: a filter over manifest rows plus a
// human readable description. The registry below is static; profiles are not
// user-extensible at runtime.
type Extractor struct {
	Name        string
	Description string
	// Pattern is a SQL LIKE pattern matched against the manifest's
	// relativePath column; empty matches every row.
	Pattern string
}

var extractors = map[string]Extractor{
	"all": {
		Name:        "all",
		Description: "every file in the backup",
	},
	"camera_roll": {
		Name:        "camera_roll",
		Description: "camera roll photos and videos",
		// photos have a few different possible extensions, though with one
		// commonality: they are stored in Media/DCIM/%APPLE/%
		Pattern: "Media/DCIM/%APPLE/%",
	},
	"messages": {
		Name:        "messages",
		Description: "SMS/iMessage databases and attachments",
		Pattern:     "Library/SMS/%",
	},
	"voicemail": {
		Name:        "voicemail",
		Description: "voicemail recordings",
		Pattern:     "Library/Voicemail/%",
	},
}

// GetExtractor resolves a profile by name. Unknown names list the valid
// choices rather than surfacing a raw lookup failure.
func GetExtractor(name string) (*Extractor, error) {
	if ex, ok := extractors[name]; ok {
		return &ex, nil
	}
	return nil, fmt.Errorf("invalid extraction type %q (choose one of: %s)", name, strings.Join(ExtractorNames(), ", "))
}

// ExtractorNames returns the available profile names, "all" first.
func ExtractorNames() []string {
	names := make([]string, 0, len(extractors))
	for name := range extractors {
		if name == "all" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return append([]string{"all"}, names...)
}

// Files runs the profile's filter against the backup's manifest.
func (e *Extractor) Files(b *Backup) ([]File, error) {
	return b.FilesMatching(e.Pattern)
}
