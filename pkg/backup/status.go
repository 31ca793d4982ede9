package backup

import (
	"bytes"
	"fmt"
	"time"

	"github.com/blacktop/go-plist"
)

// Status is the Status.plist document found at the backup root.
type Status struct {
	UUID          string    `plist:"UUID,omitempty" json:"uuid,omitempty"`
	BackupState   string    `plist:"BackupState,omitempty" json:"backup_state,omitempty"`
	SnapshotState string    `plist:"SnapshotState,omitempty" json:"snapshot_state,omitempty"`
	IsFullBackup  bool      `plist:"IsFullBackup,omitempty" json:"is_full_backup,omitempty"`
	Version       string    `plist:"Version,omitempty" json:"version,omitempty"`
	Date          time.Time `plist:"Date,omitempty" json:"date,omitempty"`
}

// ParseStatus parses the backup's Status.plist
func ParseStatus(data []byte) (*Status, error) {
	s := &Status{}
	if err := plist.NewDecoder(bytes.NewReader(data)).Decode(s); err != nil {
		return nil, fmt.Errorf("failed to parse Status.plist: %w", err)
	}
	return s, nil
}

// Status Stringer
func (s *Status) String() string {
	var out string
	out += "[Status.plist]\n"
	out += "==============\n"
	out += fmt.Sprintf("UUID:             %s\n", s.UUID)
	out += fmt.Sprintf("Backup State:     %s\n", s.BackupState)
	out += fmt.Sprintf("Snapshot State:   %s\n", s.SnapshotState)
	out += fmt.Sprintf("Full Backup:      %t\n", s.IsFullBackup)
	out += fmt.Sprintf("Version:          %s\n", s.Version)
	out += fmt.Sprintf("Date:             %s\n", s.Date.Format("02Jan2006 15:04:05 MST"))
	return out
}
