package backup

import (
	"bytes"
	"fmt"
	"time"

	"github.com/blacktop/go-plist"
	"github.com/dustin/go-humanize"
)

// Lockdown is the device snapshot embedded in Manifest.plist.
type Lockdown struct {
	BuildVersion   string `plist:"BuildVersion,omitempty" json:"build_version,omitempty"`
	DeviceName     string `plist:"DeviceName,omitempty" json:"device_name,omitempty"`
	ProductType    string `plist:"ProductType,omitempty" json:"product_type,omitempty"`
	ProductVersion string `plist:"ProductVersion,omitempty" json:"product_version,omitempty"`
	SerialNumber   string `plist:"SerialNumber,omitempty" json:"serial_number,omitempty"`
	UniqueDeviceID string `plist:"UniqueDeviceID,omitempty" json:"unique_device_id,omitempty"`
}

// Manifest is the Manifest.plist document found at the backup root.
type Manifest struct {
	BackupKeyBag         []byte         `plist:"BackupKeyBag,omitempty" json:"-"`
	Version              string         `plist:"Version,omitempty" json:"version,omitempty"`
	Date                 time.Time      `plist:"Date,omitempty" json:"date,omitempty"`
	SystemDomainsVersion string         `plist:"SystemDomainsVersion,omitempty" json:"system_domains_version,omitempty"`
	WasPasscodeSet       bool           `plist:"WasPasscodeSet,omitempty" json:"was_passcode_set,omitempty"`
	IsEncrypted          bool           `plist:"IsEncrypted,omitempty" json:"is_encrypted,omitempty"`
	Lockdown             *Lockdown      `plist:"Lockdown,omitempty" json:"lockdown,omitempty"`
	Applications         map[string]any `plist:"Applications,omitempty" json:"applications,omitempty"`
}

// ParseManifest parses the backup's Manifest.plist
func ParseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := plist.NewDecoder(bytes.NewReader(data)).Decode(m); err != nil {
		return nil, fmt.Errorf("failed to parse Manifest.plist: %w", err)
	}
	return m, nil
}

// Manifest Stringer
func (m *Manifest) String() string {
	var out string
	out += "[Manifest.plist]\n"
	out += "================\n"
	out += fmt.Sprintf("Version:          %s\n", m.Version)
	out += fmt.Sprintf("Date:             %s\n", m.Date.Format("02Jan2006 15:04:05 MST"))
	out += fmt.Sprintf("Encrypted:        %t\n", m.IsEncrypted)
	out += fmt.Sprintf("Passcode Set:     %t\n", m.WasPasscodeSet)
	if m.SystemDomainsVersion != "" {
		out += fmt.Sprintf("Sys Domains Ver:  %s\n", m.SystemDomainsVersion)
	}
	if len(m.BackupKeyBag) > 0 {
		out += fmt.Sprintf("Backup KeyBag:    %s\n", humanize.Bytes(uint64(len(m.BackupKeyBag))))
	}
	if len(m.Applications) > 0 {
		out += fmt.Sprintf("Applications:     %d\n", len(m.Applications))
	}
	if m.Lockdown != nil {
		out += "Lockdown:\n"
		out += fmt.Sprintf("  Device Name:    %s\n", m.Lockdown.DeviceName)
		out += fmt.Sprintf("  Product Type:   %s\n", m.Lockdown.ProductType)
		out += fmt.Sprintf("  iOS Version:    %s (%s)\n", m.Lockdown.ProductVersion, m.Lockdown.BuildVersion)
		out += fmt.Sprintf("  Serial Number:  %s\n", m.Lockdown.SerialNumber)
	}
	return out
}
