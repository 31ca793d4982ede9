package backup

import (
	"bytes"
	"fmt"
	"time"

	"github.com/blacktop/go-plist"
)

// Info is the Info.plist document found at the backup root. Keys carry spaces
// in the on-disk document.
type Info struct {
	BuildVersion     string    `plist:"Build Version,omitempty" json:"build_version,omitempty"`
	DeviceName       string    `plist:"Device Name,omitempty" json:"device_name,omitempty"`
	DisplayName      string    `plist:"Display Name,omitempty" json:"display_name,omitempty"`
	GUID             string    `plist:"GUID,omitempty" json:"guid,omitempty"`
	ICCID            string    `plist:"ICCID,omitempty" json:"iccid,omitempty"`
	IMEI             string    `plist:"IMEI,omitempty" json:"imei,omitempty"`
	LastBackupDate   time.Time `plist:"Last Backup Date,omitempty" json:"last_backup_date,omitempty"`
	PhoneNumber      string    `plist:"Phone Number,omitempty" json:"phone_number,omitempty"`
	ProductName      string    `plist:"Product Name,omitempty" json:"product_name,omitempty"`
	ProductType      string    `plist:"Product Type,omitempty" json:"product_type,omitempty"`
	ProductVersion   string    `plist:"Product Version,omitempty" json:"product_version,omitempty"`
	SerialNumber     string    `plist:"Serial Number,omitempty" json:"serial_number,omitempty"`
	TargetIdentifier string    `plist:"Target Identifier,omitempty" json:"target_identifier,omitempty"`
	TargetType       string    `plist:"Target Type,omitempty" json:"target_type,omitempty"`
	UniqueIdentifier string    `plist:"Unique Identifier,omitempty" json:"unique_identifier,omitempty"`
	ITunesVersion    string    `plist:"iTunes Version,omitempty" json:"itunes_version,omitempty"`
	InstalledApps    []string  `plist:"Installed Applications,omitempty" json:"installed_apps,omitempty"`
}

// ParseInfo parses the backup's Info.plist
func ParseInfo(data []byte) (*Info, error) {
	i := &Info{}
	if err := plist.NewDecoder(bytes.NewReader(data)).Decode(i); err != nil {
		return nil, fmt.Errorf("failed to parse Info.plist: %w", err)
	}
	return i, nil
}

// Info Stringer
func (i *Info) String() string {
	var out string
	out += "[Info.plist]\n"
	out += "============\n"
	out += fmt.Sprintf("Device Name:      %s\n", i.DeviceName)
	if i.DisplayName != "" && i.DisplayName != i.DeviceName {
		out += fmt.Sprintf("Display Name:     %s\n", i.DisplayName)
	}
	out += fmt.Sprintf("Product Name:     %s\n", i.ProductName)
	out += fmt.Sprintf("Product Type:     %s\n", i.ProductType)
	out += fmt.Sprintf("Product Version:  %s\n", i.ProductVersion)
	out += fmt.Sprintf("Build Version:    %s\n", i.BuildVersion)
	out += fmt.Sprintf("Serial Number:    %s\n", i.SerialNumber)
	if i.IMEI != "" {
		out += fmt.Sprintf("IMEI:             %s\n", i.IMEI)
	}
	if i.PhoneNumber != "" {
		out += fmt.Sprintf("Phone Number:     %s\n", i.PhoneNumber)
	}
	out += fmt.Sprintf("Target ID:        %s\n", i.TargetIdentifier)
	if !i.LastBackupDate.IsZero() {
		out += fmt.Sprintf("Last Backup Date: %s\n", i.LastBackupDate.Format("02Jan2006 15:04:05 MST"))
	}
	if i.ITunesVersion != "" {
		out += fmt.Sprintf("iTunes Version:   %s\n", i.ITunesVersion)
	}
	if len(i.InstalledApps) > 0 {
		out += fmt.Sprintf("Installed Apps:   %d\n", len(i.InstalledApps))
	}
	return out
}
