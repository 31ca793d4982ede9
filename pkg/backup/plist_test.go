package backup

import (
	"strings"
	"testing"
)

const testInfoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Build Version</key><string>20B110</string>
	<key>Device Name</key><string>Test iPhone</string>
	<key>GUID</key><string>AA11BB22CC33</string>
	<key>Last Backup Date</key><date>2023-01-15T10:30:00Z</date>
	<key>Product Name</key><string>iPhone 14 Pro</string>
	<key>Product Type</key><string>iPhone15,2</string>
	<key>Product Version</key><string>16.1.1</string>
	<key>Serial Number</key><string>F2LTESTSERIAL</string>
	<key>Target Identifier</key><string>00008120-000000000000001E</string>
	<key>Unique Identifier</key><string>00008120-000000000000001E</string>
	<key>iTunes Version</key><string>12.12.7.1</string>
</dict>
</plist>`

const testManifestPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Version</key><string>10.0</string>
	<key>Date</key><date>2023-01-15T10:28:12Z</date>
	<key>SystemDomainsVersion</key><string>26.0</string>
	<key>WasPasscodeSet</key><true/>
	<key>IsEncrypted</key><false/>
	<key>Lockdown</key>
	<dict>
		<key>BuildVersion</key><string>20B110</string>
		<key>DeviceName</key><string>Test iPhone</string>
		<key>ProductType</key><string>iPhone15,2</string>
		<key>ProductVersion</key><string>16.1.1</string>
		<key>SerialNumber</key><string>F2LTESTSERIAL</string>
		<key>UniqueDeviceID</key><string>0000812000000000001e</string>
	</dict>
</dict>
</plist>`

const testStatusPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>UUID</key><string>0F1A2B3C-4D5E-6F70-8192-A3B4C5D6E7F8</string>
	<key>BackupState</key><string>new</string>
	<key>SnapshotState</key><string>finished</string>
	<key>IsFullBackup</key><true/>
	<key>Version</key><string>3.3</string>
	<key>Date</key><date>2023-01-15T10:30:00Z</date>
</dict>
</plist>`

func TestParseInfo(t *testing.T) {
	i, err := ParseInfo([]byte(testInfoPlist))
	if err != nil {
		t.Fatalf("ParseInfo() error = %v", err)
	}
	if i.DeviceName != "Test iPhone" {
		t.Errorf("DeviceName = %q, want %q", i.DeviceName, "Test iPhone")
	}
	if i.ProductType != "iPhone15,2" {
		t.Errorf("ProductType = %q, want %q", i.ProductType, "iPhone15,2")
	}
	if i.SerialNumber != "F2LTESTSERIAL" {
		t.Errorf("SerialNumber = %q, want %q", i.SerialNumber, "F2LTESTSERIAL")
	}
	if i.LastBackupDate.IsZero() {
		t.Error("LastBackupDate was not parsed")
	}
	if !strings.Contains(i.String(), "Test iPhone") {
		t.Error("String() does not mention the device name")
	}
}

func TestParseInfoCorrupt(t *testing.T) {
	if _, err := ParseInfo([]byte("not a plist")); err == nil {
		t.Error("ParseInfo() should fail on garbage input")
	}
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(testManifestPlist))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	if m.IsEncrypted {
		t.Error("IsEncrypted = true, want false")
	}
	if !m.WasPasscodeSet {
		t.Error("WasPasscodeSet = false, want true")
	}
	if m.Lockdown == nil || m.Lockdown.ProductType != "iPhone15,2" {
		t.Errorf("Lockdown = %+v, want ProductType iPhone15,2", m.Lockdown)
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus([]byte(testStatusPlist))
	if err != nil {
		t.Fatalf("ParseStatus() error = %v", err)
	}
	if s.Version != "3.3" {
		t.Errorf("Version = %q, want %q", s.Version, "3.3")
	}
	if !s.IsFullBackup {
		t.Error("IsFullBackup = false, want true")
	}
	if s.SnapshotState != "finished" {
		t.Errorf("SnapshotState = %q, want %q", s.SnapshotState, "finished")
	}
}
