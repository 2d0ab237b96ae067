package domain

import "path/filepath"

// ManifestRecord is one asset row of a download manifest.
type ManifestRecord struct {
	Filename string
	URL      string
	Folder   string
	Checksum string
	Line     int
}

// DestinationPath resolves the record below baseDir.
func (r ManifestRecord) DestinationPath(baseDir string) string {
	return filepath.Join(baseDir, r.Folder, r.Filename)
}

// Verification is the outcome of checking one file against its expected digest.
type Verification struct {
	Path     string
	Exists   bool
	Expected string
	Actual   string
	OK       bool
}
