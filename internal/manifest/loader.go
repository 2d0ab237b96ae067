// Package manifest decodes the flat comma-separated download index:
// one header row, then `filename,URL,folder,MD5` per asset.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"dsfetch/internal/domain"
)

const fieldCount = 4

// MalformedRecordError reports a manifest row that cannot be decoded.
type MalformedRecordError struct {
	Line   int
	Fields int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Load reads and decodes the manifest at path.
func Load(path string) ([]domain.ManifestRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes every data row of r. The first decoding error aborts.
func Parse(r io.Reader) ([]domain.ManifestRecord, error) {
	scanner := bufio.NewScanner(r)
	var records []domain.ManifestRecord
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			// header
			continue
		}
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec, err := decodeRow(text, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return records, nil
}

func decodeRow(text string, line int) (domain.ManifestRecord, error) {
	fields := strings.Split(strings.TrimSpace(text), ",")
	if len(fields) != fieldCount {
		return domain.ManifestRecord{}, &MalformedRecordError{
			Line:   line,
			Fields: len(fields),
			Reason: fmt.Sprintf("expected %d fields, got %d", fieldCount, len(fields)),
		}
	}
	rec := domain.ManifestRecord{
		Filename: fields[0],
		URL:      fields[1],
		Folder:   fields[2],
		Checksum: fields[3],
		Line:     line,
	}
	for _, req := range []struct {
		name  string
		value string
	}{
		{"filename", rec.Filename},
		{"URL", rec.URL},
		{"checksum", rec.Checksum},
	} {
		if req.value == "" {
			return domain.ManifestRecord{}, &MalformedRecordError{
				Line:   line,
				Fields: len(fields),
				Reason: fmt.Sprintf("%s is empty", req.name),
			}
		}
	}
	return rec, nil
}
