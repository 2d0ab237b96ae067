package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type failingReader struct {
	data string
	done bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, errors.New("connection reset")
	}
	r.done = true
	return copy(p, r.data), nil
}

func TestWriteFileCreatesParentsAndReplaces(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "sub", "deeper", "a.bin")
	if _, err := (OSFS{}).WriteFile(dst, strings.NewReader("first")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, err := (OSFS{}).WriteFile(dst, strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 bytes, got %d", n)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected content %q", data)
	}
	if _, err := os.Stat(dst + PartSuffix); !os.IsNotExist(err) {
		t.Fatalf("part file should be gone, stat err = %v", err)
	}
}

func TestWriteFileInterruptedLeavesDestinationAlone(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "a.bin")
	if err := os.WriteFile(dst, []byte("previous"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := (OSFS{}).WriteFile(dst, &failingReader{data: "partial"})
	if err == nil {
		t.Fatalf("expected copy error")
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "previous" {
		t.Fatalf("destination changed to %q", data)
	}
	if _, err := os.Stat(dst + PartSuffix); !os.IsNotExist(err) {
		t.Fatalf("part file should be removed, stat err = %v", err)
	}
}
