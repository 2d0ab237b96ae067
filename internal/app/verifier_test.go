package app

import (
	"errors"
	"io/fs"
	"testing"

	"dsfetch/internal/domain"
)

type failingReadFS struct {
	*mockFS
}

func (f failingReadFS) ReadFile(path string) ([]byte, error) {
	return nil, errors.New("permission denied")
}

func TestVerifierMissingFile(t *testing.T) {
	mfs := newMockFS()
	v := Verifier{FS: mfs}
	if v.Verify("/nope", helloMD5) {
		t.Fatalf("missing file must not verify")
	}
	if mfs.reads["/nope"] != 0 {
		t.Fatalf("missing file must not be read")
	}
}

func TestVerifierIsIdempotent(t *testing.T) {
	mfs := newMockFS()
	mfs.files["/f"] = []byte("hello")
	v := Verifier{FS: mfs}
	first := v.Verify("/f", helloMD5)
	second := v.Verify("/f", helloMD5)
	if !first || first != second {
		t.Fatalf("expected stable true result, got %v then %v", first, second)
	}
	if mfs.reads["/f"] != 2 {
		t.Fatalf("expected each check to re-read the file, got %d reads", mfs.reads["/f"])
	}
}

func TestVerifierIsCaseSensitive(t *testing.T) {
	mfs := newMockFS()
	mfs.files["/f"] = []byte("hello")
	v := Verifier{FS: mfs}
	if v.Verify("/f", "5D41402ABC4B2A76B9719D911017C592") {
		t.Fatalf("uppercase digest must not match")
	}
}

func TestVerifierRejectsDirectory(t *testing.T) {
	v := Verifier{FS: dirFS{}}
	if v.Verify("/dir", helloMD5) {
		t.Fatalf("directory must not verify")
	}
}

func TestVerifierReadErrorIsMismatch(t *testing.T) {
	mfs := newMockFS()
	mfs.files["/f"] = []byte("hello")
	var events []domain.Event
	v := Verifier{
		FS:      failingReadFS{mfs},
		Verbose: true,
		OnEvent: func(ev domain.Event) { events = append(events, ev) },
	}
	check := v.Check("/f", helloMD5)
	if check.OK || !check.Exists {
		t.Fatalf("unexpected check: %+v", check)
	}
	if len(events) != 2 || events[1].Kind != domain.EventChecksumMismatch || events[1].Err == nil {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestVerifierVerboseEmitsTwoLines(t *testing.T) {
	mfs := newMockFS()
	mfs.files["/f"] = []byte("hello")
	var events []domain.Event
	v := Verifier{FS: mfs, Verbose: true, OnEvent: func(ev domain.Event) { events = append(events, ev) }}
	v.Verify("/f", "deadbeef")

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Kind != domain.EventFileExists {
		t.Fatalf("expected exists event first, got %v", events[0].Kind)
	}
	mismatch := events[1]
	if mismatch.Kind != domain.EventChecksumMismatch || mismatch.Expected != "deadbeef" || mismatch.Actual != helloMD5 {
		t.Fatalf("unexpected mismatch event: %+v", mismatch)
	}
}

func TestVerifierQuietEmitsNothing(t *testing.T) {
	mfs := newMockFS()
	mfs.files["/f"] = []byte("hello")
	called := false
	v := Verifier{FS: mfs, OnEvent: func(domain.Event) { called = true }}
	v.Verify("/f", helloMD5)
	if called {
		t.Fatalf("quiet verifier must not emit events")
	}
}

type dirFS struct{}

func (dirFS) Stat(path string) (fs.FileInfo, error) {
	return mockFileInfo{name: "dir", dir: true}, nil
}

func (dirFS) ReadFile(path string) ([]byte, error) {
	return nil, errors.New("is a directory")
}
