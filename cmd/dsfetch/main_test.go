package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	appErrors "dsfetch/internal/errors"
	"dsfetch/internal/infra/cfl"
)

const helloMD5 = "5d41402abc4b2a76b9719d911017c592"

func writeManifest(t *testing.T, dir string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, "download_data_index.csv")
	content := "filename,URL,folder,MD5\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestFetchCommandDownloadsAndVerifies(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "have.bin"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	manifestPath := writeManifest(t, dir,
		"have.bin,"+srv.URL+"/have.bin,sub,"+helloMD5,
		"a.bin,"+srv.URL+"/a.bin,sub,"+helloMD5,
	)
	reportPath := filepath.Join(dir, "run.yaml")

	out, err := runRoot(t, "--manifest", manifestPath, "--report", reportPath)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one download, got %d", hits.Load())
	}
	for _, want := range []string{
		"Skipping download of verified file: " + filepath.Join(dir, "sub", "have.bin"),
		"Downloading file a.bin from " + srv.URL + "/a.bin",
		"Successfully downloaded and verified 100.00% : success_count = 2, fail_count = 0",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if _, err := os.Stat(reportPath); err != nil {
		t.Fatalf("expected report: %v", err)
	}

	// second run touches the network for nothing
	if _, err := runRoot(t, "fetch", "-m", manifestPath); err != nil {
		t.Fatalf("unexpected error on rerun: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("rerun should not download, got %d hits", hits.Load())
	}
}

func TestFetchCommandReportsMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("corrupted"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	manifestPath := writeManifest(t, dir, "a.bin,"+srv.URL+"/a.bin,sub,"+helloMD5)

	out, err := runRoot(t, "-m", manifestPath)
	if !errors.Is(err, errIncomplete) {
		t.Fatalf("expected errIncomplete, got %v", err)
	}
	if !strings.Contains(out, "a.bin did not successfully download") {
		t.Fatalf("expected failure notice:\n%s", out)
	}
	if !strings.Contains(out, "success_count = 0, fail_count = 1") {
		t.Fatalf("expected summary:\n%s", out)
	}
	if code, msg := exitStatus(err); code != 2 || msg != "" {
		t.Fatalf("expected silent exit 2, got %d %q", code, msg)
	}
}

func TestExitStatusForAbort(t *testing.T) {
	err := appErrors.Wrap(appErrors.NotFound, "load", "index.csv", os.ErrNotExist)
	code, msg := exitStatus(err)
	if code != 1 || !strings.Contains(msg, "index.csv") {
		t.Fatalf("unexpected exit status %d %q", code, msg)
	}
}

func TestFetchCommandEmptyManifest(t *testing.T) {
	dir := t.TempDir()
	manifestPath := writeManifest(t, dir)

	out, err := runRoot(t, "-m", manifestPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No records processed : success_count = 0, fail_count = 0") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestFetchCommandMalformedManifestAborts(t *testing.T) {
	dir := t.TempDir()
	manifestPath := writeManifest(t, dir, "a.bin,http://x/a.bin,sub")

	_, err := runRoot(t, "-m", manifestPath)
	if got := appErrors.KindOf(err); got != appErrors.MalformedManifest {
		t.Fatalf("expected malformed manifest error, got %v (%v)", got, err)
	}
}

func TestFetchCommandMissingManifest(t *testing.T) {
	_, err := runRoot(t, "-m", filepath.Join(t.TempDir(), "nope.csv"))
	if got := appErrors.KindOf(err); got != appErrors.NotFound {
		t.Fatalf("expected not found error, got %v (%v)", got, err)
	}
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "imgs")
	mask := filepath.Join(dir, "roi_mask")
	image := &cfl.Array{
		Dims: []int{2, 2, 1, 2},
		Data: []complex64{3, complex(0, 4), 7, 1, 2, 9, 9, 4},
	}
	if err := cfl.Write(img, image); err != nil {
		t.Fatalf("write image: %v", err)
	}
	if err := cfl.Write(mask, &cfl.Array{Dims: []int{2, 2, 1}, Data: []complex64{1, 0, 0, 1}}); err != nil {
		t.Fatalf("write mask: %v", err)
	}

	out, err := runRoot(t, "inspect", "--mask", mask, img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "dims 2x2x2 (magnitude)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "slice 0: n=2 min=1 max=3 mean=2") || !strings.Contains(out, "slice 1: n=2 min=2 max=4 mean=3") {
		t.Fatalf("unexpected stats:\n%s", out)
	}
}

func TestInspectCommandMissingArray(t *testing.T) {
	_, err := runRoot(t, "inspect", filepath.Join(t.TempDir(), "nope"))
	if got := appErrors.KindOf(err); got != appErrors.FormatFailure {
		t.Fatalf("expected format failure, got %v (%v)", got, err)
	}
}
