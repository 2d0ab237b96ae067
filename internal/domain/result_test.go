package domain

import (
	"errors"
	"testing"
)

func TestRunResultRateEmpty(t *testing.T) {
	var r RunResult
	if _, ok := r.Rate(); ok {
		t.Fatalf("expected no rate for empty run")
	}
	if r.Total() != 0 {
		t.Fatalf("expected total 0, got %d", r.Total())
	}
}

func TestRunResultRecordCountsExactlyOnce(t *testing.T) {
	var r RunResult
	r.Record(Outcome{State: StateVerified})
	r.Record(Outcome{State: StateFailed, Err: errors.New("boom")})
	r.Record(Outcome{State: StateVerified})

	if r.Success != 2 || r.Fail != 1 {
		t.Fatalf("unexpected counts: success=%d fail=%d", r.Success, r.Fail)
	}
	if r.Total() != len(r.Outcomes) {
		t.Fatalf("total %d does not match %d outcomes", r.Total(), len(r.Outcomes))
	}
	rate, ok := r.Rate()
	if !ok {
		t.Fatalf("expected rate")
	}
	if rate < 66.66 || rate > 66.67 {
		t.Fatalf("unexpected rate %f", rate)
	}
}

func TestDestinationPath(t *testing.T) {
	rec := ManifestRecord{Filename: "a.bin", Folder: "sub"}
	if got := rec.DestinationPath("/data"); got != "/data/sub/a.bin" {
		t.Fatalf("unexpected path %q", got)
	}
	rec.Folder = ""
	if got := rec.DestinationPath("/data"); got != "/data/a.bin" {
		t.Fatalf("unexpected path %q", got)
	}
}
