package app

import (
	"context"
	"errors"

	"dsfetch/internal/domain"
	appErrors "dsfetch/internal/errors"
	"dsfetch/internal/logging"
)

// Pipeline resolves manifest records one at a time: verify, and only when
// that fails fetch once and verify again.
type Pipeline struct {
	FS      FileSystem
	Fetcher Fetcher
	BaseDir string
	Verbose bool
	Logger  logging.Logger
	OnEvent domain.EventFunc
}

// Run processes records in order. Transfer errors are recorded as failures
// and the run continues; only context cancellation stops it early, in which
// case the partial result is returned alongside the context error.
func (p *Pipeline) Run(ctx context.Context, records []domain.ManifestRecord) (domain.RunResult, error) {
	var result domain.RunResult
	if p.FS == nil || p.Fetcher == nil {
		return result, errors.New("pipeline requires FS and Fetcher")
	}

	stop := p.Logger.Measure("Processing manifest")
	defer stop()

	verifier := &Verifier{FS: p.FS, Verbose: p.Verbose, OnEvent: p.OnEvent}
	total := len(records)

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		path := rec.DestinationPath(p.BaseDir)
		p.emit(domain.Event{Kind: domain.EventRecordStarted, Record: rec, Path: path, Index: i, Total: total})

		outcome, err := p.resolve(ctx, verifier, rec, path)
		if err != nil {
			return result, err
		}
		result.Record(outcome)
		p.emit(domain.Event{Kind: domain.EventRecordDone, Record: rec, Path: path, Index: i + 1, Total: total, Err: outcome.Err})
	}

	p.Logger.Verbosef("Processed %d records: %d verified, %d failed", result.Total(), result.Success, result.Fail)
	return result, nil
}

func (p *Pipeline) resolve(ctx context.Context, verifier *Verifier, rec domain.ManifestRecord, path string) (domain.Outcome, error) {
	verifier.OnEvent = p.withRecord(rec)
	outcome := domain.Outcome{Record: rec, Path: path, Expected: rec.Checksum}

	if check := verifier.Check(path, rec.Checksum); check.OK {
		outcome.State = domain.StateVerified
		outcome.Actual = check.Actual
		p.emit(domain.Event{Kind: domain.EventSkipDownload, Record: rec, Path: path})
		return outcome, nil
	}

	p.emit(domain.Event{Kind: domain.EventDownloading, Record: rec, Path: path})
	p.Logger.Verbosef("fetching %s -> %s", rec.URL, path)
	outcome.Fetched = true
	if err := p.Fetcher.Fetch(ctx, rec.URL, path); err != nil {
		if ctx.Err() != nil {
			return outcome, ctx.Err()
		}
		outcome.Err = appErrors.Wrap(appErrors.TransferFailure, "fetch", rec.URL, err)
		p.Logger.Warnf("fetching %s failed: %v", rec.URL, err)
		p.emit(domain.Event{Kind: domain.EventTransferFailed, Record: rec, Path: path, Err: err})
	}

	check := verifier.Check(path, rec.Checksum)
	outcome.Actual = check.Actual
	if check.OK {
		outcome.State = domain.StateVerified
		return outcome, nil
	}
	outcome.State = domain.StateFailed
	p.emit(domain.Event{Kind: domain.EventNotVerified, Record: rec, Path: path, Expected: rec.Checksum, Actual: check.Actual, Err: outcome.Err})
	return outcome, nil
}

// withRecord tags verifier events with the record they belong to.
func (p *Pipeline) withRecord(rec domain.ManifestRecord) domain.EventFunc {
	if p.OnEvent == nil {
		return nil
	}
	return func(ev domain.Event) {
		ev.Record = rec
		p.OnEvent(ev)
	}
}

func (p *Pipeline) emit(ev domain.Event) {
	if p.OnEvent != nil {
		p.OnEvent(ev)
	}
}
