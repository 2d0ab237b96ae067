package domain

// EventKind identifies a per-record progress notice.
type EventKind int

const (
	EventRecordStarted EventKind = iota
	EventFileExists
	EventFileMissing
	EventChecksumMatch
	EventChecksumMismatch
	EventSkipDownload
	EventDownloading
	EventTransferFailed
	EventNotVerified
	EventRecordDone
)

// Event is emitted by the pipeline while records are processed.
type Event struct {
	Kind     EventKind
	Record   ManifestRecord
	Path     string
	Expected string
	Actual   string
	Err      error
	// Index and Total are set on EventRecordStarted and EventRecordDone.
	Index int
	Total int
}

// EventFunc receives pipeline events. It may be nil.
type EventFunc func(Event)
