package app

import (
	"crypto/md5"
	"encoding/hex"

	"dsfetch/internal/domain"
)

// Verifier checks that a file exists and matches its expected MD5 digest.
type Verifier struct {
	FS      FileSystem
	Verbose bool
	OnEvent domain.EventFunc
}

// Verify reports whether a regular file at path hashes to expected.
func (v *Verifier) Verify(path, expected string) bool {
	return v.Check(path, expected).OK
}

// Check is Verify with the computed digest attached. A missing or unreadable
// file yields OK == false, never an error.
func (v *Verifier) Check(path, expected string) domain.Verification {
	result := domain.Verification{Path: path, Expected: expected}

	info, err := v.FS.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		v.emit(domain.Event{Kind: domain.EventFileMissing, Path: path, Expected: expected})
		return result
	}
	result.Exists = true
	v.emit(domain.Event{Kind: domain.EventFileExists, Path: path, Expected: expected})

	data, err := v.FS.ReadFile(path)
	if err != nil {
		v.emit(domain.Event{Kind: domain.EventChecksumMismatch, Path: path, Expected: expected, Err: err})
		return result
	}
	sum := md5.Sum(data)
	result.Actual = hex.EncodeToString(sum[:])
	result.OK = result.Actual == expected

	kind := domain.EventChecksumMismatch
	if result.OK {
		kind = domain.EventChecksumMatch
	}
	v.emit(domain.Event{Kind: kind, Path: path, Expected: expected, Actual: result.Actual})
	return result
}

func (v *Verifier) emit(ev domain.Event) {
	if !v.Verbose || v.OnEvent == nil {
		return
	}
	v.OnEvent(ev)
}
