// Package report persists a YAML record of one manifest run.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"dsfetch/internal/domain"
)

type Report struct {
	RunID      string    `yaml:"run_id"`
	Manifest   string    `yaml:"manifest"`
	BaseDir    string    `yaml:"base_dir"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
	Success    int       `yaml:"success_count"`
	Fail       int       `yaml:"fail_count"`
	Rate       *float64  `yaml:"success_rate,omitempty"`
	Aborted    string    `yaml:"aborted,omitempty"`
	Files      []File    `yaml:"files"`
}

type File struct {
	Filename string `yaml:"filename"`
	Path     string `yaml:"path"`
	URL      string `yaml:"url"`
	State    string `yaml:"state"`
	Fetched  bool   `yaml:"fetched"`
	Expected string `yaml:"expected_md5"`
	Actual   string `yaml:"actual_md5,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// Build assembles a report from a finished (or aborted) run.
func Build(runID, manifest, baseDir string, started, finished time.Time, result domain.RunResult, runErr error) Report {
	r := Report{
		RunID:      runID,
		Manifest:   manifest,
		BaseDir:    baseDir,
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		Success:    result.Success,
		Fail:       result.Fail,
		Files:      make([]File, 0, len(result.Outcomes)),
	}
	if rate, ok := result.Rate(); ok {
		r.Rate = &rate
	}
	if runErr != nil {
		r.Aborted = runErr.Error()
	}
	for _, o := range result.Outcomes {
		f := File{
			Filename: o.Record.Filename,
			Path:     o.Path,
			URL:      o.Record.URL,
			State:    o.State.String(),
			Fetched:  o.Fetched,
			Expected: o.Expected,
			Actual:   o.Actual,
		}
		if o.Err != nil {
			f.Error = o.Err.Error()
		}
		r.Files = append(r.Files, f)
	}
	return r
}

// Write stores r as YAML at path, creating parent directories.
func Write(path string, r Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
