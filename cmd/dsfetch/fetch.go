package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"dsfetch/internal/app"
	"dsfetch/internal/config"
	"dsfetch/internal/domain"
	appErrors "dsfetch/internal/errors"
	"dsfetch/internal/infra/fs"
	"dsfetch/internal/infra/httpfetch"
	"dsfetch/internal/logging"
	"dsfetch/internal/manifest"
	"dsfetch/internal/presentation"
	"dsfetch/internal/report"
	"dsfetch/internal/tui"
)

func newFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Verify manifest files and download missing or corrupt ones",
		Args:  cobra.NoArgs,
	}
	cfg := bindFetchFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return executeFetch(cmd, cfg)
	}
	return cmd
}

func bindFetchFlags(cmd *cobra.Command) *config.Config {
	return config.BindFlags(cmd.Flags())
}

// executeFetch handles the fetch command logic
func executeFetch(cmd *cobra.Command, flags *config.Config) error {
	cfg, err := config.Resolve(cmd.Flags(), *flags)
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
	}

	runID := report.NewRunID()
	logger := logging.New(os.Stderr, cfg.Verbose).With("run", runID)
	defer logger.Sync()

	records, err := loadManifest(cfg.ManifestPath)
	if err != nil {
		return err
	}
	logger.Verbosef("loaded %d records from %s", len(records), cfg.ManifestPath)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	osfs := fs.OSFS{}
	fetcher := &httpfetch.Fetcher{
		Client: httpfetch.NewClient(cfg.Timeout, logger),
		Files:  osfs,
		Logger: logger,
	}
	if cfg.Progress {
		fetcher.Progress = os.Stderr
	}

	pipeline := &app.Pipeline{
		FS:      osfs,
		Fetcher: fetcher,
		BaseDir: cfg.BaseDir,
		Verbose: true,
		Logger:  logger,
	}
	printer := presentation.NewPrinter(cmd.OutOrStdout(), cfg.Verbose)

	started := time.Now()
	var result domain.RunResult
	var runErr error
	if cfg.TUI {
		result, runErr = runWithTUI(ctx, stop, pipeline, records, cfg)
	} else {
		pipeline.OnEvent = printer.PrintEvent
		result, runErr = pipeline.Run(ctx, records)
	}
	printer.PrintSummary(result)

	if cfg.ReportPath != "" {
		r := report.Build(runID, cfg.ManifestPath, cfg.BaseDir, started, time.Now(), result, runErr)
		if err := report.Write(cfg.ReportPath, r); err != nil {
			logger.Warnf("report not written: %v", err)
		} else {
			logger.Verbosef("report written to %s", cfg.ReportPath)
		}
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return appErrors.Wrap(appErrors.Canceled, "fetch", "", runErr)
		}
		return appErrors.Wrap(appErrors.Internal, "fetch", cfg.ManifestPath, runErr)
	}
	if result.Fail > 0 {
		return errIncomplete
	}
	return nil
}

func loadManifest(path string) ([]domain.ManifestRecord, error) {
	records, err := manifest.Load(path)
	if err == nil {
		return records, nil
	}
	var malformed *manifest.MalformedRecordError
	switch {
	case errors.As(err, &malformed):
		return nil, appErrors.Wrap(appErrors.MalformedManifest, "load", path, err)
	case errors.Is(err, os.ErrNotExist):
		return nil, appErrors.Wrap(appErrors.NotFound, "load", path, err)
	default:
		return nil, appErrors.Wrap(appErrors.IOFailure, "load", path, err)
	}
}

// runWithTUI drives the pipeline on a goroutine and feeds its events to the
// bubbletea program until the user exits.
func runWithTUI(ctx context.Context, cancel context.CancelFunc, pipeline *app.Pipeline, records []domain.ManifestRecord, cfg config.Config) (domain.RunResult, error) {
	model := tui.NewModel(tui.Config{
		ManifestPath: cfg.ManifestPath,
		BaseDir:      cfg.BaseDir,
		Cancel:       cancel,
	})
	program := tea.NewProgram(model)

	pipeline.OnEvent = func(ev domain.Event) {
		program.Send(tui.EventMsg{Event: ev})
	}

	var result domain.RunResult
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, runErr = pipeline.Run(ctx, records)
		program.Send(tui.DoneMsg{Result: result, Err: runErr})
	}()

	_, uiErr := program.Run()
	if uiErr != nil {
		cancel()
	}
	<-done
	if runErr == nil && uiErr != nil {
		runErr = uiErr
	}
	return result, runErr
}
