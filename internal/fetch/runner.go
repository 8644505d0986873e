package fetch

import (
	"context"
	"fmt"
	"log/slog"

	"reel/internal/config"
	"reel/internal/history"
	"reel/internal/logging"
	"reel/internal/notify"
	"reel/internal/ytdlp"
)

// Runner drives downloader invocations: it merges configuration with
// per-invocation options, records each request in the history store, and
// forwards subprocess progress to the active progress sink.
type Runner struct {
	cfg         *config.Config
	downloader  ytdlp.Downloader
	store       *history.Store
	notifier    notify.Service
	logger      *slog.Logger
	newProgress ProgressFactory
}

// Option configures the runner.
type Option func(*Runner)

// WithProgress replaces the progress sink factory (primarily for tests).
func WithProgress(factory ProgressFactory) Option {
	return func(r *Runner) {
		if factory != nil {
			r.newProgress = factory
		}
	}
}

// NewRunner builds a runner. The store may be nil when history is disabled;
// the notifier may be a noop service.
func NewRunner(cfg *config.Config, downloader ytdlp.Downloader, store *history.Store, notifier notify.Service, logger *slog.Logger, opts ...Option) *Runner {
	if notifier == nil {
		notifier = notify.NewService(cfg)
	}
	runner := &Runner{
		cfg:        cfg,
		downloader: downloader,
		store:      store,
		notifier:   notifier,
		logger:     logging.NewComponentLogger(logger, "fetch"),
	}
	runner.newProgress = defaultProgressFactory(runner.logger)
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// Run executes one download request. Invalid requests fail before any
// history row is written or subprocess started. Downloader failures are
// recorded and surfaced verbatim; this layer never parses downloader output
// beyond progress lines.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	req, err := r.buildRequest(opts)
	if err != nil {
		return err
	}

	if err := r.cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger := logging.WithContext(ctx, r.logger).With(
		logging.String(logging.FieldMode, string(req.Mode)),
		logging.String(logging.FieldURL, req.URL),
	)

	var recordID int64
	if r.store != nil {
		batchID, _ := logging.BatchIDFromContext(ctx)
		record, err := r.store.Add(ctx, batchID, req.URL, string(req.Mode), req.OutputDir)
		if err != nil {
			return fmt.Errorf("record request: %w", err)
		}
		recordID = record.ID
		if err := r.store.MarkRunning(ctx, recordID); err != nil {
			logger.Warn("history update failed", logging.Error(err))
		}
	}

	logger.Info("download starting",
		logging.String("output_dir", req.OutputDir),
		logging.Bool("whole_playlist", req.WholePlaylist),
		logging.Bool("convert", req.Conversion != nil),
	)

	progress := r.newProgress(req.Mode, req.URL)
	downloadErr := r.downloader.Download(ctx, req, progress.Update)
	progress.Done()

	if downloadErr != nil {
		if r.store != nil {
			// The failure row is written even when ctx was cancelled, so an
			// interrupted download never sits in history as running.
			markCtx := context.WithoutCancel(ctx)
			if err := r.store.MarkFailed(markCtx, recordID, downloadErr.Error()); err != nil {
				logger.Warn("history update failed", logging.Error(err))
			}
		}
		logger.Error("download failed", logging.Error(downloadErr))
		return downloadErr
	}

	if r.store != nil {
		if err := r.store.MarkCompleted(ctx, recordID); err != nil {
			logger.Warn("history update failed", logging.Error(err))
		}
	}
	logger.Info("download completed")
	return nil
}
