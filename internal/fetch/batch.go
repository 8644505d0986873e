package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reel/internal/logging"
	"reel/internal/playlistfile"
	"reel/internal/ytdlp"
)

// lockFileName guards against concurrent batch runs sharing archive and
// playlist files.
const lockFileName = "reel.lock"

// ErrBatchInProgress indicates another process already holds the batch lock.
var ErrBatchInProgress = errors.New("another reel batch is already running")

// Failure describes one batch entry that did not complete.
type Failure struct {
	URL  string
	Mode ytdlp.Mode
	Err  error
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	BatchID         string
	PlaylistPath    string
	PlaylistCreated bool
	Total           int
	Succeeded       int
	Failed          int
	Duration        time.Duration
	Failures        []Failure
}

// RunBatch downloads every playlist-file entry sequentially: all video URLs
// in file order, then all audio URLs in file order. A failed entry is
// recorded and the batch continues. Entries are treated as whole playlists;
// that is what the playlist file holds.
func (r *Runner) RunBatch(ctx context.Context) (BatchResult, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return BatchResult{}, err
	}

	lock := flock.New(filepath.Join(r.cfg.Paths.LogDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return BatchResult{}, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !locked {
		return BatchResult{}, ErrBatchInProgress
	}
	defer func() { _ = lock.Unlock() }()

	lists, created, err := playlistfile.LoadOrCreate(r.cfg.Paths.PlaylistFile)
	if err != nil {
		if notifyErr := r.notifier.Error(ctx, err, "batch"); notifyErr != nil {
			r.logger.Warn("error notification failed", logging.Error(notifyErr))
		}
		return BatchResult{}, err
	}

	result := BatchResult{
		BatchID:         uuid.NewString(),
		PlaylistPath:    r.cfg.Paths.PlaylistFile,
		PlaylistCreated: created,
		Total:           lists.Total(),
	}

	ctx = logging.WithBatchID(ctx, result.BatchID)
	logger := logging.WithContext(ctx, r.logger)

	if created {
		logger.Info("playlist file created", logging.String("path", result.PlaylistPath))
	}
	if result.Total == 0 {
		logger.Info("playlist file has no entries", logging.String("path", result.PlaylistPath))
		return result, nil
	}

	logger.Info("batch starting",
		logging.Int("video", len(lists.Video)),
		logging.Int("audio", len(lists.Audio)),
	)
	if err := r.notifier.BatchStarted(ctx, result.Total); err != nil {
		logger.Warn("batch start notification failed", logging.Error(err))
	}

	started := time.Now()
	r.runEntries(ctx, ytdlp.ModeVideo, lists.Video, &result)
	r.runEntries(ctx, ytdlp.ModeAudio, lists.Audio, &result)
	result.Duration = time.Since(started)

	r.pruneHistory(ctx, logger)

	if err := ctx.Err(); err != nil {
		logger.Warn("batch interrupted",
			logging.Int("succeeded", result.Succeeded),
			logging.Int("failed", result.Failed),
		)
		return result, err
	}

	if err := r.notifier.BatchCompleted(ctx, result.Succeeded, result.Failed, result.Duration); err != nil {
		logger.Warn("batch completion notification failed", logging.Error(err))
	}
	logger.Info("batch finished",
		logging.Int("succeeded", result.Succeeded),
		logging.Int("failed", result.Failed),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}

func (r *Runner) runEntries(ctx context.Context, mode ytdlp.Mode, urls []string, result *BatchResult) {
	for _, url := range urls {
		if ctx.Err() != nil {
			return
		}
		err := r.Run(ctx, Options{URL: url, Mode: mode, WholePlaylist: true})
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, Failure{URL: url, Mode: mode, Err: err})
			continue
		}
		result.Succeeded++
	}
}

// pruneHistory drops finished records older than the configured retention.
func (r *Runner) pruneHistory(ctx context.Context, logger *slog.Logger) {
	if r.store == nil || r.cfg.History.RetentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -r.cfg.History.RetentionDays)
	removed, err := r.store.Prune(ctx, cutoff)
	if err != nil {
		logger.Warn("history prune failed", logging.Error(err))
		return
	}
	if removed > 0 {
		logger.Debug("history pruned", logging.Int64("removed", removed))
	}
}
