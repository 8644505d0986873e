package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reel/internal/fetch"
	"reel/internal/history"
	"reel/internal/menu"
	"reel/internal/ytdlp"
)

func newMenuCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive download menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveMenu(cmd, cctx)
		},
	}
}

func runInteractiveMenu(cmd *cobra.Command, cctx *commandContext) error {
	if !stdinIsTerminal() {
		return errors.New("the menu needs an interactive terminal; use --video or --audio with --url instead")
	}
	if _, err := cctx.ensureConfig(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	actions := &menuActions{cmd: cmd, cctx: cctx}
	return menu.New(actions, menu.WithOutput(cmd.OutOrStdout())).Run(ctx)
}

// menuActions backs the interactive menu with the same wiring the
// non-interactive flags use.
type menuActions struct {
	cmd  *cobra.Command
	cctx *commandContext
}

func (a *menuActions) DownloadVideo(ctx context.Context, url string, convert bool) error {
	return a.cctx.withRunner(func(r *fetch.Runner) error {
		return r.Run(ctx, fetch.Options{
			URL:     url,
			Mode:    ytdlp.ModeVideo,
			Convert: convert,
			Verbose: a.cctx.verbose(),
		})
	})
}

func (a *menuActions) DownloadAudio(ctx context.Context, url string) error {
	return a.cctx.withRunner(func(r *fetch.Runner) error {
		return r.Run(ctx, fetch.Options{
			URL:     url,
			Mode:    ytdlp.ModeAudio,
			Verbose: a.cctx.verbose(),
		})
	})
}

func (a *menuActions) RunBatch(ctx context.Context) error {
	return a.cctx.withRunner(func(r *fetch.Runner) error {
		result, err := r.RunBatch(ctx)
		if err != nil {
			return err
		}
		printBatchResult(a.cmd.OutOrStdout(), result)
		return nil
	})
}

func (a *menuActions) ShowStatus(ctx context.Context) error {
	return renderStatus(a.cmd, a.cctx, statusOptions{})
}

func (a *menuActions) ShowHistory(ctx context.Context) error {
	return a.cctx.withStore(func(store *history.Store) error {
		return renderHistoryList(ctx, a.cmd.OutOrStdout(), store, historyListOptions{limit: menuHistoryLimit})
	})
}

const menuHistoryLimit = 20

// printBatchResult writes the human batch summary. Failures are listed so
// the user does not have to dig through logs or history for them.
func printBatchResult(out io.Writer, result fetch.BatchResult) {
	if result.PlaylistCreated {
		fmt.Fprintf(out, "Created playlist file %s; add playlist URLs under its headers and rerun\n", result.PlaylistPath)
		return
	}
	if result.Total == 0 {
		fmt.Fprintf(out, "No playlist URLs configured in %s\n", result.PlaylistPath)
		return
	}
	fmt.Fprintf(out, "Batch complete: %d succeeded, %d failed in %s\n",
		result.Succeeded, result.Failed, result.Duration.Round(time.Second))
	for _, failure := range result.Failures {
		fmt.Fprintf(out, "  %s (%s): %v\n", failure.URL, failure.Mode, failure.Err)
	}
}
