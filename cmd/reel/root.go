package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"reel/internal/fetch"
)

// stdinIsTerminal reports whether stdin is attached to a terminal. Swapped in
// tests.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var verboseFlag bool

	cctx := newCommandContext(&configFlag, &verboseFlag)
	flags := &downloadFlags{}

	rootCmd := &cobra.Command{
		Use:   "reel",
		Short: "Download and convert media through yt-dlp",
		Long: `reel wraps an external downloader (yt-dlp, with youtube-dl as fallback)
behind a small command line. Supply --video or --audio with --url for a
single download, --playlists to run every playlist in the playlist file,
or no mode flags at all for the interactive menu.`,
		// The root command resolves config lazily so flag conflicts and
		// plain help never fail on a broken config file.
		Annotations:   map[string]string{"skipConfigLoad": "true"},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := cctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			if !flags.actionRequested() {
				if stdinIsTerminal() {
					return runInteractiveMenu(cmd, cctx)
				}
				return cmd.Help()
			}

			// An interrupt cancels the context and kills the downloader
			// subprocess; the run unwinds as context.Canceled.
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if flags.playlists {
				return cctx.withRunner(func(r *fetch.Runner) error {
					result, err := r.RunBatch(ctx)
					if err != nil {
						return err
					}
					printBatchResult(cmd.OutOrStdout(), result)
					return nil
				})
			}
			opts := flags.fetchOptions(cctx.verbose())
			return cctx.withRunner(func(r *fetch.Runner) error {
				return r.Run(ctx, opts)
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose downloader output and debug logging")

	flags.register(rootCmd.Flags())

	rootCmd.AddCommand(newMenuCommand(cctx))
	rootCmd.AddCommand(newConfigCommand(cctx))
	rootCmd.AddCommand(newHistoryCommand(cctx))
	rootCmd.AddCommand(newStatusCommand(cctx))

	return rootCmd
}
