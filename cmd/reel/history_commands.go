package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"reel/internal/history"
	"reel/internal/textutil"
)

const (
	historyURLWidth  = 60
	historyNoteWidth = 40
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage the download ledger",
	}

	historyCmd.AddCommand(newHistoryListCommand(cctx))
	historyCmd.AddCommand(newHistoryClearCommand(cctx))

	return historyCmd
}

type historyListOptions struct {
	limit    int
	statuses []history.Status
	batchID  string
}

func newHistoryListCommand(cctx *commandContext) *cobra.Command {
	var limit int
	var statusFilters []string
	var batchID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded downloads, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := historyListOptions{limit: limit, batchID: batchID}
			for _, raw := range statusFilters {
				status, ok := history.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("unknown status %q", raw)
				}
				opts.statuses = append(opts.statuses, status)
			}
			return cctx.withStore(func(store *history.Store) error {
				return renderHistoryList(cmd.Context(), cmd.OutOrStdout(), store, opts)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum records to show (0 for all)")
	cmd.Flags().StringSliceVarP(&statusFilters, "status", "s", nil, "Filter by status (repeatable)")
	cmd.Flags().StringVar(&batchID, "batch", "", "Show one batch in insertion order")
	return cmd
}

func renderHistoryList(ctx context.Context, out io.Writer, store *history.Store, opts historyListOptions) error {
	var records []*history.Record
	var err error
	if opts.batchID != "" {
		records, err = store.ListBatch(ctx, opts.batchID)
	} else {
		records, err = store.List(ctx, opts.limit, opts.statuses...)
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "History is empty")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.FormatInt(record.ID, 10),
			record.CreatedAt.Local().Format("2006-01-02 15:04"),
			record.Mode,
			string(record.Status),
			textutil.Truncate(record.URL, historyURLWidth),
			textutil.Truncate(record.ErrorMessage, historyNoteWidth),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Created", "Mode", "Status", "URL", "Note"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))
	return nil
}

func newHistoryClearCommand(cctx *commandContext) *cobra.Command {
	var clearCompleted bool
	var clearFailed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove history records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearCompleted && clearFailed {
				return errors.New("specify only one of --completed or --failed")
			}
			return cctx.withStore(func(store *history.Store) error {
				out := cmd.OutOrStdout()
				var removed int64
				var err error
				switch {
				case clearCompleted:
					removed, err = store.ClearCompleted(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d completed records\n", removed)
				case clearFailed:
					removed, err = store.ClearFailed(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d failed records\n", removed)
				default:
					removed, err = store.Clear(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d records\n", removed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearCompleted, "completed", false, "Remove only completed records")
	cmd.Flags().BoolVar(&clearFailed, "failed", false, "Remove only failed records")
	return cmd
}
