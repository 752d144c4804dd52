// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/steamlens/internal/config"
	"github.com/tomtom215/steamlens/internal/models"
	"github.com/tomtom215/steamlens/internal/runlog"
)

// historyOptions selects what history prints.
type historyOptions struct {
	limit  int
	asJSON bool
	id     string
}

func newHistoryCmd(a *app) *cobra.Command {
	var opts historyOptions
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded pipeline runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.setup()
			if err != nil {
				return err
			}
			return history(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "number of runs to list, newest first (0 = all)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVar(&opts.id, "id", "", "show one run with its stages")
	return cmd
}

// history prints runs recorded by `steamlens run`.
func history(ctx context.Context, cfg *config.Config, opts historyOptions, out io.Writer) error {
	if !cfg.RunLog.Enabled {
		return errors.New("run log is disabled (runlog.enabled=false)")
	}

	rl, err := runlog.Open(cfg.RunLog.Path)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer func() { _ = rl.Close() }()

	if opts.id != "" {
		run, err := rl.Get(ctx, opts.id)
		if err != nil {
			return err
		}
		if opts.asJSON {
			return writeJSON(out, run)
		}
		printRun(out, run)
		return nil
	}

	runs, err := rl.List(ctx, opts.limit)
	if err != nil {
		return err
	}
	if opts.asJSON {
		return writeJSON(out, runs)
	}
	printRuns(out, runs)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printRuns(w io.Writer, runs []models.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tDURATION\tSTATUS\tERROR")
	for i := range runs {
		r := &runs[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Duration().Round(time.Millisecond),
			r.Status,
			r.Error)
	}
	_ = tw.Flush()
}

func printRun(w io.Writer, run *models.RunRecord) {
	fmt.Fprintf(w, "run %s  %s  %s\n", run.ID, run.Status, run.Duration().Round(time.Millisecond))
	if run.Error != "" {
		fmt.Fprintf(w, "error: %s\n", run.Error)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tDURATION\tTABLE\tROWS\tERROR")
	for _, st := range run.Stages {
		dur := (time.Duration(st.DurationMS) * time.Millisecond).String()
		if st.Skipped {
			dur = "skipped"
		}
		if len(st.Rows) == 0 {
			fmt.Fprintf(tw, "%s\t%s\t\t\t%s\n", st.Name, dur, st.Error)
			continue
		}
		tables := make([]string, 0, len(st.Rows))
		for t := range st.Rows {
			tables = append(tables, t)
		}
		sort.Strings(tables)
		for i, t := range tables {
			name, errText := st.Name, st.Error
			if i > 0 {
				name, dur, errText = "", "", ""
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", name, dur, t, st.Rows[t], errText)
		}
	}
	_ = tw.Flush()
}
