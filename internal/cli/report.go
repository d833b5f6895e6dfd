package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/roach88/qcal/internal/report"
	"github.com/roach88/qcal/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database string
}

// RunSummary is one row of the run list.
type RunSummary struct {
	ID       string `json:"id"`
	Seq      int64  `json:"seq"`
	Protocol string `json:"protocol"`
	Seed     int64  `json:"seed"`
	Created  string `json:"created_at"`
}

// RunList is the payload of report without a run ID.
type RunList struct {
	Runs []RunSummary `json:"runs"`
}

// Text renders the list as aligned columns.
func (l RunList) Text() string {
	if len(l.Runs) == 0 {
		return dimStyle.Render("no runs stored") + "\n"
	}
	header := []string{"SEQ", "ID", "PROTOCOL", "SEED", "CREATED"}
	rows := make([][]string, len(l.Runs))
	for i, r := range l.Runs {
		rows[i] = []string{fmt.Sprint(r.Seq), r.ID, r.Protocol, fmt.Sprint(r.Seed), r.Created}
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	line := func(cells []string, style lipgloss.Style) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = style.Width(widths[i]).Render(c)
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " ") + "\n")
	}
	line(header, titleStyle)
	for _, row := range rows {
		line(row, valueStyle)
	}
	return b.String()
}

// RunReports is the payload of report with a run ID.
type RunReports struct {
	Run     RunSummary       `json:"run"`
	Reports []*report.Report `json:"reports"`
}

// Text renders each stored report.
func (r RunReports) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", titleStyle.Render(r.Run.Protocol), dimStyle.Render("run"), r.Run.ID)
	for _, rep := range r.Reports {
		b.WriteString(renderReport(rep))
		b.WriteString("\n")
	}
	return b.String()
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report [run-id]",
		Short: "Show stored runs and their reports",
		Long: `Without arguments, list every stored run in order. With a run ID, render
the reports that run produced.

Example:
  qcal report --db ./qcal.db
  qcal report --db ./qcal.db 0190f0c4-... --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReport(cmd *cobra.Command, opts *ReportOptions, args []string) error {
	out := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = out.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if len(args) == 0 {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			_ = out.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitFailure, "failed to list runs", err)
		}
		list := RunList{Runs: make([]RunSummary, len(runs))}
		for i, r := range runs {
			list.Runs[i] = summarize(r)
		}
		return out.Success(list)
	}

	run, err := st.ReadRun(ctx, args[0])
	if errors.Is(err, store.ErrRunNotFound) {
		_ = out.Error(ErrCodeRunNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "run not found", err)
	}
	if err != nil {
		_ = out.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to read run", err)
	}
	reports, err := st.ReadReports(ctx, run.ID)
	if err != nil {
		_ = out.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to read reports", err)
	}
	return out.SuccessWithRun(run.ID, RunReports{Run: summarize(run), Reports: reports})
}

func summarize(r store.Run) RunSummary {
	return RunSummary{
		ID:       r.ID,
		Seq:      r.Seq,
		Protocol: r.Protocol,
		Seed:     r.Seed,
		Created:  r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
