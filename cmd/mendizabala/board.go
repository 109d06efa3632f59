package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mendizabala/dual/internal/board"
	"mendizabala/dual/internal/i18n"
	"mendizabala/dual/internal/model"
)

var statusColors = map[model.Status]*color.Color{
	model.StatusGreen:  color.New(color.FgGreen),
	model.StatusOrange: color.New(color.FgYellow),
	model.StatusRed:    color.New(color.FgRed),
}

func statusLabel(tr i18n.Translator, status model.Status) string {
	label := tr.Status(status)
	if c, ok := statusColors[status]; ok {
		return c.Sprint(label)
	}
	return label
}

func newBoardCommand(a *app) *cobra.Command {
	var watch bool
	var interval time.Duration
	cmd := &cobra.Command{
		Use:               "board",
		Aliases:           []string{"kanban"},
		Short:             "Show companies grouped by tutor teacher",
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.gated,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := board.New(a.api)
			out := cmd.OutOrStdout()
			if !watch {
				snap, err := b.Load(cmd.Context())
				if err != nil {
					return err
				}
				renderBoard(out, a.tr(), snap)
				return nil
			}
			return board.NewRefresher(b, interval, a.logger).Run(cmd.Context(), func(snap board.Snapshot) {
				fmt.Fprintf(out, "\n== %s ==\n", time.Now().Format("15:04:05"))
				renderBoard(out, a.tr(), snap)
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep refreshing until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", board.DefaultRefreshInterval, "refresh interval with --watch")
	return cmd
}

func newAssignCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "assign <company-id> <teacher-id>",
		Short:             "Move a company into a teacher's column",
		Args:              cobra.ExactArgs(2),
		PersistentPreRunE: a.gated,
		RunE: func(cmd *cobra.Command, args []string) error {
			teacherID := args[1]
			return moveCompany(cmd, a, args[0], &teacherID)
		},
	}
}

func newUnassignCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "unassign <company-id>",
		Short:             "Return a company to the unassigned pool",
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: a.gated,
		RunE: func(cmd *cobra.Command, args []string) error {
			return moveCompany(cmd, a, args[0], nil)
		},
	}
}

func moveCompany(cmd *cobra.Command, a *app, companyID string, teacherID *string) error {
	snap, err := board.New(a.api).Move(cmd.Context(), companyID, teacherID)
	if err != nil {
		return err
	}
	tr := a.tr()
	title := tr.T("kanban.unassigned")
	if column, ok := snap.Find(companyID); ok && !column.Pool() {
		title = column.Title
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", tr.T("kanban.moved"), title)
	return nil
}

func renderBoard(out io.Writer, tr i18n.Translator, snap board.Snapshot) {
	renderColumn(out, tr, tr.T("kanban.unassigned"), snap.Pool, tr.T("kanban.noUnassigned"))
	for _, column := range snap.Columns {
		renderColumn(out, tr, column.Title, column, tr.T("kanban.noCompanies"))
	}
}

func renderColumn(out io.Writer, tr i18n.Translator, title string, column board.Column, empty string) {
	fmt.Fprintf(out, "\n%s (%d) %s: %d\n", title, len(column.Companies), strings.ToLower(tr.T("demand.total")), column.TotalDemand())
	if len(column.Companies) == 0 {
		fmt.Fprintf(out, "  %s\n", empty)
		return
	}
	for _, c := range column.Companies {
		fmt.Fprintf(out, "  [%s] %s  %s  %d/%d/%d  %s\n",
			statusLabel(tr, c.Status), c.Name, orDash(c.Location),
			c.DemandDual1, c.DemandDualGeneral, c.DemandDualIntensive, c.ID)
	}
}
