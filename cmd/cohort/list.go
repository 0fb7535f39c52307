package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ezachrisen/cohort/source"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all cohort rules in store order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		store := a.engine.Store()
		tw := table.NewWriter()
		tw.SetTitle("COHORTS")
		tw.AppendHeader(table.Row{"#", "Cohort", "Predicates"})
		for i, r := range store.Cohorts() {
			preds := make([]string, len(r.Predicates))
			for j, p := range r.Predicates {
				preds[j] = p.String()
			}
			tw.AppendRow(table.Row{i + 1, r.ID, strings.Join(preds, "\n")})
		}
		tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%s cohorts, %s entities",
			humanize.Comma(int64(store.CohortCount())),
			humanize.Comma(int64(store.EntityCount())))})

		style := table.StyleLight
		style.Format.Header = text.FormatDefault
		style.Format.Footer = text.FormatDefault
		tw.SetStyle(style)
		fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
		return nil
	},
}

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all cohort rules to standard output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := source.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		return source.WriteCohorts(cmd.OutOrStdout(), a.engine.Store().Cohorts(), format)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "tsv", "output format: tsv or yaml")
}
