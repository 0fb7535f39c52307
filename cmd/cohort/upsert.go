package main

import (
	"fmt"
	"strings"

	"github.com/ezachrisen/cohort"
	"github.com/ezachrisen/cohort/source"
	"github.com/spf13/cobra"
)

var save bool

var upsertCmd = &cobra.Command{
	Use:   "upsert TOKEN...",
	Short: "Add a cohort rule, or replace the rule with the same cohort ID",
	Long: `upsert adds a cohort rule written as key:value tokens. The tokens may be
given as separate arguments, or as one tab-separated argument in which a
literal \t is read as a tab:

  cohort upsert cohort:5 last_name:Jackson 'age:(18,26)'
  cohort upsert 'cohort:5\tlast_name:Jackson\tage:(18,26)'

Without --save the change only lasts for this command.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		line := strings.ReplaceAll(strings.Join(args, "\t"), `\t`, "\t")
		ok, err := a.engine.UpsertCohort(line)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ok)
		if r, err := cohort.ParseRule(line); err == nil {
			if stored, found := a.engine.Store().Cohort(r.ID); found {
				fmt.Fprintln(out, stored)
			}
		}

		if save {
			if err := source.SaveCohorts(a.cfg.Cohorts, a.engine.Store().Cohorts()); err != nil {
				return err
			}
			fmt.Fprintf(out, "saved %s\n", a.cfg.Cohorts)
		}
		return nil
	},
}

func init() {
	upsertCmd.Flags().BoolVar(&save, "save", false, "write the cohorts back to the cohort file")
}
