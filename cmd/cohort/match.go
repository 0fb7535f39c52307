package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var explain bool

var matchCmd = &cobra.Command{
	Use:   "match EID...",
	Short: "Print the cohorts each entity belongs to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eids, err := parseEIDs(args)
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		out := cmd.OutOrStdout()
		for _, eid := range eids {
			if explain {
				res, err := a.engine.Explain(eid)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, res)
				continue
			}
			ids, err := a.engine.FindCohorts(eid)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d\t%s\n", eid, strings.Join(ids, ","))
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().BoolVar(&explain, "explain", false, "print the outcome of every rule and predicate")
}

func parseEIDs(args []string) ([]int, error) {
	eids := make([]int, 0, len(args))
	for _, s := range args {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("entity ID %q is not an integer", s)
		}
		eids = append(eids, n)
	}
	return eids, nil
}
