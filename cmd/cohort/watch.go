package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ezachrisen/cohort"
	"github.com/ezachrisen/cohort/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch EID...",
	Short: "Print the cohorts of the entities each time the cohort file changes",
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
		if err := printMatches(out, a.engine, eids); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a.log.Info("watching", zap.String("cohorts", a.cfg.Cohorts))
		return source.Watch(ctx, a.cfg.Cohorts, func(rules []*cohort.Rule, err error) {
			if err != nil {
				a.log.Error("reloading cohorts", zap.Error(err))
				return
			}
			if err := a.engine.Reload(rules...); err != nil {
				a.log.Error("reloading cohorts", zap.Error(err))
				return
			}
			if err := printMatches(out, a.engine, eids); err != nil {
				a.log.Error("matching", zap.Error(err))
			}
		})
	},
}

func printMatches(w io.Writer, e *cohort.Engine, eids []int) error {
	for _, eid := range eids {
		ids, err := e.FindCohorts(eid)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\n", eid, strings.Join(ids, ","))
	}
	return nil
}
