package main

import (
	"fmt"

	"github.com/ezachrisen/cohort"
	"github.com/ezachrisen/cohort/cel"
	"github.com/ezachrisen/cohort/internal/config"
	"github.com/ezachrisen/cohort/internal/logging"
	"github.com/ezachrisen/cohort/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	v       = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "cohort",
	Short: "Match entities against cohort rules",
	Long: `cohort loads entities and cohort rules from files and reports which
cohorts an entity belongs to.

Files are tab-separated (.tsv) or YAML (.yaml). Settings are read from
flags, COHORT_* environment variables and an optional cohort.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./cohort.yaml if present)")
	pf.String("entities", "", "entity file (default entities.tsv)")
	pf.String("cohorts", "", "cohort rule file (default entity_cohorts.tsv)")
	pf.String("evaluator", "", "rule evaluator: native or cel (default native)")
	pf.String("log-level", "", "log level: debug, info, warn, error (default warn)")

	_ = v.BindPFlag("entities", pf.Lookup("entities"))
	_ = v.BindPFlag("cohorts", pf.Lookup("cohorts"))
	_ = v.BindPFlag("evaluator", pf.Lookup("evaluator"))
	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))

	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(upsertCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
}

// app is the state shared by the subcommands.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	engine *cohort.Engine
}

// newApp loads the configuration and the entity and cohort files, and
// creates the engine.
func newApp() (*app, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	entities, err := source.LoadEntities(cfg.Entities)
	if err != nil {
		return nil, err
	}
	rules, err := source.LoadCohorts(cfg.Cohorts)
	if err != nil {
		return nil, err
	}
	store, err := cohort.NewStore(entities, rules)
	if err != nil {
		return nil, err
	}

	opts := []cohort.EngineOption{cohort.WithLogger(log)}
	if cfg.Evaluator == config.EvaluatorCEL {
		ev, err := cel.NewEvaluator()
		if err != nil {
			return nil, err
		}
		opts = append(opts, cohort.WithEvaluator(ev))
	}
	engine, err := cohort.NewEngine(store, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", cfg.Cohorts, err)
	}

	log.Debug("loaded",
		zap.String("entities", cfg.Entities),
		zap.Int("entity_count", store.EntityCount()),
		zap.String("cohorts", cfg.Cohorts),
		zap.Int("cohort_count", store.CohortCount()),
		zap.String("evaluator", cfg.Evaluator))
	return &app{cfg: cfg, log: log, engine: engine}, nil
}
