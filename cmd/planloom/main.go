package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/planloom/planloom/internal/calendar"
	"github.com/planloom/planloom/internal/config"
	"github.com/planloom/planloom/internal/conflict"
	"github.com/planloom/planloom/internal/cpm"
	"github.com/planloom/planloom/internal/graph"
	"github.com/planloom/planloom/internal/ingest"
	"github.com/planloom/planloom/internal/model"
	"github.com/planloom/planloom/internal/montecarlo"
	"github.com/planloom/planloom/internal/priority"
	"github.com/planloom/planloom/internal/reporter"
	"github.com/planloom/planloom/internal/store"
)

var (
	flagDB      string
	flagFile    string
	flagProject string
	flagConfig  string
	flagJSON    bool
	flagSave    bool
	flagLogFile string
	flagVerbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "planloom",
		Short: "Critical-path scheduling and risk analysis for project plans",
		Long: `Planloom reads a project's tasks and dependency edges, runs critical
path analysis over working days, simulates completion dates under
duration uncertainty, and scans for scheduling conflicts.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "planloom.db", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagFile, "file", "", "Read a JSON project export instead of the database")
	rootCmd.PersistentFlags().StringVar(&flagProject, "project", "", "Project id")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config path")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Append diagnostics to a rotating log file")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Debug-level diagnostics")

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(simulateCmd())
	rootCmd.AddCommand(conflictsCmd())
	rootCmd.AddCommand(priorityCmd())
	rootCmd.AddCommand(resolveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging() {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if flagLogFile != "" {
		log.Logger = zerolog.New(&lumberjack.Logger{
			Filename:   flagLogFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
		}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <export.json>",
		Short: "Import a JSON project export into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read export: %w", err)
			}
			snap, err := ingest.ParseSnapshot(data)
			if err != nil {
				return err
			}

			st, err := store.Open(flagDB)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ImportProject(snap.ProjectID, snap.Tasks, snap.Edges); err != nil {
				return err
			}
			fmt.Printf("imported project %s: %d task(s), %d edge(s)",
				snap.ProjectID, len(snap.Tasks), len(snap.Edges))
			if len(snap.Skipped) > 0 {
				fmt.Printf(", %d skipped", len(snap.Skipped))
			}
			fmt.Println()
			return nil
		},
	}
}

func scheduleCmd() *cobra.Command {
	var flagStart string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run critical path analysis for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			proj, st, err := loadProject()
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			start := proj.start
			if flagStart != "" {
				if start, err = calendar.ParseDate(flagStart); err != nil {
					return fmt.Errorf("parse --start: %w", err)
				}
			}

			g := graph.Build(proj.tasks, proj.edges)
			result := cpm.ScheduleWith(g, start, cpm.Options{
				BottleneckThreshold: cfg.Scheduler.BottleneckSlackDays,
			})

			if flagSave {
				if st == nil {
					return fmt.Errorf("--save requires --db input")
				}
				cpm.Apply(result, proj.tasks)
				if err := st.SaveSchedule(proj.tasks); err != nil {
					return err
				}
			}

			if flagJSON {
				return printJSON(result)
			}
			reporter.PrintSchedule(os.Stdout, result, g.Tasks)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagStart, "start", "", "Project start date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&flagSave, "save", false, "Persist derived fields back to the database")
	return cmd
}

func simulateCmd() *cobra.Command {
	var flagIterations int
	var flagSeed int64
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Monte Carlo completion-date forecast",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			proj, st, err := loadProject()
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			iterations := cfg.Simulation.Iterations
			if flagIterations > 0 {
				iterations = flagIterations
			}
			seed := cfg.Simulation.Seed
			if flagSeed != 0 {
				seed = flagSeed
			}
			opts := montecarlo.Options{Iterations: iterations}
			if seed != 0 {
				opts.Rand = rand.New(rand.NewSource(seed))
			}

			f := montecarlo.Run(proj.tasks, opts)
			if flagJSON {
				return printJSON(map[string]string{
					"p50": f.P50.Format("2006-01-02"),
					"p80": f.P80.Format("2006-01-02"),
				})
			}
			reporter.PrintForecast(os.Stdout, f)
			return nil
		},
	}
	cmd.Flags().IntVar(&flagIterations, "iterations", 0, "Iteration count (default from config, 1000)")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "Fixed random seed for reproducible runs")
	return cmd
}

func conflictsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Scan for resource, capacity, dependency and calendar conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, st, err := loadProject()
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			findings := conflict.Detect(proj.id, proj.tasks, proj.edges)

			if flagSave {
				if st == nil {
					return fmt.Errorf("--save requires --db input")
				}
				if err := st.ReplaceFindings(proj.id, findings); err != nil {
					return err
				}
			}

			if flagJSON {
				return printJSON(findings)
			}
			reporter.PrintConflicts(os.Stdout, findings)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagSave, "save", false, "Replace the project's stored findings")
	return cmd
}

func priorityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "priority",
		Short: "Score and rank tasks for triage",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, st, err := loadProject()
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			scores := priority.ScoreAll(proj.tasks, time.Now())
			if flagJSON {
				return printJSON(scores)
			}
			reporter.PrintPriorities(os.Stdout, scores)
			return nil
		},
	}
}

func resolveCmd() *cobra.Command {
	var flagNote string
	cmd := &cobra.Command{
		Use:   "resolve <finding-id>",
		Short: "Mark a conflict finding resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(flagDB)
			if err != nil {
				return err
			}
			defer st.Close()
			return st.ResolveFinding(args[0], flagNote)
		},
	}
	cmd.Flags().StringVar(&flagNote, "note", "", "Resolution note")
	return cmd
}

// project is one loaded task/edge snapshot.
type project struct {
	id    string
	tasks []model.Task
	edges []model.DependencyEdge
	start time.Time
}

// loadProject reads the project from --file when given, otherwise from
// the database. The returned store is nil for file input.
func loadProject() (*project, *store.Store, error) {
	if flagFile != "" {
		data, err := os.ReadFile(flagFile)
		if err != nil {
			return nil, nil, fmt.Errorf("read export: %w", err)
		}
		snap, err := ingest.ParseSnapshot(data)
		if err != nil {
			return nil, nil, err
		}
		return &project{
			id:    snap.ProjectID,
			tasks: snap.Tasks,
			edges: snap.Edges,
			start: defaultStart(snap.ProjectStart, snap.Tasks),
		}, nil, nil
	}

	if flagProject == "" {
		return nil, nil, fmt.Errorf("--project is required with database input")
	}
	st, err := store.Open(flagDB)
	if err != nil {
		return nil, nil, err
	}
	tasks, edges, err := st.LoadProject(flagProject)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return &project{
		id:    flagProject,
		tasks: tasks,
		edges: edges,
		start: defaultStart(time.Time{}, tasks),
	}, st, nil
}

// defaultStart anchors scheduling on the explicit project start, else
// the earliest task start, else today.
func defaultStart(explicit time.Time, tasks []model.Task) time.Time {
	if !explicit.IsZero() {
		return explicit
	}
	var earliest time.Time
	for i := range tasks {
		s := calendar.Date(tasks[i].StartDate)
		if s.IsZero() {
			continue
		}
		if earliest.IsZero() || s.Before(earliest) {
			earliest = s
		}
	}
	if earliest.IsZero() {
		return calendar.Date(time.Now())
	}
	return earliest
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
