package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/corpusplan/internal/breakeven"
	"github.com/rgehrsitz/corpusplan/internal/calculation"
	"github.com/rgehrsitz/corpusplan/internal/compare"
	"github.com/rgehrsitz/corpusplan/internal/config"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/output"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// zerologAdapter implements calculation.Logger on top of zerolog
type zerologAdapter struct {
	log zerolog.Logger
}

func (z zerologAdapter) Debugf(format string, args ...any) { z.log.Debug().Msgf(format, args...) }
func (z zerologAdapter) Infof(format string, args ...any)  { z.log.Info().Msgf(format, args...) }
func (z zerologAdapter) Warnf(format string, args ...any)  { z.log.Warn().Msgf(format, args...) }
func (z zerologAdapter) Errorf(format string, args ...any) { z.log.Error().Msgf(format, args...) }

// options are the persistent flags shared by every projection command
type options struct {
	planPath      string
	userID        string
	format        string
	debug         bool
	seed          int64
	strategy      string
	retirementAge int
	stepUp        float64
}

// session is a loaded plan plus an engine bound to one user
type session struct {
	plan   *config.Plan
	user   *domain.FinancialSnapshot
	params *domain.ScenarioParameters
	engine *calculation.Engine
	log    zerolog.Logger
}

func (o *options) open(cmd *cobra.Command) (*session, error) {
	level := zerolog.WarnLevel
	if o.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Str("component", "corpusplan").Logger()

	if o.planPath == "" {
		return nil, fmt.Errorf("--plan is required")
	}
	plan, err := config.NewInputParser().LoadFromFile(o.planPath)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	if o.userID != "" {
		if id, err = uuid.Parse(o.userID); err != nil {
			return nil, fmt.Errorf("invalid --user: %w", err)
		}
	}
	user, err := plan.User(id)
	if err != nil {
		return nil, err
	}

	engine := calculation.NewEngine(plan.Source(), plan.EngineDefaults())
	engine.SetLogger(zerologAdapter{log: logger.With().Str("user", user.UserID.String()).Logger()})
	if o.seed != 0 {
		seed := o.seed
		engine.Seed = func() int64 { return seed }
	}

	logger.Debug().Str("plan", o.planPath).Int("users", len(plan.Users)).Msg("plan loaded")
	return &session{plan: plan, user: user, params: o.scenario(plan, user), engine: engine, log: logger}, nil
}

// scenario picks the user's saved settings, then the plan scenario, and applies flag overrides
func (o *options) scenario(plan *config.Plan, user *domain.FinancialSnapshot) *domain.ScenarioParameters {
	var params *domain.ScenarioParameters
	switch {
	case user.Settings != nil:
		p := *user.Settings
		params = &p
	case plan.Scenario != nil:
		p := *plan.Scenario
		params = &p
	}
	if o.strategy == "" && o.retirementAge == 0 && o.stepUp < 0 {
		return params
	}
	if params == nil {
		params = &domain.ScenarioParameters{}
	}
	if o.strategy != "" {
		params.IncomeStrategy = o.strategy
	}
	if o.retirementAge > 0 {
		params.RetirementAge = o.retirementAge
	}
	if o.stepUp >= 0 {
		s := decimal.NewFromFloat(o.stepUp)
		params.StepUpPercent = &s
	}
	return params
}

func (s *session) report() *output.Report {
	return &output.Report{UserID: s.user.UserID, GeneratedAt: s.engine.Now()}
}

func (o *options) write(cmd *cobra.Command, r *output.Report) error {
	f, err := output.NewFormatter(o.format)
	if err != nil {
		return err
	}
	data, err := f.Format(r)
	if err != nil {
		return fmt.Errorf("failed to format %s output: %w", f.Name(), err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// runWith wraps a command body with session setup and output
func (o *options) runWith(fill func(ctx context.Context, s *session, r *output.Report) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := o.open(cmd)
		if err != nil {
			return err
		}
		r := s.report()
		if err := fill(cmd.Context(), s, r); err != nil {
			return err
		}
		return o.write(cmd, r)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "corpusplan",
		Short:         "Retirement corpus projection and optimization",
		Long:          "Projects a retirement corpus year by year from a plan file, sizes the corpus needed for retirement, and recommends how to close the gap.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.planPath, "plan", "p", "", "plan file (YAML)")
	pf.StringVarP(&o.userID, "user", "u", "", "user id (defaults to the only user in the plan)")
	pf.StringVarP(&o.format, "format", "f", "console", "output format: console, json, csv")
	pf.BoolVar(&o.debug, "debug", false, "enable debug logging")
	pf.Int64Var(&o.seed, "seed", 0, "Monte Carlo seed (0 = random)")
	pf.StringVar(&o.strategy, "strategy", "", "income strategy override: SUSTAINABLE, SAFE_4_PERCENT, SIMPLE_DEPLETION")
	pf.IntVar(&o.retirementAge, "retirement-age", 0, "retirement age override")
	pf.Float64Var(&o.stepUp, "step-up", -1, "annual SIP step-up percent override")

	var simulations int

	matrixCmd := &cobra.Command{
		Use:   "matrix",
		Short: "Project the corpus year by year",
		RunE: o.runWith(func(ctx context.Context, s *session, r *output.Report) error {
			m, err := s.engine.GenerateRetirementMatrix(ctx, s.user.UserID, s.params)
			r.Matrix = m
			return err
		}),
	}

	gapCmd := &cobra.Command{
		Use:   "gap",
		Short: "Compare the required corpus with the projected corpus",
		RunE: o.runWith(func(ctx context.Context, s *session, r *output.Report) error {
			g, err := s.engine.CalculateRequiredCorpusForUser(ctx, s.user.UserID, s.params)
			r.Gap = g
			return err
		}),
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a Monte Carlo simulation of the mutual fund SIP",
		RunE: o.runWith(func(ctx context.Context, s *session, r *output.Report) error {
			res, err := s.engine.RunMonteCarloSimulation(ctx, s.user.UserID, s.params, simulations)
			r.Simulation = res
			return err
		}),
	}
	simulateCmd.Flags().IntVarP(&simulations, "simulations", "n", 0, "number of paths (0 = plan default)")

	withdrawalCmd := &cobra.Command{
		Use:   "withdrawal",
		Short: "Build a phased withdrawal plan for the retirement years",
		RunE: o.runWith(func(ctx context.Context, s *session, r *output.Report) error {
			p, err := s.engine.GenerateWithdrawalStrategy(ctx, s.user.UserID, s.params)
			r.Withdrawal = p
			return err
		}),
	}

	stepUpCmd := &cobra.Command{
		Use:   "stepup",
		Short: "Find when the annual SIP step-up can stop",
		RunE: o.runWith(func(ctx context.Context, s *session, r *output.Report) error {
			opt, err := s.engine.OptimizeStepUp(ctx, s.user.UserID, s.params)
			r.StepUp = opt
			return err
		}),
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Run every analysis and print a combined report",
		RunE: o.runWith(func(ctx context.Context, s *session, r *output.Report) error {
			var err error
			id := s.user.UserID
			if r.Matrix, err = s.engine.GenerateRetirementMatrix(ctx, id, s.params); err != nil {
				return err
			}
			if r.Gap, err = s.engine.CalculateRequiredCorpusForUser(ctx, id, s.params); err != nil {
				return err
			}
			if r.Simulation, err = s.engine.RunMonteCarloSimulation(ctx, id, s.params, simulations); err != nil {
				return err
			}
			if r.Withdrawal, err = s.engine.GenerateWithdrawalStrategy(ctx, id, s.params); err != nil {
				return err
			}
			r.StepUp = &r.Matrix.Summary.StepUp
			return nil
		}),
	}
	reportCmd.Flags().IntVarP(&simulations, "simulations", "n", 0, "number of Monte Carlo paths (0 = plan default)")

	validateCmd := &cobra.Command{
		Use:   "validate [plan-file]",
		Short: "Validate a plan file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := o.planPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("plan file required")
			}
			plan, err := config.NewInputParser().LoadFromFile(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "plan OK: %d user(s)\n", len(plan.Users))
			return nil
		},
	}

	root.AddCommand(matrixCmd, gapCmd, simulateCmd, withdrawalCmd, stepUpCmd, reportCmd, validateCmd, o.compareCmd(), o.optimizeCmd(), versionCmd())
	return root
}

func (o *options) compareCmd() *cobra.Command {
	var (
		templates     []string
		transforms    []string
		listTemplates bool
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the current plan with what-if scenarios",
		Long: `Compare the current plan with alternatives built from templates or transforms.

Transforms use the form name:key=value,... for example:
  corpusplan compare -p plan.yaml --with postpone_2yr,step_up_10 --transform add_lump_sum:amount=500000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listTemplates {
				reg := compare.NewCompareEngine(nil).TemplateRegistry
				for _, name := range reg.List() {
					t, _ := reg.Get(name)
					fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", t.Name, t.Description)
				}
				return nil
			}
			if len(templates) == 0 && len(transforms) == 0 {
				return fmt.Errorf("--with or --transform is required (use --list-templates to see templates)")
			}

			s, err := o.open(cmd)
			if err != nil {
				return err
			}
			compSet, err := compare.NewCompareEngine(s.engine).Compare(cmd.Context(), s.user.UserID, s.params, compare.CompareOptions{
				BaseScenarioName: "base",
				Templates:        templates,
				Transforms:       transforms,
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			compSet.ConfigPath = o.planPath

			var out string
			switch strings.ToLower(o.format) {
			case "", "console", "table":
				out = (&compare.TableFormatter{}).Format(compSet)
			case "csv":
				out, err = (&compare.CSVFormatter{}).Format(compSet)
			case "json":
				out, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, csv, json)", o.format)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringSliceVar(&templates, "with", nil, "templates to compare against the base plan")
	cmd.Flags().StringArrayVar(&transforms, "transform", nil, "transform spec to compare (repeatable)")
	cmd.Flags().BoolVar(&listTemplates, "list-templates", false, "list available templates")
	return cmd
}

func (o *options) optimizeCmd() *cobra.Command {
	var (
		target     string
		goal       string
		minAge     int
		maxAge     int
		maxStepUp  float64
		maxLumpSum float64
	)
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Find the smallest change that closes the corpus gap",
		Long: `Search one lever (retirement_age, step_up or lump_sum) for the smallest change that
closes the corpus gap, or use --target all to compare every lever.

  corpusplan optimize -p plan.yaml --target step_up
  corpusplan optimize -p plan.yaml --target retirement_age --goal maximize_longevity`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd)
			if err != nil {
				return err
			}

			constraints := breakeven.DefaultConstraints()
			if minAge > 0 {
				constraints.MinRetirementAge = &minAge
			}
			if maxAge > 0 {
				constraints.MaxRetirementAge = &maxAge
			}
			if maxStepUp > 0 {
				v := decimal.NewFromFloat(maxStepUp)
				constraints.MaxStepUp = &v
			}
			if maxLumpSum > 0 {
				v := decimal.NewFromFloat(maxLumpSum)
				constraints.MaxLumpSum = &v
			}

			solver := breakeven.NewDefaultSolver(s.engine)
			g := breakeven.OptimizationGoal(goal)
			table := &breakeven.TableFormatter{}
			js := &breakeven.JSONFormatter{Pretty: true}

			var out string
			if target == "all" {
				md, err := solver.OptimizeAllTargets(cmd.Context(), s.user.UserID, s.params, constraints, g)
				if err != nil {
					return fmt.Errorf("optimization failed: %w", err)
				}
				switch strings.ToLower(o.format) {
				case "", "console", "table":
					out = table.FormatMultiDimensional(md)
				case "json":
					out, err = js.FormatMultiDimensional(md)
				default:
					return fmt.Errorf("unknown output format: %s (valid: table, json)", o.format)
				}
				if err != nil {
					return err
				}
			} else {
				result, err := solver.Optimize(cmd.Context(), breakeven.OptimizationRequest{
					UserID:      s.user.UserID,
					BaseParams:  s.params,
					Target:      breakeven.OptimizationTarget(target),
					Goal:        g,
					Constraints: constraints,
				})
				if err != nil {
					return fmt.Errorf("optimization failed: %w", err)
				}
				s.log.Debug().Str("target", target).Int("iterations", result.Iterations).Bool("success", result.Success).Msg("optimization finished")
				switch strings.ToLower(o.format) {
				case "", "console", "table":
					out = table.Format(result)
				case "json":
					out, err = js.Format(result)
				default:
					return fmt.Errorf("unknown output format: %s (valid: table, json)", o.format)
				}
				if err != nil {
					return err
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&target, "target", "all", "lever to optimize: retirement_age, step_up, lump_sum or all")
	cmd.Flags().StringVar(&goal, "goal", string(breakeven.GoalCloseGap), "close_gap or maximize_longevity")
	cmd.Flags().IntVar(&minAge, "min-age", 0, "earliest retirement age to consider")
	cmd.Flags().IntVar(&maxAge, "max-age", 0, "latest retirement age to consider")
	cmd.Flags().Float64Var(&maxStepUp, "max-step-up", 0, "largest annual step-up percent to consider")
	cmd.Flags().Float64Var(&maxLumpSum, "max-lump-sum", 0, "largest lump sum to consider")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "corpusplan %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Version
	}
	return ""
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
