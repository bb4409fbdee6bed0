package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/nao1215/ballotnews/internal/config"
)

// DefaultSchedule compiles every six hours.
const DefaultSchedule = "0 */6 * * *"

// ErrInvalidSchedule is returned for a cron expression that does not parse.
var ErrInvalidSchedule = errors.New("invalid cron schedule")

// NewScheduleCmd creates the schedule command.
func NewScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule [candidate-name...]",
		Short: "Compile articles periodically on a cron schedule",
		Long: `Schedule runs the compile command repeatedly on a cron schedule until it is
interrupted.

The schedule is a standard five field cron expression (minute, hour, day of
month, month, day of week) or a descriptor such as "@hourly" or
"@every 2h". A run that is still in progress when the next one is due is not
overlapped; the due run is skipped.

Runs share one crawl clock, so crawl delays announced by a site in one run
are still honoured by the next.

Examples:
  # Compile the configured candidates every six hours
  ballotnews schedule

  # Compile at 07:00 every day, starting with an immediate run
  ballotnews schedule --cron "0 7 * * *" --run-now "Jane Doe"`,
		Args: cobra.ArbitraryArgs,
		RunE: runScheduleCmd,
	}

	addCompileFlags(cmd)
	cmd.Flags().String("cron", "",
		"Cron expression (default: schedule from the config file, or \""+DefaultSchedule+"\")")
	cmd.Flags().Bool("run-now", false,
		"Run one compilation immediately before waiting for the schedule")

	return cmd
}

// runScheduleCmd executes the schedule command.
func runScheduleCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCompileConfig(cmd, args)
	if err != nil {
		return err
	}

	if expr := flagString(cmd, "cron"); expr != "" {
		cfg.Schedule = expr
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSchedule, cfg.Schedule, err)
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runSchedule(ctx, cfg, flagBool(cmd, "run-now"), cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// runSchedule compiles on cfg.Schedule until ctx is cancelled.
func runSchedule(ctx context.Context, cfg *config.Config, runNow bool, stdout, progress io.Writer, logger *slog.Logger) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	run := func() {
		startTime := time.Now()
		logger.Info("scheduled compilation started", "candidates", len(cfg.Candidates))
		if err := a.compile(ctx, stdout); err != nil {
			logger.Error("scheduled compilation failed", "error", err)
			return
		}
		fmt.Fprintf(progress, "[%s] Compilation completed in %s\n",
			startTime.Format(time.RFC3339), time.Since(startTime).Round(time.Millisecond))
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	entryID, err := c.AddFunc(cfg.Schedule, run)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSchedule, cfg.Schedule, err)
	}

	if runNow {
		run()
	}

	c.Start()
	fmt.Fprintf(progress, "Scheduled compilation %q for %d candidate(s); next run at %s\n",
		cfg.Schedule, len(cfg.Candidates), c.Entry(entryID).Next.Format(time.RFC3339))

	<-ctx.Done()
	logger.Info("received shutdown signal, waiting for the running compilation...")

	// Stop returns a context that is done once running jobs have finished.
	<-c.Stop().Done()
	return nil
}
