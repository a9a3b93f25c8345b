// Package cli provides the command-line interface of labliste.
//
//	labliste 20jj-n            validate and merge the period directory
//	labliste erstellen 20jj-n  create the directory structure of a new period
//
// Every other invocation is a usage error.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/labliste/internal/config"
	"github.com/JonMunkholm/labliste/internal/core"
	"github.com/JonMunkholm/labliste/internal/history"
	"github.com/JonMunkholm/labliste/internal/logging"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

var periodPattern = regexp.MustCompile(`^20[0-9]{2}-[1-9]$`)

// UsageError reports a malformed invocation.
type UsageError struct {
	Prog string
}

func (e *UsageError) Error() string {
	return "Aufruf: " + e.Prog + " [erstellen] 20jj-n"
}

// HistoryOpener connects to the run history database. The returned func
// releases the connection.
type HistoryOpener func(ctx context.Context, url string) (history.Execer, func(), error)

// App holds everything a command needs.
type App struct {
	Config *config.Config
	Prog   string    // Program name shown in the usage message
	Stderr io.Writer // Run log echo, summaries and errors

	Now         func() time.Time // nil means time.Now
	OpenHistory HistoryOpener    // nil means PostgreSQL via pgxpool
}

// Execute runs labliste with args and returns the process exit code.
func Execute(ctx context.Context, cfg *config.Config, prog string, args []string, stderr io.Writer) int {
	app := &App{Config: cfg, Prog: prog, Stderr: stderr}
	return app.Run(ctx, args)
}

// Run executes the command line args (without the program name).
func (a *App) Run(ctx context.Context, args []string) int {
	// cobra answers shell completion requests through a hidden command
	// that cannot be disabled. No valid command line contains one.
	if slices.Contains(args, cobra.ShellCompRequestCmd) || slices.Contains(args, cobra.ShellCompNoDescRequestCmd) {
		return a.exitCode(&UsageError{Prog: a.Prog})
	}

	root := a.rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	return a.exitCode(err)
}

func (a *App) exitCode(err error) int {
	var usage *UsageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage):
		fmt.Fprintln(a.Stderr, usage.Error())
		return ExitUsage
	case errors.Is(err, core.ErrPrecheckFailed), errors.Is(err, core.ErrValidationFailed):
		// Every violation was echoed as it was recorded.
		return ExitError
	default:
		fmt.Fprintln(a.Stderr, err.Error())
		return ExitError
	}
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "labliste 20jj-n",
		Short: "Validate the regional address lists of a period and merge them for the printer",
		Long: `Reads one address list per region of the period directory, checks every
record and writes the merged list plus a run log into the target directory.
Nothing is written when at least one error is found.`,
		Args:               a.periodArgs,
		RunE:               a.runMerge,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableFlagParsing: true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	root.SetOut(a.Stderr)
	root.SetErr(a.Stderr)

	// "help" is not part of the command line.
	root.SetHelpCommand(&cobra.Command{
		Use:                "help",
		Hidden:             true,
		DisableFlagParsing: true,
		RunE: func(*cobra.Command, []string) error {
			return &UsageError{Prog: a.Prog}
		},
	})

	root.AddCommand(a.erstellenCommand())
	return root
}

// periodArgs accepts exactly one argument of the form 20jj-n.
func (a *App) periodArgs(_ *cobra.Command, args []string) error {
	if len(args) != 1 || !periodPattern.MatchString(args[0]) {
		return &UsageError{Prog: a.Prog}
	}
	return nil
}

func (a *App) periodDir(period string) string {
	return filepath.Join(a.Config.Paths.BaseDir, period)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) runMerge(cmd *cobra.Command, args []string) error {
	period := args[0]
	runID := uuid.New()
	ctx := logging.WithRun(cmd.Context(), runID.String())
	cfg := a.Config

	logging.FromContext(ctx).Debug("run started", "period", period)

	res, err := core.Run(ctx, core.Options{
		Dir:        a.periodDir(period),
		ConfigFile: cfg.Paths.ConfigFile,
		TargetDir:  cfg.Paths.TargetDir,
		Prefix:     cfg.Output.Prefix,
		WriteBOM:   cfg.Output.WriteBOM,
		Rules: core.Rules{
			Placeholder:     cfg.Rules.Placeholder,
			CountZeroCopies: cfg.Rules.CountZeroCopies,
		},
		LegacyRegions: cfg.Rules.LegacyRegions,
		Stderr:        a.Stderr,
		Now:           a.now,
	})
	if err != nil {
		return err
	}

	a.recordHistory(ctx, runID, period, res)
	return nil
}

// recordHistory stores a successful run. The output files already exist,
// so failures only produce a warning.
func (a *App) recordHistory(ctx context.Context, runID uuid.UUID, period string, res *core.Result) {
	if !a.Config.HistoryEnabled() {
		return
	}
	logger := logging.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, a.Config.Database.Timeout)
	defer cancel()

	open := a.OpenHistory
	if open == nil {
		open = openPool
	}
	db, release, err := open(ctx, a.Config.Database.URL)
	if err != nil {
		logger.Warn("run history unavailable", "error", err)
		return
	}
	defer release()

	rec := history.NewRecorder(db)
	if err := rec.EnsureSchema(ctx); err != nil {
		logger.Warn("run history unavailable", "error", err)
		return
	}
	err = rec.Record(ctx, history.Entry{
		RunID:        runID,
		Period:       period,
		CSVPath:      res.CSVPath,
		LogPath:      res.LogPath,
		Regions:      len(res.Regions),
		AddressTotal: res.AddressTotal,
		CopyTotal:    res.CopyTotal,
		CreatedAt:    a.now(),
	})
	if err != nil {
		logger.Warn("failed to record run", "error", err)
		return
	}
	logger.Info("run recorded", "period", period, "addresses", res.AddressTotal)
}

func openPool(ctx context.Context, url string) (history.Execer, func(), error) {
	pool, err := history.Open(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return pool, pool.Close, nil
}
