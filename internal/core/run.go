package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/labliste/internal/logging"
	"github.com/JonMunkholm/labliste/internal/textenc"
)

// Options configures a run over one period directory.
type Options struct {
	Dir           string   // Period directory
	ConfigFile    string   // Region config name inside Dir
	TargetDir     string   // Output directory name inside Dir; must exist
	Prefix        string   // Output file name prefix
	WriteBOM      bool     // Prefix the merged CSV with a UTF-8 BOM
	Rules         Rules    // Rule variants
	LegacyRegions []string // Region codes with Windows-1252 input

	// Stderr receives the live run log and summaries; nil discards. A typed
	// nil pointer (e.g. a nil *bytes.Buffer) is not nil here and panics.
	Stderr io.Writer
	Now    func() time.Time // Clock for output file names; nil means time.Now
}

// Result describes a successful run.
type Result struct {
	CSVPath      string
	LogPath      string
	Regions      []RegionResult
	AddressTotal int
	CopyTotal    int
	Rows         int
}

// Run validates every region of the period directory and, when no error
// was recorded, writes the merged CSV and the run log.
//
// It returns ErrPrecheckFailed or ErrValidationFailed when errors were
// accumulated (no files are written), a *FatalError or *MissingColumnsError
// for fatal problems, and nil on success.
func Run(ctx context.Context, opts Options) (*Result, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = io.Discard
	}
	logger := logging.WithFields(ctx, "dir", opts.Dir)

	if _, err := os.Stat(opts.Dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FatalError{Msg: opts.Dir + " existiert nicht."}
		}
		return nil, fatal(err, opts.Dir+" kann nicht gelesen werden")
	}

	regions, err := LoadRegions(filepath.Join(opts.Dir, opts.ConfigFile))
	if err != nil {
		return nil, err
	}
	logger.Debug("region config loaded", "regions", len(regions))

	state := NewRunState(NewRunLog(stderr))

	if err := Precheck(opts.Dir, regions, state.Log); err != nil {
		return nil, err
	}
	if state.ErrorCount() > 0 {
		return nil, ErrPrecheckFailed
	}

	proc := &Processor{
		Dir:       opts.Dir,
		Rules:     opts.Rules,
		Encodings: textenc.NewOverrides(opts.LegacyRegions),
	}

	result := &Result{}
	for _, region := range regions {
		rr, err := proc.Process(ctx, state, region)
		if err != nil {
			return nil, err
		}
		result.Regions = append(result.Regions, rr)
	}

	if state.ErrorCount() > 0 {
		fmt.Fprintln(stderr, NoOutputMessage)
		logger.Debug("run failed", "errors", state.ErrorCount())
		return nil, ErrValidationFailed
	}

	state.Log.Infof("====")
	state.Log.Infof("%4d Adresse(n) insgesamt", state.AddressTotal)
	state.Log.Infof("%4d Exemplare insgesamt", state.CopyTotal)

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	csvPath, logPath, err := WriteOutput(state, OutputOptions{
		Dir:       opts.Dir,
		TargetDir: opts.TargetDir,
		Prefix:    opts.Prefix,
		WriteBOM:  opts.WriteBOM,
		Time:      now(),
		Stderr:    stderr,
	})
	if err != nil {
		return nil, err
	}

	result.CSVPath = csvPath
	result.LogPath = logPath
	result.AddressTotal = state.AddressTotal
	result.CopyTotal = state.CopyTotal
	result.Rows = len(state.Rows)
	logger.Debug("run completed", "rows", result.Rows, "csv", csvPath)
	return result, nil
}

// Precheck records a violation in log for every region directory that does
// not hold exactly one file. It checks all regions before returning; the
// returned error is reserved for fatal I/O problems.
func Precheck(dir string, regions []RegionConfig, log *RunLog) error {
	for _, region := range regions {
		_, violation, err := regionFile(filepath.Join(dir, region.Code))
		if err != nil {
			return err
		}
		if violation != "" {
			log.Errorf("%s", violation)
		}
	}
	return nil
}
