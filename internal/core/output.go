package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/labliste/internal/textenc"
)

// TimestampLayout names the output files of a run.
const TimestampLayout = "2006-01-02_15-04-05"

// OutputOptions configures WriteOutput.
type OutputOptions struct {
	Dir       string    // Period directory
	TargetDir string    // Output directory name inside Dir; must exist
	Prefix    string    // File name prefix
	WriteBOM  bool      // Prefix the CSV with a UTF-8 BOM
	Time      time.Time // Timestamp of both file names
	Stderr    io.Writer // Receives the summary; nil discards
}

// OutputPaths returns the CSV and log paths for the given options.
func OutputPaths(opts OutputOptions) (csvPath, logPath string) {
	base := filepath.Join(opts.Dir, opts.TargetDir, opts.Prefix+"_"+opts.Time.Format(TimestampLayout))
	return base + ".csv", base + ".log"
}

// WriteOutput writes the merged rows of state as CSV and the run log as
// text, then prints where they went. Only call it when state holds no
// errors. When either file cannot be written, neither is left behind.
func WriteOutput(state *RunState, opts OutputOptions) (csvPath, logPath string, err error) {
	csvPath, logPath = OutputPaths(opts)

	if err := writeCSV(csvPath, state.Rows, opts.WriteBOM); err != nil {
		return "", "", err
	}
	if err := writeLog(logPath, state.Log.Lines()); err != nil {
		os.Remove(csvPath)
		return "", "", err
	}

	if opts.Stderr != nil {
		fmt.Fprintln(opts.Stderr)
		fmt.Fprintf(opts.Stderr, "Das Verzeichnis %s konnte verarbeitet werden, es wurden folgende Ausgabedateien erzeugt:\n", opts.Dir)
		fmt.Fprintf(opts.Stderr, "  %s\n", csvPath)
		fmt.Fprintf(opts.Stderr, "  %s\n", logPath)
	}
	return csvPath, logPath, nil
}

func writeLog(path string, lines []string) error {
	return createFile(path, func(w io.Writer) error {
		for _, line := range lines {
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, rows []OutputRow, bom bool) error {
	return createFile(path, func(w io.Writer) error {
		enc := textenc.NewWriter(w, bom)
		if err := EncodeCSV(enc, rows); err != nil {
			return err
		}
		return enc.Close()
	})
}

// createFile creates path and fills it with write. A file it created is
// removed again when writing fails.
func createFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fatal(err, path+" kann nicht geschrieben werden")
	}
	err = write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fatal(err, path+" kann nicht geschrieben werden")
	}
	return nil
}

// EncodeCSV writes the header and rows semicolon-delimited with "\n" line
// endings.
func EncodeCSV(w io.Writer, rows []OutputRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	cw.UseCRLF = false

	if err := cw.Write(OutputHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
