package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/labliste/internal/logging"
	"github.com/JonMunkholm/labliste/internal/textenc"
)

// RegionResult summarizes one processed region.
type RegionResult struct {
	Code      string
	File      string
	Records   int // Records read from the file
	Accepted  int // Records merged into the output
	Copies    int // Sum of the records' copy counts
	Generated int // Synthesized member numbers
}

// Processor processes the region directories below one period directory.
type Processor struct {
	Dir       string            // Period directory
	Rules     Rules             // Rule variants
	Encodings textenc.Overrides // Per-region input encodings
}

// regionFile returns the single file in dir. When dir does not hold
// exactly one entry, violation describes the problem and file is "".
// A missing directory is a violation as well; other I/O errors are fatal.
func regionFile(dir string) (file, violation string, err error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return "", dir + " existiert nicht.", nil
	}
	if err != nil {
		return "", "", fatal(err, dir+" kann nicht gelesen werden")
	}

	switch len(entries) {
	case 0:
		return "", dir + " ist leer", nil
	case 1:
		return filepath.Join(dir, entries[0].Name()), "", nil
	default:
		return "", dir + " enthält mehr als eine Datei.", nil
	}
}

// Process reads the input file of region, appends its valid rows to state
// and records every problem in state.Log. A non-nil error is fatal for the
// whole run.
func (p *Processor) Process(ctx context.Context, state *RunState, region RegionConfig) (RegionResult, error) {
	result := RegionResult{Code: region.Code}

	file, violation, err := regionFile(filepath.Join(p.Dir, region.Code))
	if err != nil {
		return result, err
	}
	if violation != "" {
		state.Log.Errorf("%s", violation)
		return result, nil
	}
	result.File = file

	enc := p.Encodings.For(region.Code)
	logger := logging.WithFields(ctx, "region", region.Code, "file", file, "encoding", enc.String())
	logger.Debug("processing region")

	f, err := os.Open(file)
	if err != nil {
		return result, fatal(err, file+" kann nicht geöffnet werden")
	}
	defer f.Close()

	cr := newCSVReader(textenc.NewReader(f, enc))

	header, err := cr.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return result, readError(file, err)
	}
	idx, cols, err := ValidateHeaders(file, header, InputFields)
	if err != nil {
		return result, err
	}
	logger.Debug("header resolved", "title", cols.Title, "extra_address", cols.ExtraAddress, "copy_count", cols.CopyCount)

	validator := NewRowValidator(region, file, cols, p.Rules, state.Log)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, readError(file, err)
		}

		result.Records++
		rr := validator.Validate(readRecord(row, idx), result.Records)
		result.Copies += rr.Copies
		if rr.Skip {
			continue
		}
		result.Accepted++
		state.Rows = append(state.Rows, rr.Row)
	}
	result.Generated = validator.Generated()

	state.Log.Infof("%4d Adresse(n) aus %s gelesen", result.Accepted, file)
	state.AddressTotal += result.Accepted
	state.CopyTotal += result.Copies

	counted := result.Accepted
	if p.Rules.CountZeroCopies {
		counted = result.Records
	}
	if counted < region.AddressMin || counted > region.AddressMax {
		state.Log.Errorf("Anzahl der Adressen nicht im Bereich %d-%d", region.AddressMin, region.AddressMax)
	}
	if region.CheckMemberNumber != "" && !validator.CheckFound() {
		state.Log.Errorf("Mitgliedsnummer %s nicht gefunden", region.CheckMemberNumber)
	}
	if result.Generated > 0 {
		state.Log.Infof("=> %d Mitglieds-Nr erzeugt", result.Generated)
	}

	logger.Debug("region processed", "records", result.Records, "accepted", result.Accepted, "copies", result.Copies)
	return result, nil
}

func readError(file string, err error) error {
	if textenc.IsEncodingError(err) {
		return fatal(err, file+" enthält ungültige Zeichen (keine UTF-8-Datei?)")
	}
	return fatal(err, fmt.Sprintf("%s kann nicht gelesen werden", file))
}
