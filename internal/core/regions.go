package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/JonMunkholm/labliste/internal/textenc"
)

// Region config column names.
const (
	ConfigRegionCode  = "RV-KUERZEL"
	ConfigCheckNumber = "PRUEF_MGLNR"
	ConfigAddressMin  = "ADDR_MIN"
	ConfigAddressMax  = "ADDR_MAX"
)

// LoadRegions reads the region config at path. The file is UTF-8 with an
// optional byte-order mark, semicolon-delimited, with a header row.
func LoadRegions(path string) ([]RegionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fatal(err, "Konfiguration "+path+" kann nicht gelesen werden")
	}
	return ReadRegions(bytes.NewReader(data), path)
}

// ReadRegions parses a region config. name is used in error messages.
func ReadRegions(r io.Reader, name string) ([]RegionConfig, error) {
	idx, rows, err := readTable(r, name, ConfigRegionCode, ConfigCheckNumber, ConfigAddressMin, ConfigAddressMax)
	if err != nil {
		return nil, err
	}

	regions := make([]RegionConfig, 0, len(rows))
	for i, row := range rows {
		entry := i + 1
		cfg := RegionConfig{
			Code:              idx.Cell(row, ConfigRegionCode),
			CheckMemberNumber: idx.Cell(row, ConfigCheckNumber),
		}
		if cfg.Code == "" {
			return nil, &FatalError{Msg: fmt.Sprintf("%s: leeres Feld %s in Eintrag %d", name, ConfigRegionCode, entry)}
		}
		if cfg.AddressMin, err = parseBound(idx.Cell(row, ConfigAddressMin)); err != nil {
			return nil, fatal(err, fmt.Sprintf("%s: ungültiger Wert in %s, Eintrag %d", name, ConfigAddressMin, entry))
		}
		if cfg.AddressMax, err = parseBound(idx.Cell(row, ConfigAddressMax)); err != nil {
			return nil, fatal(err, fmt.Sprintf("%s: ungültiger Wert in %s, Eintrag %d", name, ConfigAddressMax, entry))
		}
		regions = append(regions, cfg)
	}
	return regions, nil
}

// ReadRegionCodes returns only the region codes of a config, in file order.
// Used for scaffolding, where the bounds are not needed yet.
func ReadRegionCodes(r io.Reader, name string) ([]string, error) {
	idx, rows, err := readTable(r, name, ConfigRegionCode)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(rows))
	for i, row := range rows {
		code := idx.Cell(row, ConfigRegionCode)
		if code == "" {
			return nil, &FatalError{Msg: fmt.Sprintf("%s: leeres Feld %s in Eintrag %d", name, ConfigRegionCode, i+1)}
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func parseBound(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// readTable reads a UTF-8 config table and checks that the required
// columns exist.
func readTable(r io.Reader, name string, required ...string) (HeaderIndex, [][]string, error) {
	cr := newCSVReader(textenc.NewReader(r, textenc.UTF8))

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		header = nil
	} else if err != nil {
		return nil, nil, fatal(err, "Konfiguration "+name+" kann nicht gelesen werden")
	}

	idx := MakeHeaderIndex(header)
	var missing []string
	for _, col := range required {
		if !idx.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &MissingColumnsError{File: name, Missing: missing}
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fatal(err, "Konfiguration "+name+" kann nicht gelesen werden")
	}
	return idx, rows, nil
}
