package core

// validation.go checks region file headers before any record is read.
//
// Column names match exactly, as written by the regions' export tools.
// Required columns must all exist; the optional ones only switch rules on
// (see OptionalColumns).

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// FieldSpec describes one input column.
type FieldSpec struct {
	Name     string // Column header name (must match the file exactly)
	Required bool   // Column must exist in the header
}

// InputFields lists the columns of a region file.
var InputFields = []FieldSpec{
	{Name: ColMemberNumber, Required: true},
	{Name: ColSalutation, Required: true},
	{Name: ColTitle},
	{Name: ColFirstName, Required: true},
	{Name: ColLastName, Required: true},
	{Name: ColExtraAddress},
	{Name: ColStreet, Required: true},
	{Name: ColPostalCode, Required: true},
	{Name: ColCity, Required: true},
	{Name: ColCountry, Required: true},
	{Name: ColCopyCount},
}

// HeaderIndex maps column names to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a header row. When a name
// occurs twice the last column wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return idx
}

// Has reports whether the header contains name.
func (h HeaderIndex) Has(name string) bool {
	_, ok := h[name]
	return ok
}

// Cell returns the value of column name in row, or "" when the column is
// absent or the row is short.
func (h HeaderIndex) Cell(row []string, name string) string {
	pos, ok := h[name]
	if !ok || pos >= len(row) {
		return ""
	}
	return row[pos]
}

// MissingColumnsError lists the required columns absent from a file.
type MissingColumnsError struct {
	File    string
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("Folgende Felder fehlen in %s: [%s]", e.File, strings.Join(e.Missing, ", "))
}

// ValidateHeaders checks that all required columns exist in header and
// resolves which optional columns are present.
func ValidateHeaders(file string, header []string, specs []FieldSpec) (HeaderIndex, OptionalColumns, error) {
	idx := MakeHeaderIndex(header)
	var missing []string

	for _, spec := range specs {
		if spec.Required && !idx.Has(spec.Name) {
			missing = append(missing, spec.Name)
		}
	}

	if len(missing) > 0 {
		return nil, OptionalColumns{}, &MissingColumnsError{File: file, Missing: missing}
	}

	cols := OptionalColumns{
		Title:        idx.Has(ColTitle),
		ExtraAddress: idx.Has(ColExtraAddress),
		CopyCount:    idx.Has(ColCopyCount),
	}
	return idx, cols, nil
}

// newCSVReader returns a reader for the semicolon-delimited files of a run.
// Rows may be shorter or longer than the header.
func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false
	return cr
}

// readRecord maps a row to an InputRecord.
func readRecord(row []string, idx HeaderIndex) InputRecord {
	return InputRecord{
		MemberNumber: idx.Cell(row, ColMemberNumber),
		Salutation:   idx.Cell(row, ColSalutation),
		Title:        idx.Cell(row, ColTitle),
		FirstName:    idx.Cell(row, ColFirstName),
		LastName:     idx.Cell(row, ColLastName),
		ExtraAddress: idx.Cell(row, ColExtraAddress),
		Street:       idx.Cell(row, ColStreet),
		PostalCode:   idx.Cell(row, ColPostalCode),
		City:         idx.Cell(row, ColCity),
		Country:      idx.Cell(row, ColCountry),
		CopyCount:    idx.Cell(row, ColCopyCount),
	}
}
