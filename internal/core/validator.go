package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Pre-compiled field patterns.
var (
	postalCodeRegex = regexp.MustCompile(`^[0-9]{5}$`)
	copyCountRegex  = regexp.MustCompile(`^[0-9]{1,3}$`)
)

const (
	memberNumberLen = 6
	domesticCountry = "Deutschland"
	defaultCopies   = "1"
)

// Rules holds the switchable rule variants.
type Rules struct {
	// Placeholder is a salutation or first name value meaning "empty".
	// Empty disables the substitution.
	Placeholder string

	// CountZeroCopies counts records with copy count 0 toward the region's
	// address bounds. They are never merged either way.
	CountZeroCopies bool
}

// DefaultRules returns the rules the tool runs with unless configured
// otherwise.
func DefaultRules() Rules {
	return Rules{Placeholder: "_", CountZeroCopies: true}
}

// RowResult is the outcome of validating one record.
type RowResult struct {
	Row    OutputRow
	Copies int  // Parsed copy count; 1 when the field was malformed
	Skip   bool // Copy count is 0, the row is not merged
}

// RowValidator validates and transforms the records of one region file.
// It carries the region's synthesized member number counter and whether the
// check member number was seen, so one validator must be used per file.
type RowValidator struct {
	region RegionConfig
	file   string
	cols   OptionalColumns
	rules  Rules
	log    *RunLog

	generated  int
	checkFound bool
}

// NewRowValidator creates a validator for the file of region, whose header
// has the optional columns cols. Errors are recorded in log.
func NewRowValidator(region RegionConfig, file string, cols OptionalColumns, rules Rules, log *RunLog) *RowValidator {
	return &RowValidator{
		region: region,
		file:   file,
		cols:   cols,
		rules:  rules,
		log:    log,
	}
}

// Validate checks and transforms rec, the n-th record (1-based) of the
// file. Invalid records still yield a best-effort row; the problems are
// recorded in the run log.
func (v *RowValidator) Validate(rec InputRecord, n int) RowResult {
	memberNumber := v.memberNumber(rec.MemberNumber, n)

	if v.region.CheckMemberNumber != "" && v.region.CheckMemberNumber == memberNumber {
		v.checkFound = true
	}

	line1, line2, line3 := v.addressLines(rec)

	country := rec.Country
	if strings.EqualFold(country, domesticCountry) {
		country = ""
	}
	if country == "" && !postalCodeRegex.MatchString(rec.PostalCode) {
		v.log.Errorf("Fehlerhafte PLZ in %s/Adressnummer %d/%s", v.file, n, rec.LastName)
	}

	copyCount, copies := v.copyCount(rec.CopyCount, n)

	result := RowResult{
		Row: OutputRow{
			MemberNumber: memberNumber,
			AddressLine1: line1,
			AddressLine2: line2,
			AddressLine3: line3,
			PostalCode:   rec.PostalCode,
			City:         rec.City,
			Country:      country,
			Street:       rec.Street,
			CopyCount:    copyCount,
		},
		Copies: copies,
	}

	if copies == 0 {
		result.Skip = true
		v.log.Infof("%s=%s bei Mitglieds-Nr %s", ColCopyCount, copyCount, memberNumber)
	}

	return result
}

// memberNumber synthesizes a number for empty input and checks the length
// of given ones. Malformed numbers are kept as they are.
func (v *RowValidator) memberNumber(raw string, n int) string {
	if raw == "" {
		v.generated++
		return fmt.Sprintf("%06d", v.generated)
	}
	if utf8.RuneCountInString(raw) != memberNumberLen {
		v.log.Errorf("Fehlerhafte Mitglieds-Nr in %s/Adressnummer %d", v.file, n)
	}
	return raw
}

// addressLines composes the three name/address lines of a label.
func (v *RowValidator) addressLines(rec InputRecord) (string, string, string) {
	salutation := v.clearPlaceholder(rec.Salutation)
	firstName := v.clearPlaceholder(rec.FirstName)

	var line1, line2 string
	if salutation == "" {
		line1 = rec.LastName
		line2 = firstName
	} else {
		line1 = salutation
		// Legacy grammatical case of the label salutation.
		if line1 == "Herr" {
			line1 = "Herrn"
		}
		line2 = rec.LastName
		if firstName != "" {
			line2 = firstName + " " + line2
		}
		if v.cols.Title && rec.Title != "" {
			line2 = rec.Title + " " + line2
		}
	}

	var line3 string
	if v.cols.ExtraAddress {
		line3 = rec.ExtraAddress
	}
	return line1, line2, line3
}

func (v *RowValidator) clearPlaceholder(s string) string {
	if v.rules.Placeholder != "" && s == v.rules.Placeholder {
		return ""
	}
	return s
}

// copyCount resolves the copy count text for the output row and its value.
func (v *RowValidator) copyCount(raw string, n int) (string, int) {
	if !v.cols.CopyCount || raw == "" {
		return defaultCopies, 1
	}
	if !copyCountRegex.MatchString(raw) {
		v.log.Errorf("Fehlerhafter Wert in Spalte %s in %s/Adressnummer %d", ColCopyCount, v.file, n)
		return raw, 1
	}
	copies, _ := strconv.Atoi(raw)
	return raw, copies
}

// Generated returns how many member numbers were synthesized so far.
func (v *RowValidator) Generated() int {
	return v.generated
}

// CheckFound reports whether the region's check member number was seen.
func (v *RowValidator) CheckFound() bool {
	return v.checkFound
}
