package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allColumns = OptionalColumns{Title: true, ExtraAddress: true, CopyCount: true}

func newTestValidator(region RegionConfig, cols OptionalColumns, rules Rules) (*RowValidator, *RunLog, *bytes.Buffer) {
	var echo bytes.Buffer
	log := NewRunLog(&echo)
	return NewRowValidator(region, "AB/liste.csv", cols, rules, log), log, &echo
}

func validRecord() InputRecord {
	return InputRecord{
		MemberNumber: "123456",
		Salutation:   "Frau",
		FirstName:    "Erika",
		LastName:     "Mustermann",
		Street:       "Heidestraße 17",
		PostalCode:   "51147",
		City:         "Köln",
		Country:      "",
	}
}

func TestValidate_ValidRecord(t *testing.T) {
	v, log, _ := newTestValidator(RegionConfig{Code: "AB"}, OptionalColumns{}, DefaultRules())

	res := v.Validate(validRecord(), 1)

	assert.Equal(t, 0, log.ErrorCount())
	assert.False(t, res.Skip)
	assert.Equal(t, 1, res.Copies)
	assert.Equal(t, OutputRow{
		MemberNumber: "123456",
		AddressLine1: "Frau",
		AddressLine2: "Erika Mustermann",
		AddressLine3: "",
		PostalCode:   "51147",
		City:         "Köln",
		Country:      "",
		Street:       "Heidestraße 17",
		CopyCount:    "1",
	}, res.Row)
}

func TestValidate_SynthesizedMemberNumbers(t *testing.T) {
	v, log, _ := newTestValidator(RegionConfig{Code: "AB"}, OptionalColumns{}, DefaultRules())

	var got []string
	for i, nr := range []string{"", "654321", "", ""} {
		rec := validRecord()
		rec.MemberNumber = nr
		got = append(got, v.Validate(rec, i+1).Row.MemberNumber)
	}

	assert.Equal(t, []string{"000001", "654321", "000002", "000003"}, got)
	assert.Equal(t, 3, v.Generated())
	assert.Equal(t, 0, log.ErrorCount())
}

func TestValidate_SynthesizedNumbersPerValidator(t *testing.T) {
	first, _, _ := newTestValidator(RegionConfig{Code: "AB"}, OptionalColumns{}, DefaultRules())
	second, _, _ := newTestValidator(RegionConfig{Code: "CD"}, OptionalColumns{}, DefaultRules())

	rec := validRecord()
	rec.MemberNumber = ""
	first.Validate(rec, 1)
	first.Validate(rec, 2)

	assert.Equal(t, "000001", second.Validate(rec, 1).Row.MemberNumber)
}

func TestValidate_MalformedMemberNumber(t *testing.T) {
	tests := []struct {
		name    string
		number  string
		wantErr bool
	}{
		{"six digits", "123456", false},
		{"six characters", "AB1234", false},
		{"six runes with umlaut", "Ä12345", false},
		{"too short", "12345", true},
		{"too long", "1234567", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, log, echo := newTestValidator(RegionConfig{Code: "AB"}, OptionalColumns{}, DefaultRules())
			rec := validRecord()
			rec.MemberNumber = tt.number

			res := v.Validate(rec, 4)

			assert.Equal(t, tt.number, res.Row.MemberNumber)
			if tt.wantErr {
				assert.Equal(t, 1, log.ErrorCount())
				assert.Contains(t, echo.String(), "FEHLER: Fehlerhafte Mitglieds-Nr in AB/liste.csv/Adressnummer 4")
			} else {
				assert.Equal(t, 0, log.ErrorCount())
			}
		})
	}
}

func TestValidate_CheckMemberNumber(t *testing.T) {
	t.Run("given number", func(t *testing.T) {
		v, _, _ := newTestValidator(RegionConfig{Code: "AB", CheckMemberNumber: "123456"}, OptionalColumns{}, DefaultRules())
		assert.False(t, v.CheckFound())
		v.Validate(validRecord(), 1)
		assert.True(t, v.CheckFound())
	})

	t.Run("synthesized number", func(t *testing.T) {
		v, _, _ := newTestValidator(RegionConfig{Code: "AB", CheckMemberNumber: "000002"}, OptionalColumns{}, DefaultRules())
		rec := validRecord()
		rec.MemberNumber = ""
		v.Validate(rec, 1)
		assert.False(t, v.CheckFound())
		v.Validate(rec, 2)
		assert.True(t, v.CheckFound())
	})

	t.Run("no check configured", func(t *testing.T) {
		v, _, _ := newTestValidator(RegionConfig{Code: "AB"}, OptionalColumns{}, DefaultRules())
		rec := validRecord()
		rec.MemberNumber = ""
		v.Validate(rec, 1)
		assert.False(t, v.CheckFound())
	})
}

func TestValidate_AddressLines(t *testing.T) {
	tests := []struct {
		name  string
		cols  OptionalColumns
		rules Rules
		rec   func(*InputRecord)
		want  [3]string
	}{
		{
			name: "Herr becomes Herrn",
			rec:  func(r *InputRecord) { r.Salutation = "Herr"; r.FirstName = "Max" },
			want: [3]string{"Herrn", "Max Mustermann", ""},
		},
		{
			name: "Herrn stays",
			rec:  func(r *InputRecord) { r.Salutation = "Herrn"; r.FirstName = "Max" },
			want: [3]string{"Herrn", "Max Mustermann", ""},
		},
		{
			name: "lowercase herr untouched",
			rec:  func(r *InputRecord) { r.Salutation = "herr" },
			want: [3]string{"herr", "Erika Mustermann", ""},
		},
		{
			name: "no salutation puts last name first",
			rec:  func(r *InputRecord) { r.Salutation = "" },
			want: [3]string{"Mustermann", "Erika", ""},
		},
		{
			name: "salutation without first name",
			rec:  func(r *InputRecord) { r.Salutation = "Familie"; r.FirstName = "" },
			want: [3]string{"Familie", "Mustermann", ""},
		},
		{
			name:  "placeholder salutation",
			rules: DefaultRules(),
			rec:   func(r *InputRecord) { r.Salutation = "_" },
			want:  [3]string{"Mustermann", "Erika", ""},
		},
		{
			name:  "placeholder first name",
			rules: DefaultRules(),
			rec:   func(r *InputRecord) { r.FirstName = "_" },
			want:  [3]string{"Frau", "Mustermann", ""},
		},
		{
			name:  "placeholder disabled",
			rules: Rules{Placeholder: "", CountZeroCopies: true},
			rec:   func(r *InputRecord) { r.FirstName = "_" },
			want:  [3]string{"Frau", "_ Mustermann", ""},
		},
		{
			name: "title when column present",
			cols: OptionalColumns{Title: true},
			rec:  func(r *InputRecord) { r.Title = "Dr." },
			want: [3]string{"Frau", "Dr. Erika Mustermann", ""},
		},
		{
			name: "title ignored when column absent",
			rec:  func(r *InputRecord) { r.Title = "Dr." },
			want: [3]string{"Frau", "Erika Mustermann", ""},
		},
		{
			name: "title ignored without salutation",
			cols: OptionalColumns{Title: true},
			rec:  func(r *InputRecord) { r.Salutation = ""; r.Title = "Dr." },
			want: [3]string{"Mustermann", "Erika", ""},
		},
		{
			name: "extra address when column present",
			cols: OptionalColumns{ExtraAddress: true},
			rec:  func(r *InputRecord) { r.ExtraAddress = "c/o Beispiel GmbH" },
			want: [3]string{"Frau", "Erika Mustermann", "c/o Beispiel GmbH"},
		},
		{
			name: "extra address ignored when column absent",
			rec:  func(r *InputRecord) { r.ExtraAddress = "c/o Beispiel GmbH" },
			want: [3]string{"Frau", "Erika Mustermann", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := tt.rules
			if rules == (Rules{}) {
				rules = DefaultRules()
			}
			v, log, _ := newTestValidator(RegionConfig{Code: "AB"}, tt.cols, rules)
			rec := validRecord()
			tt.rec(&rec)

			row := v.Validate(rec, 1).Row

			assert.Equal(t, tt.want, [3]string{row.AddressLine1, row.AddressLine2, row.AddressLine3})
			assert.Equal(t, 0, log.ErrorCount())
		})
	}
}

func TestValidate_PostalCodeAndCountry(t *testing.T) {
	tests := []struct {
		name        string
		country     string
		postalCode  string
		wantCountry string
		wantErr     bool
	}{
		{"domestic empty country", "", "12345", "", false},
		{"Deutschland", "Deutschland", "12345", "", false},
		{"DEUTSCHLAND", "DEUTSCHLAND", "12345", "", false},
		{"deutschland bad code", "deutschland", "1234", "", true},
		{"domestic letters", "", "1234A", "", true},
		{"domestic too long", "", "123456", "", true},
		{"domestic empty code", "", "", "", true},
		{"foreign letters", "Niederlande", "1234 AB", "Niederlande", false},
		{"foreign short", "Österreich", "1010", "Österreich", false},
		{"foreign empty code", "Schweiz", "", "Schweiz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, log, echo := newTestValidator(RegionConfig{Code: "AB"}, OptionalColumns{}, DefaultRules())
			rec := validRecord()
			rec.Country = tt.country
			rec.PostalCode = tt.postalCode

			row := v.Validate(rec, 2).Row

			assert.Equal(t, tt.wantCountry, row.Country)
			assert.Equal(t, tt.postalCode, row.PostalCode)
			if tt.wantErr {
				assert.Equal(t, 1, log.ErrorCount())
				assert.Contains(t, echo.String(), "FEHLER: Fehlerhafte PLZ in AB/liste.csv/Adressnummer 2/Mustermann")
			} else {
				assert.Equal(t, 0, log.ErrorCount())
			}
		})
	}
}

func TestValidate_CopyCount(t *testing.T) {
	tests := []struct {
		name       string
		cols       OptionalColumns
		raw        string
		wantText   string
		wantCopies int
		wantSkip   bool
		wantErr    bool
	}{
		{"column absent", OptionalColumns{}, "7", "1", 1, false, false},
		{"empty defaults to one", allColumns, "", "1", 1, false, false},
		{"single digit", allColumns, "3", "3", 3, false, false},
		{"three digits", allColumns, "120", "120", 120, false, false},
		{"leading zeros kept", allColumns, "007", "007", 7, false, false},
		{"zero skips", allColumns, "0", "0", 0, true, false},
		{"four digits", allColumns, "1000", "1000", 1, false, true},
		{"letters", allColumns, "zwei", "zwei", 1, false, true},
		{"negative", allColumns, "-1", "-1", 1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, log, echo := newTestValidator(RegionConfig{Code: "AB"}, tt.cols, DefaultRules())
			rec := validRecord()
			rec.CopyCount = tt.raw

			res := v.Validate(rec, 5)

			assert.Equal(t, tt.wantText, res.Row.CopyCount)
			assert.Equal(t, tt.wantCopies, res.Copies)
			assert.Equal(t, tt.wantSkip, res.Skip)
			if tt.wantErr {
				assert.Equal(t, 1, log.ErrorCount())
				assert.Contains(t, echo.String(), "FEHLER: Fehlerhafter Wert in Spalte AnzLabyrinth in AB/liste.csv/Adressnummer 5")
			} else {
				assert.Equal(t, 0, log.ErrorCount())
			}
		})
	}
}

func TestValidate_ZeroCopiesLogsMemberNumber(t *testing.T) {
	v, log, _ := newTestValidator(RegionConfig{Code: "AB"}, allColumns, DefaultRules())
	rec := validRecord()
	rec.MemberNumber = ""
	rec.CopyCount = "0"

	res := v.Validate(rec, 1)
	require.True(t, res.Skip)

	// Skipped records still consume a synthesized number.
	assert.Equal(t, 1, v.Generated())
	assert.Equal(t, []string{"INFO: AnzLabyrinth=0 bei Mitglieds-Nr 000001"}, log.Lines())
	assert.Equal(t, 0, log.ErrorCount())

	rec.CopyCount = "1"
	assert.Equal(t, "000002", v.Validate(rec, 2).Row.MemberNumber)
}

func TestValidate_InvalidRecordStillYieldsRow(t *testing.T) {
	v, log, _ := newTestValidator(RegionConfig{Code: "AB"}, allColumns, DefaultRules())
	rec := validRecord()
	rec.MemberNumber = "12"
	rec.PostalCode = "abc"
	rec.CopyCount = "x"

	res := v.Validate(rec, 1)

	assert.Equal(t, 3, log.ErrorCount())
	assert.False(t, res.Skip)
	assert.Equal(t, "12", res.Row.MemberNumber)
	assert.Equal(t, "Erika Mustermann", res.Row.AddressLine2)
}
