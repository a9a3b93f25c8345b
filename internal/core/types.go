package core

// RegionConfig is one row of the region config. Immutable after loading.
type RegionConfig struct {
	Code              string // Region code, also the name of its input directory
	AddressMin        int    // Lowest accepted address count (inclusive)
	AddressMax        int    // Highest accepted address count (inclusive)
	CheckMemberNumber string // Member number that must occur in the region file; empty disables the check
}

// Input column names of a region file.
const (
	ColMemberNumber = "Mitglieds-Nr"
	ColSalutation   = "Anrede"
	ColTitle        = "Titel"
	ColFirstName    = "Vorname"
	ColLastName     = "Nachname"
	ColExtraAddress = "Zusatzadresse"
	ColStreet       = "Straße"
	ColPostalCode   = "PLZ"
	ColCity         = "Ort"
	ColCountry      = "Land"
	ColCopyCount    = "AnzLabyrinth"
)

// InputRecord is one data row of a region file. Columns that are absent
// from the file are empty; see [OptionalColumns] for which ones exist.
type InputRecord struct {
	MemberNumber string
	Salutation   string
	Title        string
	FirstName    string
	LastName     string
	ExtraAddress string
	Street       string
	PostalCode   string
	City         string
	Country      string
	CopyCount    string
}

// OptionalColumns records which optional columns a region file has.
// Resolved once per file from its header.
type OptionalColumns struct {
	Title        bool
	ExtraAddress bool
	CopyCount    bool
}

// OutputHeader is the header row of the merged CSV.
var OutputHeader = []string{
	ColMemberNumber, "ADR_Z1", "ADR_Z2", "ADR_Z3", ColPostalCode, ColCity, ColCountry, ColStreet, ColCopyCount,
}

// OutputRow is one row of the merged CSV.
type OutputRow struct {
	MemberNumber string
	AddressLine1 string
	AddressLine2 string
	AddressLine3 string
	PostalCode   string
	City         string
	Country      string
	Street       string
	CopyCount    string
}

// Record returns the row's cells in [OutputHeader] order.
func (r OutputRow) Record() []string {
	return []string{
		r.MemberNumber,
		r.AddressLine1,
		r.AddressLine2,
		r.AddressLine3,
		r.PostalCode,
		r.City,
		r.Country,
		r.Street,
		r.CopyCount,
	}
}

// RunState accumulates the results of one run. It is created by [Run],
// extended by every region and consumed once by [WriteOutput].
type RunState struct {
	Log          *RunLog
	Rows         []OutputRow // Merged rows in region-then-record order
	AddressTotal int         // Sum of the regions' accepted addresses
	CopyTotal    int         // Sum of all copy counts
}

// NewRunState creates an empty state logging to log.
func NewRunState(log *RunLog) *RunState {
	return &RunState{Log: log}
}

// ErrorCount returns the number of accumulated errors.
func (s *RunState) ErrorCount() int {
	return s.Log.ErrorCount()
}
