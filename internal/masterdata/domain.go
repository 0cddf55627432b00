package masterdata

// Sector groups jobs under an organisational area.
type Sector struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Job is a position employees hold and opportunities are published for.
type Job struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	SectorID int64   `json:"sector_id"`
	Sector   *Sector `json:"sector,omitempty"`
}

// Shift types. Afternoon and night shifts may end after midnight, which the
// payroll calculator accounts for when pairing clock events.
const (
	ShiftMorning   = "morning"
	ShiftAfternoon = "afternoon"
	ShiftNight     = "night"
)

// Shift describes a working schedule assigned to employees.
type Shift struct {
	ID           int64   `json:"id"`
	Description  string  `json:"description"`
	Type         string  `json:"type"`
	WorkingHours float64 `json:"working_hours"`
	WorkingDays  int     `json:"working_days"`
}

// Concept labels payroll hour records (worked day, absence, extra hours and
// so on). Seeded concepts are not deletable; user-defined ones are.
type Concept struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	IsDeletable bool   `json:"is_deletable"`
}

// Ability is a skill attached to job opportunities as required or desirable.
type Ability struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Country is reference data for employee addresses.
type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// State belongs to a country.
type State struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CountryID int64  `json:"country_id"`
}
