package sysconfig

// Config is the single row of system-wide branding and contact settings.
// Logo and favicon travel as data URLs.
type Config struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Logo        string `json:"logo,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
}
