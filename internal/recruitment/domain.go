package recruitment

import (
	"time"
)

// Opportunity statuses and work modes.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	WorkModeRemote = "remote"
	WorkModeHybrid = "hybrid"
	WorkModeOnsite = "onsite"
)

// Ability importance on an opportunity.
const (
	AbilityRequired  = "required"
	AbilityDesirable = "desirable"
)

// Postulation statuses.
const (
	PostulationPending  = "pending"
	PostulationAccepted = "accepted"
	PostulationRejected = "rejected"
	PostulationHired    = "hired"
)

// OpportunityAbility names a skill demanded by an opportunity.
type OpportunityAbility struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Opportunity is a published job opening candidates postulate to.
type Opportunity struct {
	ID                 int64                `json:"id"`
	OwnerEmployeeID    int64                `json:"owner_employee_id"`
	Status             string               `json:"status"`
	WorkMode           string               `json:"work_mode"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	Budget             int64                `json:"budget"`
	BudgetCurrencyID   string               `json:"budget_currency_id"`
	StateID            int64                `json:"state_id"`
	RequiredAbilities  []OpportunityAbility `json:"required_abilities"`
	DesirableAbilities []OpportunityAbility `json:"desirable_abilities"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// AbilityMatch is the stored outcome of a CV evaluation.
type AbilityMatch struct {
	RequiredFound     []string `json:"required_found"`
	RequiredNotFound  []string `json:"required_not_found"`
	DesirableFound    []string `json:"desirable_found"`
	DesirableNotFound []string `json:"desirable_not_found"`
}

// Postulation is an application submitted against an opportunity. CVFile
// holds the extracted plain text of the candidate's resume.
type Postulation struct {
	ID               int64         `json:"id"`
	JobOpportunityID int64         `json:"job_opportunity_id"`
	Name             string        `json:"name"`
	Surname          string        `json:"surname"`
	Email            string        `json:"email"`
	PhoneNumber      string        `json:"phone_number"`
	AddressCountryID int64         `json:"address_country_id"`
	AddressStateID   int64         `json:"address_state_id"`
	CVFile           string        `json:"cv_file"`
	EvaluatedAt      *time.Time    `json:"evaluated_at"`
	Suitable         bool          `json:"suitable"`
	AbilityMatch     *AbilityMatch `json:"ability_match"`
	Status           string        `json:"status"`
	Motive           *string       `json:"motive"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// MaxPostulationsPerOpportunity caps applications per opening.
const MaxPostulationsPerOpportunity = 1000

func validStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}

func validWorkMode(m string) bool {
	return m == WorkModeRemote || m == WorkModeHybrid || m == WorkModeOnsite
}

func validPostulationStatus(s string) bool {
	switch s {
	case PostulationPending, PostulationAccepted, PostulationRejected, PostulationHired:
		return true
	}
	return false
}
