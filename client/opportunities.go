package client

import "encoding/json"

// Opportunity mirrors the job opportunity payload the listing screen
// renders and filters.
type Opportunity struct {
	ID              int64  `json:"id"`
	OwnerEmployeeID int64  `json:"owner_employee_id"`
	Title           string `json:"title"`
	Status          string `json:"status"`
	WorkMode        string `json:"work_mode"`
	StateID         int64  `json:"state_id"`
}

const opportunityFiltersKey = "filters:opportunities"

// OpportunityFilters carries the opportunity list's active filter values.
// This is the one filter set that survives a reload: it round-trips through
// a FilterStore, while every other screen resets.
type OpportunityFilters struct {
	Query    string `json:"query"`
	Status   string `json:"status"`
	WorkMode string `json:"work_mode"`
	StateID  *int64 `json:"state_id"`
}

// Predicates expands the values into the independent predicates the list
// combines.
func (f OpportunityFilters) Predicates() []Predicate[Opportunity] {
	return []Predicate[Opportunity]{
		Substring(f.Query, func(o Opportunity) string { return o.Title }),
		EnumEquals(f.Status, func(o Opportunity) string { return o.Status }),
		EnumEquals(f.WorkMode, func(o Opportunity) string { return o.WorkMode }),
		IDEquals(f.StateID, func(o Opportunity) int64 { return o.StateID }),
	}
}

// Persist saves the values for the next session.
func (f OpportunityFilters) Persist(store FilterStore) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	store.Save(opportunityFiltersKey, string(raw))
	return nil
}

// LoadOpportunityFilters restores a persisted filter set. A missing or
// unreadable entry yields the zero value, matching a first visit.
func LoadOpportunityFilters(store FilterStore) OpportunityFilters {
	raw, ok := store.Load(opportunityFiltersKey)
	if !ok {
		return OpportunityFilters{}
	}
	var f OpportunityFilters
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return OpportunityFilters{}
	}
	return f
}
