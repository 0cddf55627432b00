package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEmployee struct {
	ID       int64
	Name     string
	SectorID int64
	Active   bool
	HireDate time.Time
}

var employees = []testEmployee{
	{ID: 1, Name: "Ana García", SectorID: 1, Active: true, HireDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
	{ID: 2, Name: "Bruno Díaz", SectorID: 2, Active: false, HireDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	{ID: 3, Name: "Carla Anaya", SectorID: 1, Active: true, HireDate: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
}

func TestApplyFiltersReturnsANDSubset(t *testing.T) {
	sector := int64(1)
	out := ApplyFilters(employees,
		Substring("an", func(e testEmployee) string { return e.Name }),
		IDEquals(&sector, func(e testEmployee) int64 { return e.SectorID }),
		EnumEquals("active", func(e testEmployee) string {
			if e.Active {
				return "active"
			}
			return "inactive"
		}),
	)

	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(3), out[1].ID)
}

func TestApplyFiltersActiveOnly(t *testing.T) {
	out := ApplyFilters(employees[:2],
		EnumEquals("active", func(e testEmployee) string {
			if e.Active {
				return "active"
			}
			return "inactive"
		}),
	)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)
}

func TestApplyFiltersEmptyPredicatesPassEverything(t *testing.T) {
	out := ApplyFilters(employees,
		Substring("", func(e testEmployee) string { return e.Name }),
		IDEquals[testEmployee](nil, func(e testEmployee) int64 { return e.SectorID }),
		EnumEquals("", func(e testEmployee) string { return "x" }),
	)
	assert.Len(t, out, len(employees))
}

func TestDateWithinInclusiveBounds(t *testing.T) {
	from := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	out := ApplyFilters(employees,
		DateWithin(&from, &to, func(e testEmployee) time.Time { return e.HireDate }),
	)
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].ID)
	assert.Equal(t, int64(3), out[1].ID)
}

func TestPaginatorClampsAtBounds(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	p := &Paginator{PageSize: 2}

	assert.Equal(t, []int{1, 2}, Page(p, items))
	p.Next(len(items))
	assert.Equal(t, []int{3, 4}, Page(p, items))
	p.Next(len(items))
	assert.Equal(t, []int{5}, Page(p, items))

	// Past the last page stays on the last page.
	p.Next(len(items))
	assert.Equal(t, 2, p.Index())
	assert.Equal(t, []int{5}, Page(p, items))

	p.Prev(len(items))
	p.Prev(len(items))
	p.Prev(len(items))
	assert.Equal(t, 0, p.Index())
}

func TestPaginatorReclampsWhenFilteredSetShrinks(t *testing.T) {
	p := &Paginator{PageSize: 2}
	p.Next(10)
	p.Next(10)
	assert.Equal(t, []int{1, 2}, Page(p, []int{1, 2}))
	assert.Equal(t, 0, p.Index())
}

func TestNavHidesGroupWithoutVisibleSubmenu(t *testing.T) {
	entries := []NavEntry{
		{Label: "Employees", Path: "/employees", Required: []int64{1, 2}},
		{Label: "Payroll", Required: []int64{5}, Submenu: []NavEntry{
			{Label: "Hours", Path: "/payroll/hours", Required: []int64{5}},
		}},
		{Label: "Home", Path: "/"},
	}

	out := BuildNav(entries, []int64{1})
	require.Len(t, out, 2)
	assert.Equal(t, "Employees", out[0].Label)
	assert.Equal(t, "Home", out[1].Label)

	out = BuildNav(entries, []int64{5})
	require.Len(t, out, 2)
	assert.Equal(t, "Payroll", out[0].Label)
	require.Len(t, out[0].Submenu, 1)
}

func TestFilterStoreRoundTrip(t *testing.T) {
	var store MemoryFilterStore
	_, ok := store.Load("opportunities")
	assert.False(t, ok)

	store.Save("opportunities", `{"work_mode":"remote"}`)
	v, ok := store.Load("opportunities")
	require.True(t, ok)
	assert.Equal(t, `{"work_mode":"remote"}`, v)
}

var opportunities = []Opportunity{
	{ID: 1, Title: "Backend Developer", Status: "active", WorkMode: "remote", StateID: 1},
	{ID: 2, Title: "Backend Lead", Status: "closed", WorkMode: "remote", StateID: 1},
	{ID: 3, Title: "Recruiter", Status: "active", WorkMode: "onsite", StateID: 2},
}

func TestOpportunityFiltersSurviveReload(t *testing.T) {
	var store MemoryFilterStore
	state := int64(1)
	active := OpportunityFilters{Query: "backend", Status: "active", WorkMode: "remote", StateID: &state}
	require.NoError(t, active.Persist(&store))

	// A fresh screen restores the same values and selects the same subset.
	restored := LoadOpportunityFilters(&store)
	assert.Equal(t, active, restored)

	out := ApplyFilters(opportunities, restored.Predicates()...)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)
}

func TestLoadOpportunityFiltersFirstVisit(t *testing.T) {
	var store MemoryFilterStore
	restored := LoadOpportunityFilters(&store)
	assert.Equal(t, OpportunityFilters{}, restored)

	// The zero value filters nothing out.
	out := ApplyFilters(opportunities, restored.Predicates()...)
	assert.Len(t, out, len(opportunities))
}

func TestLoadOpportunityFiltersIgnoresCorruptEntry(t *testing.T) {
	var store MemoryFilterStore
	store.Save(opportunityFiltersKey, "{not json")
	assert.Equal(t, OpportunityFilters{}, LoadOpportunityFilters(&store))
}
