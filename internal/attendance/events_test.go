package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
)

func storedEvent() ClockEvent {
	return ClockEvent{
		ID:         7,
		EmployeeID: 3,
		EventDate:  time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC),
		EventType:  EventIn,
		Source:     "manual",
		DeviceID:   "desk-1",
	}
}

func TestApplyEventPatchRejectsEmployeeSwap(t *testing.T) {
	other := int64(4)
	_, err := applyEventPatch(storedEvent(), EventPatch{EmployeeID: &other})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestApplyEventPatchAllowsSameEmployee(t *testing.T) {
	same := int64(3)
	out, err := applyEventPatch(storedEvent(), EventPatch{EmployeeID: &same})
	require.NoError(t, err)
	require.Equal(t, int64(3), out.EmployeeID)
}

func TestApplyEventPatchUpdatesFields(t *testing.T) {
	when := time.Date(2024, time.January, 8, 9, 30, 0, 0, time.UTC)
	typ := EventOut
	src := "correction"
	out, err := applyEventPatch(storedEvent(), EventPatch{
		EventDate: &when,
		EventType: &typ,
		Source:    &src,
	})
	require.NoError(t, err)
	require.Equal(t, when, out.EventDate)
	require.Equal(t, EventOut, out.EventType)
	require.Equal(t, "correction", out.Source)
	require.Equal(t, "desk-1", out.DeviceID)
}

func TestApplyEventPatchRejectsUnknownType(t *testing.T) {
	typ := "lunch"
	_, err := applyEventPatch(storedEvent(), EventPatch{EventType: &typ})
	require.ErrorIs(t, err, httpx.ErrValidation)
}
