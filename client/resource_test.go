package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDoer answers requests through a handler and records them.
type scriptedDoer struct {
	requests []*http.Request
	handle   func(req *http.Request) *http.Response
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	d.requests = append(d.requests, req)
	return d.handle(req), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func (d *scriptedDoer) writes() int {
	n := 0
	for _, req := range d.requests {
		if req.Method != http.MethodGet {
			n++
		}
	}
	return n
}

type sector struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newSectorResource(doer *scriptedDoer) *Resource[sector] {
	api := NewAPI("http://backend", doer, &MemoryCredentials{})
	return NewResource(ResourceConfig[sector]{
		Name:     "sector",
		Endpoint: Endpoint{List: "/sectors"},
		API:      api,
		Notifier: NewNotifier(time.Minute, nil),
		Validate: func(s sector) error {
			if strings.TrimSpace(s.Name) == "" {
				return fmt.Errorf("name is required")
			}
			return nil
		},
		ID: func(s sector) int64 { return s.ID },
	})
}

func TestSectorCreateIssuesOnePostThenOneListGet(t *testing.T) {
	var modalDuringPost ModalState
	doer := &scriptedDoer{}
	r := newSectorResource(doer)
	doer.handle = func(req *http.Request) *http.Response {
		switch {
		case req.Method == http.MethodPost:
			modalDuringPost = r.Modal()
			return jsonResponse(http.StatusCreated, `{"id":1,"name":"Engineering"}`)
		case req.Method == http.MethodGet:
			return jsonResponse(http.StatusOK, `[{"id":1,"name":"Engineering"}]`)
		}
		t.Fatalf("unexpected request %s %s", req.Method, req.URL.Path)
		return nil
	}

	r.OpenNew()
	require.NoError(t, r.Submit(context.Background(), sector{Name: "Engineering"}))

	require.Len(t, doer.requests, 2)
	assert.Equal(t, http.MethodPost, doer.requests[0].Method)
	assert.Equal(t, "/sectors", doer.requests[0].URL.Path)
	assert.Equal(t, http.MethodGet, doer.requests[1].Method)
	assert.Equal(t, "/sectors", doer.requests[1].URL.Path)

	// The modal was still open while the POST was in flight and closed
	// only after it resolved.
	assert.Equal(t, ModalSubmitting, modalDuringPost)
	assert.Equal(t, ModalClosed, r.Modal())
	require.Len(t, r.Items(), 1)
}

func TestSubmitFailureKeepsModalOpen(t *testing.T) {
	doer := &scriptedDoer{}
	doer.handle = func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusConflict, `{"title":"Duplicate","detail":"sector exists"}`)
	}
	r := newSectorResource(doer)

	r.OpenNew()
	err := r.Submit(context.Background(), sector{Name: "Engineering"})
	require.Error(t, err)

	assert.Equal(t, ModalNew, r.Modal())
	assert.Error(t, r.LastError())
	assert.Len(t, doer.requests, 1)
}

func TestValidationFailureSkipsNetworkAndKeepsModalOpen(t *testing.T) {
	doer := &scriptedDoer{}
	doer.handle = func(req *http.Request) *http.Response {
		t.Fatal("no request expected")
		return nil
	}
	r := newSectorResource(doer)

	r.OpenNew()
	err := r.Submit(context.Background(), sector{Name: "   "})
	require.Error(t, err)

	assert.Equal(t, ModalNew, r.Modal())
	assert.Zero(t, doer.writes())
	assert.Empty(t, doer.requests)
}

type employeeForm struct {
	ID        int64
	Email     string
	BirthDate time.Time
	HireDate  time.Time
}

func newEmployeeResource(doer *scriptedDoer) *Resource[employeeForm] {
	api := NewAPI("http://backend", doer, &MemoryCredentials{})
	return NewResource(ResourceConfig[employeeForm]{
		Name:     "employee",
		Endpoint: Endpoint{List: "/employees"},
		API:      api,
		Validate: func(e employeeForm) error {
			if !ValidEmail(e.Email) {
				return fmt.Errorf("invalid email address")
			}
			if !AgeAtLeast(e.BirthDate, e.HireDate, 16) {
				return fmt.Errorf("employee must be at least 16 years old")
			}
			return nil
		},
		ID: func(e employeeForm) int64 { return e.ID },
	})
}

func TestEmployeeValidationRejectsUnder16AtHireBoundary(t *testing.T) {
	doer := &scriptedDoer{}
	r := newEmployeeResource(doer)

	r.OpenNew()
	err := r.Submit(context.Background(), employeeForm{
		Email:     "new.hire@example.com",
		BirthDate: time.Date(2010, 6, 2, 0, 0, 0, 0, time.UTC),
		HireDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), // day before 16th birthday
	})
	require.Error(t, err)
	assert.Equal(t, ModalNew, r.Modal())
	assert.Zero(t, doer.writes())
}

func TestEmployeeValidationAcceptsExactly16(t *testing.T) {
	doer := &scriptedDoer{}
	doer.handle = func(req *http.Request) *http.Response {
		if req.Method == http.MethodPost {
			return jsonResponse(http.StatusCreated, `{}`)
		}
		return jsonResponse(http.StatusOK, `[]`)
	}
	r := newEmployeeResource(doer)

	r.OpenNew()
	err := r.Submit(context.Background(), employeeForm{
		Email:     "new.hire@example.com",
		BirthDate: time.Date(2010, 6, 1, 0, 0, 0, 0, time.UTC),
		HireDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), // 16th birthday
	})
	require.NoError(t, err)
}

func TestEmployeeValidationRejectsMalformedEmail(t *testing.T) {
	doer := &scriptedDoer{}
	r := newEmployeeResource(doer)

	r.OpenNew()
	err := r.Submit(context.Background(), employeeForm{
		Email:     "not-an-email",
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		HireDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, ModalNew, r.Modal())
	assert.Empty(t, doer.requests)
}

func TestLoadFailureKeepsPriorList(t *testing.T) {
	doer := &scriptedDoer{}
	ok := true
	doer.handle = func(req *http.Request) *http.Response {
		if ok {
			return jsonResponse(http.StatusOK, `[{"id":1,"name":"Engineering"}]`)
		}
		return jsonResponse(http.StatusInternalServerError, `{"title":"Internal Error"}`)
	}
	r := newSectorResource(doer)

	require.NoError(t, r.Load(context.Background()))
	require.Len(t, r.Items(), 1)

	ok = false
	require.Error(t, r.Load(context.Background()))
	assert.Len(t, r.Items(), 1, "stale list stays on failed refresh")
}

func TestDeleteRemovesOptimisticallyAfterConfirm(t *testing.T) {
	doer := &scriptedDoer{}
	doer.handle = func(req *http.Request) *http.Response {
		switch req.Method {
		case http.MethodGet:
			return jsonResponse(http.StatusOK, `[{"id":1,"name":"Engineering"},{"id":2,"name":"Sales"}]`)
		case http.MethodDelete:
			return jsonResponse(http.StatusNoContent, ``)
		}
		t.Fatalf("unexpected request %s", req.Method)
		return nil
	}
	r := newSectorResource(doer)
	require.NoError(t, r.Load(context.Background()))

	// A refused confirmation issues nothing.
	require.NoError(t, r.Delete(context.Background(), r.Items()[0], func() bool { return false }))
	assert.Len(t, r.Items(), 2)

	require.NoError(t, r.Delete(context.Background(), r.Items()[0], func() bool { return true }))
	require.Len(t, r.Items(), 1)
	assert.Equal(t, int64(2), r.Items()[0].ID)
	assert.Equal(t, "/sectors/1", doer.requests[len(doer.requests)-1].URL.Path)
}
