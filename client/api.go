// Package client implements the application-side core of the HR
// frontend: session and configuration state, permission-gated
// navigation, the generic CRUD resource abstraction every entity
// screen instantiates, client-side filtering, notifications, and the
// face-capture orchestrator. It is view-layer agnostic; rendering
// toolkits consume it through plain method calls and injected hooks.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Doer abstracts the HTTP transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CredentialStore persists the bearer credential between page loads.
type CredentialStore interface {
	Token() string
	SetToken(token string)
	Clear()
}

// MemoryCredentials is an in-process CredentialStore.
type MemoryCredentials struct {
	token string
}

func (m *MemoryCredentials) Token() string         { return m.token }
func (m *MemoryCredentials) SetToken(token string) { m.token = token }
func (m *MemoryCredentials) Clear()                { m.token = "" }

// APIError is a non-2xx backend response. The prose detail comes from
// the backend's problem document when one is present.
type APIError struct {
	Status int
	Title  string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Title)
}

// API is a thin JSON client for the backend. Every call attaches the
// stored bearer credential when one exists.
type API struct {
	base  string
	http  Doer
	creds CredentialStore
}

// NewAPI builds an API client rooted at base.
func NewAPI(base string, doer Doer, creds CredentialStore) *API {
	if doer == nil {
		doer = http.DefaultClient
	}
	if creds == nil {
		creds = &MemoryCredentials{}
	}
	return &API{base: strings.TrimRight(base, "/"), http: doer, creds: creds}
}

// Credentials exposes the backing store, for login/logout flows.
func (a *API) Credentials() CredentialStore { return a.creds }

// Get issues a GET and decodes the response into out.
func (a *API) Get(ctx context.Context, path string, out any) error {
	return a.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body.
func (a *API) Post(ctx context.Context, path string, body, out any) error {
	return a.do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH with a JSON body.
func (a *API) Patch(ctx context.Context, path string, body, out any) error {
	return a.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE.
func (a *API) Delete(ctx context.Context, path string) error {
	return a.do(ctx, http.MethodDelete, path, nil, nil)
}

// PostForm issues a form-encoded POST, used by the login exchange.
func (a *API) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.send(req, out)
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, out)
}

func (a *API) send(req *http.Request, out any) error {
	if token := a.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
		var problem struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&problem); err == nil {
			if problem.Title != "" {
				apiErr.Title = problem.Title
			}
			apiErr.Detail = problem.Detail
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
