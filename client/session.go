package client

import (
	"context"
	"net/url"
)

// Role mirrors the role payload of the current-user endpoint.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Permissions []struct {
		ID    int64  `json:"id"`
		Label string `json:"label"`
	} `json:"permissions"`
}

// User is the resolved identity of the current session.
type User struct {
	ID            int64  `json:"id"`
	UserID        string `json:"user_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	PersonalEmail string `json:"personal_email"`
	Active        bool   `json:"active"`
	Role          *Role  `json:"role,omitempty"`
}

// Session holds the current user and the permission set derived from
// their role. An unauthenticated session holds no permissions, so
// every gated surface fails closed.
type Session struct {
	api  *API
	user *User
	held []int64
}

// NewSession builds a Session over the API client.
func NewSession(api *API) *Session {
	return &Session{api: api}
}

// Init exchanges the persisted credential for the current-user record.
// An absent credential or a failed exchange leaves the session
// unauthenticated; there is no automatic refresh afterwards.
func (s *Session) Init(ctx context.Context) error {
	s.user = nil
	s.held = nil
	if s.api.Credentials().Token() == "" {
		return nil
	}
	var me User
	if err := s.api.Get(ctx, "/auth/me", &me); err != nil {
		return err
	}
	s.user = &me
	if me.Role != nil {
		for _, p := range me.Role.Permissions {
			s.held = append(s.held, p.ID)
		}
	}
	return nil
}

// Login exchanges credentials for a bearer token and initialises the
// session.
func (s *Session) Login(ctx context.Context, username, password string) error {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	form := url.Values{"username": {username}, "password": {password}}
	if err := s.api.PostForm(ctx, "/auth/login", form, &resp); err != nil {
		return err
	}
	s.api.Credentials().SetToken(resp.AccessToken)
	return s.Init(ctx)
}

// Logout clears the persisted credential and the in-memory session.
func (s *Session) Logout() {
	s.api.Credentials().Clear()
	s.user = nil
	s.held = nil
}

// User returns the current user, or nil when unauthenticated.
func (s *Session) User() *User { return s.user }

// Authenticated reports whether a user is resolved.
func (s *Session) Authenticated() bool { return s.user != nil }

// HeldPermissions returns the permission ids derived from the role.
func (s *Session) HeldPermissions() []int64 { return s.held }
