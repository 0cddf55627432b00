package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const meBody = `{
	"id": 7, "user_id": "jdoe001", "first_name": "Jane", "last_name": "Doe",
	"personal_email": "jane@example.com", "active": true,
	"role": {"id": 2, "name": "HR Analyst", "permissions": [{"id":1,"label":"employees view"},{"id":10,"label":"leaves manage"}]}
}`

func TestSessionInitWithoutCredentialStaysUnauthenticated(t *testing.T) {
	doer := &scriptedDoer{handle: func(req *http.Request) *http.Response {
		t.Fatal("no request expected without a credential")
		return nil
	}}
	s := NewSession(NewAPI("http://backend", doer, &MemoryCredentials{}))

	require.NoError(t, s.Init(context.Background()))
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, s.HeldPermissions())
}

func TestSessionInitResolvesUserAndPermissions(t *testing.T) {
	doer := &scriptedDoer{handle: func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, meBody)
	}}
	creds := &MemoryCredentials{}
	creds.SetToken("token-123")
	s := NewSession(NewAPI("http://backend", doer, creds))

	require.NoError(t, s.Init(context.Background()))
	require.True(t, s.Authenticated())
	assert.Equal(t, "jdoe001", s.User().UserID)
	assert.Equal(t, []int64{1, 10}, s.HeldPermissions())

	require.Len(t, doer.requests, 1)
	assert.Equal(t, "/auth/me", doer.requests[0].URL.Path)
	assert.Equal(t, "Bearer token-123", doer.requests[0].Header.Get("Authorization"))
}

func TestSessionInitFailureFailsClosed(t *testing.T) {
	doer := &scriptedDoer{handle: func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusUnauthorized, `{"title":"Unauthorized"}`)
	}}
	creds := &MemoryCredentials{}
	creds.SetToken("expired")
	s := NewSession(NewAPI("http://backend", doer, creds))

	require.Error(t, s.Init(context.Background()))
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.HeldPermissions())
}

func TestSessionLogoutClearsCredentialAndState(t *testing.T) {
	doer := &scriptedDoer{handle: func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, meBody)
	}}
	creds := &MemoryCredentials{}
	creds.SetToken("token-123")
	s := NewSession(NewAPI("http://backend", doer, creds))
	require.NoError(t, s.Init(context.Background()))

	s.Logout()
	assert.Empty(t, creds.Token())
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.HeldPermissions())
}

func TestCanAccessAnyOfSemantics(t *testing.T) {
	assert.True(t, CanAccess(nil, nil))
	assert.True(t, CanAccess([]int64{}, []int64{99}))
	assert.False(t, CanAccess([]int64{1}, nil))
	assert.True(t, CanAccess([]int64{1, 2}, []int64{2}))
	assert.False(t, CanAccess([]int64{1, 2}, []int64{3}))
}
