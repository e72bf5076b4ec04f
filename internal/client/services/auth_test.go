package services

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/crtrstudio/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE session (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
	require.NoError(t, err)
	return db
}

func getSession(t *testing.T, db *sql.DB, k string) (string, bool) {
	t.Helper()
	var v string
	err := db.QueryRow(`SELECT value FROM session WHERE key=?`, k).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	require.NoError(t, err)
	return v, true
}

// ---- fake client ----

type fakeClient struct {
	regReq client.RegisterRequest
	regErr error

	loginEmail, loginPassword string
	loginErr                  error

	meToken string
	meErr   error

	logoutToken string
	logoutErr   error

	projectsErr error
	healthErr   error
}

func (f *fakeClient) Register(_ context.Context, req client.RegisterRequest) (*client.AuthResponse, error) {
	f.regReq = req
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &client.AuthResponse{User: client.User{ID: "u1", Email: req.Email, Name: req.Name}, Token: "reg-token"}, nil
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*client.AuthResponse, error) {
	f.loginEmail, f.loginPassword = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &client.AuthResponse{User: client.User{ID: "u1", Email: email}, Token: "login-token"}, nil
}

func (f *fakeClient) Me(_ context.Context, token string) (*client.User, error) {
	f.meToken = token
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &client.User{ID: "u1", Email: "a@b.co"}, nil
}

func (f *fakeClient) Logout(_ context.Context, token string) error {
	f.logoutToken = token
	return f.logoutErr
}

func (f *fakeClient) ListProjects(context.Context, string) error { return f.projectsErr }

func (f *fakeClient) Health(context.Context) (*client.Health, error) {
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &client.Health{Status: "ok"}, nil
}

// ---- tests ----

func TestRegister_PersistsSession(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{}
	s := NewAuthService(fc, db)

	name := "Ada"
	u, err := s.Register(context.Background(), "a@b.co", []byte("Passw0rd!"), &name)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", u.Email)
	assert.Equal(t, "Passw0rd!", fc.regReq.Password)
	assert.Equal(t, &name, fc.regReq.Name)

	tok, ok := getSession(t, db, "token")
	require.True(t, ok)
	assert.Equal(t, "reg-token", tok)
	email, _ := getSession(t, db, "email")
	assert.Equal(t, "a@b.co", email)
}

func TestRegister_ErrorKeepsNoSession(t *testing.T) {
	db := setupDB(t)
	s := NewAuthService(&fakeClient{regErr: &client.APIError{Status: http.StatusConflict, Message: "taken"}}, db)

	_, err := s.Register(context.Background(), "a@b.co", []byte("Passw0rd!"), nil)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)

	_, ok := getSession(t, db, "token")
	assert.False(t, ok)
}

func TestLoginMeLogout(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{}
	s := NewAuthService(fc, db)
	ctx := context.Background()

	_, err := s.Login(ctx, "a@b.co", []byte("Passw0rd!"))
	require.NoError(t, err)

	email, ok, err := s.CurrentEmail(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@b.co", email)

	u, err := s.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "login-token", fc.meToken)

	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, "login-token", fc.logoutToken)

	_, ok = getSession(t, db, "token")
	assert.False(t, ok)

	_, err = s.Me(ctx)
	assert.ErrorIs(t, err, client.ErrNoSession)
}

func TestMe_ExpiredSessionIsDropped(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{}
	s := NewAuthService(fc, db)
	ctx := context.Background()

	_, err := s.Login(ctx, "a@b.co", []byte("Passw0rd!"))
	require.NoError(t, err)

	fc.meErr = &client.APIError{Status: http.StatusUnauthorized, Message: "Invalid or expired token"}
	_, err = s.Me(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	_, ok, err := s.CurrentEmail(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogout_ServerUnavailableStillClears(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{logoutErr: client.ErrUnavailable}
	s := NewAuthService(fc, db)
	ctx := context.Background()

	_, err := s.Login(ctx, "a@b.co", []byte("Passw0rd!"))
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))
	_, ok := getSession(t, db, "token")
	assert.False(t, ok)
}

func TestLogout_WithoutSession(t *testing.T) {
	s := NewAuthService(&fakeClient{}, setupDB(t))
	assert.ErrorIs(t, s.Logout(context.Background()), client.ErrNoSession)
}

func TestProjects(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{projectsErr: &client.APIError{Status: http.StatusNotImplemented, Message: "List projects endpoint - Coming soon"}}
	s := NewAuthService(fc, db)
	ctx := context.Background()

	_, err := s.Projects(ctx)
	assert.ErrorIs(t, err, client.ErrNoSession)

	_, err = s.Login(ctx, "a@b.co", []byte("Passw0rd!"))
	require.NoError(t, err)

	msg, err := s.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, "List projects endpoint - Coming soon", msg)

	fc.projectsErr = client.ErrUnavailable
	_, err = s.Projects(ctx)
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestPing(t *testing.T) {
	fc := &fakeClient{}
	s := NewAuthService(fc, setupDB(t))
	assert.NoError(t, s.Ping(context.Background()))

	fc.healthErr = client.ErrUnavailable
	assert.ErrorIs(t, s.Ping(context.Background()), client.ErrUnavailable)
}
