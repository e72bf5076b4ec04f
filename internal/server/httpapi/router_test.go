package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/crtrstudio/internal/cryptox"
	"github.com/dmitrijs2005/crtrstudio/internal/logging"
	"github.com/dmitrijs2005/crtrstudio/internal/server/auth"
	"github.com/dmitrijs2005/crtrstudio/internal/server/repositories/users"
	"github.com/dmitrijs2005/crtrstudio/internal/server/services"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testOrigin = "http://localhost:5173"

type testAPI struct {
	handler http.Handler
	tokens  *auth.TokenService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	tokens, err := auth.NewTokenService([]byte("router-test-secret"), time.Hour)
	require.NoError(t, err)

	svc := services.NewUserService(users.NewMemoryRepository(), cryptox.NewPasswordHasher(bcrypt.MinCost), tokens, logging.Nop())

	return &testAPI{
		handler: NewRouter(RouterConfig{
			Users:       svc,
			Tokens:      tokens,
			Logger:      logging.Nop(),
			Environment: "test",
			CORSOrigins: []string{testOrigin},
		}),
		tokens: tokens,
	}
}

// do performs a request directly so tests can read the response body.
func (a *testAPI) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestRegister_Created(t *testing.T) {
	api := newTestAPI(t)

	apitest.New().
		Handler(api.handler).
		Post("/api/auth/register").
		JSON(`{"email":"a@b.co","password":"Passw0rd!","name":"Ada"}`).
		Expect(t).
		Status(http.StatusCreated).
		Header("Content-Type", ContentTypeJSONUTF8).
		Assert(jsonpath.Equal(`$.user.email`, "a@b.co")).
		Assert(jsonpath.Equal(`$.user.name`, "Ada")).
		Assert(jsonpath.Present(`$.user.id`)).
		Assert(jsonpath.Present(`$.user.createdAt`)).
		Assert(jsonpath.Present(`$.token`)).
		Assert(jsonpath.NotPresent(`$.user.password`)).
		Assert(jsonpath.NotPresent(`$.user.passwordHash`)).
		End()
}

func TestRegisterThenMe(t *testing.T) {
	api := newTestAPI(t)

	rec, body := api.do(t, http.MethodPost, "/api/auth/register", `{"email":"a@b.co","password":"Passw0rd!"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]any)

	rec, me := api.do(t, http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	meUser := me["user"].(map[string]any)
	assert.Equal(t, user["id"], meUser["id"])
	assert.Equal(t, "a@b.co", meUser["email"])
	assert.Nil(t, meUser["name"])
	assert.Equal(t, user["createdAt"], meUser["createdAt"])
	assert.NotContains(t, meUser, "password")
}

func TestRegister_Duplicate(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := api.do(t, http.MethodPost, "/api/auth/register", `{"email":"a@b.co","password":"Passw0rd!"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	apitest.New().
		Handler(api.handler).
		Post("/api/auth/register").
		JSON(`{"email":"a@b.co","password":"Another1Pass"}`).
		Expect(t).
		Status(http.StatusConflict).
		Assert(jsonpath.Equal(`$.error.message`, "User with this email already exists")).
		Assert(jsonpath.NotPresent(`$.error.stack`)).
		End()
}

func TestRegister_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{name: "weak password", body: `{"email":"a@b.co","password":"password"}`, msg: "Password must contain at least one uppercase letter, Password must contain at least one number"},
		{name: "bad email", body: `{"email":"nope","password":"Passw0rd!"}`, msg: "Invalid email format"},
		{name: "missing fields", body: `{"email":"a@b.co"}`, msg: "Email and password are required"},
		{name: "empty body", body: ``, msg: "Email and password are required"},
		{name: "malformed json", body: `{"email":`, msg: "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apitest.New().
				Handler(newTestAPI(t).handler).
				Post("/api/auth/register").
				Body(tt.body).
				Header("Content-Type", "application/json").
				Expect(t).
				Status(http.StatusBadRequest).
				Assert(jsonpath.Equal(`$.error.message`, tt.msg)).
				End()
		})
	}
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := api.do(t, http.MethodPost, "/api/auth/register", `{"email":"a@b.co","password":"Passw0rd!"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	apitest.New().
		Handler(api.handler).
		Post("/api/auth/login").
		JSON(`{"email":"a@b.co","password":"Passw0rd!"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.user.email`, "a@b.co")).
		Assert(jsonpath.Present(`$.token`)).
		End()

	for _, body := range []string{
		`{"email":"a@b.co","password":"Wrong1Pass"}`,
		`{"email":"ghost@b.co","password":"Passw0rd!"}`,
	} {
		apitest.New().
			Handler(api.handler).
			Post("/api/auth/login").
			JSON(body).
			Expect(t).
			Status(http.StatusUnauthorized).
			Assert(jsonpath.Equal(`$.error.message`, "Invalid email or password")).
			End()
	}
}

func TestLogout(t *testing.T) {
	apitest.New().
		Handler(newTestAPI(t).handler).
		Post("/api/auth/logout").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.message`, "Logged out successfully")).
		End()
}

func TestMe_Unauthorized(t *testing.T) {
	api := newTestAPI(t)

	apitest.New().
		Handler(api.handler).
		Get("/api/auth/me").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal(`$.error.message`, "No token provided")).
		End()

	apitest.New().
		Handler(api.handler).
		Get("/api/auth/me").
		Header("Authorization", "Token abc").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal(`$.error.message`, "No token provided")).
		End()

	apitest.New().
		Handler(api.handler).
		Get("/api/auth/me").
		Header("Authorization", "Bearer not.a.jwt").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal(`$.error.message`, "Invalid or expired token")).
		End()
}

func TestMe_DeletedUser(t *testing.T) {
	api := newTestAPI(t)

	token, err := api.tokens.Issue("11111111-1111-4111-8111-111111111111", "gone@b.co")
	require.NoError(t, err)

	apitest.New().
		Handler(api.handler).
		Get("/api/auth/me").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal(`$.error.message`, "User not found")).
		End()
}

func TestProjects(t *testing.T) {
	api := newTestAPI(t)

	token, err := api.tokens.Issue("u-1", "a@b.co")
	require.NoError(t, err)

	tests := []struct {
		method string
		path   string
		msg    string
	}{
		{http.MethodGet, "/api/projects", "List projects endpoint - Coming soon"},
		{http.MethodPost, "/api/projects", "Create project endpoint - Coming soon"},
		{http.MethodGet, "/api/projects/p1", "Get project endpoint - Coming soon"},
		{http.MethodPatch, "/api/projects/p1", "Update project endpoint - Coming soon"},
		{http.MethodDelete, "/api/projects/p1", "Delete project endpoint - Coming soon"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			apitest.New().
				Handler(api.handler).
				Method(tt.method).
				URL(tt.path).
				Header("Authorization", "Bearer "+token).
				Expect(t).
				Status(http.StatusNotImplemented).
				Assert(jsonpath.Equal(`$.message`, tt.msg)).
				End()

			apitest.New().
				Handler(api.handler).
				Method(tt.method).
				URL(tt.path).
				Expect(t).
				Status(http.StatusUnauthorized).
				Assert(jsonpath.Equal(`$.error.message`, "No token provided")).
				End()
		})
	}
}

func TestHealthAndInfo(t *testing.T) {
	api := newTestAPI(t)

	apitest.New().
		Handler(api.handler).
		Get("/health").
		Expect(t).
		Status(http.StatusOK).
		Header("X-Content-Type-Options", "nosniff").
		Assert(jsonpath.Equal(`$.status`, "ok")).
		Assert(jsonpath.Equal(`$.environment`, "test")).
		Assert(jsonpath.Present(`$.timestamp`)).
		End()

	apitest.New().
		Handler(api.handler).
		Get("/api").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.name`, "CRTR Studio API")).
		Assert(jsonpath.Equal(`$.version`, "0.1.0")).
		Assert(jsonpath.Equal(`$.endpoints.auth`, "/api/auth")).
		Assert(jsonpath.Equal(`$.endpoints.projects`, "/api/projects")).
		Assert(jsonpath.Equal(`$.authenticated`, false)).
		End()

	token, err := api.tokens.Issue("u-1", "a@b.co")
	require.NoError(t, err)

	apitest.New().
		Handler(api.handler).
		Get("/api").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.authenticated`, true)).
		End()

	apitest.New().
		Handler(api.handler).
		Get("/api").
		Header("Authorization", "Bearer garbage").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.authenticated`, false)).
		End()
}

func TestNotFound(t *testing.T) {
	apitest.New().
		Handler(newTestAPI(t).handler).
		Get("/api/nothing-here").
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal(`$.error.message`, "Not found")).
		End()
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t)

	apitest.New().
		Handler(api.handler).
		Method(http.MethodOptions).
		URL("/api/auth/login").
		Header("Origin", testOrigin).
		Header("Access-Control-Request-Method", http.MethodPost).
		Header("Access-Control-Request-Headers", "Content-Type").
		Expect(t).
		Header("Access-Control-Allow-Origin", testOrigin).
		Header("Access-Control-Allow-Credentials", "true").
		End()

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
