package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bhutanTravelWebsite/internal/auth"
	"bhutanTravelWebsite/internal/store"
)

var testLoggerOnce sync.Once

func newTestApp(t *testing.T) *App {
	t.Helper()

	testLoggerOnce.Do(func() {
		logger, err := NewLogger("ERROR", "development")
		if err != nil {
			t.Fatalf("creating test logger: %v", err)
		}
		AppLogger = logger
	})

	contentStore, err := store.NewStore(t.TempDir())
	require.NoError(t, err)

	registry, err := NewEditorRegistry(SiteSchemas())
	require.NoError(t, err)

	config := &Config{
		JWTSecret:     []byte("test-jwt-secret-test-jwt-secret!"),
		SessionSecret: []byte("test-session-secret-session-key!"),
		SiteURL:       "http://localhost:8080",
		TokenMaxAge:   3600,
		Environment:   "development",
	}

	return &App{
		Config:       config,
		Store:        contentStore,
		SessionStore: sessions.NewCookieStore(config.SessionSecret),
		Registry:     registry,
	}
}

func authCookie(t *testing.T, app *App, role string, validity time.Duration) *http.Cookie {
	t.Helper()
	token, err := auth.GenerateToken("user-1", role, app.Config.JWTSecret, validity)
	require.NoError(t, err)
	return &http.Cookie{Name: authCookieName, Value: token}
}

func apiRequest(app *App, method, url string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	app.setupRoutes().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCollectionRequiresAuthentication(t *testing.T) {
	app := newTestApp(t)

	for _, method := range []string{"GET", "POST", "PUT", "DELETE"} {
		rec := apiRequest(app, method, "/api/collections/packages?id=x", map[string]interface{}{}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, method)
	}
}

func TestCollectionRejectsExpiredToken(t *testing.T) {
	app := newTestApp(t)
	expired := authCookie(t, app, auth.RoleAdmin, -time.Minute)

	rec := apiRequest(app, "GET", "/api/collections/packages", nil, expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["message"], "expired")
}

func TestCollectionRoleMatrix(t *testing.T) {
	app := newTestApp(t)
	editor := authCookie(t, app, auth.RoleEditor, time.Hour)
	admin := authCookie(t, app, auth.RoleAdmin, time.Hour)

	// Any authenticated role can read.
	rec := apiRequest(app, "GET", "/api/collections/packages", nil, editor)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Mutations need the admin role.
	payload := map[string]interface{}{"title": "Thimphu Explorer"}
	for _, method := range []string{"POST", "PUT", "DELETE"} {
		rec := apiRequest(app, method, "/api/collections/packages?id=x", payload, editor)
		assert.Equal(t, http.StatusForbidden, rec.Code, method)
	}

	rec = apiRequest(app, "POST", "/api/collections/packages", payload, admin)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestUsersCollectionReadIsAdminOnly(t *testing.T) {
	app := newTestApp(t)
	editor := authCookie(t, app, auth.RoleEditor, time.Hour)
	admin := authCookie(t, app, auth.RoleAdmin, time.Hour)

	_, err := app.Store.Create("users", store.Record{
		"email":        "admin@example.com",
		"role":         auth.RoleAdmin,
		"passwordHash": "hash",
		"passwordSalt": "salt",
	})
	require.NoError(t, err)

	// Editors read content collections, but account records hold credential
	// material and stay admin-only.
	rec := apiRequest(app, "GET", "/api/collections/users", nil, editor)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	rec = apiRequest(app, "GET", "/api/collections/users", nil, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCollectionInvalidName(t *testing.T) {
	app := newTestApp(t)
	admin := authCookie(t, app, auth.RoleAdmin, time.Hour)

	rec := apiRequest(app, "GET", "/api/collections/pack..ages", nil, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCollectionMethodNotAllowed(t *testing.T) {
	app := newTestApp(t)

	rec := apiRequest(app, "PATCH", "/api/collections/packages", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Header().Get("Allow"), "GET")
	assert.Contains(t, rec.Header().Get("Allow"), "DELETE")
}

func TestUpdateRequiresID(t *testing.T) {
	app := newTestApp(t)
	admin := authCookie(t, app, auth.RoleAdmin, time.Hour)

	rec := apiRequest(app, "PUT", "/api/collections/packages", map[string]interface{}{"title": "x"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUnknownID(t *testing.T) {
	app := newTestApp(t)
	admin := authCookie(t, app, auth.RoleAdmin, time.Hour)

	rec := apiRequest(app, "PUT", "/api/collections/packages?id=nope",
		map[string]interface{}{"title": "x"}, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUnknownID(t *testing.T) {
	app := newTestApp(t)
	admin := authCookie(t, app, auth.RoleAdmin, time.Hour)

	rec := apiRequest(app, "DELETE", "/api/collections/packages?id=nope", nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollectionCRUDLifecycle(t *testing.T) {
	app := newTestApp(t)
	admin := authCookie(t, app, auth.RoleAdmin, time.Hour)

	// Create assigns an id and returns the stored record.
	rec := apiRequest(app, "POST", "/api/collections/packages", map[string]interface{}{
		"title":        "Druk Path Trek",
		"slug":         "druk-path-trek",
		"durationDays": 6,
		"highlights":   []string{"Phajoding monastery", "Alpine lakes"},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeBody(t, rec)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Druk Path Trek", created["title"])

	// Read returns the raw array including the new record.
	rec = apiRequest(app, "GET", "/api/collections/packages", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0]["id"])

	// Update merges the patch and leaves unspecified fields alone.
	rec = apiRequest(app, "PUT", fmt.Sprintf("/api/collections/packages?id=%s", id),
		map[string]interface{}{"priceUSD": 1450}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeBody(t, rec)
	assert.Equal(t, "Druk Path Trek", updated["title"])
	assert.Equal(t, float64(1450), updated["priceUSD"])
	assert.Equal(t, id, updated["id"])

	// Delete removes it.
	rec = apiRequest(app, "DELETE", fmt.Sprintf("/api/collections/packages?id=%s", id), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = apiRequest(app, "GET", "/api/collections/packages", nil, admin)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Empty(t, records)
}

func TestAdminPagesRedirectWhenAnonymous(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/admin", nil)
	rec := httptest.NewRecorder()
	app.setupRoutes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
