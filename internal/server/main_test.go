package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"warbler/internal/cache"
	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestServer(t *testing.T) (*fiber.App, *Server) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	// run with the cache-aside path active, like production
	cache.SetClient(rdb)
	t.Cleanup(func() { cache.SetClient(nil) })

	cfg := &config.Config{
		Port:            "0",
		Env:             "test",
		SessionTTLHours: 1,
	}
	s, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app, s
}

// postForm submits a form-encoded POST, optionally with a session cookie.
func postForm(t *testing.T, app *fiber.App, path string, form url.Values, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, path string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// sessionCookie extracts the session cookie set on a response, or nil.
func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

// decodeBody unmarshals a JSON response body into dest.
func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, dest), "body: %s", data)
}

// readFlashes fetches the home page with the given cookie and returns the
// flash messages it delivered.
func readFlashes(t *testing.T, app *fiber.App, cookie *http.Cookie) []string {
	t.Helper()
	resp := get(t, app, "/", cookie)
	var body struct {
		Flashes []string `json:"flashes"`
	}
	decodeBody(t, resp, &body)
	return body.Flashes
}

// signupUser registers a user through the HTTP surface and returns the
// authenticated session cookie.
func signupUser(t *testing.T, app *fiber.App, username string) *http.Cookie {
	t.Helper()
	resp := postForm(t, app, "/signup", url.Values{
		"username": {username},
		"email":    {username + "@test.com"},
		"password": {"password"},
	}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie, "signup must establish a session")
	return cookie
}
