package server_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/Mik3y-F/nitty/internal/auth"
	"github.com/Mik3y-F/nitty/internal/config"
	"github.com/Mik3y-F/nitty/internal/server"
	"github.com/Mik3y-F/nitty/internal/store"
)

const testTimeout = 30 * time.Second

func setupServer(t *testing.T) *server.Server {
	t.Helper()
	return setupServerWith(t, func(repo store.Manager) store.Manager { return repo })
}

// setupServerWith lets a test wrap the store manager, e.g. to simulate a
// row disappearing between a handler's read and its write.
func setupServerWith(t *testing.T, wrap func(store.Manager) store.Manager) *server.Server {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.ResetModels(context.Background(), db))

	repo := wrap(store.NewManager(db))
	repo.MustValidate()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tokens := auth.NewTokenService([]byte("test-secret"), nil)
	auther := auth.NewAuthenticator(repo.Users(), tokens, time.Hour)

	cfg := &config.Config{
		Environment: "local",
		HTTPAddr:    ":0",
		SecretKey:   "test-secret",
	}

	return server.New(cfg, logger, repo, auther)
}

func doJSON(t *testing.T, srv *server.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := srv.App().Test(req, int(testTimeout.Milliseconds()))
	require.NoError(t, err)

	return res, decodeObject(t, res)
}

func doList(t *testing.T, srv *server.Server, path, token string) (*http.Response, []map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := srv.App().Test(req, int(testTimeout.Milliseconds()))
	require.NoError(t, err)

	var records []map[string]any
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &records))
	}
	return res, records
}

func decodeObject(t *testing.T, res *http.Response) map[string]any {
	t.Helper()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	if len(raw) == 0 {
		return nil
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Listing endpoints return arrays; callers use doList for those.
		return nil
	}
	return decoded
}

func signup(t *testing.T, srv *server.Server, email, password string) map[string]any {
	t.Helper()

	res, body := doJSON(t, srv, http.MethodPost, "/api/v1/signup", "", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "signup failed: %v", body)
	return body
}

func login(t *testing.T, srv *server.Server, email, password string) string {
	t.Helper()

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/login/access-token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := srv.App().Test(req, int(testTimeout.Milliseconds()))
	require.NoError(t, err)

	body := decodeObject(t, res)
	require.Equal(t, http.StatusOK, res.StatusCode, "login failed: %v", body)

	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	require.Equal(t, "bearer", body["token_type"])
	return token
}

func signupAndLogin(t *testing.T, srv *server.Server, email string) string {
	t.Helper()
	signup(t, srv, email, "strongpassword")
	return login(t, srv, email, "strongpassword")
}

// expiredToken signs a token with the test secret whose expiry is in the
// past.
func expiredToken(t *testing.T) string {
	t.Helper()

	tokens := auth.NewTokenService([]byte("test-secret"), nil)
	token, err := tokens.SignClaims(&auth.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	require.NoError(t, err)
	return token
}
