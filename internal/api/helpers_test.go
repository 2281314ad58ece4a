package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"spendbook.com/internal/config"
	"spendbook.com/internal/infra"
	"spendbook.com/internal/service"
)

const testJWTSecret = "spendbook-test-secret-key-0123456789"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "spendbook-test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infra.AutoMigrate(db))

	cfg := &config.Config{
		Server: config.ServerConfig{AppName: "spendbook-test"},
		JWT: config.JWTConfig{
			Secret:              testJWTSecret,
			AccessTokenMinutes:  60,
			RefreshTokenMinutes: 1440,
		},
	}

	tokenSvc := service.NewTokenService(cfg.JWT, infra.NewMemoryBlacklist())
	authSvc := service.NewAuthService(db, tokenSvc)
	expenseSvc := service.NewExpenseService(db)

	app := NewServer(cfg)
	router := NewRouter(app, cfg, db, authSvc, tokenSvc, expenseSvc)
	require.NoError(t, router.RegisterRoutes())

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, bearer string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, body)
	request.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}

	response, err := app.Test(request, -1)
	require.NoError(t, err)
	return response
}

func decodeBody(t *testing.T, response *http.Response) map[string]any {
	t.Helper()
	defer response.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
	return body
}

func registerUser(t *testing.T, app *fiber.App, username, email, password string) {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username": username,
		"email":    email,
		"password": password,
	})
	defer response.Body.Close()
	require.Equal(t, http.StatusCreated, response.StatusCode)
}

func loginUser(t *testing.T, app *fiber.App, username, password string) (access, refresh string) {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, response.StatusCode)

	body := decodeBody(t, response)
	access, _ = body["access"].(string)
	refresh, _ = body["refresh"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	return access, refresh
}

// createExpense posts an expense and returns the persisted record from
// the response envelope.
func createExpense(t *testing.T, app *fiber.App, access string, payload fiber.Map) map[string]any {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/v1/expenses/expenses", access, payload)
	require.Equal(t, http.StatusCreated, response.StatusCode)

	body := decodeBody(t, response)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "create response should carry the persisted record")
	return data
}
