package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taskstack/api/internal/adapters/avatar"
	"github.com/taskstack/api/internal/adapters/email"
	handler "github.com/taskstack/api/internal/adapters/handler/http"
	repo "github.com/taskstack/api/internal/adapters/repository/postgres"
	"github.com/taskstack/api/internal/core/services"
)

const strongPassword = "123!@#qweQWE"

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	require.NoError(t, repo.RunMigrations(ctx, db))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	userRepo := repo.NewUserRepository(db)
	tokenRepo := repo.NewTokenRepository(db)
	taskRepo := repo.NewTaskRepository(db)

	authSvc := services.NewAuthService(userRepo, tokenRepo, []byte("test-secret"))
	userSvc := services.NewUserService(userRepo, authSvc, &email.NopSender{Log: log}, avatar.NewProcessor(), log)
	taskSvc := services.NewTaskService(taskRepo)

	router := handler.NewHandler(
		handler.NewUserHandler(userSvc, authSvc),
		handler.NewTaskHandler(taskSvc),
		authSvc,
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// signupUser registers a fresh user through the real endpoint and returns
// the id and session token from the response.
func (app *TestApp) signupUser(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()

	body := app.doJSON(t, http.MethodPost, "/users", "", map[string]any{
		"name":     "Mike",
		"email":    email,
		"password": strongPassword,
	}, http.StatusCreated)

	user, ok := body["user"].(map[string]any)
	require.True(t, ok, "signup response must contain a user object")

	id, err := uuid.Parse(user["id"].(string))
	require.NoError(t, err)

	token, ok := body["token"].(string)
	require.True(t, ok, "signup response must contain a token")

	return id, token
}

// doJSON performs a request with an optional bearer token and decodes the
// JSON response, asserting the expected status.
func (app *TestApp) doJSON(t *testing.T, method, path, token string, payload any, wantStatus int) map[string]any {
	t.Helper()

	resp := app.do(t, method, path, token, payload)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "unexpected status, body: %s", raw)

	body := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return body
}

func (app *TestApp) do(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}
