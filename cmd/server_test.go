package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/Abraxas-365/hireform/internal/config"
	"github.com/Abraxas-365/hireform/pkg/logx"
	"github.com/Abraxas-365/hireform/recruitment/application"
	"github.com/Abraxas-365/hireform/recruitment/application/applicationinfra"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.App.Name = "hireform-test"
	cfg.Server.Port = 8080
	cfg.Server.BodyLimit = 1 << 20
	cfg.Server.CORSOrigins = "*"
	cfg.Storage.Driver = config.StorageCSV
	cfg.Storage.CSVPath = dir + "/Back_data.csv"
	cfg.Cache.Driver = config.CacheMemory
	cfg.Snapshot.Driver = config.SnapshotLocal
	cfg.Snapshot.LocalDir = dir + "/exports"

	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	require.NoError(t, c.Repository.Init(context.Background()))
	return c
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestApp_SubmitAndLookup(t *testing.T) {
	app := newApp(newTestContainer(t))

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(`{"name":"Asha","age":"29"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id := decode(t, resp)["data"].(map[string]any)["submission_id"].(string)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/submission/"+id, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 29.0, decode(t, resp)["age"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/submission/nothere", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Submission ID not found", body["error"])
	assert.Equal(t, "APPLICATION.NOT_FOUND", body["code"])
}

func TestApp_CORSAllowsAnyOrigin(t *testing.T) {
	app := newApp(newTestContainer(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://forms.example.com")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestApp_HealthAndMetrics(t *testing.T) {
	app := newApp(newTestContainer(t))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "csv", body["storage"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hireform_submissions_total")
}

func TestApp_HealthPingsRedisCache(t *testing.T) {
	c := newTestContainer(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c.LatestCache = applicationinfra.NewRedisLatestCache(client, "hireform:test:latest")
	app := newApp(c)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, true, decode(t, resp)["redis"])

	mr.Close()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, false, decode(t, resp)["redis"])
}

func TestApp_HealthWithMemoryCacheOmitsRedis(t *testing.T) {
	app := newApp(newTestContainer(t))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	_, ok := decode(t, resp)["redis"]
	assert.False(t, ok)
}

func TestApp_UnknownRoute(t *testing.T) {
	app := newApp(newTestContainer(t))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 404.0, decode(t, resp)["code"])
}

func TestGlobalErrorHandler_UnknownError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: globalErrorHandler})
	app.Get("/boom", func(*fiber.Ctx) error { return errors.New("boom") })
	app.Get("/store", func(*fiber.Ctx) error { return application.ErrStoreUnavailable() })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", decode(t, resp)["code"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/store", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "APPLICATION.STORE_UNAVAILABLE", decode(t, resp)["code"])
}

func TestCLI_InitExportShow(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("PORT", "")
	t.Setenv("HIREFORM_STORAGE_CSV_PATH", dir+"/Back_data.csv")
	t.Setenv("HIREFORM_SNAPSHOT_LOCAL_DIR", dir+"/exports")

	run := func(args ...string) (string, error) {
		root := newRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(io.Discard)
		root.SetArgs(args)
		err := root.Execute()
		return out.String(), err
	}

	_, err := run("init-store")
	require.NoError(t, err)

	out, err := run("export")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Submission ID,Name,"))

	_, err = run("show", "missing1")
	assert.Error(t, err)

	out, err = run("snapshot")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "snapshots/submissions-"))
}

func TestGlobalErrorHandler_LogsServerErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logx.SetLogger(zap.New(core))
	t.Cleanup(func() { logx.Configure("info", "console") })

	app := fiber.New(fiber.Config{ErrorHandler: globalErrorHandler})
	app.Get("/cache", func(*fiber.Ctx) error {
		return application.ErrCacheUnavailable().WithCause(errors.New("connection refused"))
	})
	app.Get("/missing", func(*fiber.Ctx) error { return application.ErrSubmissionNotFound() })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 0, logs.FilterMessage("Request failed").Len())

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/cache", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "APPLICATION.CACHE_UNAVAILABLE", decode(t, resp)["code"])

	entries := logs.FilterMessage("Request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/cache", fields["path"])
	assert.Equal(t, "APPLICATION.CACHE_UNAVAILABLE", fields["code"])
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
