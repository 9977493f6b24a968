package bootstrap_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infrajwt "github.com/jonesrussell/trendboard/infrastructure/jwt"
	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/internal/bootstrap"
	"github.com/jonesrussell/trendboard/internal/config"
)

const oneArticle = `[{"source_file": "ppai.csv", "data": [
  {"Heading": "Eco swag", "Content": "Recycled totes.", "Date": "2025-03-01", "Source": "PPAI"}
]}]`

const twoArticles = `[{"source_file": "ppai.csv", "data": [
  {"Heading": "Eco swag", "Content": "Recycled totes.", "Date": "2025-03-01", "Source": "PPAI"},
  {"Heading": "Tech kits", "Content": "Wireless chargers.", "Date": "2025-03-02", "Source": "PPAI"}
]}]`

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	for _, k := range []string{"DOCUMENTS_SOURCE", "DATA_PATH", "CATEGORIES_SOURCE", "REDIS_ENABLED", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, t.TempDir(), "documents:\n  source: ftp\n")

	_, err := bootstrap.LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "documents.source")
}

func TestCreateLogger(t *testing.T) {
	isolateEnv(t)
	cfg, err := bootstrap.LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	logger, err := bootstrap.CreateLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewComponents_FileSourceWithWatch(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(oneArticle), 0o600))

	cfg, err := bootstrap.LoadConfig(writeConfig(t, dir, `
documents:
  path: `+dataPath+`
  watch: true
  debounce: 20ms
categories:
  set: themes
`))
	require.NoError(t, err)
	require.Equal(t, config.SourceFile, cfg.Documents.Source)

	ctx := context.Background()
	comps, err := bootstrap.NewComponents(ctx, cfg, infralogger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = comps.Close() })

	require.Len(t, comps.Dashboard.Documents(), 1)
	assert.Len(t, comps.Dashboard.Categories(), 6)
	assert.Nil(t, comps.Storage)
	assert.Nil(t, comps.Database)

	w, err := comps.StartWatcher(ctx)
	require.NoError(t, err)
	require.NotNil(t, w)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(dataPath, []byte(twoArticles), 0o600))
	assert.Eventually(t, func() bool {
		return len(comps.Dashboard.Documents()) == 2
	}, 3*time.Second, 20*time.Millisecond)
}

func TestNewComponents_MissingDataFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	cfg, err := bootstrap.LoadConfig(writeConfig(t, dir, "documents:\n  path: "+filepath.Join(dir, "nope.json")+"\n"))
	require.NoError(t, err)

	_, err = bootstrap.NewComponents(context.Background(), cfg, infralogger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load documents")
}

func TestNewServer_RoutesAndHealth(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(oneArticle), 0o600))

	cfg, err := bootstrap.LoadConfig(writeConfig(t, dir, "documents:\n  path: "+dataPath+"\n"))
	require.NoError(t, err)

	comps, err := bootstrap.NewComponents(context.Background(), cfg, infralogger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = comps.Close() })

	watcher, err := comps.StartWatcher(context.Background())
	require.NoError(t, err)
	assert.Nil(t, watcher, "watching is off by default")

	sched, err := comps.StartScheduler(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sched, "no reload schedule by default")

	router := bootstrap.NewServer(comps).Router()
	for _, target := range []string{"/health", "/api/v1/articles", "/api/v1/categories", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, http.NoBody))
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}

func TestStartScheduler_ReloadsOnSchedule(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(oneArticle), 0o600))

	cfg, err := bootstrap.LoadConfig(writeConfig(t, dir, "documents:\n  path: "+dataPath+"\n  reload_schedule: \"@every 1s\"\n"))
	require.NoError(t, err)

	comps, err := bootstrap.NewComponents(context.Background(), cfg, infralogger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = comps.Close() })

	sched, err := comps.StartScheduler(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sched)

	require.NoError(t, os.WriteFile(dataPath, []byte(twoArticles), 0o600))
	assert.Eventually(t, func() bool {
		return len(comps.Dashboard.Documents()) == 2
	}, 5*time.Second, 50*time.Millisecond)
}

func TestNewServer_ReloadRequiresToken(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "")
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(oneArticle), 0o600))

	cfg, err := bootstrap.LoadConfig(writeConfig(t, dir, "documents:\n  path: "+dataPath+"\nauth:\n  jwt_secret: s3cret\n"))
	require.NoError(t, err)

	comps, err := bootstrap.NewComponents(context.Background(), cfg, infralogger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = comps.Close() })
	router := bootstrap.NewServer(comps).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reload", http.NoBody))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := infrajwt.NewToken("s3cret", "ops", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reload", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/articles", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code, "read routes stay open")
}
