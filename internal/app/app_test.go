package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/palette/internal/colorapi"
)

type recordingSink struct {
	success []string
	errs    []string
}

func (r *recordingSink) NotifySuccess(msg string) { r.success = append(r.success, msg) }
func (r *recordingSink) NotifyError(msg string)   { r.errs = append(r.errs, msg) }

func writeConfig(t *testing.T, apiURL string) (configPath, logDir string) {
	t.Helper()
	dir := t.TempDir()
	logDir = filepath.Join(dir, "logs")
	configPath = filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("api_url = %q\nlog_dir = %q\nrefresh_interval = \"0\"\n", apiURL, logDir)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath, logDir
}

func TestSetup_BuildsWorkingStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]colorapi.Color{{ID: "1", Code: "#fff", Name: "snow"}})
	}))
	defer srv.Close()

	configPath, logDir := writeConfig(t, srv.URL)
	sink := &recordingSink{}

	env, err := Setup(Options{
		ConfigPath: configPath,
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
		Debug:      true,
	}, sink)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), env.Config.RefreshInterval)
	assert.True(t, env.Prefs.SortByCategory)
	require.NoError(t, env.Store.Load(context.Background()))
	assert.Len(t, env.Store.State().Records, 1)
	env.Close()

	data, err := os.ReadFile(filepath.Join(logDir, "palette.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "palette started"))
}

func TestSetup_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("request_timeout = \"soon\"\n"), 0o644))

	_, err := Setup(Options{ConfigPath: path}, &recordingSink{})
	require.Error(t, err)
}

func TestSetup_UnreachableServiceIsReported(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	configPath, _ := writeConfig(t, url)
	sink := &recordingSink{}
	env, err := Setup(Options{ConfigPath: configPath, PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")}, sink)
	require.NoError(t, err)
	defer env.Close()

	require.Error(t, env.Store.Load(context.Background()))
	require.Len(t, sink.errs, 1)
	assert.Contains(t, sink.errs[0], "No response received from the server")
}
