package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(Options{EnvFiles: []string{}})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "http://localhost:8000", cfg.API.Endpoint)
	assert.Zero(t, cfg.API.Timeout)
	assert.Equal(t, "postgen", cfg.UI.Theme)
	assert.Equal(t, "light", cfg.UI.Variant)
	assert.Empty(t, cfg.OpenAPI.Source)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "postgen.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  address: ":9090"
api:
  endpoint: https://api.example.com
  timeout: 30s
ui:
  variant: dark
log:
  format: console
`), 0o644))

	t.Setenv("POSTGEN_LOG_LEVEL", "debug")
	t.Setenv("POSTGEN_API_ENDPOINT", "https://override.example.com")

	cfg, err := Load(Options{File: file, EnvFiles: []string{}})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "https://override.example.com", cfg.API.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "dark", cfg.UI.Variant)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("POSTGEN_UI_THEME=midnight\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("POSTGEN_UI_THEME") })

	cfg, err := Load(Options{EnvFiles: []string{envFile, filepath.Join(dir, "missing.env")}})
	require.NoError(t, err)
	assert.Equal(t, "midnight", cfg.UI.Theme)
}

func TestLoad_InvalidFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "postgen.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server: [unclosed"), 0o644))

	_, err := Load(Options{File: file, EnvFiles: []string{}})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		cfg     Config
		wantErr bool
	}{
		"valid":         {cfg: Config{API: APIConfig{Endpoint: "http://localhost:8000"}}},
		"empty":         {cfg: Config{}, wantErr: true},
		"no scheme":     {cfg: Config{API: APIConfig{Endpoint: "localhost:8000"}}, wantErr: true},
		"negative wait": {cfg: Config{API: APIConfig{Endpoint: "https://x.io", Timeout: -time.Second}}, wantErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoad_LeavesValidationToCaller(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POSTGEN_API_ENDPOINT", "ftp://example.com")

	cfg, err := Load(Options{EnvFiles: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "ftp://example.com", cfg.API.Endpoint)
	assert.Error(t, cfg.Validate())

	cfg.API.Endpoint = "http://localhost:9000"
	assert.NoError(t, cfg.Validate())
}
