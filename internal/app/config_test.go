package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so no stray .env or .signa.yaml is read.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := chdir(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api", cfg.APIURL)
	assert.Equal(t, filepath.Join(dir, ".signa"), cfg.Home)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 2*time.Second, cfg.RedirectDelay)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Output.Colors)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_Precedence(t *testing.T) {
	dir := chdir(t)

	file := filepath.Join(dir, "signa.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
api_url: http://file.example/api/
timeout: 5s
logging:
  level: info
`), 0o600))
	t.Setenv("SIGNA_LOGGING_LEVEL", "debug")
	t.Setenv("SIGNA_TIMEOUT", "7s")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("api-url", "", "")
	fs.String("home", "", "")
	fs.Duration("timeout", 0, "")
	require.NoError(t, fs.Parse([]string{"--api-url", "https://flag.example/api"}))

	cfg, err := Load(file, fs)
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example/api", cfg.APIURL)
	assert.Equal(t, 7*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, file, cfg.ConfigFile)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SIGNA_API_URL=http://dotenv.example/api\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SIGNA_API_URL") })

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv.example/api", cfg.APIURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad url", map[string]string{"SIGNA_API_URL": "ftp://x"}},
		{"bad level", map[string]string{"SIGNA_LOGGING_LEVEL": "loud"}},
		{"bad format", map[string]string{"SIGNA_LOGGING_FORMAT": "xml"}},
		{"zero timeout", map[string]string{"SIGNA_TIMEOUT": "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("", nil)
			assert.Error(t, err)
		})
	}
}

func TestExpandHome(t *testing.T) {
	dir := chdir(t)
	assert.Equal(t, filepath.Join(dir, "x"), expandHome("~/x"))
	assert.Equal(t, "/abs", expandHome("/abs"))
}
