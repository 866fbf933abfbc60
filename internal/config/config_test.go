package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "~/Box", cfg.Local.SourceDataDir)
	assert.Equal(t, "info", cfg.Logging.LogLevel)
	assert.Equal(t, "30s", cfg.Network.Timeout)
	assert.Empty(t, cfg.Credentials.ClientID)
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
[credentials]
client_id = "cid"
client_secret = "csec"
refresh_token = "rt"

[folders]
download_folder_id = "111"
upload_folder_id = "222"

[local]
source_data_dir = "/srv/data"
file_prefix_filter = "cleaned_"

[logging]
log_level = "debug"

[network]
timeout = "45s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cid", cfg.Credentials.ClientID)
	assert.Equal(t, "csec", cfg.Credentials.ClientSecret)
	assert.Equal(t, "rt", cfg.Credentials.RefreshToken)
	assert.Equal(t, "111", cfg.Folders.DownloadFolderID)
	assert.Equal(t, "222", cfg.Folders.UploadFolderID)
	assert.Equal(t, "/srv/data", cfg.Local.SourceDataDir)
	assert.Equal(t, "cleaned_", cfg.Local.FilePrefixFilter)
	assert.Equal(t, "debug", cfg.Logging.LogLevel)
	assert.Equal(t, "45s", cfg.Network.Timeout)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[folders]
download_folder_id = "111"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "111", cfg.Folders.DownloadFolderID)
	assert.Equal(t, "~/Box", cfg.Local.SourceDataDir)
	assert.Equal(t, "info", cfg.Logging.LogLevel)
}

func TestLoad_UnknownKeySuggestsClosest(t *testing.T) {
	path := writeConfig(t, `
[folders]
download_folder_idd = "111"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download_folder_idd")
	assert.Contains(t, err.Error(), "download_folder_id")
}

func TestLoad_UnknownSection(t *testing.T) {
	path := writeConfig(t, `
[credentialz]
client_id = "cid"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentialz")
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfig(t, `[credentials`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestResolve_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[credentials]
client_id = "from-file"

[folders]
download_folder_id = "file-folder"
`)

	env := EnvOverrides{
		ClientID:         "from-env",
		ClientSecret:     "sec-env",
		DownloadFolderID: "env-folder",
		SourceDataDir:    "/env/data",
	}

	cfg, err := Resolve(env, CLIOverrides{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Credentials.ClientID)
	assert.Equal(t, "sec-env", cfg.Credentials.ClientSecret)
	assert.Equal(t, "env-folder", cfg.Folders.DownloadFolderID)
	assert.Equal(t, "/env/data", cfg.Local.SourceDataDir)
}

func TestResolve_CLIConfigPathWinsOverEnv(t *testing.T) {
	envPath := writeConfig(t, `
[folders]
download_folder_id = "env-file"
`)
	cliPath := writeConfig(t, `
[folders]
download_folder_id = "cli-file"
`)

	cfg, err := Resolve(EnvOverrides{ConfigPath: envPath}, CLIOverrides{ConfigPath: cliPath})
	require.NoError(t, err)
	assert.Equal(t, "cli-file", cfg.Folders.DownloadFolderID)
}

func TestResolve_ExpandsTildeInSourceDataDir(t *testing.T) {
	path := writeConfig(t, `
[local]
source_data_dir = "~/downloads"
`)

	cfg, err := Resolve(EnvOverrides{}, CLIOverrides{ConfigPath: path})
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "downloads"), cfg.Local.SourceDataDir)
}

func TestReadEnvOverrides(t *testing.T) {
	t.Setenv(EnvClientID, "cid")
	t.Setenv(EnvAccessToken, "at")
	t.Setenv(EnvSourceDataDir, "/data")

	env := ReadEnvOverrides()

	assert.Equal(t, "cid", env.ClientID)
	assert.Equal(t, "at", env.AccessToken)
	assert.Equal(t, "/data", env.SourceDataDir)
	assert.Empty(t, env.RefreshToken)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"bad log level", func(c *Config) { c.Logging.LogLevel = "trace" }, "log_level"},
		{"unparseable timeout", func(c *Config) { c.Network.Timeout = "fast" }, "timeout"},
		{"timeout too short", func(c *Config) { c.Network.Timeout = "100ms" }, "at least"},
		{"empty fields allowed", func(c *Config) { c.Logging.LogLevel = ""; c.Network.Timeout = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.LogLevel = "trace"
	cfg.Network.Timeout = "fast"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "timeout")
}

func TestNetworkTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 30*time.Second, cfg.NetworkTimeout())

	cfg.Network.Timeout = "2m"
	assert.Equal(t, 2*time.Minute, cfg.NetworkTimeout())

	cfg.Network.Timeout = ""
	assert.Equal(t, 30*time.Second, cfg.NetworkTimeout())
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandTilde("~"))
	assert.Equal(t, filepath.Join(home, "Box"), ExpandTilde("~/Box"))
	assert.Equal(t, "/abs/path", ExpandTilde("/abs/path"))
	assert.Equal(t, "relative", ExpandTilde("relative"))
	assert.Equal(t, "~user/x", ExpandTilde("~user/x"))
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	if dir := DefaultConfigDir(); dir != "" {
		assert.True(t, filepath.IsAbs(dir))
		assert.Contains(t, DefaultConfigPath(), "config.toml")
	}

	if dir := DefaultDataDir(); dir != "" {
		assert.Contains(t, TokenPath(), "token.json")
	}
}
