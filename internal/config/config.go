// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for box-go. It supports a four-layer
// override chain (defaults -> config file -> environment -> CLI flags),
// with the environment layer using the same variable names the original
// .env-based deployment used (BOX_CLIENT_ID, SOURCE_DATA_DIR, ...).
package config

// Config is the top-level configuration structure parsed from a TOML file.
// One explicit struct, validated at load and passed down — operations
// never consult ambient process state themselves.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Folders     FoldersConfig     `toml:"folders"`
	Local       LocalConfig       `toml:"local"`
	Logging     LoggingConfig     `toml:"logging"`
	Network     NetworkConfig     `toml:"network"`
}

// CredentialsConfig holds the OAuth2 application credentials. Either a
// static developer token (access_token) or the refresh-token triple
// (client_id, client_secret, refresh_token) must be present before any
// API call is made; presence is checked by the client factory, not here,
// because which fields are required depends on the auth mode.
type CredentialsConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token"`
}

// FoldersConfig names the remote folders the default operations target.
// Box folder IDs are opaque strings; "0" is the account root.
type FoldersConfig struct {
	DownloadFolderID string `toml:"download_folder_id"`
	UploadFolderID   string `toml:"upload_folder_id"`
}

// LocalConfig controls the local side of transfers: where downloads
// land and which name prefix selects files for the bulk download.
type LocalConfig struct {
	SourceDataDir    string `toml:"source_data_dir"`
	FilePrefixFilter string `toml:"file_prefix_filter"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	LogLevel string `toml:"log_level"`
}

// NetworkConfig controls HTTP client behavior.
type NetworkConfig struct {
	Timeout   string `toml:"timeout"`
	UserAgent string `toml:"user_agent"`
}

// CLIOverrides holds values from CLI flags that override config file and
// environment settings. Empty string means "not specified".
type CLIOverrides struct {
	ConfigPath string // --config flag (empty = use default)
}
