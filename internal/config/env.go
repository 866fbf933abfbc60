package config

import "os"

// Environment variable names. The credential and folder names match the
// original .env-based deployment so existing environments keep working;
// BOX_GO_CONFIG is the only box-go-specific addition.
const (
	EnvConfig           = "BOX_GO_CONFIG"
	EnvClientID         = "BOX_CLIENT_ID"
	EnvClientSecret     = "BOX_CLIENT_SECRET"
	EnvAccessToken      = "BOX_ACCESS_TOKEN"
	EnvRefreshToken     = "BOX_REFRESH_TOKEN"
	EnvDownloadFolderID = "BOX_DOWNLOAD_FOLDER_ID"
	EnvUploadFolderID   = "BOX_UPLOAD_FOLDER_ID"
	EnvSourceDataDir    = "SOURCE_DATA_DIR"
)

// EnvOverrides holds values read from environment variables.
// Empty fields mean "not set" and leave the underlying value untouched.
type EnvOverrides struct {
	ConfigPath       string
	ClientID         string
	ClientSecret     string
	AccessToken      string
	RefreshToken     string
	DownloadFolderID string
	UploadFolderID   string
	SourceDataDir    string
}

// ReadEnvOverrides reads environment variables and returns any overrides
// found. This does not modify a Config; Resolve applies the fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath:       os.Getenv(EnvConfig),
		ClientID:         os.Getenv(EnvClientID),
		ClientSecret:     os.Getenv(EnvClientSecret),
		AccessToken:      os.Getenv(EnvAccessToken),
		RefreshToken:     os.Getenv(EnvRefreshToken),
		DownloadFolderID: os.Getenv(EnvDownloadFolderID),
		UploadFolderID:   os.Getenv(EnvUploadFolderID),
		SourceDataDir:    os.Getenv(EnvSourceDataDir),
	}
}

// apply overlays the non-empty override fields onto cfg.
func (e EnvOverrides) apply(cfg *Config) {
	if e.ClientID != "" {
		cfg.Credentials.ClientID = e.ClientID
	}

	if e.ClientSecret != "" {
		cfg.Credentials.ClientSecret = e.ClientSecret
	}

	if e.AccessToken != "" {
		cfg.Credentials.AccessToken = e.AccessToken
	}

	if e.RefreshToken != "" {
		cfg.Credentials.RefreshToken = e.RefreshToken
	}

	if e.DownloadFolderID != "" {
		cfg.Folders.DownloadFolderID = e.DownloadFolderID
	}

	if e.UploadFolderID != "" {
		cfg.Folders.UploadFolderID = e.UploadFolderID
	}

	if e.SourceDataDir != "" {
		cfg.Local.SourceDataDir = e.SourceDataDir
	}
}
