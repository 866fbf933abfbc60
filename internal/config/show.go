package config

import (
	"fmt"
	"io"
)

// redacted replaces a set secret with a placeholder so the effective
// configuration can be displayed without leaking credentials.
func redacted(v string) string {
	if v == "" {
		return ""
	}

	return "(set)"
}

// Redacted returns a copy of the config with all credential values
// replaced by placeholders. Used by "config show" in both output modes.
func (c *Config) Redacted() *Config {
	out := *c
	out.Credentials.ClientSecret = redacted(c.Credentials.ClientSecret)
	out.Credentials.AccessToken = redacted(c.Credentials.AccessToken)
	out.Credentials.RefreshToken = redacted(c.Credentials.RefreshToken)

	return &out
}

// RenderEffective writes the resolved configuration as a human-readable
// annotated summary to w. This powers the "config show" command, giving
// users visibility into the effective values after all four override
// layers (defaults -> file -> env -> CLI) have been applied. Secret
// values are shown as presence markers, never verbatim.
func RenderEffective(cfg *Config, w io.Writer) error {
	ew := &errWriter{w: w}
	r := cfg.Redacted()

	ew.printf("# Effective configuration\n\n")

	renderCredentialsSection(ew, &r.Credentials)
	renderFoldersSection(ew, &r.Folders)
	renderLocalSection(ew, &r.Local)
	renderLoggingSection(ew, &r.Logging)
	renderNetworkSection(ew, &r.Network)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops, so callers can chain
// printf calls without checking each one individually.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func renderCredentialsSection(ew *errWriter, c *CredentialsConfig) {
	ew.printf("[credentials]\n")

	if c.ClientID != "" {
		ew.printf("  client_id     = %q\n", c.ClientID)
	}

	if c.ClientSecret != "" {
		ew.printf("  client_secret = %s\n", c.ClientSecret)
	}

	if c.AccessToken != "" {
		ew.printf("  access_token  = %s\n", c.AccessToken)
	}

	if c.RefreshToken != "" {
		ew.printf("  refresh_token = %s\n", c.RefreshToken)
	}

	ew.printf("\n")
}

func renderFoldersSection(ew *errWriter, f *FoldersConfig) {
	ew.printf("[folders]\n")
	ew.printf("  download_folder_id = %q\n", f.DownloadFolderID)
	ew.printf("  upload_folder_id   = %q\n", f.UploadFolderID)
	ew.printf("\n")
}

func renderLocalSection(ew *errWriter, l *LocalConfig) {
	ew.printf("[local]\n")
	ew.printf("  source_data_dir    = %q\n", l.SourceDataDir)
	ew.printf("  file_prefix_filter = %q\n", l.FilePrefixFilter)
	ew.printf("\n")
}

func renderLoggingSection(ew *errWriter, l *LoggingConfig) {
	ew.printf("[logging]\n")
	ew.printf("  log_level = %q\n", l.LogLevel)
	ew.printf("\n")
}

func renderNetworkSection(ew *errWriter, n *NetworkConfig) {
	ew.printf("[network]\n")
	ew.printf("  timeout    = %q\n", n.Timeout)

	if n.UserAgent != "" {
		ew.printf("  user_agent = %q\n", n.UserAgent)
	}
}
