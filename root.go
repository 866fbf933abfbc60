package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/box-go/internal/box"
	"github.com/tonimelisma/box-go/internal/config"
	"github.com/tonimelisma/box-go/internal/transfer"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagJSON       bool
	flagVerbose    bool
	flagQuiet      bool
)

// resolvedCfg holds the effective configuration loaded by PersistentPreRunE.
// It is available to all subcommands after the root pre-run phase completes.
var resolvedCfg *config.Config

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main(). Running the bare root
// command performs one download pass using the configured defaults.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "box-go",
		Short:   "Box folder download and upload client",
		Long:    "A small Box client that bulk-downloads a folder and uploads files into one.",
		Version: version,
		// Silence Cobra's default error/usage printing — we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		// PersistentPreRunE loads configuration before every command so
		// subcommands can rely on resolvedCfg being set.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
		// Bare invocation: one download pass with configured defaults.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return doPull(cmd.Context(),
				resolvedCfg.Folders.DownloadFolderID,
				resolvedCfg.Local.SourceDataDir,
				resolvedCfg.Local.FilePrefixFilter,
			)
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	// Register subcommands.
	cmd.AddCommand(newPullCmd())
	cmd.AddCommand(newPushCmd())
	cmd.AddCommand(newLsCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// loadConfig resolves the effective configuration from the override chain
// and stores the result in resolvedCfg for use by subcommands.
func loadConfig() error {
	cli := config.CLIOverrides{
		ConfigPath: flagConfigPath,
	}

	env := config.ReadEnvOverrides()

	resolved, err := config.Resolve(env, cli)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	resolvedCfg = resolved

	return nil
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Config-file log level provides the baseline; --verbose and
// --quiet override it because CLI flags always win.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo

	// Config-based log level (lower priority than CLI flags).
	if resolvedCfg != nil {
		switch resolvedCfg.Logging.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	// CLI flags override config (highest priority).
	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newSession builds the authenticated API session from the resolved
// configuration. Fails closed: incomplete credentials or a failed
// refresh handshake yield an error before any operation runs.
// Metadata calls get network.timeout; content transfers get a separate
// client without one, since http.Client.Timeout would cut off any
// download or upload outlasting it.
func newSession(ctx context.Context) (*box.Session, *slog.Logger, error) {
	logger := buildLogger()

	creds := box.Credentials{
		ClientID:     resolvedCfg.Credentials.ClientID,
		ClientSecret: resolvedCfg.Credentials.ClientSecret,
		AccessToken:  resolvedCfg.Credentials.AccessToken,
		RefreshToken: resolvedCfg.Credentials.RefreshToken,
	}

	ts, err := creds.TokenSource(ctx, config.TokenPath(), logger)
	if err != nil {
		return nil, nil, err
	}

	ua := resolvedCfg.Network.UserAgent
	metaHTTP := &http.Client{Timeout: resolvedCfg.NetworkTimeout()}
	transferHTTP := &http.Client{}

	meta := box.NewClient(box.DefaultBaseURL, box.DefaultUploadURL, metaHTTP, ts, logger, ua)
	tc := box.NewClient(box.DefaultBaseURL, box.DefaultUploadURL, transferHTTP, ts, logger, ua)

	return box.NewSession(meta, tc), logger, nil
}

// newTransferrer wires a Transferrer over the API session.
func newTransferrer(ctx context.Context) (*transfer.Transferrer, *slog.Logger, error) {
	session, logger, err := newSession(ctx)
	if err != nil {
		return nil, nil, err
	}

	return transfer.New(session, logger), logger, nil
}

// hintFor returns a targeted one-line hint for a failure, or "".
// transfer's tagged errors unwrap to the box sentinels, so errors.Is
// covers both the factory and operation layers.
func hintFor(err error) string {
	switch {
	case errors.Is(err, box.ErrMissingCredentials):
		return "Set BOX_ACCESS_TOKEN for static-token mode, or BOX_CLIENT_ID, BOX_CLIENT_SECRET and BOX_REFRESH_TOKEN for the refresh flow."
	case errors.Is(err, box.ErrNotFound):
		return "Ensure the folder ID is correct and the Box application has access to it."
	case errors.Is(err, box.ErrUnauthorized):
		return "Authentication failed. Check your Box credentials and application authorization."
	case errors.Is(err, box.ErrForbidden):
		return "Permission denied. Check the Box application's permissions for this folder."
	default:
		return ""
	}
}

// exitOnError prints a user-friendly error message (plus a targeted hint
// when one exists) to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	if hint := hintFor(err); hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}

	os.Exit(1)
}
