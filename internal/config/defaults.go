package config

// Default values for configuration options. Layer 0 of the override
// chain — safe starting points that work without any config file.
const (
	defaultSourceDataDir = "~/Box"
	defaultLogLevel      = "info"
	defaultTimeout       = "30s"
)

// DefaultConfig returns a Config populated with all default values.
// This is used both as the starting point for TOML decoding (so unset
// fields retain defaults) and as the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Local: LocalConfig{
			SourceDataDir: defaultSourceDataDir,
		},
		Logging: LoggingConfig{
			LogLevel: defaultLogLevel,
		},
		Network: NetworkConfig{
			Timeout: defaultTimeout,
		},
	}
}
