package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Filter: FilterConfig{
			MinTokens: 5,
			MaxDays:   80,
			Language:  "en",
		},
		Frame: FrameConfig{
			SpanBeforeDays:   2,
			SpanAfterDays:    2,
			PrecisionSeconds: 1800,
		},
		Storage: StorageConfig{
			Path:       "~/.config/memeframe",
			SQLiteFile: "memeframe.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Workers: 0,
	}
}
