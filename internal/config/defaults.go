package config

const (
	defaultInputDir         = "~/.local/share/weeder/extracted"
	defaultOutputDir        = "~/.local/share/weeder/weeded"
	defaultStateDir         = "~/.local/share/weeder/state"
	defaultSample           = 10.0
	defaultMinCount         = 2
	defaultWorkers          = 1
	defaultEncoding         = "utf-8"
	defaultExtension        = ".txt"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	noOwnerChange           = -1
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
		},
		Weeding: Weeding{
			Sample:   defaultSample,
			MinCount: defaultMinCount,
			Workers:  defaultWorkers,
		},
		Source: Source{
			Extensions: []string{defaultExtension},
			Encoding:   defaultEncoding,
		},
		Output: Output{
			OwnerUID: noOwnerChange,
			OwnerGID: noOwnerChange,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		History: History{
			Enabled: true,
		},
	}
}
