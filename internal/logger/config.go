package logger

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	DefaultLevel string            `yaml:"default_level" mapstructure:"default_level"` // default level for all modules
	Timezone     string            `yaml:"timezone" mapstructure:"timezone"`           // "Local", "UTC" or an IANA name
	Console      *ConsoleOutput    `yaml:"console" mapstructure:"console"`
	FileOutput   *FileOutput       `yaml:"file_output" mapstructure:"file_output"`
	ModuleLevels map[string]string `yaml:"module_levels" mapstructure:"module_levels"` // per-module level overrides
}

// ConsoleOutput configures human readable text output on stdout.
type ConsoleOutput struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Level   string `yaml:"level" mapstructure:"level"`
}

// FileOutput configures JSON output to a log file.
type FileOutput struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
	Level   string `yaml:"level" mapstructure:"level"`
}

const (
	DefaultLogLevel = "info"
	DefaultLogPath  = "logs/smartwaste.log"
)

// applyConfigDefaults fills in nil sections so that a sparse config still logs to the console.
func applyConfigDefaults(cfg *LoggingConfig) {
	if cfg == nil {
		return
	}
	if cfg.DefaultLevel == "" {
		cfg.DefaultLevel = DefaultLogLevel
	}
	if cfg.Console == nil {
		cfg.Console = &ConsoleOutput{Enabled: true, Level: cfg.DefaultLevel}
	}
	if cfg.FileOutput == nil {
		cfg.FileOutput = &FileOutput{Enabled: false, Path: DefaultLogPath, Level: cfg.DefaultLevel}
	}
	if cfg.FileOutput.Path == "" {
		cfg.FileOutput.Path = DefaultLogPath
	}
}
