package logger

import (
	"io"
	"os"
)

// Config holds the configuration for the logger
type Config struct {
	Level      LogLevel
	Format     OutputFormat
	Outputs    []io.Writer
	Subsystem  string
	FileConfig *FileConfig
	NoColor    bool
}

// DefaultConfig returns the CLI configuration: warnings and above, human
// readable, on stderr so command output on stdout stays clean.
func DefaultConfig() *Config {
	return &Config{
		Level:   WarnLevel,
		Format:  DefaultFormat,
		Outputs: []io.Writer{os.Stderr},
	}
}

// FileConfig controls the rotating log file written next to the outputs.
// Sizes are in megabytes, ages in days.
type FileConfig struct {
	Filename   string
	MaxSize    int
	MaxAge     int
	MaxBackups int
	Compress   bool
}

// DefaultFileConfig keeps a week of logs for filename in 10MB chunks.
func DefaultFileConfig(filename string) *FileConfig {
	return &FileConfig{
		Filename:   filename,
		MaxSize:    10,
		MaxAge:     7,
		MaxBackups: 3,
		Compress:   true,
	}
}
