package glog

import (
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotationConfig configures file-output rotation.
type RotationConfig struct {
	MaxSize    int // MB
	MaxAge     int // days
	MaxBackups int
	LocalTime  bool
	Compress   bool
}

// Config is the logger construction configuration.
type Config struct {
	Level             Level
	Encoding          Encoding
	EnableStdout      bool
	FilePaths         []string
	RotationConfig    *RotationConfig
	DisableCaller     bool
	DisableStacktrace bool
	Development       bool
	CallerSkip        int
}

// DefaultConfig returns the configuration used by GetLogger's lazily
// constructed singleton: console-encoded, stdout only, one caller frame
// skipped to account for the Logger interface's Debugf/Infof/... wrappers.
func DefaultConfig() *Config {
	return &Config{
		Level:        InfoLevel,
		Encoding:     ConsoleEncoding,
		EnableStdout: true,
		Development:  false,
		CallerSkip:   1,
	}
}

func buildWriters(config *Config) ([]io.Writer, error) {
	var writers []io.Writer

	if config.EnableStdout || len(config.FilePaths) == 0 {
		writers = append(writers, os.Stdout)
	}

	rotationConfig := config.RotationConfig
	if len(config.FilePaths) > 0 && rotationConfig == nil {
		rotationConfig = &RotationConfig{
			MaxSize:    100,
			MaxAge:     30,
			MaxBackups: 7,
			Compress:   true,
			LocalTime:  true,
		}
	}

	for _, path := range config.FilePaths {
		writers = append(writers, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    rotationConfig.MaxSize,
			MaxAge:     rotationConfig.MaxAge,
			MaxBackups: rotationConfig.MaxBackups,
			LocalTime:  rotationConfig.LocalTime,
			Compress:   rotationConfig.Compress,
		})
	}

	return writers, nil
}
