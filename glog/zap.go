package glog

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger implements Logger on top of zap.
type zapLogger struct {
	zapLogger *zap.Logger
}

// NewLogger builds a Logger from DefaultConfig with the given Options
// applied on top.
func NewLogger(opts ...Option) (Logger, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	writers, err := buildWriters(config)
	if err != nil {
		return nil, err
	}

	var coreWriter io.Writer
	if len(writers) == 1 {
		coreWriter = writers[0]
	} else {
		coreWriter = io.MultiWriter(writers...)
	}

	zapConfig := buildZapConfig(config)
	core := zapcore.NewCore(
		buildEncoder(config),
		zapcore.AddSync(coreWriter),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.Level(config.Level)
		}),
	)

	options := append(buildOptions(zapConfig), zap.AddCallerSkip(config.CallerSkip))
	return &zapLogger{zapLogger: zap.New(core, options...)}, nil
}

func (l *zapLogger) Debugf(format string, args ...interface{}) {
	if l.zapLogger.Core().Enabled(zapcore.DebugLevel) {
		l.zapLogger.Debug(fmt.Sprintf(format, args...))
	}
}

func (l *zapLogger) Infof(format string, args ...interface{}) {
	if l.zapLogger.Core().Enabled(zapcore.InfoLevel) {
		l.zapLogger.Info(fmt.Sprintf(format, args...))
	}
}

func (l *zapLogger) Warnf(format string, args ...interface{}) {
	if l.zapLogger.Core().Enabled(zapcore.WarnLevel) {
		l.zapLogger.Warn(fmt.Sprintf(format, args...))
	}
}

func (l *zapLogger) Errorf(format string, args ...interface{}) {
	if l.zapLogger.Core().Enabled(zapcore.ErrorLevel) {
		l.zapLogger.Error(fmt.Sprintf(format, args...))
	}
}

func buildZapConfig(config *Config) zap.Config {
	zapConfig := zap.NewProductionConfig()
	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.Level = zap.NewAtomicLevelAt(zapcore.Level(config.Level))
	zapConfig.DisableCaller = config.DisableCaller
	zapConfig.DisableStacktrace = config.DisableStacktrace
	zapConfig.Encoding = string(config.Encoding)
	return zapConfig
}

func buildEncoder(config *Config) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if config.Encoding == JSONEncoding {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func buildOptions(zapConfig zap.Config) []zap.Option {
	var opts []zap.Option

	if zapConfig.Development {
		opts = append(opts, zap.Development())
	}
	if !zapConfig.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}

	stackLevel := zap.ErrorLevel
	if zapConfig.Development {
		stackLevel = zap.WarnLevel
	}
	if !zapConfig.DisableStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.Level(stackLevel)))
	}

	return opts
}
