package glog

// Option modifies a logger Config. Constructed loggers take a variadic list
// of Options the same way pcap/pcapng's reader and writer constructors do.
type Option func(*Config)

// WithLevel sets the minimum enabled logging level.
func WithLevel(level Level) Option {
	return func(c *Config) {
		c.Level = level
	}
}

// WithOutputPaths routes log output to the given files (in addition to
// stdout, unless WithStdout(false) is also given) with rotation.
func WithOutputPaths(paths ...string) Option {
	return func(c *Config) {
		c.FilePaths = paths
	}
}

// WithStdout toggles writing to stdout.
func WithStdout(enabled bool) Option {
	return func(c *Config) {
		c.EnableStdout = enabled
	}
}

// WithEncoding selects json or console encoding.
func WithEncoding(encoding Encoding) Option {
	return func(c *Config) {
		c.Encoding = encoding
		if encoding == ConsoleEncoding {
			c.Development = true
		}
	}
}

// WithDevelopment toggles zap's development mode (human-friendly stack
// traces, warn-level-and-up stack capture).
func WithDevelopment(isDev bool) Option {
	return func(c *Config) {
		c.Development = isDev
	}
}

// WithRotation configures file-output rotation via lumberjack.
func WithRotation(maxSize, maxAge, maxBackups int, compress, localTime bool) Option {
	return func(c *Config) {
		c.RotationConfig = &RotationConfig{
			MaxSize:    maxSize,
			MaxAge:     maxAge,
			MaxBackups: maxBackups,
			Compress:   compress,
			LocalTime:  localTime,
		}
	}
}

// WithDisableCaller omits the caller file:line from log entries.
func WithDisableCaller(disabled bool) Option {
	return func(c *Config) {
		c.DisableCaller = disabled
	}
}

// WithDisableStacktrace omits stack traces from error-and-above entries.
func WithDisableStacktrace(disabled bool) Option {
	return func(c *Config) {
		c.DisableStacktrace = disabled
	}
}
