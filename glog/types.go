package glog

// Level is a logging severity, numerically compatible with zapcore.Level.
type Level int8

const (
	DebugLevel Level = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Encoding selects how log entries are serialized.
type Encoding string

const (
	JSONEncoding    Encoding = "json"
	ConsoleEncoding Encoding = "console"
)
