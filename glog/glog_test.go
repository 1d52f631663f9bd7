package glog_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sofiworker/gocap/glog"
)

func parseJSONLog(t *testing.T, logLine string) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(logLine), &data); err != nil {
		t.Fatalf("failed to parse JSON log line %q: %v", logLine, err)
	}
	return data
}

func tempLogFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.log")
}

func readLogFile(t *testing.T, path string) string {
	t.Helper()
	time.Sleep(50 * time.Millisecond)
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return strings.TrimSpace(string(content))
}

func TestGetLoggerReturnsSingleton(t *testing.T) {
	a := glog.GetLogger()
	b := glog.GetLogger()
	if a == nil || b == nil {
		t.Fatal("GetLogger should never return nil")
	}
	if a != b {
		t.Fatal("GetLogger should return the same instance on repeated calls")
	}
}

func TestSetLogger(t *testing.T) {
	original := glog.GetLogger()
	defer glog.SetLogger(original)

	custom, err := glog.NewLogger(glog.WithEncoding(glog.JSONEncoding))
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	glog.SetLogger(custom)
	if glog.GetLogger() != custom {
		t.Fatal("SetLogger did not replace the global logger")
	}
}

func TestNewLoggerJSONEncoding(t *testing.T) {
	logPath := tempLogFile(t)
	logger, err := glog.NewLogger(
		glog.WithOutputPaths(logPath),
		glog.WithStdout(false),
		glog.WithEncoding(glog.JSONEncoding),
		glog.WithLevel(glog.DebugLevel),
	)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Infof("hello %s", "world")
	content := readLogFile(t, logPath)
	data := parseJSONLog(t, content)
	if data["msg"] != "hello world" {
		t.Errorf("unexpected log entry: %v", data)
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	logPath := tempLogFile(t)
	logger, err := glog.NewLogger(
		glog.WithOutputPaths(logPath),
		glog.WithStdout(false),
		glog.WithEncoding(glog.JSONEncoding),
		glog.WithLevel(glog.WarnLevel),
	)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Debugf("should be suppressed")
	logger.Infof("should also be suppressed")
	time.Sleep(50 * time.Millisecond)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.TrimSpace(string(content)) != "" {
		t.Errorf("expected no output below warn level, got: %s", content)
	}

	logger.Warnf("this one should appear")
	data := parseJSONLog(t, readLogFile(t, logPath))
	if data["msg"] != "this one should appear" {
		t.Errorf("unexpected log entry: %v", data)
	}
}

func TestNewLoggerDisableCaller(t *testing.T) {
	logPath := tempLogFile(t)
	logger, err := glog.NewLogger(
		glog.WithOutputPaths(logPath),
		glog.WithStdout(false),
		glog.WithEncoding(glog.JSONEncoding),
		glog.WithDisableCaller(true),
	)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Errorf("boom")
	data := parseJSONLog(t, readLogFile(t, logPath))
	if _, ok := data["caller"]; ok {
		t.Errorf("caller field should be absent: %v", data)
	}
}

func TestNewLoggerRotation(t *testing.T) {
	logPath := tempLogFile(t)
	logger, err := glog.NewLogger(
		glog.WithOutputPaths(logPath),
		glog.WithStdout(false),
		glog.WithRotation(1, 1, 1, false, false),
	)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Infof("rotated logger still writes")
	content := readLogFile(t, logPath)
	if !strings.Contains(content, "rotated logger still writes") {
		t.Errorf("expected log entry, got: %s", content)
	}
}
