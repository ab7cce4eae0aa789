package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"tg-appeals/internal/config"
)

// log levels, lowest to highest
const (
	levelDebug = iota
	levelInfo
	levelWarning
	levelError
	levelFatal
)

var (
	out      = log.New(os.Stdout, "", log.Ldate|log.Ltime|log.Lshortfile)
	minLevel = levelInfo
)

// createLogFilePath generates a log file path with the current date
func createLogFilePath(logDir, prefix string) string {
	currentDate := time.Now().Format("2006-01-02")
	return filepath.Join(logDir, fmt.Sprintf("%s-%s.log", prefix, currentDate))
}

// createRotatingLogger creates a lumberjack rotating logger
func createRotatingLogger(logFilePath string, cfg *config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    cfg.Logger.Rotation.MaxSize,
		MaxBackups: cfg.Logger.Rotation.MaxBackups,
		MaxAge:     cfg.Logger.Rotation.MaxAge,
		Compress:   cfg.Logger.Rotation.Compress,
	}
}

// Setup configures logging to output to both stdout and a rotating log file
func Setup(cfg *config.Config) error {
	logDir := cfg.Logger.Directory

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFilePath := createLogFilePath(logDir, "tg-appeals")
	rotatingLogger := createRotatingLogger(logFilePath, cfg)
	multiWriter := io.MultiWriter(os.Stdout, rotatingLogger)

	out = log.New(multiWriter, "", log.Ldate|log.Ltime|log.Lshortfile)
	minLevel = parseLevel(cfg.Logger.Level)

	Infof("Logging initialized: writing to %s", logFilePath)
	return nil
}

func parseLevel(level string) int {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return levelDebug
	case "INFO":
		return levelInfo
	case "WARNING", "WARN":
		return levelWarning
	case "ERROR":
		return levelError
	case "FATAL":
		return levelFatal
	}
	return levelInfo
}

// logf writes a formatted message if level passes the configured threshold.
// Output depth 3 attributes the log line to the caller of the exported
// wrapper, not to this file.
func logf(level int, tag, format string, args ...interface{}) {
	if level < minLevel {
		return
	}
	out.Output(3, tag+" "+fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...interface{}) {
	logf(levelDebug, "[DEBUG]", format, args...)
}

func Infof(format string, args ...interface{}) {
	logf(levelInfo, "[INFO]", format, args...)
}

func Warningf(format string, args ...interface{}) {
	logf(levelWarning, "[WARNING]", format, args...)
}

func Errorf(format string, args ...interface{}) {
	logf(levelError, "[ERROR]", format, args...)
}

// Error logs already-formatted text at error level.
func Error(v ...interface{}) {
	logf(levelError, "[ERROR]", "%s", fmt.Sprint(v...))
}

// Fatalf logs at fatal level and exits the process.
func Fatalf(format string, args ...interface{}) {
	logf(levelFatal, "[FATAL]", format, args...)
	os.Exit(1)
}
