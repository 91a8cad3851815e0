package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/adpilot/internal/config"
	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/logging"
)

var (
	logFileWriter   io.WriteCloser //nolint:gochecknoglobals // closed by CloseLogFile on shutdown
	logFileMu       sync.Mutex     //nolint:gochecknoglobals // Protects logFileWriter
	zerologGlobalMu sync.Mutex     //nolint:gochecknoglobals // Protects the zerolog global logger
)

// InitLogger creates the CLI logger.
//
// Levels: verbose selects debug, quiet selects warn, info otherwise.
// Console output is a human-readable writer on a terminal without NO_COLOR
// and JSON on stderr otherwise. Every entry is also written, with
// credentials redacted, to the rotating log file ~/.adpilot/logs/adpilot.log.
// When the file cannot be opened the logger continues console-only.
func InitLogger(verbose, quiet bool) zerolog.Logger {
	console := selectOutput()

	writer := io.Writer(console)
	if fileWriter, err := createLogFileWriter(); err == nil {
		setLogFile(fileWriter)
		writer = zerolog.MultiLevelWriter(console, fileWriter)
	}

	return InitLoggerWithWriter(verbose, quiet, writer)
}

// InitLoggerWithWriter creates the CLI logger on w. Tests use it directly.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).
		Level(selectLevel(verbose, quiet)).
		Hook(logging.NewSensitiveDataHook()).
		With().Timestamp().Logger()
	setGlobalLogger(logger)
	return logger
}

// setGlobalLogger points the zerolog/log package logger at the CLI logger so
// packages that log through log.Ctx fallbacks share its settings.
func setGlobalLogger(cliLogger zerolog.Logger) {
	zerologGlobalMu.Lock()
	defer zerologGlobalMu.Unlock()
	log.Logger = cliLogger
	zerolog.DefaultContextLogger = &log.Logger
}

func setLogFile(w io.WriteCloser) {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	if logFileWriter != nil {
		_ = logFileWriter.Close()
	}
	logFileWriter = w
}

// CloseLogFile closes the log file writer if one was opened.
func CloseLogFile() {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// filteringWriteCloser redacts credentials before they reach the log file.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

func (fwc *filteringWriteCloser) Write(p []byte) (int, error) {
	return fwc.filter.Write(p)
}

func (fwc *filteringWriteCloser) Close() error {
	return fwc.closer.Close()
}

func createLogFileWriter() (io.WriteCloser, error) {
	logPath, err := LogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}
	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(lj),
		closer: lj,
	}, nil
}

// LogFilePath returns the path of the CLI log file.
func LogFilePath() (string, error) {
	home, err := config.GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, constants.LogsDir, constants.CLILogFileName), nil
}
