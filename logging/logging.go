// Package logging creates named per-subsystem loggers, wrapping the IPFS
// logging package, which itself wraps Zap. Each subsystem's level can be
// changed at runtime without touching the others.
package logging

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ipfs/go-log/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

func init() {
	envfmt := strings.TrimSpace(strings.ToLower(os.Getenv("GOLOG_LOG_FMT")))

	// Override the primary core of the go-log package to control the output format.
	cfg := zap.NewProductionEncoderConfig()
	cfg.MessageKey = "msg"
	cfg.LevelKey = "lvl"
	cfg.TimeKey = "ts"
	cfg.NameKey = "log"
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}

	var enc zapcore.Encoder
	if !term.IsTerminal(int(os.Stderr.Fd())) || envfmt == "json" {
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	log.SetPrimaryCore(zapcore.NewCore(enc, os.Stderr, zap.NewAtomicLevelAt(zapcore.DebugLevel)))
}

// New creates a named logger with the specified level.
// If a logger with this name exists already, only the level is updated.
func New(subsystem, level string) *zap.Logger {
	l := log.Logger(subsystem).Desugar()

	if err := log.SetLogLevel(subsystem, level); err != nil {
		panic(err)
	}

	return l
}

// SetLogLevel sets the level of the named logger.
// It panics if the level is not valid.
func SetLogLevel(subsystem, level string) {
	if err := log.SetLogLevel(subsystem, level); err != nil {
		panic(fmt.Errorf("%s %s %w", subsystem, level, err))
	}
}

// SetLogLevelErr is like [SetLogLevel] but returns an error instead of panicking.
func SetLogLevelErr(subsystem, level string) error {
	return log.SetLogLevel(subsystem, level)
}

// GetLogLevel returns the current level of the named logger.
func GetLogLevel(subsystem string) zapcore.Level {
	return log.Logger(subsystem).Level()
}

// ListLogNames returns the sorted names of all registered loggers.
func ListLogNames() []string {
	logs := log.GetSubsystems()
	sort.Strings(logs)
	return logs
}
