// Package logger wires zap behind a logr.Logger for the streamview CLI.
// Log entries are JSON on stderr so they never mix with rendered tables on
// stdout.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/oakwood-commons/streamview/pkg/settings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerContextKey struct{}

const (
	RootCommandKey = "root_command"
	SubCommandKey  = "sub_command"
	CommitKey      = "commit"
	VersionKey     = "version"
	BuildTimeKey   = "build_time"
	GoVersionKey   = "go_version"
	TimeStampKey   = "timestamp"
	MessageKey     = "message"
	InputKey       = "input"
	RecordKey      = "record"
	RecordTypeKey  = "record_type"
	OutputKey      = "output"
	ErrorKey       = "error"
)

var (
	once sync.Once

	// globalZapLogger is kept for Sync.
	globalZapLogger *zap.Logger

	globalLogrLogger *logr.Logger

	defaultNoopLogger logr.Logger = logr.Discard()
)

// New builds a zap logger that writes JSON entries at or above logLevel to w.
// Build metadata is attached to every entry.
func New(w io.Writer, logLevel int8) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = TimeStampKey
	encoderCfg.MessageKey = MessageKey

	goVersion := "unknown"
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		goVersion = buildInfo.GoVersion
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(zapcore.Level(logLevel)),
	).With(
		[]zapcore.Field{
			zap.String(CommitKey, settings.VersionInformation.Commit),
			zap.String(VersionKey, settings.VersionInformation.BuildVersion),
			zap.String(BuildTimeKey, settings.VersionInformation.BuildTime),
			zap.String(GoVersionKey, goVersion),
		},
	)

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.WithFatalHook(zapcore.WriteThenPanic),
	)
}

// Get initializes the global loggers on stderr. Only the first call has an
// effect; later calls return the same instance regardless of logLevel.
// Negative levels enable debug output, e.g. -1 for the --debug flag.
func Get(logLevel int8) *logr.Logger {
	once.Do(func() {
		globalZapLogger = New(os.Stderr, logLevel)
		gl := zapr.NewLogger(globalZapLogger)
		globalLogrLogger = &gl
	})
	if globalLogrLogger == nil {
		return &defaultNoopLogger
	}
	return globalLogrLogger
}

// WithLogger returns a context carrying log. The original context is returned
// when it already holds the same logger.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		if lp == log {
			return ctx
		}
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the logger stored in ctx, then the global logger, then
// a no-op logger.
func FromContext(ctx context.Context) *logr.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		return log
	} else if log := globalLogrLogger; log != nil {
		return log
	}
	return &defaultNoopLogger
}

// Sync flushes buffered log entries. Call it before exit.
func Sync() {
	if globalZapLogger != nil {
		if err := globalZapLogger.Sync(); err != nil {
			if isIgnorableSyncError(err) {
				return
			}
			fmt.Fprintf(os.Stderr, "WARNING: failed to sync zap logger: %v\n", err)
		}
	}
}

// isIgnorableSyncError reports errors returned when syncing pipes and TTYs.
// Windows consoles return ERROR_INVALID_HANDLE inside *os.PathError, which is
// matched by message.
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}

// GetGlobalLogger returns the global logger, or a no-op logger before Get.
func GetGlobalLogger() *logr.Logger {
	if globalLogrLogger != nil {
		return globalLogrLogger
	}
	return &defaultNoopLogger
}

// WithValues returns a new logger carrying keysAndValues.
func WithValues(lgr *logr.Logger, keysAndValues ...any) *logr.Logger {
	nlgr := lgr.WithValues(keysAndValues...)
	return &nlgr
}

// ForRecord returns a logger tagged with the 1-based position of a record in
// the input stream.
func ForRecord(lgr *logr.Logger, index int) *logr.Logger {
	return WithValues(lgr, RecordKey, index)
}
