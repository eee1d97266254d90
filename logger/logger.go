package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

const (
	callerField = "caller"
)

func init() {
	logrus.SetReportCaller(false) // caller is resolved manually, see getCallerFn

	logrus.SetFormatter(CustomFormatter())
}

const (
	fnWidth    = 30
	levelWidth = 5
)

var (
	logBufPool = sync.Pool{
		New: func() any {
			return &bytes.Buffer{}
		},
	}
)

// Formatter that writes: time, level, caller, extra fields and message.
type CTFormatter struct {
}

func (c *CTFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var fn string
	if caller, ok := entry.Data[callerField].(string); ok {
		fn = caller
	}

	levelstr := toLevelStr(entry.Level)

	b := logBufPool.Get().(*bytes.Buffer)
	defer putLogBuf(b)

	b.WriteString(entry.Time.Format("2006-01-02 15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(levelstr)
	if len(levelstr) < levelWidth {
		b.WriteString(strings.Repeat(" ", levelWidth-len(levelstr)))
	}

	b.WriteString(" ")
	b.WriteString(fn)
	if len(fn) < fnWidth {
		b.WriteString(strings.Repeat(" ", fnWidth-len(fn)))
	}

	b.WriteString(" : ")
	b.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			if k != callerField {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteByte(' ')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(toStr(entry.Data[k]))
		}
	}
	b.WriteByte('\n')

	// the buffer goes back to the pool
	out := make([]byte, b.Len())
	copy(out, b.Bytes())
	return out, nil
}

func toStr(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

func putLogBuf(b *bytes.Buffer) {
	b.Reset()
	logBufPool.Put(b)
}

type NewRollingLogFileParam struct {
	Filename   string // filename
	MaxSize    int    // max file size in mb
	MaxAge     int    // max age in day
	MaxBackups int    // max number of files
}

// Create rolling file based logger
func BuildRollingLogFileWriter(p NewRollingLogFileParam) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   p.Filename,
		MaxSize:    p.MaxSize,    // megabytes
		MaxAge:     p.MaxAge,     // days
		MaxBackups: p.MaxBackups, // num of files
		LocalTime:  true,
		Compress:   false,
	}
}

// Write logs to the rolling file as well as stderr.
//
// The returned closer should be closed on shutdown.
func UseRollingLogFile(p NewRollingLogFileParam) io.Closer {
	w := BuildRollingLogFileWriter(p)
	logrus.SetOutput(io.MultiWriter(os.Stderr, w))
	return w
}

// Change the log output, mainly for tests.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

func toLevelStr(level logrus.Level) string {
	switch level {
	case logrus.TraceLevel:
		return "TRACE"
	case logrus.DebugLevel:
		return "DEBUG"
	case logrus.InfoLevel:
		return "INFO"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.ErrorLevel:
		return "ERROR"
	case logrus.FatalLevel:
		return "FATAL"
	case logrus.PanicLevel:
		return "PANIC"
	}
	return "UNKNOWN"
}

// Get custom formatter logrus
func CustomFormatter() logrus.Formatter {
	return &CTFormatter{}
}

// Check whether current log level is DEBUG
func IsDebugLevel() bool {
	return logrus.IsLevelEnabled(logrus.DebugLevel)
}

// Parse log level
func ParseLogLevel(logLevel string) (logrus.Level, bool) {
	logLevel = strings.ToUpper(strings.TrimSpace(logLevel))
	switch logLevel {
	case "INFO":
		return logrus.InfoLevel, true
	case "DEBUG":
		return logrus.DebugLevel, true
	case "WARN":
		return logrus.WarnLevel, true
	case "ERROR":
		return logrus.ErrorLevel, true
	case "TRACE":
		return logrus.TraceLevel, true
	case "FATAL":
		return logrus.FatalLevel, true
	case "PANIC":
		return logrus.PanicLevel, true
	}
	return logrus.InfoLevel, false
}

// Set log level, unknown levels are ignored and false is returned.
func SetLogLevel(level string) bool {
	ll, ok := ParseLogLevel(level)
	if !ok {
		return false
	}
	logrus.SetLevel(ll)
	return true
}

// Entry with extra fields, printed as sorted k=v pairs after the message.
func WithFields(fields map[string]any) *logrus.Entry {
	f := logrus.Fields{callerField: getCallerFn()}
	for k, v := range fields {
		f[k] = v
	}
	return logrus.WithFields(f)
}

func Debugf(format string, args ...interface{}) {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	logrus.WithField(callerField, getCallerFn()).Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	if !logrus.IsLevelEnabled(logrus.InfoLevel) {
		return
	}
	logrus.WithField(callerField, getCallerFn()).Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	if !logrus.IsLevelEnabled(logrus.WarnLevel) {
		return
	}
	logrus.WithField(callerField, getCallerFn()).Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	if !logrus.IsLevelEnabled(logrus.ErrorLevel) {
		return
	}
	logrus.WithField(callerField, getCallerFn()).Errorf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	logrus.WithField(callerField, getCallerFn()).Fatalf(format, args...)
}

// reduce alloc, logger calls getCallerFn very frequently.
var callerUintptrPool = sync.Pool{
	New: func() any {
		p := make([]uintptr, 4)
		return &p
	},
}

func getCallerFn() string {
	pcs := callerUintptrPool.Get().(*[]uintptr)
	defer putCallerUintptrPool(pcs)

	depth := runtime.Callers(3, *pcs)
	frames := runtime.CallersFrames((*pcs)[:depth])

	// we only need the first frame
	f, _ := frames.Next()
	return shortFnName(f.Function)
}

func putCallerUintptrPool(pcs *[]uintptr) {
	clear(*pcs)
	callerUintptrPool.Put(pcs)
}

func shortFnName(fn string) string {
	j := strings.LastIndexByte(fn, '/')
	if j < 0 {
		return fn
	}
	return fn[j+1:]
}
