// Package diag provides the diagnostic output stream for the StricklySoft
// systems layer: a [log/slog] handler that writes fixed bracketed lines
//
//	[2026-10-19 14:03:22.117][ERROR] platform: open failed path=/etc/shadow
//
// and routes each record by severity. Records at or above the configured
// threshold go to the error stream; records below it go to the output
// stream.
//
// Library code logs through a *slog.Logger it is handed, falling back to
// [Default]. Applications that want JSON or another format can install any
// slog handler with [SetDefault]; the bracketed layout is a presentation
// detail, not a contract.
package diag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Severity orders diagnostic records. Each severity maps onto a
// [slog.Level] so that the standard slog API can be used directly.
type Severity int

const (
	// SeverityTrace is for per-call instrumentation output.
	SeverityTrace Severity = iota + 1
	// SeverityDebug is for developer diagnostics.
	SeverityDebug
	// SeverityInfo is for normal operational messages.
	SeverityInfo
	// SeverityWarn is for recoverable anomalies.
	SeverityWarn
	// SeverityError is for failed operations.
	SeverityError
	// SeverityFatal precedes a process abort.
	SeverityFatal
)

// Level constants for the severities slog does not define.
const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

var severityNames = [...]string{
	0:             "",
	SeverityTrace: "TRACE",
	SeverityDebug: "DEBUG",
	SeverityInfo:  "INFO",
	SeverityWarn:  "WARN",
	SeverityError: "ERROR",
	SeverityFatal: "FATAL",
}

var severityLevels = [...]slog.Level{
	0:             slog.LevelError,
	SeverityTrace: LevelTrace,
	SeverityDebug: slog.LevelDebug,
	SeverityInfo:  slog.LevelInfo,
	SeverityWarn:  slog.LevelWarn,
	SeverityError: slog.LevelError,
	SeverityFatal: LevelFatal,
}

// String returns the upper-case severity name.
func (s Severity) String() string {
	if s < SeverityTrace || s > SeverityFatal {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// Level returns the slog level for s. Out-of-range severities map to
// [slog.LevelError].
func (s Severity) Level() slog.Level {
	if s < SeverityTrace || s > SeverityFatal {
		return slog.LevelError
	}
	return severityLevels[s]
}

// SeverityOf returns the highest severity whose level does not exceed l.
func SeverityOf(l slog.Level) Severity {
	for s := SeverityFatal; s > SeverityTrace; s-- {
		if l >= severityLevels[s] {
			return s
		}
	}
	return SeverityTrace
}

// ParseSeverity parses a severity name, case-insensitively. It reports
// false for unknown names.
func ParseSeverity(name string) (Severity, bool) {
	for s, n := range severityNames {
		if n != "" && strings.EqualFold(n, name) {
			return Severity(s), true
		}
	}
	return SeverityInfo, false
}

// MarshalText implements encoding.TextMarshaler with the lower-case name.
func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityTrace || s > SeverityFatal {
		return nil, fmt.Errorf("diag: invalid severity %d", int(s))
	}
	return []byte(strings.ToLower(severityNames[s])), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting any
// case of a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	v, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("diag: unknown severity %q", text)
	}
	*s = v
	return nil
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *slog.Logger
	defaultOnce   sync.Once
)

// Default returns the process diagnostic logger. Unless replaced by
// [SetDefault], it writes to os.Stdout/os.Stderr with threshold
// [SeverityWarn] and minimum level [SeverityInfo].
func Default() *slog.Logger {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = New(HandlerOptions{})
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process diagnostic logger and returns a function
// restoring the previous one.
func SetDefault(l *slog.Logger) (restore func()) {
	prev := Default()
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
	return func() {
		defaultMu.Lock()
		defaultLogger = prev
		defaultMu.Unlock()
	}
}

// Or returns l when non-nil and [Default] otherwise.
func Or(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return Default()
}

// Log emits msg at severity s on logger l (or the default logger).
func Log(ctx context.Context, l *slog.Logger, s Severity, msg string, args ...any) {
	Or(l).Log(ctx, s.Level(), msg, args...)
}

// New builds a logger backed by a [Handler].
func New(opts HandlerOptions) *slog.Logger {
	return slog.New(NewHandler(opts))
}

// HandlerOptions configures a [Handler]. Zero fields take defaults.
type HandlerOptions struct {
	// Threshold is the lowest severity written to Stderr. Defaults to
	// [SeverityWarn].
	Threshold Severity

	// Level is the lowest severity written at all. Defaults to
	// [SeverityInfo].
	Level Severity

	// Stdout receives records below Threshold. Defaults to os.Stdout.
	Stdout io.Writer

	// Stderr receives records at or above Threshold. Defaults to os.Stderr.
	Stderr io.Writer

	// Clock, when set, supplies every record timestamp in place of the
	// record's own time.
	Clock func() time.Time
}

// timeLayout is the bracketed timestamp layout.
const timeLayout = "2006-01-02 15:04:05.000"

// Handler is a [slog.Handler] producing "[timestamp][SEVERITY] message"
// lines with trailing key=value attributes.
type Handler struct {
	opts   HandlerOptions
	mu     *sync.Mutex
	prefix string // preformatted attrs from WithAttrs
	group  string
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler creates a Handler, filling unset options with defaults.
func NewHandler(opts HandlerOptions) *Handler {
	if opts.Threshold == 0 {
		opts.Threshold = SeverityWarn
	}
	if opts.Level == 0 {
		opts.Level = SeverityInfo
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Handler{opts: opts, mu: &sync.Mutex{}}
}

// Enabled reports whether level reaches the handler's minimum level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle formats and writes r.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	switch {
	case h.opts.Clock != nil:
		ts = h.opts.Clock()
	case ts.IsZero():
		ts = time.Now()
	}
	sev := SeverityOf(r.Level)

	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(ts.Format(timeLayout))
	sb.WriteString("][")
	sb.WriteString(sev.String())
	sb.WriteString("] ")
	sb.WriteString(r.Message)
	sb.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.group, a)
		return true
	})
	sb.WriteByte('\n')

	w := h.opts.Stdout
	if sev >= h.opts.Threshold {
		w = h.opts.Stderr
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(w, sb.String())
	return err
}

// WithAttrs returns a handler that appends attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.prefix)
	for _, a := range attrs {
		writeAttr(&sb, h.group, a)
	}
	clone := *h
	clone.prefix = sb.String()
	return &clone
}

// WithGroup returns a handler that qualifies subsequent attribute keys
// with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func writeAttr(sb *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(sb, key, ga)
		}
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(key)
	sb.WriteByte('=')
	v := a.Value.String()
	if strings.ContainsAny(v, " \t\n\"=") {
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(v, `"`, `\"`))
		sb.WriteByte('"')
		return
	}
	sb.WriteString(v)
}
