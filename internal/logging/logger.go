package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"herald/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level            string
	Format           string
	OutputPaths      []string
	ErrorOutputPaths []string
}

// New constructs a slog logger from the options. Caller locations are
// recorded only when the level resolves to debug.
func New(opts Options) (*slog.Logger, error) {
	level := new(slog.LevelVar)
	level.Set(levelFromName(opts.Level))
	withCaller := level.Level() <= slog.LevelDebug

	sink, err := openSink(opts.OutputPaths, opts.ErrorOutputPaths)
	if err != nil {
		return nil, err
	}

	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		return slog.New(newConsoleHandler(sink, level, withCaller)), nil
	case "json":
		return slog.New(newJSONHandler(sink, level, withCaller)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig creates a logger using application config defaults. Output
// always includes the configured paths plus a herald.log file inside the log
// directory when one is set.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}

	outputs := slices.Clone(cfg.Logging.OutputPaths)
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}
	errorOutputs := []string{"stderr"}
	if dir := cfg.Paths.LogDir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		logPath := filepath.Join(dir, "herald.log")
		outputs = append(outputs, logPath)
		errorOutputs = append(errorOutputs, logPath)
	}

	return New(Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      outputs,
		ErrorOutputPaths: errorOutputs,
	})
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(nopHandler{})
}

// NewComponentLogger scopes logger with the standard component attribute.
// A nil logger yields a no-op base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

func levelFromName(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openSink resolves the union of output and error paths into one writer.
// Duplicate paths are opened once, so pointing both lists at the same file
// does not double every line.
func openSink(outputs, errorOutputs []string) (io.Writer, error) {
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}
	if len(errorOutputs) == 0 {
		errorOutputs = []string{"stderr"}
	}

	var writers []io.Writer
	seen := map[string]bool{}
	for _, path := range append(slices.Clone(outputs), errorOutputs...) {
		path = strings.TrimSpace(path)
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		w, err := openWriter(path)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}

	switch len(writers) {
	case 0:
		return os.Stdout, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func openWriter(path string) (io.Writer, error) {
	switch path {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory %s: %w", dir, err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

func newJSONHandler(w io.Writer, level *slog.LevelVar, withCaller bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		AddSource:   withCaller,
		ReplaceAttr: normalizeJSONAttr,
	})
}

func normalizeJSONAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
		}
	case slog.LevelKey:
		attr.Key = "level"
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	case slog.MessageKey:
		attr.Key = "msg"
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			attr.Value = slog.StringValue(filepath.Base(src.File) + ":" + strconv.Itoa(src.Line))
		}
	}
	return attr
}

// consoleHandler renders one text line per record: RFC3339 timestamp, level
// label, optional component prefix, message, caller (debug only), then
// key=value fields. A component attribute folds into the message prefix
// rather than appearing as a field.
type consoleHandler struct {
	mu         *sync.Mutex
	out        io.Writer
	level      *slog.LevelVar
	withCaller bool
	component  string
	prefix     string
	fields     []field
}

type field struct {
	key string
	val string
}

func newConsoleHandler(w io.Writer, level *slog.LevelVar, withCaller bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, out: w, level: level, withCaller: withCaller}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	component := h.component
	fields := slices.Clone(h.fields)
	record.Attrs(func(attr slog.Attr) bool {
		absorbAttr(&fields, &component, h.prefix, attr)
		return true
	})

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	b.Grow(96 + 24*len(fields))
	b.WriteString(ts.UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(levelLabel(record.Level))
	b.WriteByte(' ')
	if component != "" {
		b.WriteString(component)
		b.WriteString(": ")
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		b.WriteString(msg)
	} else {
		b.WriteString("(no message)")
	}
	if h.withCaller {
		if src := recordSource(record); src != nil {
			fmt.Fprintf(&b, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(f.val)
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

// recordSource mirrors slog.Record.Source, which is unavailable before Go
// 1.25: nil when the record carries no PC, otherwise the resolved frame.
func recordSource(r slog.Record) *slog.Source {
	if r.PC == 0 {
		return nil
	}
	frames := runtime.CallersFrames([]uintptr{r.PC})
	frame, _ := frames.Next()
	return &slog.Source{Function: frame.Function, File: frame.File, Line: frame.Line}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, attr := range attrs {
		absorbAttr(&next.fields, &next.component, next.prefix, attr)
	}
	return next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix += name + "."
	return next
}

func (h *consoleHandler) clone() *consoleHandler {
	next := *h
	next.fields = slices.Clone(h.fields)
	return &next
}

// absorbAttr flattens attr into fields, joining group names into dotted key
// prefixes. The first ungrouped component attribute is captured separately
// and never emitted as a field.
func absorbAttr(fields *[]field, component *string, prefix string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner = prefix + attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			absorbAttr(fields, component, inner, member)
		}
		return
	}
	key := prefix + attr.Key
	if key == "" {
		return
	}
	if key == FieldComponent {
		if *component == "" {
			*component = plainText(attr.Value)
		}
		return
	}
	*fields = append(*fields, field{key: key, val: fieldText(attr.Value)})
}

func levelLabel(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

func plainText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return fieldText(v)
	}
}

func fieldText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindString:
		return quoteIfNeeded(v.String())
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return quoteIfNeeded(err.Error())
		}
		return quoteIfNeeded(fmt.Sprint(v.Any()))
	default:
		return quoteIfNeeded(v.String())
	}
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	needsQuote := func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }
	if strings.IndexFunc(s, needsQuote) >= 0 {
		return strconv.Quote(s)
	}
	return s
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
