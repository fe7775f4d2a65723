package logging

import (
	"context"
	"fmt"
	"io"
	"strings"

	gologging "github.com/op/go-logging"
)

const timeFormat = "2006/01/02 15:04:05"

// GoLogging adapts an op/go-logging logger to the Logger interface.
type GoLogging struct {
	l      *gologging.Logger
	fields []any
}

// New builds a logger writing to w. Unknown levels fall back to INFO.
func New(w io.Writer, module, level string) *GoLogging {
	lvl, err := gologging.LogLevel(strings.ToUpper(level))
	if err != nil {
		lvl = gologging.INFO
	}

	backend := gologging.NewLogBackend(w, "", 0)
	formatted := gologging.NewBackendFormatter(backend,
		gologging.MustStringFormatter(`%{time:`+timeFormat+`} %{level} %{module} - %{message}`))
	leveled := gologging.AddModuleLevel(formatted)
	leveled.SetLevel(lvl, module)

	l := gologging.MustGetLogger(module)
	l.SetBackend(leveled)
	return &GoLogging{l: l}
}

func (g *GoLogging) Debug(ctx context.Context, msg string, args ...any) {
	g.l.Debug(g.line(ctx, msg, args))
}

func (g *GoLogging) Info(ctx context.Context, msg string, args ...any) {
	g.l.Info(g.line(ctx, msg, args))
}

func (g *GoLogging) Warn(ctx context.Context, msg string, args ...any) {
	g.l.Warning(g.line(ctx, msg, args))
}

func (g *GoLogging) Error(ctx context.Context, msg string, args ...any) {
	g.l.Error(g.line(ctx, msg, args))
}

func (g *GoLogging) With(args ...any) Logger {
	fields := make([]any, 0, len(g.fields)+len(args))
	fields = append(fields, g.fields...)
	fields = append(fields, args...)
	return &GoLogging{l: g.l, fields: fields}
}

func (g *GoLogging) line(ctx context.Context, msg string, args []any) string {
	var b strings.Builder
	b.WriteString(msg)
	if id := RequestID(ctx); id != "" {
		b.WriteString(" request_id=")
		b.WriteString(id)
	}
	writePairs(&b, g.fields)
	writePairs(&b, args)
	return b.String()
}

func writePairs(b *strings.Builder, kv []any) {
	for i := 0; i < len(kv); i += 2 {
		b.WriteByte(' ')
		if i+1 >= len(kv) {
			fmt.Fprintf(b, "!BADKEY=%v", kv[i])
			return
		}
		fmt.Fprintf(b, "%v=%v", kv[i], kv[i+1])
	}
}
