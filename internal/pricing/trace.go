package pricing

// Logger is the observability port for pricing decisions: grid hits and
// misses, fallback triggers, skipped bundle rules. The host application
// injects its own implementation; *log.Logger satisfies it directly. Tests
// can capture traces with a recording implementation.
type Logger interface {
	Printf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// NopLogger discards all traces. Used when no logger is injected.
var NopLogger Logger = nopLogger{}
