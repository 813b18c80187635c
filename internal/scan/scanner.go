package scan

import (
	"io"
	"log/slog"

	"github.com/roach88/blockscan/internal/ir"
)

// Scanner validates one document at a time and reports each line to a Sink.
//
// A Scanner is not safe for concurrent use. Separate Scanners share no
// state, so independent documents can be scanned in parallel.
type Scanner struct {
	sink    Sink
	logger  *slog.Logger
	stack   Stack
	block   BlockTracker
	verdict Aggregator
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for per-line debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Scanner that emits to sink. A nil sink discards records.
func New(sink Sink, opts ...Option) *Scanner {
	if sink == nil {
		sink = Discard
	}
	s := &Scanner{
		sink:   sink,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan validates doc and returns its verdict.
//
// All state is reset at the start of the call, and every line is processed
// even after an error. The sink has received every record by the time Scan
// returns.
func (s *Scanner) Scan(doc string) ir.Verdict {
	s.stack.Reset()
	s.block.Reset()
	s.verdict.Reset()

	for i, raw := range SplitLines(doc) {
		s.processLine(NewLine(raw, i+1))
	}

	v := s.verdict.Verdict()
	s.logger.Debug("scan complete", "valid", v.Valid, "message", v.Message)
	return v
}

// Scan validates doc with a fresh Scanner.
func Scan(doc string, sink Sink, opts ...Option) ir.Verdict {
	return New(sink, opts...).Scan(doc)
}

func (s *Scanner) processLine(l Line) {
	if l.Ignorable() {
		return
	}
	if s.block.Swallow(l.Indent) {
		s.logger.Debug("block scalar body", "line", l.Number)
		return
	}

	shape := Classify(l.Text)
	kind := shape.Kind()
	if err := shape.handle(s, l); err != nil {
		kind = ir.KindInvalid
		s.verdict.Fail(l.Number, err)
		s.logger.Debug("structural error", "line", l.Number, "error", err)
	}

	s.logger.Debug("line classified", "line", l.Number, "kind", kind, "depth", s.stack.Len())
	s.emit(kind, l)
}

// enter runs the stack algorithm for a classified line. An unwind is
// reported with a START record before the line's own record.
func (s *Scanner) enter(l Line) {
	if s.stack.Enter(l.Text, l.Indent) {
		s.emit(ir.KindStart, l)
	}
}

func (s *Scanner) emit(kind ir.ConstructKind, l Line) {
	s.sink.Emit(ir.TraceRecord{
		Kind:    kind,
		Stack:   s.stack.Snapshot(),
		Line:    l.Number,
		Content: l.Text,
	})
}
