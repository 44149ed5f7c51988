package progress

import (
	"time"

	"github.com/rs/zerolog"
)

type logSink struct {
	logger zerolog.Logger
	every  int64
}

// NewLogSink reports progress as structured log events, one per every bytes
// transferred and one when the transfer finishes.
func NewLogSink(logger zerolog.Logger, every int64) Sink {
	if every <= 0 {
		every = 64 * 1024 * 1024
	}
	return &logSink{logger: logger, every: every}
}

func (s *logSink) Start(total int64) Tracker {
	ev := s.logger.Info().Str("op", "progress/log")
	if total > 0 {
		ev = ev.Int64("total", total)
	} else {
		ev = ev.Bool("unknownTotal", true)
	}
	ev.Msg("transfer started")
	return &logTracker{sink: s, total: total, start: time.Now(), next: s.every}
}

type logTracker struct {
	sink        *logSink
	total       int64
	transferred int64
	next        int64
	start       time.Time
	done        bool
}

func (t *logTracker) Advance(n int64) {
	t.transferred += n
	if t.transferred < t.next {
		return
	}
	for t.next <= t.transferred {
		t.next += t.sink.every
	}
	ev := t.sink.logger.Info().Str("op", "progress/log").Int64("transferred", t.transferred)
	if t.total > 0 {
		ev = ev.Float64("percent", float64(t.transferred)*100/float64(t.total))
	}
	ev.Msg("transfer progress")
}

func (t *logTracker) Finish() {
	if t.done {
		return
	}
	t.done = true
	t.sink.logger.Info().Str("op", "progress/log").
		Int64("transferred", t.transferred).
		Dur("elapsed", time.Since(t.start)).
		Msg("transfer finished")
}
