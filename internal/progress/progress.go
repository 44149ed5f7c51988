// Package progress defines the capability a download reports transfer
// progress through, and the non-terminal implementations of it.
package progress

// Sink creates a Tracker for one transfer. total is the expected size in
// bytes, or 0 when the server did not announce one.
type Sink interface {
	Start(total int64) Tracker
}

// Tracker receives the byte count of each written block and a final Finish.
// Finish may be called more than once.
type Tracker interface {
	Advance(n int64)
	Finish()
}

// Nop discards all progress.
var Nop Sink = nopSink{}

type nopSink struct{}

func (nopSink) Start(int64) Tracker { return nopTracker{} }

type nopTracker struct{}

func (nopTracker) Advance(int64) {}
func (nopTracker) Finish() {}

// Func adapts a callback receiving (transferred, total) into a Sink.
type Func func(transferred, total int64)

func (f Func) Start(total int64) Tracker {
	return &funcTracker{fn: f, total: total}
}

type funcTracker struct {
	fn          Func
	total       int64
	transferred int64
}

func (t *funcTracker) Advance(n int64) {
	t.transferred += n
	t.fn(t.transferred, t.total)
}

func (t *funcTracker) Finish() {}
