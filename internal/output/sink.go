package output

import (
	"fmt"
	"io"
	"time"

	"github.com/tanq16/berdl/internal/progress"
	"github.com/tanq16/berdl/internal/utils"
)

const redrawInterval = 200 * time.Millisecond

// renderFunc draws one status line for the transfer state.
type renderFunc func(transferred, total int64, elapsed time.Duration) string

// terminalSink redraws a single line on w, at most once per redrawInterval.
type terminalSink struct {
	w      io.Writer
	render renderFunc
	now    func() time.Time
}

func (s *terminalSink) Start(total int64) progress.Tracker {
	start := s.now()
	t := &terminalTracker{sink: s, total: total, start: start}
	t.draw(start)
	return t
}

type terminalTracker struct {
	sink        *terminalSink
	total       int64
	transferred int64
	start       time.Time
	lastDraw    time.Time
	done        bool
}

func (t *terminalTracker) Advance(n int64) {
	t.transferred += n
	if now := t.sink.now(); now.Sub(t.lastDraw) >= redrawInterval {
		t.draw(now)
	}
}

func (t *terminalTracker) Finish() {
	if t.done {
		return
	}
	t.done = true
	t.draw(t.sink.now())
	fmt.Fprintln(t.sink.w)
}

func (t *terminalTracker) draw(now time.Time) {
	t.lastDraw = now
	fmt.Fprint(t.sink.w, "\r\033[K"+t.sink.render(t.transferred, t.total, now.Sub(t.start)))
}

// transferText is the byte count and speed trailer shared by both renderers.
// Unknown totals print only what has arrived so far.
func transferText(transferred, total int64, elapsed time.Duration) string {
	size := utils.FormatBytes(uint64(transferred))
	if total > 0 {
		size += " / " + utils.FormatBytes(uint64(total))
	}
	return fmt.Sprintf("%s %s %s", size, StyleSymbols["bullet"], utils.FormatSpeed(transferred, elapsed.Seconds()))
}
