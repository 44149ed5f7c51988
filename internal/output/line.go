package output

import (
	"io"
	"time"

	"github.com/tanq16/berdl/internal/progress"
)

// NewLineSink renders progress as a plain styled line: a bar and percentage
// when the total is known, otherwise just the running byte count.
func NewLineSink(w io.Writer) progress.Sink {
	width := barWidth(50)
	return &terminalSink{
		w:   w,
		now: time.Now,
		render: func(transferred, total int64, elapsed time.Duration) string {
			text := transferText(transferred, total, elapsed)
			if total <= 0 {
				return debugStyle.Render(StyleSymbols["arrow"] + " " + text)
			}
			return PrintProgressBar(transferred, total, width) + debugStyle.Render(text)
		},
	}
}
