package output

import (
	"io"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/tanq16/berdl/internal/progress"
)

// NewBarSink renders progress with a gradient bubbles bar.
func NewBarSink(w io.Writer) progress.Sink {
	bar := bprogress.New(bprogress.WithDefaultGradient(), bprogress.WithWidth(barWidth(45)))
	return &terminalSink{
		w:   w,
		now: time.Now,
		render: func(transferred, total int64, elapsed time.Duration) string {
			text := debugStyle.Render(transferText(transferred, total, elapsed))
			if total <= 0 {
				return infoStyle.Render(StyleSymbols["arrow"]) + " " + text
			}
			percent := min(1, float64(transferred)/float64(total))
			return bar.ViewAs(percent) + " " + text
		},
	}
}
