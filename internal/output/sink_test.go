package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestSink(buf *bytes.Buffer, clock *fakeClock) *terminalSink {
	return &terminalSink{
		w:   buf,
		now: clock.now,
		render: func(transferred, total int64, elapsed time.Duration) string {
			return transferText(transferred, total, elapsed)
		},
	}
}

func TestTerminalSinkThrottlesRedraws(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tr := newTestSink(&buf, clock).Start(4096)

	tr.Advance(1024)
	tr.Advance(1024)
	if n := strings.Count(buf.String(), "\r"); n != 1 {
		t.Errorf("expected only the initial draw, got %d draws", n)
	}

	clock.t = clock.t.Add(redrawInterval)
	tr.Advance(1024)
	if n := strings.Count(buf.String(), "\r"); n != 2 {
		t.Errorf("expected a redraw after the interval, got %d draws", n)
	}
	if !strings.Contains(buf.String(), "3.00 KB / 4.00 KB") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestTerminalSinkFinishOnce(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tr := newTestSink(&buf, clock).Start(0)
	tr.Advance(2048)
	tr.Finish()
	tr.Finish()

	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Errorf("expected exactly one trailing newline, got %d", n)
	}
	if !strings.Contains(buf.String(), "2.00 KB") {
		t.Errorf("final draw missing byte count: %q", buf.String())
	}
	if strings.Contains(buf.String(), " / ") {
		t.Errorf("unknown total should not print a total: %q", buf.String())
	}
}

func TestRenderersHandleZeroTotal(t *testing.T) {
	for name, sink := range map[string]func(*bytes.Buffer) *terminalSink{
		"line": func(b *bytes.Buffer) *terminalSink { return NewLineSink(b).(*terminalSink) },
		"bar":  func(b *bytes.Buffer) *terminalSink { return NewBarSink(b).(*terminalSink) },
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			tr := sink(&buf).Start(0)
			tr.Advance(1500)
			tr.Finish()
			if !strings.Contains(buf.String(), "1.46 KB") {
				t.Errorf("unexpected output: %q", buf.String())
			}
		})
	}
}

func TestPrintProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		total   int64
		want    string
	}{
		{"half", 50, 100, "50.0%"},
		{"over total", 150, 100, "100.0%"},
		{"negative", -5, 100, "0.0%"},
		{"zero total", 10, 0, "100.0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrintProgressBar(tt.current, tt.total, 10)
			if !strings.Contains(got, tt.want) {
				t.Errorf("got %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
