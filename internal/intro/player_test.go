package intro

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Zachkp/resume-site/internal/clock"
)

var epoch = time.Date(2026, 3, 4, 14, 35, 0, 0, time.UTC)

// recorder collects notifications and completion calls.
type recorder struct {
	mu          sync.Mutex
	frames      []Snapshot
	completions int
}

func (r *recorder) onChange(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, s)
}

func (r *recorder) onComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions++
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completions
}

func newTestPlayer(script Script, opts ...Option) (*Player, *clock.Fake, *recorder) {
	c := clock.NewFake(epoch)
	rec := &recorder{}
	opts = append([]Option{WithClock(c), WithOnChange(rec.onChange)}, opts...)
	return NewPlayer(script, opts...), c, rec
}

var sampleScript = Script{
	Static("static-line: ready"),
	Command("run"),
	Output("done"),
	Blank(),
}

func TestPlayerFullPlayback(t *testing.T) {
	p, c, rec := newTestPlayer(sampleScript)
	p.Start(rec.onComplete)

	// typed: 400 lead + 2*50 + 400 settle = 900ms
	// output: 16 + 150, blank: 16 + 75, final: 2000 => 3157ms
	c.Advance(3100 * time.Millisecond)
	if n := rec.count(); n != 0 {
		t.Fatalf("completed %d times before the final delay elapsed", n)
	}

	snap := p.Snapshot()
	want := []string{"static-line: ready", "run", "done", ""}
	if diff := cmp.Diff(want, snap.CompletedLines); diff != "" {
		t.Fatalf("CompletedLines mismatch (-want +got):\n%s", diff)
	}
	if snap.CurrentPartial != "" {
		t.Errorf("CurrentPartial = %q, want empty", snap.CurrentPartial)
	}

	c.Advance(100 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Fatalf("completions = %d, want 1", n)
	}
	if got := p.Snapshot().State; got != Finished {
		t.Errorf("State = %v, want %v", got, Finished)
	}
	if p.Skipped() {
		t.Error("Skipped() = true after natural completion")
	}
	if n := c.Pending(); n != 0 {
		t.Errorf("%d timers still pending after completion", n)
	}

	c.Advance(time.Minute)
	if n := rec.count(); n != 1 {
		t.Fatalf("completions = %d after further time, want 1", n)
	}
}

func TestPlayerInitialState(t *testing.T) {
	p, _, _ := newTestPlayer(sampleScript)
	snap := p.Snapshot()
	if snap.State != Idle {
		t.Errorf("State = %v, want %v", snap.State, Idle)
	}
	if diff := cmp.Diff([]string{"static-line: ready"}, snap.CompletedLines); diff != "" {
		t.Errorf("pre-rendered lines mismatch (-want +got):\n%s", diff)
	}
	if snap.CursorIndex != 1 {
		t.Errorf("CursorIndex = %d, want 1", snap.CursorIndex)
	}
	if !snap.CursorVisible {
		t.Error("caret should start visible")
	}
}

func TestPlayerTypedPartialStates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"ascii", "run", []string{"", "r", "ru", "run"}},
		{"multibyte", "❯ ls", []string{"", "❯", "❯ ", "❯ l", "❯ ls"}},
		{"empty", "", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, c, rec := newTestPlayer(Script{Static("$"), Command(tt.text)})
			p.Start(rec.onComplete)
			c.Advance(10 * time.Second)

			var got []string
			for _, f := range rec.frames {
				if len(f.CompletedLines) != 1 || f.CursorIndex != 1 {
					continue
				}
				if len(got) == 0 || got[len(got)-1] != f.CurrentPartial {
					got = append(got, f.CurrentPartial)
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("partial states mismatch (-want +got):\n%s", diff)
			}
			if len(got) != len([]rune(tt.text))+1 {
				t.Errorf("observed %d partial states, want %d", len(got), len([]rune(tt.text))+1)
			}
		})
	}
}

func TestPlayerCompletedLinesOnlyGrow(t *testing.T) {
	p, c, rec := newTestPlayer(DefaultScript)
	p.Start(rec.onComplete)
	c.Advance(time.Minute)

	prev := 0
	for i, f := range rec.frames {
		if len(f.CompletedLines) < prev {
			t.Fatalf("frame %d: CompletedLines shrank from %d to %d", i, prev, len(f.CompletedLines))
		}
		prev = len(f.CompletedLines)
	}
	if prev != len(DefaultScript) {
		t.Errorf("final CompletedLines has %d entries, want %d", prev, len(DefaultScript))
	}
	if rec.count() != 1 {
		t.Errorf("completions = %d, want 1", rec.count())
	}
}

func TestPlayerCancelImmediately(t *testing.T) {
	p, c, rec := newTestPlayer(sampleScript)
	p.Start(rec.onComplete)
	p.Cancel()

	if n := rec.count(); n != 1 {
		t.Fatalf("completions after Cancel = %d, want 1", n)
	}
	select {
	case <-p.Done():
	default:
		t.Fatal("Done() not closed after Cancel")
	}
	if n := c.Pending(); n != 0 {
		t.Fatalf("%d timers pending after Cancel, want 0", n)
	}

	frames := len(rec.frames)
	c.Advance(time.Minute)
	p.Cancel()

	snap := p.Snapshot()
	if diff := cmp.Diff([]string{"static-line: ready"}, snap.CompletedLines); diff != "" {
		t.Errorf("CompletedLines changed after Cancel (-want +got):\n%s", diff)
	}
	if n := rec.count(); n != 1 {
		t.Errorf("completions = %d after second Cancel, want 1", n)
	}
	if len(rec.frames) != frames {
		t.Errorf("%d notifications delivered after Cancel", len(rec.frames)-frames)
	}
	if !p.Skipped() {
		t.Error("Skipped() = false after Cancel")
	}
}

func TestPlayerCancelMidTyping(t *testing.T) {
	p, c, rec := newTestPlayer(sampleScript)
	p.Start(rec.onComplete)

	// Lead-in plus two characters.
	c.Advance(400*time.Millisecond + 50*time.Millisecond)
	snap := p.Snapshot()
	if snap.State != TypingChar || snap.CurrentPartial != "ru" {
		t.Fatalf("before cancel: state %v partial %q, want typing-char \"ru\"", snap.State, snap.CurrentPartial)
	}

	p.Cancel()
	c.Advance(time.Minute)

	snap = p.Snapshot()
	if diff := cmp.Diff([]string{"static-line: ready"}, snap.CompletedLines); diff != "" {
		t.Errorf("CompletedLines mismatch (-want +got):\n%s", diff)
	}
	if snap.CurrentPartial != "ru" {
		t.Errorf("CurrentPartial = %q, want frozen at \"ru\"", snap.CurrentPartial)
	}
	if n := rec.count(); n != 1 {
		t.Errorf("completions = %d, want 1", n)
	}
}

func TestPlayerCancelAfterCompletion(t *testing.T) {
	p, c, rec := newTestPlayer(sampleScript)
	p.Start(rec.onComplete)
	c.Advance(time.Minute)
	p.Cancel()

	if n := rec.count(); n != 1 {
		t.Fatalf("completions = %d, want 1", n)
	}
	if p.Skipped() {
		t.Error("Cancel after completion marked the player skipped")
	}
}

func TestPlayerEmptyScript(t *testing.T) {
	p, c, rec := newTestPlayer(nil)
	p.Start(rec.onComplete)

	if n := rec.count(); n != 1 {
		t.Fatalf("completions = %d, want 1", n)
	}
	if got := p.Snapshot().State; got != Finished {
		t.Errorf("State = %v, want %v", got, Finished)
	}
	if n := c.Pending(); n != 0 {
		t.Errorf("%d timers pending, want 0", n)
	}
	p.Cancel()
	if n := rec.count(); n != 1 {
		t.Errorf("completions = %d after Cancel, want 1", n)
	}
}

func TestPlayerStartTwice(t *testing.T) {
	p, c, rec := newTestPlayer(sampleScript)
	p.Start(rec.onComplete)
	p.Start(rec.onComplete)
	c.Advance(time.Minute)
	if n := rec.count(); n != 1 {
		t.Fatalf("completions = %d, want 1", n)
	}
}

func TestPlayerLongRunningPause(t *testing.T) {
	script := Script{Static("$"), Command("helm install x"), Output("ok")}

	tests := []struct {
		name   string
		device DeviceClass
		marker string
		pause  time.Duration
	}{
		{"desktop", Desktop, DefaultLongRunningMarker, 3500 * time.Millisecond},
		{"touch", Touch, DefaultLongRunningMarker, 2500 * time.Millisecond},
		{"disabled", Desktop, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, c, rec := newTestPlayer(script, WithDevice(tt.device), WithLongRunningMarker(tt.marker))
			p.Start(rec.onComplete)

			timing := TimingFor(tt.device)
			typed := timing.TypingLead + time.Duration(len("helm install x")-1)*timing.CharInterval + timing.Settle
			c.Advance(typed)
			if got := len(p.Snapshot().CompletedLines); got != 2 {
				t.Fatalf("after typing: %d lines, want 2", got)
			}

			// The output line lands OutputDelay after the pause.
			c.Advance(tt.pause + timing.OutputDelay - time.Millisecond)
			if got := len(p.Snapshot().CompletedLines); got != 2 {
				t.Fatalf("output appeared before the long-running pause ended (%d lines)", got)
			}
			c.Advance(time.Millisecond)
			if got := len(p.Snapshot().CompletedLines); got != 3 {
				t.Fatalf("after pause: %d lines, want 3", got)
			}
		})
	}
}

func TestPlayerCaretBlink(t *testing.T) {
	p, c, rec := newTestPlayer(Script{Static("$"), Command("a long command to keep typing")})
	p.Start(rec.onComplete)

	c.Advance(530 * time.Millisecond)
	if p.Snapshot().CursorVisible {
		t.Fatal("caret still visible after one blink period")
	}
	c.Advance(530 * time.Millisecond)
	if !p.Snapshot().CursorVisible {
		t.Fatal("caret not visible after two blink periods")
	}

	p.Cancel()
	visible := p.Snapshot().CursorVisible
	c.Advance(5 * time.Second)
	if p.Snapshot().CursorVisible != visible {
		t.Error("caret toggled after Cancel")
	}
}

func TestPlayerRunContextCancel(t *testing.T) {
	p, _, rec := newTestPlayer(sampleScript)
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
	if !p.Skipped() {
		t.Error("Skipped() = false after context cancellation")
	}
	if n := rec.count(); n != 0 {
		t.Errorf("Start(nil) via Run invoked the recorder %d times", n)
	}
}

func TestPlayerRunCompletes(t *testing.T) {
	p, c, _ := newTestPlayer(sampleScript)

	errc := make(chan error, 1)
	go func() { errc <- p.Run(context.Background()) }()

	// Wait for Run to start the player before moving time.
	deadline := time.Now().Add(5 * time.Second)
	for c.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("player never scheduled a timer")
		}
		time.Sleep(time.Millisecond)
	}
	c.Advance(time.Minute)

	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after playback finished")
	}
}

func TestParseDeviceClass(t *testing.T) {
	tests := []struct {
		in   string
		want DeviceClass
	}{
		{"touch", Touch},
		{"mobile", Touch},
		{"desktop", Desktop},
		{"", Desktop},
	}
	for _, tt := range tests {
		if got := ParseDeviceClass(tt.in); got != tt.want {
			t.Errorf("ParseDeviceClass(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
