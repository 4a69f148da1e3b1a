package intro

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Zachkp/resume-site/internal/clock"
)

// State is the Player's position in its state machine.
type State int

const (
	Idle State = iota
	TypingChar
	LinePause
	Advancing
	Finished
)

var stateNames = [...]string{"idle", "typing-char", "line-pause", "advancing", "finished"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText renders the state name in JSON frames.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Snapshot is a copy of the playback state handed to renderers.
type Snapshot struct {
	CompletedLines []string `json:"completedLines"`
	CurrentPartial string   `json:"currentPartial"`
	CursorIndex    int      `json:"cursorIndex"`
	CursorVisible  bool     `json:"cursorVisible"`
	State          State    `json:"state"`
}

// Player plays a Script against a Clock. All mutations happen inside
// timer callbacks while holding the Player's lock; every pending timer
// is tracked so Cancel can stop them together.
type Player struct {
	clock    clock.Clock
	timing   Timing
	device   DeviceClass
	marker   string
	onChange func(Snapshot)
	logger   *slog.Logger

	script Script

	mu         sync.Mutex
	notifyMu   sync.Mutex
	started    bool
	finished   bool
	skipped    bool
	completed  []string
	partial    []rune
	typed      int
	cursor     int
	caretOn    bool
	state      State
	pending    map[uint64]*clock.Timer
	nextID     uint64
	onComplete func()
	done       chan struct{}
}

// Option configures a Player.
type Option func(*Player)

// WithClock sets the time source. The default is clock.Real().
func WithClock(c clock.Clock) Option {
	return func(p *Player) { p.clock = c }
}

// WithDevice selects the timing constants for a device class.
func WithDevice(d DeviceClass) Option {
	return func(p *Player) {
		p.device = d
		p.timing = TimingFor(d)
	}
}

// WithTiming overrides every timing constant.
func WithTiming(t Timing) Option {
	return func(p *Player) { p.timing = t }
}

// WithLongRunningMarker sets the substring that triggers the extended
// pause after a typed command. An empty marker disables it.
func WithLongRunningMarker(m string) Option {
	return func(p *Player) { p.marker = m }
}

// WithOnChange registers a callback invoked after every state change, in
// order. It may call Snapshot but must not block for long.
func WithOnChange(fn func(Snapshot)) Option {
	return func(p *Player) { p.onChange = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) { p.logger = l }
}

// NewPlayer returns a Player for script. The first line is on screen
// immediately.
func NewPlayer(script Script, opts ...Option) *Player {
	p := &Player{
		clock:   clock.Real(),
		timing:  TimingFor(Desktop),
		marker:  DefaultLongRunningMarker,
		script:  script,
		caretOn: true,
		state:   Idle,
		pending: make(map[uint64]*clock.Timer),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(script) > 0 {
		p.completed = []string{script[0].Text}
		p.cursor = 1
	}
	return p
}

// Start begins playback. onComplete is invoked exactly once, either when
// the script has played out or when Cancel is called. An empty script
// completes before Start returns. Calling Start twice has no effect.
func (p *Player) Start(onComplete func()) {
	p.mu.Lock()
	if p.started || p.finished {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.onComplete = onComplete

	if len(p.script) == 0 {
		p.finishLocked()
		p.mu.Unlock()
		p.complete()
		return
	}

	p.logger.Debug("intro started", "lines", len(p.script), "device", p.device.String())
	if p.timing.Blink > 0 {
		p.scheduleLocked(p.timing.Blink, p.blinkLocked)
	}
	p.enterLineLocked()
	p.emitAndUnlock()
}

// Cancel stops playback immediately. Every pending timer is stopped and
// onComplete runs before Cancel returns unless playback already ended.
// Cancel is safe to call any number of times.
func (p *Player) Cancel() {
	p.mu.Lock()
	if p.finished {
		p.mu.Unlock()
		return
	}
	p.skipped = true
	p.finishLocked()
	p.logger.Debug("intro skipped", "cursor", p.cursor, "lines", len(p.completed))
	p.mu.Unlock()
	p.complete()
}

// Run starts playback and blocks until it ends. Cancelling ctx cancels
// playback; Run then returns ctx.Err().
func (p *Player) Run(ctx context.Context) error {
	p.Start(nil)
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		p.Cancel()
		if p.Skipped() {
			return ctx.Err()
		}
		return nil
	}
}

// Done is closed once playback has ended, naturally or by Cancel.
func (p *Player) Done() <-chan struct{} { return p.done }

// Skipped reports whether playback was ended by Cancel.
func (p *Player) Skipped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.skipped
}

// Snapshot returns a copy of the current playback state.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Player) snapshotLocked() Snapshot {
	lines := make([]string, len(p.completed))
	copy(lines, p.completed)
	return Snapshot{
		CompletedLines: lines,
		CurrentPartial: string(p.partial),
		CursorIndex:    p.cursor,
		CursorVisible:  p.caretOn,
		State:          p.state,
	}
}

// scheduleLocked arms a timer whose callback runs fn under the lock and
// then publishes the new state. Callbacks that arrive after the Player
// has finished are dropped.
func (p *Player) scheduleLocked(d time.Duration, fn func()) {
	p.nextID++
	id := p.nextID
	p.pending[id] = p.clock.AfterFunc(d, func() {
		p.mu.Lock()
		if p.finished {
			p.mu.Unlock()
			return
		}
		delete(p.pending, id)
		fn()
		if p.finished {
			p.mu.Unlock()
			p.complete()
			return
		}
		p.emitAndUnlock()
	})
}

// emitAndUnlock hands the state to onChange in mutation order. The
// notify lock is taken before p.mu is released so concurrent callbacks
// cannot reorder their notifications.
func (p *Player) emitAndUnlock() {
	if p.onChange == nil {
		p.mu.Unlock()
		return
	}
	snap := p.snapshotLocked()
	p.notifyMu.Lock()
	p.mu.Unlock()
	defer p.notifyMu.Unlock()
	p.onChange(snap)
}

// enterLineLocked begins playing the line under the cursor, or the final
// delay once the cursor has passed the end of the script.
func (p *Player) enterLineLocked() {
	if p.cursor >= len(p.script) {
		p.state = Advancing
		p.scheduleLocked(p.timing.Final, p.finishLocked)
		return
	}

	line := p.script[p.cursor]
	switch line.Kind {
	case TypedCommand:
		p.state = TypingChar
		p.partial = p.partial[:0]
		p.typed = 0
		p.scheduleLocked(p.timing.TypingLead, p.typeNextLocked)
	case BlankLine:
		p.state = LinePause
		p.scheduleLocked(p.timing.OutputDelay, func() {
			p.completed = append(p.completed, "")
			p.scheduleLocked(p.timing.LineDelay/2, p.advanceLocked)
		})
	default:
		p.state = LinePause
		p.scheduleLocked(p.timing.OutputDelay, func() {
			p.completed = append(p.completed, line.Text)
			p.scheduleLocked(p.timing.LineDelay, p.advanceLocked)
		})
	}
}

// typeNextLocked reveals one more character of the current command.
func (p *Player) typeNextLocked() {
	text := []rune(p.script[p.cursor].Text)
	if p.typed < len(text) {
		p.typed++
		p.partial = append(p.partial[:0], text[:p.typed]...)
	}
	if p.typed < len(text) {
		p.scheduleLocked(p.timing.CharInterval, p.typeNextLocked)
		return
	}

	p.state = LinePause
	p.scheduleLocked(p.timing.Settle, p.commitCommandLocked)
}

func (p *Player) commitCommandLocked() {
	text := p.script[p.cursor].Text
	p.completed = append(p.completed, text)
	p.partial = p.partial[:0]

	if p.marker != "" && strings.Contains(text, p.marker) {
		p.scheduleLocked(p.timing.LongRunning, p.advanceLocked)
		return
	}
	p.advanceLocked()
}

func (p *Player) advanceLocked() {
	p.state = Advancing
	p.cursor++
	p.enterLineLocked()
}

func (p *Player) blinkLocked() {
	p.caretOn = !p.caretOn
	p.scheduleLocked(p.timing.Blink, p.blinkLocked)
}

// finishLocked ends playback and stops every pending timer.
func (p *Player) finishLocked() {
	p.finished = true
	p.state = Finished
	for id, t := range p.pending {
		t.Stop()
		delete(p.pending, id)
	}
}

// complete closes Done and runs the completion callback. It is reached
// exactly once because only the caller that set finished gets here.
func (p *Player) complete() {
	close(p.done)
	if p.onComplete != nil {
		p.onComplete()
	}
}
