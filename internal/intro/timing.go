package intro

import "time"

// DeviceClass hints at the kind of screen the intro plays on. Touch-class
// devices get slower typing and longer pauses.
type DeviceClass int

const (
	Desktop DeviceClass = iota
	Touch
)

func (d DeviceClass) String() string {
	if d == Touch {
		return "touch"
	}
	return "desktop"
}

// ParseDeviceClass maps "touch" and "mobile" to Touch and anything else
// to Desktop.
func ParseDeviceClass(s string) DeviceClass {
	switch s {
	case "touch", "mobile":
		return Touch
	default:
		return Desktop
	}
}

// Timing holds every delay used by the Player.
type Timing struct {
	// CharInterval separates two revealed characters of a typed command.
	CharInterval time.Duration
	// TypingLead is the pause before the first character is revealed.
	TypingLead time.Duration
	// Settle is the pause between a fully typed command and its commit.
	Settle time.Duration
	// LongRunning is the extra pause after a command containing the
	// long-running marker.
	LongRunning time.Duration
	// OutputDelay is the scheduling delay before an output or blank line
	// is appended.
	OutputDelay time.Duration
	// LineDelay follows an output line; blank lines wait half of it.
	LineDelay time.Duration
	// Final is the wait between the last line and completion.
	Final time.Duration
	// Blink is the caret toggle period.
	Blink time.Duration
}

// TimingFor returns the timing constants for a device class.
func TimingFor(d DeviceClass) Timing {
	t := Timing{
		CharInterval: 50 * time.Millisecond,
		TypingLead:   400 * time.Millisecond,
		Settle:       400 * time.Millisecond,
		LongRunning:  3500 * time.Millisecond,
		OutputDelay:  16 * time.Millisecond,
		LineDelay:    150 * time.Millisecond,
		Final:        2 * time.Second,
		Blink:        530 * time.Millisecond,
	}
	if d == Touch {
		t.CharInterval = 70 * time.Millisecond
		t.LongRunning = 2500 * time.Millisecond
		t.LineDelay = 250 * time.Millisecond
	}
	return t
}
