package intro

// Feed is a one-slot mailbox of snapshots for renderers that draw at their
// own pace. A newer snapshot replaces one that has not been read yet, so a
// slow reader sees the latest state without stalling the Player.
type Feed struct {
	ch chan Snapshot
}

func NewFeed() *Feed {
	return &Feed{ch: make(chan Snapshot, 1)}
}

// Push stores s, dropping any unread snapshot. It never blocks and is
// meant to be passed to WithOnChange, which serializes calls.
func (f *Feed) Push(s Snapshot) {
	for {
		select {
		case f.ch <- s:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

// C delivers the latest unread snapshot.
func (f *Feed) C() <-chan Snapshot { return f.ch }

// Latest returns the unread snapshot, if any, without waiting.
func (f *Feed) Latest() (Snapshot, bool) {
	select {
	case s := <-f.ch:
		return s, true
	default:
		return Snapshot{}, false
	}
}
