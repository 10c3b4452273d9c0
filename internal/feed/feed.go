package feed

import (
	"sync"
)

// DefaultCapacity is how many lines the feed keeps.
const DefaultCapacity = 50

type Subscriber func(lines []string)

// Feed is the observable activity log shown to the user: local events plus
// the backend's log lines, deduplicated, newest last.
type Feed struct {
	mu       sync.Mutex
	lines    []string
	capacity int
	subs     map[int]Subscriber
	nextID   int
}

func New(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		lines:    []string{"System initialized..."},
		capacity: capacity,
		subs:     make(map[int]Subscriber),
	}
}

// Append records a local event.
func (f *Feed) Append(msg string) {
	f.Merge([]string{"[UI] " + msg})
}

// Merge adds lines, dropping ones already present, and keeps the last capacity lines.
// Subscribers receive only the lines that were actually added.
func (f *Feed) Merge(lines []string) {
	if len(lines) == 0 {
		return
	}

	f.mu.Lock()
	seen := make(map[string]struct{}, len(f.lines)+len(lines))
	for _, l := range f.lines {
		seen[l] = struct{}{}
	}
	var added []string
	for _, l := range lines {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		added = append(added, l)
	}
	f.lines = append(f.lines, added...)
	if over := len(f.lines) - f.capacity; over > 0 {
		f.lines = append([]string(nil), f.lines[over:]...)
	}
	subs := make([]Subscriber, 0, len(f.subs))
	for _, s := range f.subs {
		subs = append(subs, s)
	}
	f.mu.Unlock()

	if len(added) == 0 {
		return
	}
	for _, s := range subs {
		s(added)
	}
}

// Tail returns up to n most recent lines.
func (f *Feed) Tail(n int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n <= 0 || n > len(f.lines) {
		n = len(f.lines)
	}
	return append([]string(nil), f.lines[len(f.lines)-n:]...)
}

func (f *Feed) Subscribe(s Subscriber) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = s
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}
