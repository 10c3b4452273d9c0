package publish

import (
	"sync"

	"github.com/orgball2608/directorflow-agent/internal/domain"
)

type Action int

const (
	ActionSelected Action = iota
	ActionDeselected
	// ActionConnect means the platform is not connected and the connect flow
	// should start instead of selecting it.
	ActionConnect
)

// Selection is the platform picker of a publish dialog. It is safe for
// concurrent use.
type Selection struct {
	ClipID string

	mu        sync.Mutex
	connected map[domain.Platform]bool
	selected  map[domain.Platform]bool
}

// NewSelection preselects every connected platform.
func NewSelection(clipID string, connected []domain.Platform) *Selection {
	s := &Selection{
		ClipID:    clipID,
		connected: make(map[domain.Platform]bool, len(connected)),
		selected:  make(map[domain.Platform]bool, len(connected)),
	}
	for _, p := range connected {
		s.connected[p] = true
		s.selected[p] = true
	}
	return s
}

func (s *Selection) Toggle(p domain.Platform) Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected[p] {
		return ActionConnect
	}
	if s.selected[p] {
		delete(s.selected, p)
		return ActionDeselected
	}
	s.selected[p] = true
	return ActionSelected
}

func (s *Selection) IsSelected(p domain.Platform) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected[p]
}

func (s *Selection) IsConnected(p domain.Platform) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected[p]
}

// Selected returns the chosen platforms in display order.
func (s *Selection) Selected() []domain.Platform {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Platform
	for _, p := range domain.Platforms {
		if s.selected[p] {
			out = append(out, p)
		}
	}
	return out
}
