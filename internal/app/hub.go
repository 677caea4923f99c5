package app

import (
	"sync"

	"circuitquest-service/internal/domain"
)

// stateHub fans committed round-state snapshots out to per-team subscribers.
type stateHub struct {
	mu   sync.Mutex
	subs map[string]map[chan domain.RoundState]struct{}
}

func newStateHub() *stateHub {
	return &stateHub{subs: make(map[string]map[chan domain.RoundState]struct{})}
}

func (h *stateHub) subscribe(teamID string) (<-chan domain.RoundState, func()) {
	ch := make(chan domain.RoundState, 8)

	h.mu.Lock()
	if h.subs[teamID] == nil {
		h.subs[teamID] = make(map[chan domain.RoundState]struct{})
	}
	h.subs[teamID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[teamID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, teamID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *stateHub) broadcast(teamID string, state domain.RoundState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[teamID] {
		select {
		case ch <- state:
		default:
			// Drop the stale snapshot so a slow client never blocks a commit.
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}
