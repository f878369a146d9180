// Package session holds per-chat search state: the topic history fed back
// into instruction extraction, and the cached ranking each "more" request
// pages through. State lives in memory only and is lost on restart.
package session

import (
	"sync"

	"github.com/clcdev/sermon-linebot-go/internal/search"
)

// State is the search state of one chat.
type State struct {
	mu      sync.Mutex
	history []string
	offsets map[string]int
	ranked  map[string][]search.ScoredRecord
	best    map[string]float64
}

func newState() *State {
	return &State{
		offsets: make(map[string]int),
		ranked:  make(map[string][]search.ScoredRecord),
		best:    make(map[string]float64),
	}
}

// RememberTopic appends a topic to the history unless it is already present.
// Order is insertion order; the extractor prompt uses it to resolve "more"
// style follow-ups.
func (s *State) RememberTopic(topic string) {
	if topic == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.history {
		if t == topic {
			return
		}
	}
	s.history = append(s.history, topic)
}

// History returns a copy of the topic history in insertion order.
func (s *State) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// Offset returns the stored pagination offset for a topic, 0 if unseen.
func (s *State) Offset(topic string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offsets[topic]
}

// AdvanceOffset moves a topic's offset forward by n records.
func (s *State) AdvanceOffset(topic string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offsets[topic] += n
}

// Ranking returns the cached ranking and best score for a topic.
func (s *State) Ranking(topic string) (ranked []search.ScoredRecord, best float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ranked, ok = s.ranked[topic]
	return ranked, s.best[topic], ok
}

// StoreRanking caches a freshly computed ranking and its best score.
func (s *State) StoreRanking(topic string, ranked []search.ScoredRecord, best float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranked[topic] = ranked
	s.best[topic] = best
}

// Manager owns the per-chat states.
type Manager struct {
	mu     sync.Mutex
	states map[string]*State
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{states: make(map[string]*State)}
}

// Get returns the state for a chat, creating it on first use.
func (m *Manager) Get(chatID string) *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[chatID]
	if !ok {
		st = newState()
		m.states[chatID] = st
	}
	return st
}

// Reset discards a chat's state. The next message starts fresh.
func (m *Manager) Reset(chatID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, chatID)
}

// Len reports how many chats currently hold state.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}
