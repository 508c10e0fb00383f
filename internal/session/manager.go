package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"kotodama/internal/domain"
	"kotodama/pkg/log"
)

// Analyzer is the sentiment capability the debounce triggers.
type Analyzer interface {
	Execute(ctx context.Context, text string) domain.AnalysisResult
}

// Defaults for the debounced analysis trigger.
const (
	DefaultDebounce = 1500 * time.Millisecond
	DefaultMinChars = 5
	DefaultTTL      = 30 * time.Minute
)

// Options configures a Manager. Zero values fall back to the defaults.
type Options struct {
	Debounce time.Duration
	MinChars int
	TTL      time.Duration
}

// Manager owns the editor sessions and schedules the debounced analysis.
// A keystroke resets the pending timer; only the post-final-edit text is
// analyzed. A generation counter additionally discards any in-flight result
// that was superseded by a newer edit, since the outbound call itself cannot
// be cancelled.
type Manager struct {
	analyzer Analyzer
	debounce time.Duration
	minChars int
	ttl      time.Duration
	sessions sync.Map
}

// NewManager creates a session manager.
func NewManager(analyzer Analyzer, opts Options) *Manager {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinChars <= 0 {
		opts.MinChars = DefaultMinChars
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}

	m := &Manager{
		analyzer: analyzer,
		debounce: opts.Debounce,
		minChars: opts.MinChars,
		ttl:      opts.TTL,
	}
	go m.cleanup()
	return m
}

// Create opens a new editor session seeded with the default persona.
func (m *Manager) Create(persona domain.PersonaDNA) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		persona:   persona,
		touchedAt: time.Now(),
	}
	m.sessions.Store(s.ID, s)
	return s
}

// Get returns an existing session.
func (m *Manager) Get(id string) (*Session, error) {
	value, ok := m.sessions.Load(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return value.(*Session), nil
}

// SetText replaces the editor text and (re)schedules the debounced
// analysis. Text below the minimum length clears the analysis instead.
func (m *Manager) SetText(s *Session, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	s.touchedAt = time.Now()
	s.generation++
	gen := s.generation

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if len([]rune(text)) < m.minChars {
		s.analysis = nil
		s.analyzing = false
		return
	}

	s.timer = time.AfterFunc(m.debounce, func() {
		m.runAnalysis(s, gen, text)
	})
}

// runAnalysis performs one debounced analysis. The result is dropped when a
// newer edit was issued while the call was in flight.
func (m *Manager) runAnalysis(s *Session, gen uint64, text string) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.analyzing = true
	s.analyzingGen = gen
	s.mu.Unlock()

	result := m.analyzer.Execute(context.Background(), text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		log.GlobalDebug("discarding stale analysis", "session_id", s.ID, "generation", gen)
		return
	}
	s.analysis = &result
	if s.analyzingGen == gen {
		s.analyzing = false
	}
}

// cleanup evicts sessions idle past the TTL and stops their pending timers.
func (m *Manager) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		cutoff := time.Now().Add(-m.ttl)
		m.sessions.Range(func(key, value interface{}) bool {
			s := value.(*Session)
			s.mu.Lock()
			idle := s.touchedAt.Before(cutoff)
			if idle && s.timer != nil {
				s.timer.Stop()
				s.timer = nil
			}
			s.mu.Unlock()
			if idle {
				m.sessions.Delete(key)
			}
			return true
		})
	}
}
