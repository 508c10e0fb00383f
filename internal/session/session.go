// Package session holds per-editor application state: the current text,
// the persona, and the latest analysis. State is an explicit object owned by
// a Manager and passed to whoever needs it; there is no ambient singleton.
package session

import (
	"sync"
	"time"

	"kotodama/internal/domain"
)

// Session is one editor's state. The text is the single source of truth for
// every capability; calls take an immutable snapshot and never mutate it.
type Session struct {
	ID string

	mu           sync.Mutex
	text         string
	persona      domain.PersonaDNA
	analysis     *domain.AnalysisResult
	analyzing    bool
	generation   uint64
	analyzingGen uint64
	timer        *time.Timer
	touchedAt    time.Time
}

// Snapshot is a read-only view of the session state.
type Snapshot struct {
	ID           string                 `json:"id"`
	Text         string                 `json:"text"`
	Persona      domain.PersonaDNA      `json:"persona"`
	Analysis     *domain.AnalysisResult `json:"analysis"`
	KotodamaRate int                    `json:"kotodamaRate"`
	Analyzing    bool                   `json:"analyzing"`
}

// Snapshot returns the session state at this instant.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:        s.ID,
		Text:      s.text,
		Persona:   s.persona,
		Analyzing: s.analyzing,
	}
	if s.analysis != nil {
		a := *s.analysis
		snap.Analysis = &a
		snap.KotodamaRate = a.Score
	}
	return snap
}

// SetPersona replaces the session persona.
func (s *Session) SetPersona(p domain.PersonaDNA) {
	s.mu.Lock()
	s.persona = p
	s.touchedAt = time.Now()
	s.mu.Unlock()
}

// Persona returns the session persona.
func (s *Session) Persona() domain.PersonaDNA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persona
}

// Text returns the current editor text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}
