// Package session holds one pipeline run's transient results per API
// session: cleaned data, KPI rows, totals and the insight text. Results
// are overwritten on each run and discarded when the session expires or
// is deleted; nothing is shared across sessions.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelcm/ads-insights-go/internal/models"
	"github.com/angelcm/ads-insights-go/internal/schema"
)

type Session struct {
	ID                 string            `json:"id"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	Report             *schema.Report    `json:"validation,omitempty"`
	Data               *models.Dataset   `json:"-"`
	KPIs               []models.KPIRow   `json:"-"`
	Totals             *models.KPITotals `json:"-"`
	InsightText        string            `json:"-"`
	InsightUnavailable bool              `json:"-"`
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) Create() *Session {
	sess := &Session{ID: uuid.NewString(), CreatedAt: s.now(), UpdatedAt: s.now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	s.sessions[sess.ID] = sess
	return sess
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Touch bumps the session's activity clock after a successful run.
func (s *Store) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.UpdatedAt = s.now()
	}
}

// expireLocked drops stale sessions lazily on access; no janitor goroutine,
// every operation here is request-driven.
func (s *Store) expireLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
