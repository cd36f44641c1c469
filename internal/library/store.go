package library

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DefaultSweepInterval is how often expired sessions are purged
const DefaultSweepInterval = time.Minute

// Store keeps sessions in memory and forgets those idle longer than ttl.
// A ttl of zero keeps sessions forever.
type Store struct {
	lister   PageLister
	sessions *cache.Cache
}

// NewStore creates a store whose sessions list pages through lister
func NewStore(lister PageLister, ttl time.Duration) *Store {
	return newStore(lister, ttl, DefaultSweepInterval)
}

func newStore(lister PageLister, ttl, sweepInterval time.Duration) *Store {
	if ttl <= 0 {
		ttl = cache.NoExpiration
		sweepInterval = 0
	}
	return &Store{
		lister:   lister,
		sessions: cache.New(ttl, sweepInterval),
	}
}

// Create starts a new session with a random id
func (s *Store) Create() *Session {
	sess := NewSession(uuid.NewString(), s.lister)
	s.sessions.SetDefault(sess.ID, sess)
	return sess
}

// Get returns a live session and restarts its idle timer
func (s *Store) Get(id string) (*Session, bool) {
	val, ok := s.sessions.Get(id)
	if !ok {
		return nil, false
	}
	sess, ok := val.(*Session)
	if !ok {
		return nil, false
	}
	s.sessions.SetDefault(id, sess)
	return sess, true
}

// Len returns the number of stored sessions, including expired ones not yet purged
func (s *Store) Len() int {
	return s.sessions.ItemCount()
}
