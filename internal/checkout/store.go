package checkout

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/brotinhos/api/internal/i18n"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
)

const (
	DefaultCapacity = 10000
	DefaultTTL      = 24 * time.Hour
)

var ErrInvalidCapacity = errors.New("session capacity must be positive")

type entry struct {
	mu   sync.Mutex
	sess *Session
	seen time.Time // guarded by Store.mu
}

// Store keeps the most recently used sessions in memory. Sessions idle for
// longer than the TTL are forgotten, and the least recently used session is
// dropped once capacity is reached.
type Store struct {
	mu    sync.Mutex // serializes lookup-or-create
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the idle timeout. Zero or negative keeps sessions until
// capacity pressure evicts them.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store holding at most capacity sessions, idle-expired
// after DefaultTTL unless WithTTL says otherwise.
func NewStore(capacity int, opts ...Option) (*Store, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	c, err := lru.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	s := &Store{cache: c, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.seen) > s.ttl
}

// purgeExpired drops idle sessions from the cold end of the cache.
func (s *Store) purgeExpired(now time.Time) {
	for {
		_, v, ok := s.cache.GetOldest()
		if !ok || !s.expired(v.(*entry), now) {
			return
		}
		s.cache.RemoveOldest()
	}
}

func (s *Store) resolve(id string, lang i18n.Language) (string, *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if id != "" {
		if v, ok := s.cache.Get(id); ok {
			e := v.(*entry)
			if !s.expired(e, now) {
				e.seen = now
				return id, e
			}
			s.cache.Remove(id)
		}
	}
	s.purgeExpired(now)

	id = uuid.NewString()
	e := &entry{sess: NewSession(id, lang), seen: now}
	s.cache.Add(id, e)
	return id, e
}

// With runs fn on the session id, holding that session's lock. Unknown,
// expired or empty ids get a fresh session under a newly issued id; lang
// seeds its language. The id actually used is returned along with fn's error.
func (s *Store) With(id string, lang i18n.Language, fn func(*Session) error) (string, error) {
	id, e := s.resolve(id, lang)

	e.mu.Lock()
	defer e.mu.Unlock()
	return id, fn(e.sess)
}

// Remove forgets a session.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(id)
}

// Len reports the number of cached sessions, expired ones not yet purged included.
func (s *Store) Len() int {
	return s.cache.Len()
}
