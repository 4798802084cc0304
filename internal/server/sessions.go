package server

import (
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ayusman/fingerspell/internal/app"
)

// SessionRegistry holds live sessions and expires them after a period
// without use.
type SessionRegistry struct {
	cache *gocache.Cache
}

// NewSessionRegistry creates a registry whose sessions expire after ttl of
// inactivity. A ttl of zero or less keeps sessions until the process exits.
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	expiration, cleanup := ttl, ttl/2
	if ttl <= 0 {
		expiration, cleanup = gocache.NoExpiration, 0
	}

	c := gocache.New(expiration, cleanup)
	c.OnEvicted(func(id string, _ interface{}) {
		log.Printf("Session %s expired", id)
	})

	return &SessionRegistry{cache: c}
}

// Add registers a session under its ID.
func (r *SessionRegistry) Add(s *app.Session) {
	r.cache.SetDefault(s.ID(), s)
}

// Get returns a live session and refreshes its expiry.
func (r *SessionRegistry) Get(id string) (*app.Session, bool) {
	val, found := r.cache.Get(id)
	if !found {
		return nil, false
	}

	s := val.(*app.Session)
	r.cache.SetDefault(id, s)
	return s, true
}

// Remove drops a session from the registry.
func (r *SessionRegistry) Remove(id string) {
	r.cache.Delete(id)
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	return r.cache.ItemCount()
}
