// Package store is the client's in-memory query cache. Entries expire after a
// TTL, and every change is published to the views mounted on its topic.
package store

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Event describes one change to the store.
type Event struct {
	Topic string
	Key   string
}

type entry struct {
	value   any
	expires time.Time // zero means no expiry
}

type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	views   map[*View]struct{}
	now     func() time.Time
}

func New() *Store {
	return &Store{
		entries: map[string]entry{},
		views:   map[*View]struct{}{},
		now:     time.Now,
	}
}

// Get returns the value under key if it is present and fresh.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Lookup is Get with a type assertion.
func Lookup[T any](s *Store, key string) (T, bool) {
	v, ok := s.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Set stores value under key. A ttl <= 0 keeps it until removed.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	e := entry{value: value}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.entries[key] = e
	s.mu.Unlock()

	s.Publish(Event{Topic: TopicOf(key), Key: key})
}

func (s *Store) Remove(key string) {
	s.mu.Lock()
	_, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()

	if ok {
		s.Publish(Event{Topic: TopicOf(key), Key: key})
	}
}

// Invalidate drops every entry whose key starts with prefix and returns how
// many were dropped. One event is published per affected topic.
func (s *Store) Invalidate(prefix string) int {
	s.mu.Lock()
	topics := map[string]struct{}{}
	n := 0
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
			topics[TopicOf(k)] = struct{}{}
			n++
		}
	}
	s.mu.Unlock()

	for t := range topics {
		s.Publish(Event{Topic: t, Key: prefix})
	}
	return n
}

// Clear drops everything without publishing. The caller announces why,
// usually on TopicSession.
func (s *Store) Clear() {
	s.mu.Lock()
	clear(s.entries)
	s.mu.Unlock()
}

// Mount subscribes fn to the given topics, or to all topics when none are
// given. fn runs synchronously on the publishing goroutine and must not call
// Mount or Unmount.
func (s *Store) Mount(fn func(Event), topics ...string) *View {
	v := &View{store: s, fn: fn}
	if len(topics) > 0 {
		v.topics = map[string]struct{}{}
		for _, t := range topics {
			v.topics[t] = struct{}{}
		}
	}
	v.mounted.Store(true)

	s.mu.Lock()
	s.views[v] = struct{}{}
	s.mu.Unlock()
	return v
}

// Publish delivers ev to every mounted view subscribed to its topic.
func (s *Store) Publish(ev Event) {
	s.mu.Lock()
	targets := make([]*View, 0, len(s.views))
	for v := range s.views {
		if v.wants(ev.Topic) {
			targets = append(targets, v)
		}
	}
	s.mu.Unlock()

	for _, v := range targets {
		v.deliver(ev)
	}
}

// View is a mounted subscription.
type View struct {
	store   *Store
	fn      func(Event)
	topics  map[string]struct{}
	mounted atomic.Bool
}

func (v *View) wants(topic string) bool {
	if v.topics == nil {
		return true
	}
	_, ok := v.topics[topic]
	return ok
}

func (v *View) deliver(ev Event) {
	// an unmount that raced with Publish wins
	if v.mounted.Load() {
		v.fn(ev)
	}
}

// Unmount stops delivery. Events published afterwards are dropped. Safe to
// call more than once.
func (v *View) Unmount() {
	if !v.mounted.Swap(false) {
		return
	}
	v.store.mu.Lock()
	delete(v.store.views, v)
	v.store.mu.Unlock()
}

func (v *View) Mounted() bool { return v.mounted.Load() }
