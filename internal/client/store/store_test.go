package store

import (
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore() (*Store, *clock) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := New()
	s.now = c.now
	return s, c
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestSetGet_TTL(t *testing.T) {
	s, c := newTestStore()

	s.Set("quote/1", "hello", time.Minute)
	v, ok := Lookup[string](s, "quote/1")
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	c.advance(time.Minute)
	_, ok = s.Get("quote/1")
	assert.False(t, ok, "entry must expire at its deadline")
}

func TestSet_NoTTLNeverExpires(t *testing.T) {
	s, c := newTestStore()
	s.Set(KeyUser, 1, 0)
	c.advance(24 * time.Hour)
	_, ok := s.Get(KeyUser)
	assert.True(t, ok)
}

func TestLookup_WrongType(t *testing.T) {
	s, _ := newTestStore()
	s.Set("k", 42, 0)
	_, ok := Lookup[string](s, "k")
	assert.False(t, ok)
}

func TestInvalidate_ByPrefix(t *testing.T) {
	s, _ := newTestStore()
	s.Set(QuotesKey(models.QuoteFilter{Page: 1}), 1, 0)
	s.Set(QuotesKey(models.QuoteFilter{Page: 2}), 2, 0)
	s.Set(QuoteKey("7"), 3, 0)

	rec := &recorder{}
	s.Mount(rec.record)

	assert.Equal(t, 2, s.Invalidate(QuotesPrefix))
	_, ok := s.Get(QuoteKey("7"))
	assert.True(t, ok)
	assert.Equal(t, []Event{{Topic: TopicQuotes, Key: QuotesPrefix}}, rec.all())

	assert.Zero(t, s.Invalidate(QuotesPrefix))
	assert.Len(t, rec.all(), 1, "nothing dropped, nothing published")
}

func TestMount_TopicFilter(t *testing.T) {
	s, _ := newTestStore()
	quotes, user := &recorder{}, &recorder{}
	s.Mount(quotes.record, TopicQuotes, TopicQuote)
	s.Mount(user.record, TopicUser)

	s.Set(QuoteKey("1"), 1, 0)
	s.Set(KeyUser, 2, 0)
	s.Set(KeyPersonalSummary, 3, 0)

	assert.Equal(t, []Event{{Topic: TopicQuote, Key: "quote/1"}}, quotes.all())
	assert.Equal(t, []Event{{Topic: TopicUser, Key: KeyUser}}, user.all())
}

func TestUnmount_StopsDelivery(t *testing.T) {
	s, _ := newTestStore()
	rec := &recorder{}
	v := s.Mount(rec.record)

	s.Publish(Event{Topic: TopicSession})
	v.Unmount()
	v.Unmount()
	s.Publish(Event{Topic: TopicSession})
	s.Set(KeyUser, 1, 0)

	assert.False(t, v.Mounted())
	assert.Len(t, rec.all(), 1)
}

func TestRemoveAndClear(t *testing.T) {
	s, _ := newTestStore()
	rec := &recorder{}
	s.Set(QuoteKey("1"), 1, 0)
	s.Set(KeyUser, 1, 0)
	s.Mount(rec.record)

	s.Remove(QuoteKey("1"))
	s.Remove(QuoteKey("1"))
	assert.Len(t, rec.all(), 1)

	s.Clear()
	_, ok := s.Get(KeyUser)
	assert.False(t, ok)
	assert.Len(t, rec.all(), 1)
}

func TestTopicOf(t *testing.T) {
	assert.Equal(t, TopicQuotes, TopicOf(QuotesKey(models.QuoteFilter{Search: "x"})))
	assert.Equal(t, TopicVote, TopicOf(VoteStatusKey("3")))
	assert.Equal(t, TopicDashboard, TopicOf(KeyTopVotedQuotes))
	assert.Equal(t, TopicUser, TopicOf(KeyUser))
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	v := s.Mount(func(Event) {})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Set(QuoteKey("1"), j, time.Minute)
				s.Get(QuoteKey("1"))
				s.Invalidate(QuotePrefix)
			}
		}()
	}
	v.Unmount()
	wg.Wait()
}
