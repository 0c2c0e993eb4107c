package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/quotehub/internal/client/client"
	"github.com/dmitrijs2005/quotehub/internal/client/notify"
	"github.com/dmitrijs2005/quotehub/internal/client/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two authenticated requests in flight when the service revokes the token
// must produce exactly one teardown.
func TestGateBoundToREST_ConcurrentDenialsTearDownOnce(t *testing.T) {
	const wave = 2
	var (
		arrived  atomic.Int32
		released = make(chan struct{})
		once     sync.Once
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/auth/login" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"token":   "tok",
				"user":    map[string]any{"id": 1, "name": "Ann", "email": "a@x.com"},
			})
			return
		}
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		if arrived.Add(1) == wave {
			once.Do(func() { close(released) })
		}
		select {
		case <-released:
		case <-time.After(time.Second):
		}
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Token expired"})
	}))
	t.Cleanup(srv.Close)

	api := client.NewRESTClient(srv.URL+"/api", srv.URL)
	tokens := &memTokens{}
	cache := store.New()
	notices := &notify.Recorder{}
	events := &eventLog{}
	view := cache.Mount(events.add, store.TopicSession)
	t.Cleanup(view.Unmount)

	gate := NewGate(api, tokens, cache, WithNotifier(notices))
	var teardowns atomic.Int32
	api.Bind(gate, func(token string) {
		if gate.HandleAuthorizationDenied(token) {
			teardowns.Add(1)
		}
	})

	ctx := context.Background()
	_, err := gate.Login(ctx, loginForm())
	require.NoError(t, err)
	require.Equal(t, "tok", tokens.stored())

	var wg sync.WaitGroup
	for range wave {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := api.PersonalSummary(ctx)
			assert.ErrorIs(t, err, client.ErrUnauthorized)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(wave), arrived.Load())
	assert.Equal(t, int32(1), teardowns.Load())
	assert.Equal(t, 1, events.count(EventExpired))
	assert.Equal(t, 1, notices.Count(MsgSessionExpired))
	assert.Equal(t, 1, tokens.clears)
	assert.Equal(t, Anonymous, gate.CurrentSession().State)
	assert.Empty(t, tokens.stored())
}
