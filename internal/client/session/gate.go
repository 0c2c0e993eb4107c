// Package session owns the client's authenticated identity: the persisted
// bearer token, the profile fetched for it and the transitions between
// unknown, authenticated and anonymous.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/quotehub/internal/client/client"
	"github.com/dmitrijs2005/quotehub/internal/client/forms"
	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/client/notify"
	"github.com/dmitrijs2005/quotehub/internal/client/store"
	"github.com/dmitrijs2005/quotehub/internal/common"
	"github.com/dmitrijs2005/quotehub/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

const (
	MsgLoginSuccess    = "Login successful!"
	MsgRegisterSuccess = "Registration successful!"
	MsgLoggedOut       = "Logged out successfully"
	MsgSessionExpired  = "Your session has expired. Please log in again."

	defaultResolveAttempts = 3
	defaultRetryDelay      = 500 * time.Millisecond
)

// Reasons published on store.TopicSession.
const (
	EventLogin    = "login"
	EventLogout   = "logout"
	EventExpired  = "expired"
	EventResolved = "resolved"
)

// AuthAPI is the part of the remote service the gate talks to.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Register(ctx context.Context, account models.NewAccount) (*models.AuthResult, error)
	Profile(ctx context.Context) (*models.Profile, error)
}

// Gate owns the session: it loads and persists the token, resolves the
// profile behind it and publishes every transition on store.TopicSession.
type Gate struct {
	api      AuthAPI
	tokens   TokenStore
	cache    *store.Store
	notifier notify.Notifier
	log      logging.Logger
	now      func() time.Time

	attempts   int
	retryDelay time.Duration

	// mu guards everything below and serialises writes to tokens so the
	// persisted token never disagrees with the in-memory one.
	mu       sync.Mutex
	token    string
	expiry   time.Time
	state    State
	user     *models.Profile
	lastErr  error
	inflight *resolveCall
	// generation changes on every token change; results of fetches started
	// under an older generation are dropped.
	generation uint64
}

type resolveCall struct {
	done chan struct{}
	sess Session
	err  error
}

// Option configures a Gate.
type Option func(*Gate)

func WithLogger(l logging.Logger) Option { return func(g *Gate) { g.log = l } }

func WithNotifier(n notify.Notifier) Option { return func(g *Gate) { g.notifier = n } }

func WithClock(now func() time.Time) Option { return func(g *Gate) { g.now = now } }

// WithRetry sets how many times a profile fetch is attempted while the
// service is unavailable, and the pause between attempts.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(g *Gate) {
		if attempts > 0 {
			g.attempts = attempts
		}
		g.retryDelay = delay
	}
}

// NewGate returns an Anonymous gate; call Init to pick up a stored token.
func NewGate(api AuthAPI, tokens TokenStore, cache *store.Store, opts ...Option) *Gate {
	g := &Gate{
		api:        api,
		tokens:     tokens,
		cache:      cache,
		notifier:   notify.Discard{},
		log:        logging.Discard(),
		now:        time.Now,
		attempts:   defaultResolveAttempts,
		retryDelay: defaultRetryDelay,
		state:      Anonymous,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Init loads the persisted token. With a token the gate is Unknown until
// Resolve confirms it; a JWT that has already expired is discarded without a
// network round trip.
func (g *Gate) Init(ctx context.Context) error {
	stored, err := g.tokens.Load(ctx)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.generation++
	g.user, g.lastErr, g.inflight = nil, nil, nil
	if stored == nil {
		g.token, g.expiry, g.state = "", time.Time{}, Anonymous
		return nil
	}

	g.token, g.expiry, g.state = stored.Value, tokenExpiry(stored.Value), Unknown
	if g.expiredLocked() {
		g.log.Info(ctx, "stored token expired", "expired_at", g.expiry)
		g.token, g.expiry, g.state = "", time.Time{}, Anonymous
		if err := g.tokens.Clear(ctx); err != nil {
			g.log.Warn(ctx, "failed to clear expired token", "error", err)
		}
	}
	return nil
}

// tokenExpiry reads the exp claim of a JWT without verifying it. Opaque
// tokens have no known expiry.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func (g *Gate) expiredLocked() bool {
	return !g.expiry.IsZero() && !g.now().Before(g.expiry)
}

func (g *Gate) snapshotLocked() Session {
	s := Session{State: g.state, Err: g.lastErr}
	if g.user != nil {
		u := *g.user
		s.User = &u
	}
	return s
}

// retryableLocked reports whether the last profile fetch failed for a reason
// that may go away, with the token still in place.
func (g *Gate) retryableLocked() bool {
	return g.state == Anonymous && g.token != "" && transient(g.lastErr)
}

func transient(err error) bool {
	return errors.Is(err, client.ErrUnavailable)
}

// CurrentSession returns a snapshot of the session.
func (g *Gate) CurrentSession() Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// User returns a copy of the current profile, or nil.
func (g *Gate) User() *models.Profile {
	return g.CurrentSession().User
}

// Resolve fetches the profile for the stored token when the state is
// Unknown, or when an earlier fetch failed because the service was
// unavailable. Concurrent callers share one fetch. A completed fetch that
// fails for a reason other than an authorization denial leaves the session
// Anonymous with the token kept and the failure in Session.Err; the failure
// is also returned.
func (g *Gate) Resolve(ctx context.Context) (Session, error) {
	g.mu.Lock()
	if g.retryableLocked() {
		g.state, g.lastErr = Unknown, nil
	}
	if g.state != Unknown {
		s := g.snapshotLocked()
		g.mu.Unlock()
		return s, nil
	}
	call := g.inflight
	if call == nil {
		call = &resolveCall{done: make(chan struct{})}
		g.inflight = call
		gen, token := g.generation, g.token
		go g.resolve(call, gen, token)
	}
	g.mu.Unlock()

	select {
	case <-call.done:
		return call.sess, call.err
	case <-ctx.Done():
		return g.CurrentSession(), ctx.Err()
	}
}

// resolve runs detached from any single caller so one impatient caller
// cannot fail the fetch for the others.
func (g *Gate) resolve(call *resolveCall, gen uint64, token string) {
	defer close(call.done)
	ctx := context.Background()

	var (
		profile *models.Profile
		err     error
	)
	for attempt := 1; attempt <= g.attempts; attempt++ {
		profile, err = g.api.Profile(ctx)
		if err == nil || !transient(err) {
			break
		}
		g.log.Warn(ctx, "profile fetch failed", "attempt", attempt, "error", err)
		if attempt < g.attempts && g.retryDelay > 0 {
			time.Sleep(g.retryDelay * time.Duration(attempt))
		}
	}

	if errors.Is(err, client.ErrUnauthorized) {
		g.HandleAuthorizationDenied(token)
		call.sess = g.CurrentSession()
		return
	}

	g.mu.Lock()
	if g.generation != gen {
		// logged out or logged in again meanwhile
		call.sess = g.snapshotLocked()
		g.mu.Unlock()
		return
	}
	g.inflight = nil
	if err != nil {
		g.state, g.lastErr = Anonymous, err
		call.sess, call.err = g.snapshotLocked(), fmt.Errorf("resolve session: %w", err)
		g.mu.Unlock()
		g.cache.Publish(store.Event{Topic: store.TopicSession, Key: EventResolved})
		return
	}
	g.state, g.user, g.lastErr = Authenticated, profile, nil
	call.sess = g.snapshotLocked()
	g.mu.Unlock()

	g.cache.Set(store.KeyUser, *profile, 0)
	g.cache.Publish(store.Event{Topic: store.TopicSession, Key: EventResolved})
}

// Login validates the form, authenticates and persists the returned token.
// Either everything succeeds or nothing is stored and the session is left as
// it was.
func (g *Gate) Login(ctx context.Context, form *forms.LoginForm) (Session, error) {
	if err := form.Validate(); err != nil {
		return g.CurrentSession(), err
	}
	creds := form.Credentials()
	res, err := g.api.Login(ctx, creds)
	if err != nil {
		g.log.Info(ctx, "login failed", "email", creds.Email, "error", err)
		g.notifier.Error(client.Message(err))
		return g.CurrentSession(), fmt.Errorf("login: %w", err)
	}
	return g.adopt(ctx, res, creds.Email, EventLogin, MsgLoginSuccess)
}

// Register has the same all-or-nothing contract as Login.
func (g *Gate) Register(ctx context.Context, form *forms.RegisterForm) (Session, error) {
	if err := form.Validate(); err != nil {
		return g.CurrentSession(), err
	}
	account := form.Account()
	res, err := g.api.Register(ctx, account)
	if err != nil {
		g.log.Info(ctx, "registration failed", "email", account.Email, "error", err)
		g.notifier.Error(client.Message(err))
		return g.CurrentSession(), fmt.Errorf("register: %w", err)
	}
	return g.adopt(ctx, res, account.Email, EventLogin, MsgRegisterSuccess)
}

func (g *Gate) adopt(ctx context.Context, res *models.AuthResult, email, event, msg string) (Session, error) {
	if res.Profile.Email != "" {
		email = res.Profile.Email
	}

	g.mu.Lock()
	if err := g.tokens.Save(context.WithoutCancel(ctx), res.Token, email); err != nil {
		s := g.snapshotLocked()
		g.mu.Unlock()
		return s, err
	}
	profile := res.Profile
	g.generation++
	g.token, g.expiry = res.Token, tokenExpiry(res.Token)
	g.state, g.user, g.lastErr, g.inflight = Authenticated, &profile, nil, nil
	s := g.snapshotLocked()
	g.mu.Unlock()

	// a new identity must not see the previous one's cached data
	g.cache.Clear()
	g.cache.Set(store.KeyUser, profile, 0)
	g.cache.Publish(store.Event{Topic: store.TopicSession, Key: event})
	g.notifier.Success(msg)
	g.log.Info(ctx, "session started", "user_id", profile.ID)
	return s, nil
}

// Logout forgets the token and everything cached for it. It never fails;
// a token that cannot be deleted from disk is logged.
func (g *Gate) Logout(ctx context.Context) {
	g.mu.Lock()
	g.generation++
	g.token, g.expiry = "", time.Time{}
	g.state, g.user, g.lastErr, g.inflight = Anonymous, nil, nil, nil
	if err := g.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
		g.log.Warn(ctx, "failed to delete token on logout", "error", err)
	}
	g.mu.Unlock()

	g.cache.Clear()
	g.cache.Publish(store.Event{Topic: store.TopicSession, Key: EventLogout})
	g.notifier.Success(MsgLoggedOut)
}

// HandleAuthorizationDenied tears the session down after the service
// rejected token. It is a no-op unless token is still the current one, so
// concurrent denials of the same request wave produce one teardown. It
// reports whether this call performed the teardown.
func (g *Gate) HandleAuthorizationDenied(token string) bool {
	ctx := context.Background()

	g.mu.Lock()
	if token == "" || token != g.token {
		g.mu.Unlock()
		return false
	}
	g.generation++
	g.token, g.expiry = "", time.Time{}
	g.state, g.user, g.lastErr, g.inflight = Anonymous, nil, nil, nil
	if err := g.tokens.Clear(ctx); err != nil {
		g.log.Warn(ctx, "failed to delete rejected token", "error", err)
	}
	g.mu.Unlock()

	g.log.Info(ctx, "session torn down after authorization denial")
	g.cache.Clear()
	g.cache.Publish(store.Event{Topic: store.TopicSession, Key: EventExpired})
	g.notifier.Error(MsgSessionExpired)
	return true
}

// Token implements oauth2.TokenSource for the REST transport. A JWT found
// expired locally tears the session down before any request is sent.
func (g *Gate) Token() (*oauth2.Token, error) {
	g.mu.Lock()
	token, expiry, expired := g.token, g.expiry, g.expiredLocked()
	g.mu.Unlock()

	if token == "" {
		return nil, common.ErrNotAuthenticated
	}
	if expired {
		g.HandleAuthorizationDenied(token)
		return nil, common.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer", Expiry: expiry}, nil
}

// SetUser replaces the cached identity after a profile update.
func (g *Gate) SetUser(p models.Profile) {
	g.mu.Lock()
	if g.state != Authenticated {
		g.mu.Unlock()
		return
	}
	g.user = &p
	g.mu.Unlock()

	g.cache.Set(store.KeyUser, p, 0)
}

// Revalidate re-fetches the profile of an authenticated session so a token
// revoked on the server is noticed. A token whose first fetch hit an
// unavailable service is resolved again. Other states are left alone.
func (g *Gate) Revalidate(ctx context.Context) error {
	g.mu.Lock()
	state, token, expired, retry := g.state, g.token, g.expiredLocked(), g.retryableLocked()
	g.mu.Unlock()

	if retry {
		_, err := g.Resolve(ctx)
		return err
	}
	if state != Authenticated {
		return nil
	}
	if expired {
		g.HandleAuthorizationDenied(token)
		return nil
	}

	p, err := g.api.Profile(ctx)
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		g.HandleAuthorizationDenied(token)
		return nil
	case err != nil:
		return fmt.Errorf("revalidate session: %w", err)
	}

	g.mu.Lock()
	current := g.token == token
	g.mu.Unlock()
	if current {
		g.SetUser(*p)
	}
	return nil
}

// Watch revalidates every interval until ctx is done.
func (g *Gate) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := g.Revalidate(ctx); err != nil {
				g.log.Warn(ctx, "session revalidation failed", "error", err)
			}
		}
	}
}

// LastEmail is the email of the most recent login, for prefilling prompts.
func (g *Gate) LastEmail(ctx context.Context) string {
	email, err := g.tokens.LastEmail(ctx)
	if err != nil {
		g.log.Warn(ctx, "failed to read last email", "error", err)
	}
	return email
}
