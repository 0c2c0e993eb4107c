package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/dmitrijs2005/quotehub/internal/client/client"
	"github.com/dmitrijs2005/quotehub/internal/client/config"
	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/client/notify"
	"github.com/dmitrijs2005/quotehub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/quotehub/internal/client/router"
	"github.com/dmitrijs2005/quotehub/internal/client/services"
	"github.com/dmitrijs2005/quotehub/internal/client/session"
	"github.com/dmitrijs2005/quotehub/internal/client/store"
	"github.com/dmitrijs2005/quotehub/internal/client/voting"
	"github.com/dmitrijs2005/quotehub/internal/logging"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	cache    *store.Store
	gate     *session.Gate
	router   *router.Router
	quotes   services.QuoteService
	dash     services.DashboardService
	profiles services.ProfileService
	votes    *voting.Coordinator

	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB

	filter models.QuoteFilter
	page   *models.QuotePage
	// screen is the route name last rendered.
	screen string
	// stale and sessionChanged are raised by store events and consumed after
	// each command.
	stale          atomic.Bool
	sessionChanged atomic.Bool
	view           *store.View
}

// NewApp opens the local database and wires the API client, the session
// gate and the services for c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	api := client.NewRESTClient(c.APIBaseURL, c.AuthBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log),
	)
	tokens := session.NewTokenStore(metadata.NewSQLiteRepository(db))

	a := newApp(c, api, tokens, notify.NewConsole(os.Stdout), log, os.Stdin, os.Stdout)
	api.Bind(a.gate, func(token string) { a.gate.HandleAuthorizationDenied(token) })
	a.db = db
	return a, nil
}

func newApp(c *config.Config, api client.Client, tokens session.TokenStore, notifier notify.Notifier, log logging.Logger, in io.Reader, out io.Writer) *App {
	cache := store.New()
	gate := session.NewGate(api, tokens, cache, session.WithLogger(log), session.WithNotifier(notifier))
	deps := services.Deps{Cache: cache, Notifier: notifier, Log: log, Session: gate}

	a := &App{
		config:   c,
		log:      log,
		cache:    cache,
		gate:     gate,
		router:   router.New(gate),
		quotes:   services.NewQuoteService(api, deps, c.CacheTTL, c.PageSize),
		dash:     services.NewDashboardService(api, deps),
		profiles: services.NewProfileService(api, gate, deps),
		votes:    voting.NewCoordinator(api, cache, notifier, log),
		reader:   bufio.NewReader(in),
		out:      out,
		filter:   models.QuoteFilter{Limit: c.PageSize},
	}
	a.view = cache.Mount(a.onEvent, store.TopicQuotes, store.TopicQuote, store.TopicSession)
	return a
}

func (a *App) onEvent(ev store.Event) {
	if ev.Topic == store.TopicSession {
		a.sessionChanged.Store(true)
		return
	}
	a.stale.Store(true)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// Run restores the saved session, starts the background session watcher and
// blocks in the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	if err := a.gate.Init(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if _, err := a.gate.Resolve(ctx); err != nil {
		a.log.Warn(ctx, "could not confirm saved session", "error", err)
		a.println("Could not reach the server to confirm your session; it will be retried.")
	}

	watchCtx, stop := context.WithCancel(ctx)
	defer stop()
	go a.gate.Watch(watchCtx, a.config.SessionCheckInterval)

	a.println("Welcome to QuoteHub (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

func (a *App) close() {
	a.view.Unmount()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "error closing database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.gate.CurrentSession().IsAuthenticated()
}

func (a *App) status() string {
	s := a.gate.CurrentSession()
	switch {
	case s.IsAuthenticated():
		return s.User.Name
	case s.State == session.Unknown:
		return "checking"
	default:
		return "guest"
	}
}
