// Package router maps paths to screens and applies the session guards:
// public-only screens bounce signed-in users, protected screens send
// anonymous users to the login screen and remember where they were going.
package router

import (
	"strings"
	"sync"

	"github.com/dmitrijs2005/quotehub/internal/client/session"
)

type Access int

const (
	Public Access = iota
	// PublicOnly screens make no sense with a session (login, register).
	PublicOnly
	Protected
)

const (
	PathHome      = "/"
	PathQuoteList = "/quote/list"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathDashboard = "/dashboard"
	PathAddQuote  = "/add-quote"
	PathEditQuote = "/edit-quote/:id"
	PathProfile   = "/profile"
)

type Route struct {
	Pattern string
	Name    string
	Access  Access
}

var DefaultRoutes = []Route{
	{PathHome, "home", Public},
	{PathQuoteList, "quotes", Public},
	{PathLogin, "login", PublicOnly},
	{PathRegister, "register", PublicOnly},
	{PathDashboard, "dashboard", Protected},
	{PathAddQuote, "add-quote", Protected},
	{PathEditQuote, "edit-quote", Protected},
	{PathProfile, "profile", Protected},
}

type Kind int

const (
	Render Kind = iota
	Redirect
	// Loading is returned while the session is Unknown; neither branch of a
	// guard may be taken yet.
	Loading
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case Loading:
		return "loading"
	default:
		return "not-found"
	}
}

type Decision struct {
	Kind Kind
	// Path is the requested path for Render, Loading and NotFound, and the
	// target for Redirect.
	Path   string
	Route  *Route
	Params map[string]string
}

// SessionSource reports the current session.
type SessionSource interface {
	CurrentSession() session.Session
}

type Router struct {
	sessions SessionSource
	routes   []Route

	mu       sync.Mutex
	returnTo string
}

func New(sessions SessionSource, routes ...Route) *Router {
	if len(routes) == 0 {
		routes = DefaultRoutes
	}
	return &Router{sessions: sessions, routes: routes}
}

// Navigate decides what happens when path is opened.
func (r *Router) Navigate(path string) Decision {
	path = clean(path)
	route, params := r.match(path)
	if route == nil {
		return Decision{Kind: NotFound, Path: path}
	}
	d := Decision{Kind: Render, Path: path, Route: route, Params: params}
	if route.Access == Public {
		return d
	}

	s := r.sessions.CurrentSession()
	if s.State == session.Unknown {
		d.Kind = Loading
		return d
	}

	switch route.Access {
	case PublicOnly:
		if s.IsAuthenticated() {
			return Decision{Kind: Redirect, Path: r.ConsumeReturnTo(), Route: route}
		}
	case Protected:
		if !s.IsAuthenticated() {
			r.mu.Lock()
			r.returnTo = path
			r.mu.Unlock()
			return Decision{Kind: Redirect, Path: PathLogin, Route: route}
		}
	}
	return d
}

// ConsumeReturnTo returns the remembered destination once, then forgets it.
// Without one it returns the home path.
func (r *Router) ConsumeReturnTo() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	to := r.returnTo
	r.returnTo = ""
	if to == "" {
		return PathHome
	}
	return to
}

// PendingReturnTo reports the remembered destination without consuming it.
func (r *Router) PendingReturnTo() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.returnTo
}

// ForgetReturnTo drops the remembered destination, for logouts.
func (r *Router) ForgetReturnTo() {
	r.mu.Lock()
	r.returnTo = ""
	r.mu.Unlock()
}

func (r *Router) match(path string) (*Route, map[string]string) {
	segs := split(path)
	for i := range r.routes {
		rt := &r.routes[i]
		pat := split(rt.Pattern)
		if len(pat) != len(segs) {
			continue
		}
		params := map[string]string{}
		ok := true
		for j, p := range pat {
			if name, isParam := strings.CutPrefix(p, ":"); isParam {
				if segs[j] == "" {
					ok = false
					break
				}
				params[name] = segs[j]
				continue
			}
			if p != segs[j] {
				ok = false
				break
			}
		}
		if ok {
			return rt, params
		}
	}
	return nil, nil
}

// clean drops the query string and any trailing slash.
func clean(path string) string {
	path, _, _ = strings.Cut(strings.TrimSpace(path), "?")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// EditQuotePath builds the edit path for a quote id.
func EditQuotePath(id string) string {
	return strings.TrimSuffix(PathEditQuote, ":id") + id
}
