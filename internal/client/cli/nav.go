package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/quotehub/internal/client/router"
	"github.com/dmitrijs2005/quotehub/internal/client/store"
)

// maxHops bounds redirect chains such as protected -> login -> return.
const maxHops = 4

var (
	errPageNotFound  = errors.New("page not found")
	errTooManyHops   = errors.New("too many redirects")
	errMissingParams = errors.New("missing arguments")
)

type screen func(ctx context.Context, params map[string]string, args []string) error

func (a *App) screens() map[string]screen {
	return map[string]screen{
		"home":       a.homeScreen,
		"quotes":     a.listScreen,
		"login":      a.loginScreen,
		"register":   a.registerScreen,
		"dashboard":  a.dashboardScreen,
		"add-quote":  a.addQuoteScreen,
		"edit-quote": a.editQuoteScreen,
		"profile":    a.profileScreen,
	}
}

// open navigates to path and renders the screen the router settles on.
// args are handed to the screen only if no redirect happened on the way.
func (a *App) open(ctx context.Context, path string, args []string) error {
	for range maxHops {
		d := a.router.Navigate(path)
		switch d.Kind {
		case router.NotFound:
			a.printf("Page not found: %s\n", d.Path)
			return errPageNotFound

		case router.Loading:
			a.println("Checking your session...")
			if _, err := a.gate.Resolve(ctx); err != nil {
				if ctx.Err() != nil {
					return err
				}
				// the session is settled as signed out; route on that
				a.printf("Could not confirm your session: %s\n", errorText(err))
			}

		case router.Redirect:
			if d.Path == router.PathLogin {
				a.println("Please log in to continue.")
			}
			path, args = d.Path, nil

		default:
			a.screen = d.Route.Name
			return a.screens()[d.Route.Name](ctx, d.Params, args)
		}
	}
	return errTooManyHops
}

func (a *App) cmdOpen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: open <path>")
		return errMissingParams
	}
	return a.open(ctx, args[0], args[1:])
}

// afterCommand brings the current screen up to date with what the command
// (or the background session watcher) changed.
func (a *App) afterCommand(ctx context.Context) {
	if a.sessionChanged.Swap(false) && !a.isLoggedIn() {
		a.page = nil
		a.filter.UserName = ""
		switch a.screen {
		case "dashboard", "add-quote", "edit-quote", "profile":
			a.screen = ""
		}
	}
	if a.stale.Swap(false) && a.screen == "quotes" && a.page != nil {
		if _, ok := a.cache.Get(store.QuotesKey(a.listFilter())); !ok {
			_ = a.listScreen(ctx, nil, nil)
		}
	}
}
