// Package services contains application services for the QuoteHub client:
// quote CRUD and listing, dashboard aggregates and profile maintenance.
// Services validate input locally, call the remote API and keep the
// observable store consistent with what they changed.
package services

import (
	"errors"

	"github.com/dmitrijs2005/quotehub/internal/client/client"
	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/client/notify"
	"github.com/dmitrijs2005/quotehub/internal/client/store"
	"github.com/dmitrijs2005/quotehub/internal/logging"
)

// CurrentUser reports the signed-in profile, or nil.
type CurrentUser interface {
	User() *models.Profile
}

// Deps are the collaborators shared by every service.
type Deps struct {
	Cache    *store.Store
	Notifier notify.Notifier
	Log      logging.Logger
	Session  CurrentUser
}

func (d Deps) withDefaults() Deps {
	if d.Cache == nil {
		d.Cache = store.New()
	}
	if d.Notifier == nil {
		d.Notifier = notify.Discard{}
	}
	if d.Log == nil {
		d.Log = logging.Discard()
	}
	return d
}

// notifyFailure reports err to the user. The server's own message wins over
// fallback; authorization denials are left to the session gate.
func notifyFailure(n notify.Notifier, err error, fallback string) {
	if errors.Is(err, client.ErrUnauthorized) {
		return
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		n.Error(apiErr.Message)
		return
	}
	n.Error(fallback)
}
