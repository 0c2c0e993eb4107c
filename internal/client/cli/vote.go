package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/common"
)

// cmdVote toggles the user's vote on a quote. The rules are enforced by the
// coordinator, which also tells the user why a vote was refused.
func (a *App) cmdVote(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: vote <n|id>")
		return errMissingParams
	}

	var target *models.Quote
	if a.page != nil {
		target = a.pageItem(args[0])
	}
	if target == nil {
		q, err := a.quotes.Get(ctx, models.ID(args[0]))
		if err != nil {
			a.showError(err)
			return err
		}
		target = q
	}

	_, err := a.votes.ToggleVote(ctx, a.gate.User(), *target, a.inView(*target))
	if errors.Is(err, common.ErrVotePending) {
		a.println("Your previous vote is still being processed.")
	}
	return err
}

// pageItem finds ref on the last rendered page, as a list number first and
// then as an id.
func (a *App) pageItem(ref string) *models.Quote {
	if n, ok := listNumber(ref, len(a.page.Items)); ok {
		return &a.page.Items[n-1]
	}
	for i := range a.page.Items {
		if a.page.Items[i].ID.String() == ref {
			return &a.page.Items[i]
		}
	}
	return nil
}
