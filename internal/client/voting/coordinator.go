// Package voting turns vote clicks into add and remove mutations while
// keeping each user to at most one active vote.
package voting

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/quotehub/internal/client/client"
	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/client/notify"
	"github.com/dmitrijs2005/quotehub/internal/client/store"
	"github.com/dmitrijs2005/quotehub/internal/common"
	"github.com/dmitrijs2005/quotehub/internal/logging"
)

const (
	MsgVoteAdded   = "Vote submitted successfully!"
	MsgVoteRemoved = "Vote removed successfully!"
	MsgOwnQuote    = "You cannot vote on your own quote"
	MsgLoginToVote = "Please log in to vote"

	LabelRemove = "Remove vote"
	LabelSwitch = "Switch vote"
	LabelVote   = "Vote"

	excerptLength = 50
)

// Outcome is what a ToggleVote call changed.
type Outcome int

const (
	OutcomeNone Outcome = iota
	Added
	Removed
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "none"
	}
}

// AlreadyVotedElsewhereError names the quote that holds the user's vote.
type AlreadyVotedElsewhereError struct {
	QuoteID models.ID
	Excerpt string
}

func (e *AlreadyVotedElsewhereError) Error() string {
	return fmt.Sprintf("you have already voted for %q; remove that vote first", e.Excerpt)
}

func (e *AlreadyVotedElsewhereError) Unwrap() error { return common.ErrAlreadyVotedElsewhere }

// VoteAPI is the part of the remote service the coordinator needs.
type VoteAPI interface {
	Vote(ctx context.Context, id models.ID, value int) (*models.VoteResult, error)
	VoteEligibility(ctx context.Context, id models.ID) (*models.VoteEligibility, error)
}

// Coordinator serialises each user's vote mutations and enforces the
// one-active-vote rule against the cached quotes.
type Coordinator struct {
	api      VoteAPI
	cache    *store.Store
	notifier notify.Notifier
	log      logging.Logger

	mu      sync.Mutex
	pending map[models.ID]struct{}
}

// NewCoordinator returns a Coordinator; nil notifier and logger discard.
func NewCoordinator(api VoteAPI, cache *store.Store, notifier notify.Notifier, log logging.Logger) *Coordinator {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Coordinator{
		api:      api,
		cache:    cache,
		notifier: notifier,
		log:      log,
		pending:  map[models.ID]struct{}{},
	}
}

// ToggleVote adds or removes user's vote on target. Every rule that can be
// decided from the cached quotes is checked before anything is sent:
// the user must be signed in, must not own target, must not have another
// vote in flight, and must not hold a vote on another quote in inView.
//
// The mutation is detached from ctx cancellation so an abandoned view still
// leaves the cache consistent. No counts are changed locally; the affected
// cache entries are invalidated and refetched on the next read.
func (c *Coordinator) ToggleVote(ctx context.Context, user *models.Profile, target models.Quote, inView []models.Quote) (Outcome, error) {
	if user == nil || user.ID == "" {
		c.notifier.Error(MsgLoginToVote)
		return OutcomeNone, common.ErrNotAuthenticated
	}
	if target.IsOwnedBy(user.ID) {
		c.notifier.Error(MsgOwnQuote)
		return OutcomeNone, common.ErrOwnQuote
	}
	if !c.acquire(user.ID) {
		return OutcomeNone, common.ErrVotePending
	}
	defer c.release(user.ID)

	value, outcome := models.VoteAdd, Added
	if target.HasVoter(user.ID) {
		value, outcome = models.VoteRemove, Removed
	} else if other := CurrentVoted(user, inView); other != nil && other.ID != target.ID {
		err := &AlreadyVotedElsewhereError{QuoteID: other.ID, Excerpt: common.Excerpt(other.Content, excerptLength)}
		c.notifier.Error(err.Error())
		return OutcomeNone, err
	}

	mctx := context.WithoutCancel(ctx)
	if _, err := c.api.Vote(mctx, target.ID, value); err != nil {
		c.log.Warn(mctx, "vote failed", "quote_id", target.ID, "value", value, "error", err)
		// a denial is handled by the session gate, which already told the user
		if !errors.Is(err, client.ErrUnauthorized) {
			c.notifier.Error(client.Message(err))
		}
		return OutcomeNone, fmt.Errorf("vote on %s: %w", target.ID, err)
	}

	c.cache.Invalidate(store.QuotesPrefix)
	c.cache.Remove(store.QuoteKey(target.ID))
	c.cache.Remove(store.VoteStatusKey(target.ID))
	c.cache.Remove(store.KeyTopVotedQuotes)

	if outcome == Added {
		c.notifier.Success(MsgVoteAdded)
	} else {
		c.notifier.Success(MsgVoteRemoved)
	}
	c.log.Info(mctx, "vote committed", "quote_id", target.ID, "outcome", outcome)
	return outcome, nil
}

func (c *Coordinator) acquire(userID models.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.pending[userID]; busy {
		return false
	}
	c.pending[userID] = struct{}{}
	return true
}

func (c *Coordinator) release(userID models.ID) {
	c.mu.Lock()
	delete(c.pending, userID)
	c.mu.Unlock()
}

// Pending reports whether userID has a vote in flight.
func (c *Coordinator) Pending(userID models.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[userID]
	return ok
}

// Status is what a vote button shows for one quote.
type Status struct {
	IsVoted       bool
	HasVotedOther bool
	CanVote       bool
	Label         string
}

// StatusFor derives the button state of q from the cached quotes.
func StatusFor(user *models.Profile, q models.Quote, inView []models.Quote) Status {
	if user == nil || user.ID == "" {
		return Status{Label: LabelVote}
	}
	voted := q.HasVoter(user.ID)
	other := CurrentVoted(user, inView)
	hasOther := other != nil && other.ID != q.ID
	st := Status{
		IsVoted:       voted,
		HasVotedOther: hasOther,
		CanVote:       !q.IsOwnedBy(user.ID) && (voted || !hasOther),
		Label:         LabelVote,
	}
	switch {
	case voted:
		st.Label = LabelRemove
	case hasOther:
		st.Label = LabelSwitch
	}
	return st
}

// CurrentVoted returns the first quote in inView carrying user's vote.
func CurrentVoted(user *models.Profile, inView []models.Quote) *models.Quote {
	if user == nil {
		return nil
	}
	for i := range inView {
		if inView[i].HasVoter(user.ID) {
			return &inView[i]
		}
	}
	return nil
}

// Eligibility asks the service whether the current user may vote on id.
// Answers are cached under the quote's vote-status key until the next vote.
func (c *Coordinator) Eligibility(ctx context.Context, id models.ID) (*models.VoteEligibility, error) {
	key := store.VoteStatusKey(id)
	if e, ok := store.Lookup[models.VoteEligibility](c.cache, key); ok {
		return &e, nil
	}
	e, err := c.api.VoteEligibility(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("vote eligibility %s: %w", id, err)
	}
	c.cache.Set(key, *e, 0)
	return e, nil
}
