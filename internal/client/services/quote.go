package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/quotehub/internal/client/forms"
	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/client/store"
	"github.com/dmitrijs2005/quotehub/internal/common"
)

const (
	MsgQuoteCreated = "Quote created successfully!"
	MsgQuoteUpdated = "Quote updated successfully!"
	MsgQuoteDeleted = "Quote deleted successfully!"

	msgCreateFailed = "Failed to create quote"
	msgUpdateFailed = "Failed to update quote"
	msgDeleteFailed = "Failed to delete quote"

	DefaultListTTL = 5 * time.Minute
	detailTTL      = 30 * time.Second
)

// QuoteAPI is the part of the remote service used for quotes.
type QuoteAPI interface {
	ListQuotes(ctx context.Context, filter models.QuoteFilter) (*models.QuotePage, error)
	GetQuote(ctx context.Context, id models.ID) (*models.Quote, error)
	CreateQuote(ctx context.Context, input models.QuoteInput) (*models.Quote, error)
	UpdateQuote(ctx context.Context, id models.ID, input models.QuoteInput) (*models.Quote, error)
	DeleteQuote(ctx context.Context, id models.ID) error
}

// QuoteService defines quote operations for the CLI.
//
// Contract:
//   - List: one page of quotes matching a normalised filter, served from the
//     cache while fresh.
//   - Get: a single quote, cached briefly.
//   - Create, Update: validate the form before anything is sent.
//   - Update, Delete: only the quote's creator may call them.
//
// Every successful mutation invalidates the cached lists.
type QuoteService interface {
	List(ctx context.Context, filter models.QuoteFilter) (*models.QuotePage, error)
	Get(ctx context.Context, id models.ID) (*models.Quote, error)
	Create(ctx context.Context, form *forms.QuoteForm) (*models.Quote, error)
	Update(ctx context.Context, id models.ID, form *forms.QuoteForm) (*models.Quote, error)
	Delete(ctx context.Context, id models.ID) error
}

type quoteService struct {
	api      QuoteAPI
	deps     Deps
	ttl      time.Duration
	pageSize int
}

// NewQuoteService builds a QuoteService. A zero ttl or pageSize selects the
// defaults.
func NewQuoteService(api QuoteAPI, deps Deps, ttl time.Duration, pageSize int) QuoteService {
	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	return &quoteService{api: api, deps: deps.withDefaults(), ttl: ttl, pageSize: pageSize}
}

func (s *quoteService) List(ctx context.Context, filter models.QuoteFilter) (*models.QuotePage, error) {
	if filter.Limit == 0 {
		filter.Limit = s.pageSize
	}
	filter = filter.Normalize()

	key := store.QuotesKey(filter)
	if page, ok := store.Lookup[models.QuotePage](s.deps.Cache, key); ok {
		return &page, nil
	}

	page, err := s.api.ListQuotes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	if page.Pagination.Page == 0 {
		page.Pagination.Page, page.Pagination.Limit = filter.Page, filter.Limit
	}
	s.deps.Cache.Set(key, *page, s.ttl)
	return page, nil
}

func (s *quoteService) Get(ctx context.Context, id models.ID) (*models.Quote, error) {
	key := store.QuoteKey(id)
	if q, ok := store.Lookup[models.Quote](s.deps.Cache, key); ok {
		return &q, nil
	}
	q, err := s.api.GetQuote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quote %s: %w", id, err)
	}
	s.deps.Cache.Set(key, *q, detailTTL)
	return q, nil
}

func (s *quoteService) currentUser() (*models.Profile, error) {
	if s.deps.Session == nil {
		return nil, common.ErrNotAuthenticated
	}
	u := s.deps.Session.User()
	if u == nil || u.ID == "" {
		return nil, common.ErrNotAuthenticated
	}
	return u, nil
}

func (s *quoteService) Create(ctx context.Context, form *forms.QuoteForm) (*models.Quote, error) {
	if _, err := s.currentUser(); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	q, err := s.api.CreateQuote(ctx, form.Input())
	if err != nil {
		s.deps.Log.Warn(ctx, "create quote failed", "error", err)
		notifyFailure(s.deps.Notifier, err, msgCreateFailed)
		return nil, fmt.Errorf("create quote: %w", err)
	}

	s.deps.Cache.Invalidate(store.QuotesPrefix)
	s.deps.Cache.Remove(store.KeyPersonalSummary)
	s.deps.Notifier.Success(MsgQuoteCreated)
	s.deps.Log.Info(ctx, "quote created", "quote_id", q.ID)
	return q, nil
}

// ownedQuote loads id and checks that the signed-in user created it.
func (s *quoteService) ownedQuote(ctx context.Context, id models.ID) (*models.Quote, error) {
	user, err := s.currentUser()
	if err != nil {
		return nil, err
	}
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.IsOwnedBy(user.ID) {
		return nil, common.ErrNotOwner
	}
	return q, nil
}

func (s *quoteService) Update(ctx context.Context, id models.ID, form *forms.QuoteForm) (*models.Quote, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.ownedQuote(ctx, id); err != nil {
		return nil, err
	}

	q, err := s.api.UpdateQuote(ctx, id, form.Input())
	if err != nil {
		s.deps.Log.Warn(ctx, "update quote failed", "quote_id", id, "error", err)
		notifyFailure(s.deps.Notifier, err, msgUpdateFailed)
		return nil, fmt.Errorf("update quote %s: %w", id, err)
	}

	s.deps.Cache.Invalidate(store.QuotesPrefix)
	s.deps.Cache.Remove(store.QuoteKey(id))
	s.deps.Cache.Remove(store.KeyTopVotedQuotes)
	s.deps.Notifier.Success(MsgQuoteUpdated)
	s.deps.Log.Info(ctx, "quote updated", "quote_id", id)
	return q, nil
}

func (s *quoteService) Delete(ctx context.Context, id models.ID) error {
	if _, err := s.ownedQuote(ctx, id); err != nil {
		return err
	}

	if err := s.api.DeleteQuote(ctx, id); err != nil {
		s.deps.Log.Warn(ctx, "delete quote failed", "quote_id", id, "error", err)
		notifyFailure(s.deps.Notifier, err, msgDeleteFailed)
		return fmt.Errorf("delete quote %s: %w", id, err)
	}

	s.deps.Cache.Invalidate(store.QuotesPrefix)
	s.deps.Cache.Remove(store.QuoteKey(id))
	s.deps.Cache.Remove(store.VoteStatusKey(id))
	s.deps.Cache.Remove(store.KeyTopVotedQuotes)
	s.deps.Cache.Remove(store.KeyPersonalSummary)
	s.deps.Notifier.Success(MsgQuoteDeleted)
	s.deps.Log.Info(ctx, "quote deleted", "quote_id", id)
	return nil
}
