package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/quotehub/internal/client/client"
	"github.com/dmitrijs2005/quotehub/internal/client/forms"
	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/client/notify"
	"github.com/dmitrijs2005/quotehub/internal/client/store"
	"github.com/dmitrijs2005/quotehub/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	client.Client

	ListRet *models.QuotePage
	ListErr error
	Quotes  map[models.ID]models.Quote
	GetErr  error

	CreateRet *models.Quote
	CreateErr error
	UpdateRet *models.Quote
	UpdateErr error
	DeleteErr error

	SummaryRet *models.PersonalSummary
	TopRet     []models.TopVotedQuote
	DashErr    error

	ProfileRet  *models.Profile
	ProfileErr  error
	PasswordErr error

	LastFilter models.QuoteFilter
	LastInput  models.QuoteInput
	LastID     models.ID
	LastUpdate models.ProfileUpdate
	LastChange models.PasswordChange

	listCalls, getCalls, mutateCalls, dashCalls int
}

func (f *fakeClient) ListQuotes(ctx context.Context, filter models.QuoteFilter) (*models.QuotePage, error) {
	f.listCalls++
	f.LastFilter = filter
	return f.ListRet, f.ListErr
}

func (f *fakeClient) GetQuote(ctx context.Context, id models.ID) (*models.Quote, error) {
	f.getCalls++
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	q, ok := f.Quotes[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	return &q, nil
}

func (f *fakeClient) CreateQuote(ctx context.Context, input models.QuoteInput) (*models.Quote, error) {
	f.mutateCalls++
	f.LastInput = input
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) UpdateQuote(ctx context.Context, id models.ID, input models.QuoteInput) (*models.Quote, error) {
	f.mutateCalls++
	f.LastID, f.LastInput = id, input
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DeleteQuote(ctx context.Context, id models.ID) error {
	f.mutateCalls++
	f.LastID = id
	return f.DeleteErr
}

func (f *fakeClient) PersonalSummary(ctx context.Context) (*models.PersonalSummary, error) {
	f.dashCalls++
	return f.SummaryRet, f.DashErr
}

func (f *fakeClient) TopVotedQuotes(ctx context.Context) ([]models.TopVotedQuote, error) {
	f.dashCalls++
	return f.TopRet, f.DashErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error) {
	f.mutateCalls++
	f.LastUpdate = update
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeClient) ChangePassword(ctx context.Context, change models.PasswordChange) error {
	f.mutateCalls++
	f.LastChange = change
	return f.PasswordErr
}

type fakeSession struct {
	user *models.Profile
}

func (s *fakeSession) User() *models.Profile { return s.user }

func (s *fakeSession) SetUser(p models.Profile) { s.user = &p }

var (
	ann = models.Profile{ID: "1", Name: "Ann", Email: "a@x.com"}
	bob = models.Profile{ID: "2", Name: "Bob", Email: "b@x.com"}

	annQuote = models.Quote{ID: "10", Content: "Stay hungry, stay foolish.", Author: "Jobs", Category: models.CategoryWisdom, UserID: "1"}
)

type quoteHarness struct {
	api     *fakeClient
	cache   *store.Store
	notices *notify.Recorder
	session *fakeSession
	svc     QuoteService
}

func newQuoteHarness(user *models.Profile) *quoteHarness {
	h := &quoteHarness{
		api:     &fakeClient{Quotes: map[models.ID]models.Quote{annQuote.ID: annQuote}},
		cache:   store.New(),
		notices: &notify.Recorder{},
		session: &fakeSession{user: user},
	}
	h.svc = NewQuoteService(h.api, Deps{Cache: h.cache, Notifier: h.notices, Session: h.session}, time.Minute, 0)
	return h
}

func validForm() *forms.QuoteForm {
	return &forms.QuoteForm{
		Content:  "  Simplicity is the ultimate sophistication. ",
		Author:   "Leonardo",
		Category: "Wisdom",
		Tags:     []string{"Art", "art ", "life"},
	}
}

func TestList_NormalisesAndCaches(t *testing.T) {
	h := newQuoteHarness(nil)
	h.api.ListRet = &models.QuotePage{Items: []models.Quote{annQuote}, Pagination: models.Pagination{Page: 1, Limit: 12, Total: 1}}
	ctx := context.Background()

	f := models.QuoteFilter{Category: "all", Author: "  Jobs ", SortBy: models.SortByAuthor}
	page, err := h.svc.List(ctx, f)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	assert.Empty(t, h.api.LastFilter.Category)
	assert.Equal(t, "Jobs", h.api.LastFilter.Author)
	assert.Equal(t, models.SortAsc, h.api.LastFilter.SortOrder)
	assert.Equal(t, models.DefaultPageSize, h.api.LastFilter.Limit)
	assert.Equal(t, 1, h.api.LastFilter.Page)

	// the same filter in a different spelling hits the cache
	_, err = h.svc.List(ctx, models.QuoteFilter{Author: "Jobs", SortBy: models.SortByAuthor, SortOrder: models.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, 1, h.api.listCalls)
}

func TestList_ErrorIsWrapped(t *testing.T) {
	h := newQuoteHarness(nil)
	h.api.ListErr = client.ErrUnavailable

	_, err := h.svc.List(context.Background(), models.QuoteFilter{})
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Zero(t, h.cache.Invalidate(store.QuotesPrefix), "failures are not cached")
}

func TestGet_CachesDetail(t *testing.T) {
	h := newQuoteHarness(nil)
	ctx := context.Background()

	q, err := h.svc.Get(ctx, annQuote.ID)
	require.NoError(t, err)
	assert.Equal(t, annQuote.Content, q.Content)

	_, err = h.svc.Get(ctx, annQuote.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, h.api.getCalls)

	_, err = h.svc.Get(ctx, "missing")
	require.ErrorIs(t, err, client.ErrNotFound)
}

func TestCreate_ValidationStopsBeforeNetwork(t *testing.T) {
	h := newQuoteHarness(&ann)

	_, err := h.svc.Create(context.Background(), &forms.QuoteForm{Content: "short", Author: "A", Category: "poetry"})
	require.ErrorIs(t, err, common.ErrValidation)

	var verr *forms.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.NotEmpty(t, verr.Field("content"))
	assert.NotEmpty(t, verr.Field("category"))
	assert.Zero(t, h.api.mutateCalls)
	assert.Empty(t, h.notices.Notices())
}

func TestCreate_RequiresUser(t *testing.T) {
	h := newQuoteHarness(nil)

	_, err := h.svc.Create(context.Background(), validForm())
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
	assert.Zero(t, h.api.mutateCalls)
}

func TestCreate_SendsNormalisedInputAndInvalidatesLists(t *testing.T) {
	h := newQuoteHarness(&ann)
	h.api.CreateRet = &models.Quote{ID: "11"}
	h.cache.Set(store.QuotesKey(models.QuoteFilter{}.Normalize()), models.QuotePage{}, 0)
	h.cache.Set(store.KeyPersonalSummary, models.PersonalSummary{}, 0)

	q, err := h.svc.Create(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, models.ID("11"), q.ID)

	assert.Equal(t, "Simplicity is the ultimate sophistication.", h.api.LastInput.Content)
	assert.Equal(t, models.CategoryWisdom, h.api.LastInput.Category)
	assert.Equal(t, []string{"art", "life"}, h.api.LastInput.Tags)

	_, ok := h.cache.Get(store.QuotesKey(models.QuoteFilter{}.Normalize()))
	assert.False(t, ok)
	_, ok = h.cache.Get(store.KeyPersonalSummary)
	assert.False(t, ok)
	assert.Equal(t, 1, h.notices.Count(MsgQuoteCreated))
}

func TestCreate_FailureNotices(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &client.APIError{Status: 400, Message: "Duplicate quote", Err: client.ErrRejected}, "Duplicate quote"},
		{"no message", client.ErrUnavailable, msgCreateFailed},
		{"denied", &client.APIError{Status: 401, Err: client.ErrUnauthorized}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newQuoteHarness(&ann)
			h.api.CreateErr = tt.err

			_, err := h.svc.Create(context.Background(), validForm())
			require.ErrorIs(t, err, tt.err)

			if tt.want == "" {
				assert.Empty(t, h.notices.Notices())
				return
			}
			require.Len(t, h.notices.Notices(), 1)
			assert.Equal(t, notify.KindError, h.notices.Notices()[0].Kind)
			assert.Equal(t, tt.want, h.notices.Notices()[0].Message)
		})
	}
}

func TestUpdate_OnlyOwner(t *testing.T) {
	h := newQuoteHarness(&bob)

	_, err := h.svc.Update(context.Background(), annQuote.ID, validForm())
	require.ErrorIs(t, err, common.ErrNotOwner)
	assert.Zero(t, h.api.mutateCalls)
}

func TestUpdate_InvalidatesListAndDetail(t *testing.T) {
	h := newQuoteHarness(&ann)
	updated := annQuote
	updated.Content = "Simplicity is the ultimate sophistication."
	h.api.UpdateRet = &updated
	ctx := context.Background()

	_, err := h.svc.Get(ctx, annQuote.ID)
	require.NoError(t, err)
	h.cache.Set(store.QuotesKey(models.QuoteFilter{}.Normalize()), models.QuotePage{}, 0)

	q, err := h.svc.Update(ctx, annQuote.ID, validForm())
	require.NoError(t, err)
	assert.Equal(t, updated.Content, q.Content)
	assert.Equal(t, annQuote.ID, h.api.LastID)

	_, ok := h.cache.Get(store.QuoteKey(annQuote.ID))
	assert.False(t, ok)
	_, ok = h.cache.Get(store.QuotesKey(models.QuoteFilter{}.Normalize()))
	assert.False(t, ok)
	assert.Equal(t, 1, h.notices.Count(MsgQuoteUpdated))
}

func TestDelete(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		h := newQuoteHarness(&ann)
		ctx := context.Background()
		_, err := h.svc.Get(ctx, annQuote.ID)
		require.NoError(t, err)

		require.NoError(t, h.svc.Delete(ctx, annQuote.ID))
		assert.Equal(t, annQuote.ID, h.api.LastID)
		_, ok := h.cache.Get(store.QuoteKey(annQuote.ID))
		assert.False(t, ok)
		assert.Equal(t, 1, h.notices.Count(MsgQuoteDeleted))
	})

	t.Run("not owner", func(t *testing.T) {
		h := newQuoteHarness(&bob)
		require.ErrorIs(t, h.svc.Delete(context.Background(), annQuote.ID), common.ErrNotOwner)
		assert.Zero(t, h.api.mutateCalls)
	})

	t.Run("signed out", func(t *testing.T) {
		h := newQuoteHarness(nil)
		require.ErrorIs(t, h.svc.Delete(context.Background(), annQuote.ID), common.ErrNotAuthenticated)
		assert.Zero(t, h.api.getCalls)
	})

	t.Run("server failure", func(t *testing.T) {
		h := newQuoteHarness(&ann)
		h.api.DeleteErr = client.ErrUnavailable
		require.ErrorIs(t, h.svc.Delete(context.Background(), annQuote.ID), client.ErrUnavailable)
		assert.Equal(t, 1, h.notices.Count(msgDeleteFailed))
	})
}
