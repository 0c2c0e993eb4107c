package cli

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/quotehub/internal/client/client"
	"github.com/dmitrijs2005/quotehub/internal/client/config"
	"github.com/dmitrijs2005/quotehub/internal/client/forms"
	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/client/notify"
	"github.com/dmitrijs2005/quotehub/internal/client/session"
	"github.com/dmitrijs2005/quotehub/internal/logging"
)

// fakeAPI is an in-memory quote service.
type fakeAPI struct {
	mu      sync.Mutex
	user    models.Profile
	quotes  []models.Quote
	nextID  int
	summary models.PersonalSummary

	ProfileErr error
	calls      map[string]int
}

func newFakeAPI(user models.Profile, quotes ...models.Quote) *fakeAPI {
	return &fakeAPI{user: user, quotes: quotes, nextID: 100, calls: map[string]int{}}
}

func (f *fakeAPI) hit(name string) {
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) find(id models.ID) int {
	return slices.IndexFunc(f.quotes, func(q models.Quote) bool { return q.ID == id })
}

func cloneQuote(q models.Quote) models.Quote {
	q.Voters = slices.Clone(q.Voters)
	q.Tags = slices.Clone(q.Tags)
	return q
}

func (f *fakeAPI) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("login")
	if creds.Password != "secret" {
		return nil, &client.APIError{Status: 401, Message: "Invalid credentials", Err: client.ErrUnauthorized}
	}
	return &models.AuthResult{Token: "tok-1", Profile: f.user}, nil
}

func (f *fakeAPI) Register(ctx context.Context, account models.NewAccount) (*models.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("register")
	f.user = models.Profile{ID: "u-new", Name: account.Name, Email: account.Email}
	return &models.AuthResult{Token: "tok-2", Profile: f.user}, nil
}

func (f *fakeAPI) Profile(ctx context.Context) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("profile")
	if f.ProfileErr != nil {
		return nil, f.ProfileErr
	}
	u := f.user
	return &u, nil
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("update-profile")
	f.user.Name, f.user.Email = update.Name, update.Email
	u := f.user
	return &u, nil
}

func (f *fakeAPI) ChangePassword(ctx context.Context, change models.PasswordChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("change-password")
	return nil
}

func (f *fakeAPI) ListQuotes(ctx context.Context, filter models.QuoteFilter) (*models.QuotePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("list")
	var items []models.Quote
	for _, q := range f.quotes {
		if filter.Category != "" && string(q.Category) != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(q.Content), strings.ToLower(filter.Search)) {
			continue
		}
		items = append(items, cloneQuote(q))
	}
	total := len(items)
	start := min((filter.Page-1)*filter.Limit, total)
	end := min(start+filter.Limit, total)
	return &models.QuotePage{
		Items:      items[start:end],
		Pagination: models.Pagination{Page: filter.Page, Limit: filter.Limit, Total: total},
	}, nil
}

func (f *fakeAPI) GetQuote(ctx context.Context, id models.ID) (*models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("get")
	i := f.find(id)
	if i < 0 {
		return nil, client.ErrNotFound
	}
	q := cloneQuote(f.quotes[i])
	return &q, nil
}

func (f *fakeAPI) CreateQuote(ctx context.Context, input models.QuoteInput) (*models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("create")
	f.nextID++
	q := models.Quote{
		ID: models.ID(strconv.Itoa(f.nextID)), Content: input.Content,
		Author: input.Author, Category: input.Category, Tags: input.Tags, UserID: f.user.ID, UserName: f.user.Name,
	}
	f.quotes = append(f.quotes, q)
	return &q, nil
}

func (f *fakeAPI) UpdateQuote(ctx context.Context, id models.ID, input models.QuoteInput) (*models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("update")
	i := f.find(id)
	if i < 0 {
		return nil, client.ErrNotFound
	}
	f.quotes[i].Content, f.quotes[i].Author = input.Content, input.Author
	f.quotes[i].Category, f.quotes[i].Tags = input.Category, input.Tags
	q := cloneQuote(f.quotes[i])
	return &q, nil
}

func (f *fakeAPI) DeleteQuote(ctx context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("delete")
	i := f.find(id)
	if i < 0 {
		return client.ErrNotFound
	}
	f.quotes = slices.Delete(f.quotes, i, i+1)
	return nil
}

func (f *fakeAPI) Vote(ctx context.Context, id models.ID, value int) (*models.VoteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("vote")
	i := f.find(id)
	if i < 0 {
		return nil, client.ErrNotFound
	}
	q := &f.quotes[i]
	if value == models.VoteAdd {
		q.Voters = append(q.Voters, models.Voter{UserID: f.user.ID, UserName: f.user.Name})
		q.VoteCount++
	} else {
		q.Voters = slices.DeleteFunc(q.Voters, func(v models.Voter) bool { return v.UserID == f.user.ID })
		q.VoteCount--
	}
	return &models.VoteResult{QuoteID: id, VoteValue: value}, nil
}

func (f *fakeAPI) VoteEligibility(ctx context.Context, id models.ID) (*models.VoteEligibility, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("eligibility")
	return &models.VoteEligibility{}, nil
}

func (f *fakeAPI) PersonalSummary(ctx context.Context) (*models.PersonalSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("summary")
	s := f.summary
	return &s, nil
}

func (f *fakeAPI) TopVotedQuotes(ctx context.Context) ([]models.TopVotedQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("top")
	var top []models.TopVotedQuote
	for i, q := range f.quotes {
		top = append(top, models.TopVotedQuote{Rank: i + 1, ID: q.ID, Content: q.Content, Author: q.Author, VoteCount: q.VoteCount})
	}
	return top, nil
}

type memTokens struct {
	mu    sync.Mutex
	token string
	email string
}

func (m *memTokens) Load(ctx context.Context) (*session.StoredToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return nil, nil
	}
	return &session.StoredToken{Value: m.token}, nil
}

func (m *memTokens) Save(ctx context.Context, token, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.email = token, email
	return nil
}

func (m *memTokens) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func (m *memTokens) LastEmail(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.email, nil
}

type harness struct {
	api     *fakeAPI
	tokens  *memTokens
	notices *notify.Recorder
	out     *bytes.Buffer
	app     *App
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SessionCheckInterval = 0
	return cfg
}

// newHarness builds an App that reads input and writes to a buffer.
func newHarness(t *testing.T, api *fakeAPI, input string) *harness {
	t.Helper()
	stubPasswords(t, "secret")
	h := &harness{api: api, tokens: &memTokens{}, notices: &notify.Recorder{}, out: &bytes.Buffer{}}
	h.app = newApp(testConfig(), api, h.tokens, h.notices, logging.Discard(), strings.NewReader(input), h.out)
	t.Cleanup(h.app.view.Unmount)
	return h
}

// stubPasswords makes every password prompt answer with the next value,
// repeating the last one.
func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })
	i := 0
	getPassword = func(_ string, w io.Writer) ([]byte, error) {
		a := answers[min(i, len(answers)-1)]
		i++
		return []byte(a), nil
	}
}

func (h *harness) run(t *testing.T) string {
	t.Helper()
	runREPL(context.Background(), h.app, h.app.status, h.app.reader, h.out)
	return h.out.String()
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	_, err := h.app.gate.Login(context.Background(), loginForm())
	if err != nil {
		t.Fatalf("login: %v", err)
	}
}

func loginForm() *forms.LoginForm {
	return &forms.LoginForm{Email: "a@x.com", Password: "secret"}
}
