package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/quotehub/internal/client/forms"
	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/client/router"
	"github.com/dmitrijs2005/quotehub/internal/client/voting"
	"github.com/dmitrijs2005/quotehub/internal/common"
)

var sortAliases = map[string]models.SortKey{
	"votes":   models.SortByVotes,
	"newest":  models.SortByCreated,
	"created": models.SortByCreated,
	"updated": models.SortByUpdated,
	"author":  models.SortByAuthor,
}

func (a *App) listFilter() models.QuoteFilter {
	f := a.filter
	if f.Limit == 0 {
		f.Limit = a.config.PageSize
	}
	return f.Normalize()
}

func (a *App) homeScreen(ctx context.Context, _ map[string]string, _ []string) error {
	if u := a.gate.User(); u != nil {
		a.printf("Welcome back, %s!\n", u.Name)
	} else {
		a.println("Discover and share inspiring quotes. Type 'login' or 'register' to join in.")
	}
	top, err := a.dash.TopVoted(ctx)
	if err != nil {
		a.showError(err)
		return err
	}
	a.renderTopVoted(top)
	return nil
}

func (a *App) listScreen(ctx context.Context, _ map[string]string, args []string) error {
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			a.println("Usage: list [page]")
			return errMissingParams
		}
		a.filter.Page = n
	}

	f := a.listFilter()
	page, err := a.quotes.List(ctx, f)
	if err != nil {
		a.showError(err)
		return err
	}
	a.filter.Page = f.Page
	a.page = page
	a.renderPage(page, f)
	return nil
}

func (a *App) cmdList(ctx context.Context, args []string) error {
	return a.open(ctx, router.PathQuoteList, args)
}

// refilter applies change to the filter, goes back to the first page and
// shows the list.
func (a *App) refilter(ctx context.Context, change func(f *models.QuoteFilter)) error {
	change(&a.filter)
	a.filter.Page = 1
	return a.open(ctx, router.PathQuoteList, nil)
}

func (a *App) cmdNext(ctx context.Context, _ []string) error {
	if a.page == nil {
		return a.cmdList(ctx, nil)
	}
	if !a.page.Pagination.HasNext() {
		a.println("This is the last page.")
		return nil
	}
	a.filter.Page = a.page.Pagination.Page + 1
	return a.open(ctx, router.PathQuoteList, nil)
}

func (a *App) cmdPrev(ctx context.Context, _ []string) error {
	if a.page == nil || a.page.Pagination.Page <= 1 {
		a.println("This is the first page.")
		return nil
	}
	a.filter.Page = a.page.Pagination.Page - 1
	return a.open(ctx, router.PathQuoteList, nil)
}

func (a *App) cmdSearch(ctx context.Context, args []string) error {
	return a.refilter(ctx, func(f *models.QuoteFilter) { f.Search = strings.Join(args, " ") })
}

func (a *App) cmdAuthor(ctx context.Context, args []string) error {
	return a.refilter(ctx, func(f *models.QuoteFilter) { f.Author = strings.Join(args, " ") })
}

func (a *App) cmdCategory(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: category <name|all>")
		a.printf("Categories: %s\n", categoryList())
		return errMissingParams
	}
	name := strings.ToLower(args[0])
	if name != "all" {
		if _, ok := models.ParseCategory(name); !ok {
			a.printf("Unknown category %q. Categories: %s\n", name, categoryList())
			return errMissingParams
		}
	}
	return a.refilter(ctx, func(f *models.QuoteFilter) { f.Category = name })
}

func categoryList() string {
	cats := models.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func (a *App) cmdMine(ctx context.Context, _ []string) error {
	u := a.gate.User()
	if u == nil {
		a.println("Please log in first.")
		return common.ErrNotAuthenticated
	}
	return a.refilter(ctx, func(f *models.QuoteFilter) { f.UserName = u.Name })
}

func (a *App) cmdSort(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: sort <votes|newest|updated|author> [asc|desc]")
		return errMissingParams
	}
	key, ok := sortAliases[strings.ToLower(args[0])]
	if !ok {
		if key, ok = models.ParseSortKey(args[0]); !ok {
			a.printf("Unknown sort key %q\n", args[0])
			return errMissingParams
		}
	}
	var order models.SortOrder
	if len(args) > 1 {
		order = models.SortOrder(strings.ToUpper(args[1]))
	}
	return a.refilter(ctx, func(f *models.QuoteFilter) { f.SortBy, f.SortOrder = key, order })
}

func (a *App) cmdReset(ctx context.Context, _ []string) error {
	return a.refilter(ctx, func(f *models.QuoteFilter) {
		*f = models.QuoteFilter{Limit: a.config.PageSize}
	})
}

// lookupQuote resolves a list number from the last rendered page, or a
// quote id, to the quote itself.
func (a *App) lookupQuote(ctx context.Context, ref string) (*models.Quote, error) {
	return a.quotes.Get(ctx, a.refID(ref))
}

// refID maps a list number on the last rendered page to its quote id; any
// other ref is taken as an id.
func (a *App) refID(ref string) models.ID {
	if a.page != nil {
		if n, ok := listNumber(ref, len(a.page.Items)); ok {
			return a.page.Items[n-1].ID
		}
	}
	return models.ID(ref)
}

func listNumber(ref string, size int) (int, bool) {
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 || n > size {
		return 0, false
	}
	return n, true
}

// inView is every quote the client currently knows about, for the
// one-vote rule.
func (a *App) inView(extra ...models.Quote) []models.Quote {
	var out []models.Quote
	if a.page != nil {
		out = append(out, a.page.Items...)
	}
	for _, q := range extra {
		found := false
		for i := range out {
			if out[i].ID == q.ID {
				out[i], found = q, true
			}
		}
		if !found {
			out = append(out, q)
		}
	}
	return out
}

func (a *App) quoteArg(ctx context.Context, args []string, usage string) (*models.Quote, error) {
	if len(args) == 0 {
		a.println("Usage: " + usage)
		return nil, errMissingParams
	}
	q, err := a.lookupQuote(ctx, args[0])
	if err != nil {
		a.showError(err)
		return nil, err
	}
	return q, nil
}

func (a *App) cmdShow(ctx context.Context, args []string) error {
	q, err := a.quoteArg(ctx, args, "show <n|id>")
	if err != nil {
		return err
	}
	a.renderQuote(q, voting.StatusFor(a.gate.User(), *q, a.inView(*q)))
	return nil
}

func (a *App) addQuoteScreen(ctx context.Context, _ map[string]string, _ []string) error {
	var form forms.QuoteForm
	if err := a.fillQuoteForm(&form); err != nil {
		return err
	}
	q, err := a.quotes.Create(ctx, &form)
	if err != nil {
		a.reportInvalid(err)
		return err
	}
	a.printf("Posted quote %s.\n", q.ID)
	return nil
}

func (a *App) cmdEdit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: edit <n|id>")
		return errMissingParams
	}
	return a.open(ctx, router.EditQuotePath(a.refID(args[0]).String()), nil)
}

func (a *App) editQuoteScreen(ctx context.Context, params map[string]string, _ []string) error {
	id := models.ID(params["id"])
	q, err := a.quotes.Get(ctx, id)
	if err != nil {
		a.showError(err)
		return err
	}
	if u := a.gate.User(); u == nil || !q.IsOwnedBy(u.ID) {
		a.println(common.ErrNotOwner.Error())
		return common.ErrNotOwner
	}

	form := forms.QuoteFormFrom(*q)
	a.println("Press Enter to keep the current value.")
	if err := a.fillQuoteForm(&form); err != nil {
		return err
	}
	if _, err := a.quotes.Update(ctx, id, &form); err != nil {
		if !a.reportInvalid(err) && errors.Is(err, common.ErrNotOwner) {
			a.println(common.ErrNotOwner.Error())
		}
		return err
	}
	return nil
}

// fillQuoteForm prompts for every field, offering the form's current values
// as defaults.
func (a *App) fillQuoteForm(form *forms.QuoteForm) error {
	content, err := getMultiline(a.reader, "Quote", a.out)
	if err != nil {
		return err
	}
	if content != "" {
		form.Content = content
	}
	if form.Author, err = getTextWithDefault(a.reader, "Author", form.Author, a.out); err != nil {
		return err
	}
	if form.Category, err = getTextWithDefault(a.reader, "Category ("+categoryList()+")", form.Category, a.out); err != nil {
		return err
	}
	tags, err := getTextWithDefault(a.reader, "Tags, comma separated (up to 5)", strings.Join(form.Tags, ", "), a.out)
	if err != nil {
		return err
	}
	form.Tags = forms.ParseTags(tags)
	return nil
}

func (a *App) cmdDelete(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		a.println("Please log in first.")
		return common.ErrNotAuthenticated
	}
	q, err := a.quoteArg(ctx, args, "delete <n|id>")
	if err != nil {
		return err
	}
	ok, err := confirm(a.reader, "Delete \""+common.Excerpt(q.Content, 40)+"\"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.quotes.Delete(ctx, q.ID); err != nil {
		if errors.Is(err, common.ErrNotOwner) {
			a.println(common.ErrNotOwner.Error())
		}
		return err
	}
	return nil
}
