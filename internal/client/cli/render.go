package cli

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/quotehub/internal/client/client"
	"github.com/dmitrijs2005/quotehub/internal/client/forms"
	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/client/voting"
	"github.com/dmitrijs2005/quotehub/internal/common"
	"github.com/dustin/go-humanize"
)

const listExcerpt = 80

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return humanize.Comma(int64(n)) + " " + many
}

func ago(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// errorText is the line shown for a failed read. Authorization denials were
// already announced by the session gate.
func errorText(err error) string {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "the server is unavailable, try again later"
	case errors.Is(err, client.ErrNotFound):
		return "not found"
	case errors.Is(err, common.ErrNotAuthenticated):
		return "please log in first"
	case errors.Is(err, common.ErrNotOwner):
		return common.ErrNotOwner.Error()
	}
	return client.Message(err)
}

func (a *App) showError(err error) {
	if errors.Is(err, client.ErrUnauthorized) {
		return
	}
	a.printf("Error: %s\n", errorText(err))
}

// reportInvalid prints per-field messages of a validation failure and
// reports whether err was one.
func (a *App) reportInvalid(err error) bool {
	var verr *forms.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	a.println("Please fix the following:")
	for _, k := range slices.Sorted(maps.Keys(verr.Fields)) {
		a.printf("  - %s\n", verr.Fields[k])
	}
	return true
}

func (a *App) renderPage(page *models.QuotePage, f models.QuoteFilter) {
	user := a.gate.User()
	if len(page.Items) == 0 {
		if f.IsFiltered() {
			a.println("No quotes match your filters. Type 'reset' to clear them.")
		} else {
			a.println("No quotes yet. Be the first to add one!")
		}
		return
	}

	from, to := page.Pagination.Range()
	a.printf("Quotes %d-%d of %s (page %d/%d, sorted by %s %s)\n",
		from, to, humanize.Comma(int64(page.Pagination.Total)),
		page.Pagination.Page, page.Pagination.TotalPages(), f.SortBy, strings.ToLower(string(f.SortOrder)))
	if desc := describeFilter(f); desc != "" {
		a.printf("Filters: %s\n", desc)
	}
	for i, q := range page.Items {
		marker := " "
		if user != nil && q.HasVoter(user.ID) {
			marker = "*"
		}
		a.printf("%s%3d. \"%s\"\n", marker, i+1, common.Excerpt(q.Content, listExcerpt))
		a.printf("      - %s  [%s]  %s  %s\n", q.Author, q.Category, plural(q.VoteCount, "vote", "votes"), ago(q.CreatedAt))
	}
	if page.Pagination.HasNext() {
		a.println("Type 'next' for more.")
	}
}

func describeFilter(f models.QuoteFilter) string {
	var parts []string
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.Search))
	}
	if f.Category != "" {
		parts = append(parts, "category "+f.Category)
	}
	if f.Author != "" {
		parts = append(parts, "author "+f.Author)
	}
	if f.UserName != "" {
		parts = append(parts, "posted by "+f.UserName)
	}
	return strings.Join(parts, ", ")
}

func (a *App) renderQuote(q *models.Quote, st voting.Status) {
	a.printf("\"%s\"\n  - %s\n", q.Content, q.Author)
	a.printf("Category: %s\n", q.Category)
	if len(q.Tags) > 0 {
		a.printf("Tags: %s\n", strings.Join(q.Tags, ", "))
	}
	if q.UserName != "" {
		a.printf("Posted by %s %s\n", q.UserName, ago(q.CreatedAt))
	}
	if q.UpdatedAt.After(q.CreatedAt) {
		a.printf("Edited %s\n", ago(q.UpdatedAt))
	}
	a.printf("%s\n", plural(q.VoteCount, "vote", "votes"))
	if len(q.Voters) > 0 {
		names := make([]string, 0, len(q.Voters))
		for _, v := range q.Voters {
			names = append(names, v.UserName)
		}
		a.printf("Voted by: %s\n", strings.Join(names, ", "))
	}
	if user := a.gate.User(); user != nil {
		switch {
		case q.IsOwnedBy(user.ID):
			a.println("This is your quote. Type 'edit' or 'delete' with its number to change it.")
		case st.HasVotedOther:
			a.printf("You voted for another quote. Remove that vote before voting here (%s).\n", st.Label)
		default:
			a.printf("Type 'vote %s' to %s.\n", q.ID, strings.ToLower(st.Label))
		}
	}
}

func (a *App) renderSummary(s *models.PersonalSummary) {
	a.println("Your statistics")
	a.printf("  Quotes created: %s\n", humanize.Comma(int64(s.TotalQuotesCreated)))
	a.printf("  Votes received: %s\n", humanize.Comma(int64(s.TotalVotesReceived)))
	if s.Ranking != nil {
		a.printf("  Ranking:        %s\n", humanize.Ordinal(*s.Ranking))
	} else {
		a.println("  Ranking:        not ranked yet")
	}
	if len(s.CategoryDistribution) > 0 {
		a.println("  By category:")
		for _, c := range s.CategoryDistribution {
			a.printf("    %-12s %s\n", c.Category, humanize.Comma(int64(c.Count)))
		}
	}
}

func (a *App) renderTopVoted(top []models.TopVotedQuote) {
	if len(top) == 0 {
		a.println("No votes yet.")
		return
	}
	a.println("Top voted quotes")
	for _, q := range top {
		a.printf("  %s \"%s\" - %s (%s)\n", humanize.Ordinal(q.Rank), common.Excerpt(q.Content, listExcerpt), q.Author, plural(q.VoteCount, "vote", "votes"))
	}
}
