package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/quotehub/internal/client/models"
)

var _ Client = (*RESTClient)(nil)

func (c *RESTClient) quoteURL(id models.ID) string {
	return c.apiURL + "/quote/" + url.PathEscape(id.String())
}

func (c *RESTClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	env, _, err := c.do(ctx, request{
		method: http.MethodPost, url: c.authURL + "/auth/login", body: creds, op: "Login failed",
	})
	if err != nil {
		return nil, err
	}
	return authResult(env, "Login failed")
}

func (c *RESTClient) Register(ctx context.Context, account models.NewAccount) (*models.AuthResult, error) {
	env, _, err := c.do(ctx, request{
		method: http.MethodPost, url: c.authURL + "/auth/register", body: account, op: "Registration failed",
	})
	if err != nil {
		return nil, err
	}
	return authResult(env, "Registration failed")
}

func authResult(env *envelope, op string) (*models.AuthResult, error) {
	if env.Token == "" {
		return nil, &APIError{Status: http.StatusOK, Message: op + ": no token in response", Err: ErrRejected}
	}
	p, err := profileFrom(env, nil, op)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{Token: env.Token, Profile: *p}, nil
}

// profileFrom accepts the user under "user", under "data" or as the body
// itself; the auth service is not consistent across endpoints.
func profileFrom(env *envelope, raw []byte, op string) (*models.Profile, error) {
	for _, candidate := range [][]byte{env.User, env.Data, raw} {
		if len(candidate) == 0 || string(candidate) == "null" {
			continue
		}
		p, err := decode[models.Profile](candidate, op)
		if err != nil {
			return nil, err
		}
		if p.ID != "" || p.Email != "" {
			return p, nil
		}
	}
	return nil, &APIError{Status: http.StatusOK, Message: op + ": no user in response", Err: ErrRejected}
}

func (c *RESTClient) Profile(ctx context.Context) (*models.Profile, error) {
	env, raw, err := c.do(ctx, request{
		method: http.MethodGet, url: c.authURL + "/auth/user", auth: authRequired, op: "Failed to fetch profile",
	})
	if err != nil {
		return nil, err
	}
	return profileFrom(env, raw, "Failed to fetch profile")
}

func (c *RESTClient) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error) {
	env, raw, err := c.do(ctx, request{
		method: http.MethodPut, url: c.authURL + "/auth/user", auth: authRequired, body: update,
		op: "Failed to update profile",
	})
	if err != nil {
		return nil, err
	}
	return profileFrom(env, raw, "Failed to update profile")
}

func (c *RESTClient) ChangePassword(ctx context.Context, change models.PasswordChange) error {
	_, _, err := c.do(ctx, request{
		method: http.MethodPut, url: c.authURL + "/auth/change-password", auth: authRequired, body: change,
		op: "Failed to change password",
	})
	return err
}

func (c *RESTClient) ListQuotes(ctx context.Context, filter models.QuoteFilter) (*models.QuotePage, error) {
	u := c.apiURL + "/quote/all"
	if q := filter.Query().Encode(); q != "" {
		u += "?" + q
	}
	env, _, err := c.do(ctx, request{method: http.MethodGet, url: u, auth: authOptional, op: "Failed to fetch quotes"})
	if err != nil {
		return nil, err
	}

	page := &models.QuotePage{Items: []models.Quote{}}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &page.Items); err != nil {
			return nil, &APIError{Status: http.StatusOK, Message: "Failed to fetch quotes: " + err.Error(), Err: ErrRejected}
		}
	}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	} else {
		page.Pagination = models.Pagination{Page: 1, Limit: len(page.Items), Total: len(page.Items)}
	}
	return page, nil
}

func (c *RESTClient) GetQuote(ctx context.Context, id models.ID) (*models.Quote, error) {
	env, _, err := c.do(ctx, request{method: http.MethodGet, url: c.quoteURL(id), auth: authOptional, op: "Failed to fetch quote"})
	if err != nil {
		return nil, err
	}
	return decode[models.Quote](env.Data, "Failed to fetch quote")
}

func (c *RESTClient) CreateQuote(ctx context.Context, input models.QuoteInput) (*models.Quote, error) {
	env, _, err := c.do(ctx, request{
		method: http.MethodPost, url: c.apiURL + "/quote/create", auth: authRequired, body: input,
		op: "Failed to create quote",
	})
	if err != nil {
		return nil, err
	}
	return optionalQuote(env.Data)
}

func (c *RESTClient) UpdateQuote(ctx context.Context, id models.ID, input models.QuoteInput) (*models.Quote, error) {
	env, _, err := c.do(ctx, request{
		method: http.MethodPut, url: c.quoteURL(id), auth: authRequired, body: input,
		op: "Failed to update quote",
	})
	if err != nil {
		return nil, err
	}
	return optionalQuote(env.Data)
}

// optionalQuote decodes the quote some mutation responses echo back.
// A missing or malformed payload yields nil: the mutation itself succeeded.
func optionalQuote(raw json.RawMessage) (*models.Quote, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var q models.Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, nil
	}
	return &q, nil
}

func (c *RESTClient) DeleteQuote(ctx context.Context, id models.ID) error {
	_, _, err := c.do(ctx, request{method: http.MethodDelete, url: c.quoteURL(id), auth: authRequired, op: "Failed to delete quote"})
	return err
}

func (c *RESTClient) Vote(ctx context.Context, id models.ID, value int) (*models.VoteResult, error) {
	env, _, err := c.do(ctx, request{
		method: http.MethodPost, url: c.apiURL + "/vote/" + url.PathEscape(id.String()), auth: authRequired,
		body: map[string]int{"vote_value": value}, op: "Failed to vote",
	})
	if err != nil {
		return nil, err
	}
	res := &models.VoteResult{QuoteID: id, VoteValue: value}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		_ = json.Unmarshal(env.Data, res)
	}
	return res, nil
}

func (c *RESTClient) VoteEligibility(ctx context.Context, id models.ID) (*models.VoteEligibility, error) {
	env, _, err := c.do(ctx, request{
		method: http.MethodGet, url: c.apiURL + "/vote/check/" + url.PathEscape(id.String()), auth: authRequired,
		op: "Failed to check vote eligibility",
	})
	if err != nil {
		return nil, err
	}
	return decode[models.VoteEligibility](env.Data, "Failed to check vote eligibility")
}

func (c *RESTClient) PersonalSummary(ctx context.Context) (*models.PersonalSummary, error) {
	env, _, err := c.do(ctx, request{
		method: http.MethodGet, url: c.apiURL + "/quote/summary/personal", auth: authRequired,
		op: "Failed to fetch personal summary",
	})
	if err != nil {
		return nil, err
	}
	return decode[models.PersonalSummary](env.Data, "Failed to fetch personal summary")
}

func (c *RESTClient) TopVotedQuotes(ctx context.Context) ([]models.TopVotedQuote, error) {
	env, _, err := c.do(ctx, request{
		method: http.MethodGet, url: c.apiURL + "/quote/top-voted", auth: authOptional,
		op: "Failed to fetch top voted quotes",
	})
	if err != nil {
		return nil, err
	}
	out := []models.TopVotedQuote{}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return nil, &APIError{Status: http.StatusOK, Message: "Failed to fetch top voted quotes: " + err.Error(), Err: ErrRejected}
		}
	}
	return out, nil
}
