package client

import (
	"context"

	"github.com/dmitrijs2005/quotehub/internal/client/models"
)

type Client interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Register(ctx context.Context, account models.NewAccount) (*models.AuthResult, error)
	Profile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error)
	ChangePassword(ctx context.Context, change models.PasswordChange) error

	ListQuotes(ctx context.Context, filter models.QuoteFilter) (*models.QuotePage, error)
	GetQuote(ctx context.Context, id models.ID) (*models.Quote, error)
	CreateQuote(ctx context.Context, input models.QuoteInput) (*models.Quote, error)
	UpdateQuote(ctx context.Context, id models.ID, input models.QuoteInput) (*models.Quote, error)
	DeleteQuote(ctx context.Context, id models.ID) error

	Vote(ctx context.Context, id models.ID, value int) (*models.VoteResult, error)
	VoteEligibility(ctx context.Context, id models.ID) (*models.VoteEligibility, error)

	PersonalSummary(ctx context.Context) (*models.PersonalSummary, error)
	TopVotedQuotes(ctx context.Context) ([]models.TopVotedQuote, error)
}
