package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/client/store"
)

// DashboardAPI is the part of the remote service behind the dashboard.
type DashboardAPI interface {
	PersonalSummary(ctx context.Context) (*models.PersonalSummary, error)
	TopVotedQuotes(ctx context.Context) ([]models.TopVotedQuote, error)
}

// DashboardService reads the signed-in user's aggregates. Both calls always
// go to the server; the store only keeps the last answer for rendering.
type DashboardService interface {
	Summary(ctx context.Context) (*models.PersonalSummary, error)
	TopVoted(ctx context.Context) ([]models.TopVotedQuote, error)
}

type dashboardService struct {
	api  DashboardAPI
	deps Deps
}

func NewDashboardService(api DashboardAPI, deps Deps) DashboardService {
	return &dashboardService{api: api, deps: deps.withDefaults()}
}

func (s *dashboardService) Summary(ctx context.Context) (*models.PersonalSummary, error) {
	sum, err := s.api.PersonalSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("personal summary: %w", err)
	}
	s.deps.Cache.Set(store.KeyPersonalSummary, *sum, 0)
	return sum, nil
}

func (s *dashboardService) TopVoted(ctx context.Context) ([]models.TopVotedQuote, error) {
	top, err := s.api.TopVotedQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("top voted quotes: %w", err)
	}
	s.deps.Cache.Set(store.KeyTopVotedQuotes, top, 0)
	return top, nil
}
