package models

import "time"

// CategoryShare is one slice of the personal category distribution.
type CategoryShare struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// PersonalSummary is the dashboard's statistics block for the current user.
type PersonalSummary struct {
	TotalQuotesCreated   int             `json:"total_quotes_created"`
	TotalVotesReceived   int             `json:"total_votes_received"`
	Ranking              *int            `json:"ranking"`
	CategoryDistribution []CategoryShare `json:"category_distribution"`
}

// TopVotedQuote is one row of the global leaderboard.
type TopVotedQuote struct {
	Rank        int       `json:"rank"`
	ID          ID        `json:"id"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	VoteCount   int       `json:"vote_count"`
	CreatorName string    `json:"creator_name"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}
