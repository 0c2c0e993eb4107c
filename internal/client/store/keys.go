package store

import (
	"strings"

	"github.com/dmitrijs2005/quotehub/internal/client/models"
)

// Cache keys. The topic of a key is its first path segment.
const (
	KeyUser            = "user"
	KeyPersonalSummary = "personal-summary"
	KeyTopVotedQuotes  = "top-voted-quotes"

	TopicUser      = KeyUser
	TopicQuotes    = "quotes"
	TopicQuote     = "quote"
	TopicDashboard = "dashboard"
	TopicVote      = "vote-status"
	// TopicSession carries login, logout and teardown transitions.
	TopicSession = "session"

	QuotesPrefix     = TopicQuotes + "/"
	QuotePrefix      = TopicQuote + "/"
	VoteStatusPrefix = TopicVote + "/"
)

func QuotesKey(f models.QuoteFilter) string { return QuotesPrefix + f.Query().Encode() }

func QuoteKey(id models.ID) string { return QuotePrefix + id.String() }

func VoteStatusKey(id models.ID) string { return VoteStatusPrefix + id.String() }

// TopicOf returns the topic events for key are published on.
func TopicOf(key string) string {
	switch key {
	case KeyPersonalSummary, KeyTopVotedQuotes:
		return TopicDashboard
	}
	topic, _, _ := strings.Cut(key, "/")
	return topic
}
