package models

import (
	"strings"
	"time"
)

// Category is one of the fixed quote categories.
type Category string

const (
	CategoryMotivation Category = "motivation"
	CategoryLife       Category = "life"
	CategoryWisdom     Category = "wisdom"
	CategoryDreams     Category = "dreams"
	CategorySuccess    Category = "success"
	CategoryLove       Category = "love"
	CategoryFriendship Category = "friendship"
	CategoryPhilosophy Category = "philosophy"
	CategoryBusiness   Category = "business"
	CategoryHappiness  Category = "happiness"
)

var categories = []Category{
	CategoryMotivation, CategoryLife, CategoryWisdom, CategoryDreams, CategorySuccess,
	CategoryLove, CategoryFriendship, CategoryPhilosophy, CategoryBusiness, CategoryHappiness,
}

// Categories returns the known categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Voter summarises one user holding an active vote on a quote.
type Voter struct {
	UserID   ID     `json:"user_id"`
	UserName string `json:"user_name"`
	Avatar   string `json:"user_avatar"`
}

// Quote is the cached copy of a quote owned by the remote service.
type Quote struct {
	ID        ID        `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	UserName  string    `json:"user_name,omitempty"`
	Category  Category  `json:"category"`
	Tags      []string  `json:"tags"`
	VoteCount int       `json:"vote_count"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
	UserID    ID        `json:"user_id"`
	Voters    []Voter   `json:"voted_users"`
}

// HasVoter reports whether the given user is in the quote's voter list.
func (q *Quote) HasVoter(userID ID) bool {
	if userID == "" {
		return false
	}
	for _, v := range q.Voters {
		if v.UserID == userID {
			return true
		}
	}
	return false
}

// IsOwnedBy reports whether the given user created the quote.
func (q *Quote) IsOwnedBy(userID ID) bool {
	return userID != "" && q.UserID == userID
}

// QuoteInput is the create/update request body.
type QuoteInput struct {
	Content  string   `json:"content"`
	Author   string   `json:"author"`
	Category Category `json:"category"`
	Tags     []string `json:"tags"`
}
