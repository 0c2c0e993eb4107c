package forms

import (
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/quotehub/internal/client/models"
)

const (
	MaxTags      = 5
	MaxTagLength = 20
)

type QuoteForm struct {
	Content  string   `json:"content" validate:"required,min=10,max=500"`
	Author   string   `json:"author" validate:"required,min=2,max=100"`
	Category string   `json:"category" validate:"required,category"`
	Tags     []string `json:"tags" validate:"max=5"`
}

var quoteMessages = messages{
	"content.required":  "Quote content is required",
	"content.min":       "Quote must be at least 10 characters long",
	"content.max":       "Quote must not exceed 500 characters",
	"author.required":   "Author name is required",
	"author.min":        "Author name must be at least 2 characters long",
	"author.max":        "Author name must not exceed 100 characters",
	"category.required": "Please select a category",
	"category":          "Please select a valid category",
	"tags":              "You can add up to 5 tags",
}

// ParseTags splits a comma separated tag list.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// Validate normalizes the form in place (trimmed text, lowercase unique
// tags, lowercase category) and then checks it.
func (f *QuoteForm) Validate() error {
	f.Content = strings.TrimSpace(f.Content)
	f.Author = strings.TrimSpace(f.Author)
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.Tags = normalizeTags(f.Tags)

	err := check(f, quoteMessages)
	for _, t := range f.Tags {
		if utf8.RuneCountInString(t) > MaxTagLength {
			err = merge(err, "tags", "Each tag must be at most 20 characters")
			break
		}
	}
	return err
}

func (f *QuoteForm) Input() models.QuoteInput {
	c, _ := models.ParseCategory(f.Category)
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.QuoteInput{Content: f.Content, Author: f.Author, Category: c, Tags: tags}
}

// QuoteFormFrom pre-fills a form for editing q.
func QuoteFormFrom(q models.Quote) QuoteForm {
	return QuoteForm{
		Content:  q.Content,
		Author:   q.Author,
		Category: string(q.Category),
		Tags:     append([]string(nil), q.Tags...),
	}
}

func normalizeTags(in []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
