package forms

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.ErrorIs(t, err, common.ErrValidation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	return verr.Fields
}

func TestLoginForm(t *testing.T) {
	f := &LoginForm{Email: " a@x.com ", Password: "secret"}
	require.NoError(t, f.Validate())
	assert.Equal(t, models.Credentials{Email: "a@x.com", Password: "secret"}, f.Credentials())

	f = &LoginForm{Email: "not-an-email"}
	fields := fieldErrors(t, f.Validate())
	assert.Equal(t, "Please enter a valid email", fields["email"])
	assert.Equal(t, "Password is required", fields["password"])
}

func TestRegisterForm(t *testing.T) {
	valid := RegisterForm{Name: "Ann", Email: "a@x.com", Password: "secret", ConfirmPassword: "secret", AgreeToTerms: true}

	tests := []struct {
		name  string
		edit  func(f *RegisterForm)
		field string
		msg   string
	}{
		{"short name", func(f *RegisterForm) { f.Name = "A" }, "name", "Name must be between 2 and 50 characters"},
		{"short password", func(f *RegisterForm) { f.Password, f.ConfirmPassword = "123", "123" }, "password", "Password must be at least 6 characters"},
		{"mismatch", func(f *RegisterForm) { f.ConfirmPassword = "secreT" }, "confirmPassword", "Passwords do not match"},
		{"terms", func(f *RegisterForm) { f.AgreeToTerms = false }, "agreeToTerms", "You must agree to the terms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.edit(&f)
			fields := fieldErrors(t, f.Validate())
			assert.Equal(t, tt.msg, fields[tt.field])
			assert.Len(t, fields, 1)
		})
	}

	f := valid
	require.NoError(t, f.Validate())
	assert.Equal(t, models.NewAccount{Name: "Ann", Email: "a@x.com", Password: "secret"}, f.Account())
}

func TestPasswordForm(t *testing.T) {
	f := &PasswordForm{CurrentPassword: "old", NewPassword: "12345", ConfirmPassword: "12345"}
	assert.Equal(t, "Password must be at least 6 characters!", fieldErrors(t, f.Validate())["newPassword"])

	f = &PasswordForm{CurrentPassword: "old", NewPassword: "123456", ConfirmPassword: "654321"}
	assert.Equal(t, "Passwords do not match!", fieldErrors(t, f.Validate())["confirmPassword"])

	f = &PasswordForm{NewPassword: "   "}
	fields := fieldErrors(t, f.Validate())
	assert.Equal(t, "Current password is required!", fields["currentPassword"])
	assert.Equal(t, "New password is required!", fields["newPassword"])

	f = &PasswordForm{CurrentPassword: "old", NewPassword: "123456", ConfirmPassword: "123456"}
	require.NoError(t, f.Validate())
	assert.Equal(t, models.PasswordChange{CurrentPassword: "old", NewPassword: "123456"}, f.Change())
}

func TestQuoteForm_NormalizesTags(t *testing.T) {
	f := &QuoteForm{
		Content:  "  Stay hungry, stay foolish.  ",
		Author:   "Steve Jobs",
		Category: "Motivation",
		Tags:     ParseTags(" Life, life ,,WORK "),
	}
	require.NoError(t, f.Validate())

	in := f.Input()
	assert.Equal(t, "Stay hungry, stay foolish.", in.Content)
	assert.Equal(t, models.CategoryMotivation, in.Category)
	assert.Equal(t, []string{"life", "work"}, in.Tags)
}

func TestQuoteForm_Rejections(t *testing.T) {
	valid := QuoteForm{Content: "Long enough content", Author: "Ann", Category: "life"}

	tests := []struct {
		name  string
		edit  func(f *QuoteForm)
		field string
		msg   string
	}{
		{"short content", func(f *QuoteForm) { f.Content = "too short" }, "content", "Quote must be at least 10 characters long"},
		{"long content", func(f *QuoteForm) { f.Content = strings.Repeat("x", 501) }, "content", "Quote must not exceed 500 characters"},
		{"short author", func(f *QuoteForm) { f.Author = "A" }, "author", "Author name must be at least 2 characters long"},
		{"no category", func(f *QuoteForm) { f.Category = "" }, "category", "Please select a category"},
		{"unknown category", func(f *QuoteForm) { f.Category = "sports" }, "category", "Please select a valid category"},
		{"too many tags", func(f *QuoteForm) { f.Tags = []string{"a", "b", "c", "d", "e", "f"} }, "tags", "You can add up to 5 tags"},
		{"long tag", func(f *QuoteForm) { f.Tags = []string{strings.Repeat("t", 21)} }, "tags", "Each tag must be at most 20 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.edit(&f)
			fields := fieldErrors(t, f.Validate())
			assert.Equal(t, tt.msg, fields[tt.field])
		})
	}
}

func TestQuoteForm_DuplicateTagsCountOnce(t *testing.T) {
	f := &QuoteForm{Content: "Long enough content", Author: "Ann", Category: "life",
		Tags: []string{"a", "A", "b", "c", "d", "e", " e "}}
	require.NoError(t, f.Validate())
	assert.Len(t, f.Tags, 5)
}

func TestQuoteFormFrom(t *testing.T) {
	q := models.Quote{Content: "Some quote text", Author: "Ann", Category: models.CategoryLove, Tags: []string{"x"}}
	f := QuoteFormFrom(q)
	assert.Equal(t, "love", f.Category)
	f.Tags[0] = "y"
	assert.Equal(t, "x", q.Tags[0])
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "validation failed: a: one; b: two", err.Error())
}
