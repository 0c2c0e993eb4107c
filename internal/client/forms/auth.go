package forms

import (
	"strings"

	"github.com/dmitrijs2005/quotehub/internal/client/models"
)

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var loginMessages = messages{
	"email.required":    "Email is required",
	"email":             "Please enter a valid email",
	"password.required": "Password is required",
}

func (f *LoginForm) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return check(f, loginMessages)
}

func (f *LoginForm) Credentials() models.Credentials {
	return models.Credentials{Email: f.Email, Password: f.Password}
}

type RegisterForm struct {
	Name            string `json:"name" validate:"required,min=2,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	AgreeToTerms    bool   `json:"agreeToTerms" validate:"required"`
}

var registerMessages = messages{
	"name.required":            "Name is required",
	"name":                     "Name must be between 2 and 50 characters",
	"email.required":           "Email is required",
	"email":                    "Please enter a valid email",
	"password.required":        "Password is required",
	"password":                 "Password must be at least 6 characters",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword":          "Passwords do not match",
	"agreeToTerms":             "You must agree to the terms",
}

func (f *RegisterForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	return check(f, registerMessages)
}

func (f *RegisterForm) Account() models.NewAccount {
	return models.NewAccount{Name: f.Name, Email: f.Email, Password: f.Password}
}

type ProfileForm struct {
	Name  string `json:"name" validate:"required,min=2,max=50"`
	Email string `json:"email" validate:"required,email"`
}

var profileMessages = messages{
	"name.required":  "Name is required",
	"name":           "Name must be between 2 and 50 characters",
	"email.required": "Email is required",
	"email":          "Please enter a valid email",
}

func (f *ProfileForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	return check(f, profileMessages)
}

func (f *ProfileForm) Update() models.ProfileUpdate {
	return models.ProfileUpdate{Name: f.Name, Email: f.Email}
}

type PasswordForm struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

var passwordMessages = messages{
	"currentPassword": "Current password is required!",
	"newPassword.min": "Password must be at least 6 characters!",
	"newPassword":     "New password is required!",
	"confirmPassword": "Passwords do not match!",
}

func (f *PasswordForm) Validate() error {
	if strings.TrimSpace(f.NewPassword) == "" {
		f.NewPassword = ""
	}
	return check(f, passwordMessages)
}

func (f *PasswordForm) Change() models.PasswordChange {
	return models.PasswordChange{CurrentPassword: f.CurrentPassword, NewPassword: f.NewPassword}
}
