package cli

import (
	"context"

	"github.com/dmitrijs2005/quotehub/internal/client/forms"
	"github.com/dmitrijs2005/quotehub/internal/common"
)

// Input indirections, swapped in tests.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
	getMultiline       = GetMultiline
	confirm            = Confirm
)

func (a *App) cmdPath(path string) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		return a.open(ctx, path, args)
	}
}

// loginScreen asks for credentials, prefilled with the last email that
// signed in here. On success it continues to the page that sent the user to
// log in, or home.
func (a *App) loginScreen(ctx context.Context, _ map[string]string, _ []string) error {
	email, err := getTextWithDefault(a.reader, "Email", a.gate.LastEmail(ctx), a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	form := &forms.LoginForm{Email: email, Password: string(password)}
	if _, err := a.gate.Login(ctx, form); err != nil {
		a.reportInvalid(err)
		return err
	}
	return a.open(ctx, a.router.ConsumeReturnTo(), nil)
}

func (a *App) registerScreen(ctx context.Context, _ map[string]string, _ []string) error {
	var form forms.RegisterForm
	var err error

	if form.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if form.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirmation, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)
	form.Password, form.ConfirmPassword = string(password), string(confirmation)

	if form.AgreeToTerms, err = confirm(a.reader, "Do you agree to the terms and conditions?", a.out); err != nil {
		return err
	}

	if _, err := a.gate.Register(ctx, &form); err != nil {
		a.reportInvalid(err)
		return err
	}
	return a.open(ctx, a.router.ConsumeReturnTo(), nil)
}

func (a *App) cmdLogout(ctx context.Context, _ []string) error {
	a.gate.Logout(ctx)
	a.router.ForgetReturnTo()
	return nil
}

func (a *App) cmdWhoami(ctx context.Context, _ []string) error {
	s := a.gate.CurrentSession()
	switch {
	case s.IsAuthenticated():
		a.printf("Logged in as %s <%s>\n", s.User.Name, s.User.Email)
	case s.Err != nil:
		a.printf("Session not confirmed yet: %s\n", errorText(s.Err))
	default:
		a.println("Not logged in.")
	}
	return nil
}
