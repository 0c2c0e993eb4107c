package cli

import (
	"context"

	"github.com/dmitrijs2005/quotehub/internal/client/forms"
	"github.com/dmitrijs2005/quotehub/internal/client/router"
	"github.com/dmitrijs2005/quotehub/internal/common"
	"github.com/dustin/go-humanize"
)

func (a *App) cmdProfile(ctx context.Context, args []string) error {
	return a.open(ctx, router.PathProfile, args)
}

// profileScreen shows the signed-in profile; "edit" and "password" change it.
func (a *App) profileScreen(ctx context.Context, _ map[string]string, args []string) error {
	u := a.gate.User()
	if u == nil {
		return common.ErrNotAuthenticated
	}
	if len(args) == 0 {
		a.printf("Name:   %s\nEmail:  %s\n", u.Name, u.Email)
		if u.Avatar != "" {
			a.printf("Avatar: %s\n", u.Avatar)
		}
		if !u.CreatedAt.IsZero() {
			a.printf("Member since %s\n", humanize.Time(u.CreatedAt))
		}
		return nil
	}

	switch args[0] {
	case "edit":
		return a.editProfile(ctx, u.Name, u.Email)
	case "password", "passwd":
		return a.changePassword(ctx)
	}
	a.println("Usage: profile [edit|password]")
	return errMissingParams
}

func (a *App) editProfile(ctx context.Context, name, email string) error {
	form := forms.ProfileForm{}
	var err error
	if form.Name, err = getTextWithDefault(a.reader, "Name", name, a.out); err != nil {
		return err
	}
	if form.Email, err = getTextWithDefault(a.reader, "Email", email, a.out); err != nil {
		return err
	}
	if _, err := a.profiles.UpdateProfile(ctx, &form); err != nil {
		a.reportInvalid(err)
		return err
	}
	return nil
}

func (a *App) changePassword(ctx context.Context) error {
	current, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)
	next, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)
	again, err := getPassword("Confirm new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)

	form := forms.PasswordForm{CurrentPassword: string(current), NewPassword: string(next), ConfirmPassword: string(again)}
	if err := a.profiles.ChangePassword(ctx, &form); err != nil {
		a.reportInvalid(err)
		return err
	}
	return nil
}
