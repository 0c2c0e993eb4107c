package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/quotehub/internal/client/forms"
	"github.com/dmitrijs2005/quotehub/internal/client/models"
	"github.com/dmitrijs2005/quotehub/internal/common"
)

const (
	MsgProfileUpdated  = "Profile updated successfully"
	MsgPasswordChanged = "Password changed successfully"

	msgProfileFailed  = "Failed to update profile"
	msgPasswordFailed = "Failed to change password"
)

type ProfileAPI interface {
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error)
	ChangePassword(ctx context.Context, change models.PasswordChange) error
}

// IdentityHolder is the session side of a profile update: the new profile
// replaces the signed-in identity.
type IdentityHolder interface {
	CurrentUser
	SetUser(p models.Profile)
}

type ProfileService interface {
	UpdateProfile(ctx context.Context, form *forms.ProfileForm) (*models.Profile, error)
	ChangePassword(ctx context.Context, form *forms.PasswordForm) error
}

type profileService struct {
	api      ProfileAPI
	identity IdentityHolder
	deps     Deps
}

func NewProfileService(api ProfileAPI, identity IdentityHolder, deps Deps) ProfileService {
	if deps.Session == nil {
		deps.Session = identity
	}
	return &profileService{api: api, identity: identity, deps: deps.withDefaults()}
}

func (s *profileService) signedIn() bool {
	u := s.identity.User()
	return u != nil && u.ID != ""
}

func (s *profileService) UpdateProfile(ctx context.Context, form *forms.ProfileForm) (*models.Profile, error) {
	if !s.signedIn() {
		return nil, common.ErrNotAuthenticated
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	p, err := s.api.UpdateProfile(ctx, form.Update())
	if err != nil {
		s.deps.Log.Warn(ctx, "update profile failed", "error", err)
		notifyFailure(s.deps.Notifier, err, msgProfileFailed)
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.identity.SetUser(*p)
	s.deps.Notifier.Success(MsgProfileUpdated)
	return p, nil
}

func (s *profileService) ChangePassword(ctx context.Context, form *forms.PasswordForm) error {
	if !s.signedIn() {
		return common.ErrNotAuthenticated
	}
	if err := form.Validate(); err != nil {
		return err
	}

	if err := s.api.ChangePassword(ctx, form.Change()); err != nil {
		s.deps.Log.Warn(ctx, "change password failed", "error", err)
		notifyFailure(s.deps.Notifier, err, msgPasswordFailed)
		return fmt.Errorf("change password: %w", err)
	}
	s.deps.Notifier.Success(MsgPasswordChanged)
	return nil
}
