package session

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/quotehub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/quotehub/internal/common"
)

const lastEmailKey = "last_email"

// StoredToken is the persisted credential and when it was written.
type StoredToken struct {
	Value   string
	SavedAt time.Time
}

// TokenStore persists the single credential token across restarts.
type TokenStore interface {
	// Load returns nil when no token is stored.
	Load(ctx context.Context) (*StoredToken, error)
	// Save stores the token together with the email it was issued for.
	Save(ctx context.Context, token, email string) error
	Clear(ctx context.Context) error
	// LastEmail is the email of the most recent login, kept after logout.
	LastEmail(ctx context.Context) (string, error)
}

type metadataTokenStore struct {
	repo metadata.Repository
}

// NewTokenStore keeps the token in the local metadata table.
func NewTokenStore(repo metadata.Repository) TokenStore {
	return &metadataTokenStore{repo: repo}
}

func (s *metadataTokenStore) Load(ctx context.Context) (*StoredToken, error) {
	rec, err := s.repo.Get(ctx, common.TokenMetadataKey)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if rec == nil || len(rec.Value) == 0 {
		return nil, nil
	}
	return &StoredToken{Value: string(rec.Value), SavedAt: rec.UpdatedAt}, nil
}

func (s *metadataTokenStore) Save(ctx context.Context, token, email string) error {
	err := s.repo.PutMany(ctx, map[string][]byte{
		common.TokenMetadataKey: []byte(token),
		lastEmailKey:            []byte(email),
	})
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *metadataTokenStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.TokenMetadataKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (s *metadataTokenStore) LastEmail(ctx context.Context) (string, error) {
	rec, err := s.repo.Get(ctx, lastEmailKey)
	if err != nil || rec == nil {
		return "", err
	}
	return string(rec.Value), nil
}
