package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yndnr/tcplink/internal/core/domain"
)

var profileKey = []byte("profile")

// ProfileStore persists the user profile in a KVEngine.
type ProfileStore struct {
	kv KVEngine
}

// NewProfileStore creates a ProfileStore.
func NewProfileStore(kv KVEngine) *ProfileStore {
	return &ProfileStore{kv: kv}
}

// Load returns domain.DefaultProfile when nothing was saved.
func (s *ProfileStore) Load(ctx context.Context) (domain.Profile, error) {
	raw, err := s.kv.Get(ctx, profileKey)
	if errors.Is(err, ErrKeyNotFound) {
		return domain.DefaultProfile(), nil
	}
	if err != nil {
		return domain.Profile{}, err
	}
	p := domain.DefaultProfile()
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

// Save replaces the stored profile.
func (s *ProfileStore) Save(ctx context.Context, p domain.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.kv.Set(ctx, profileKey, raw)
}
