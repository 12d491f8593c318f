package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/yndnr/tcplink/internal/core/domain"
)

// ProfileRepository persists the single user profile.
type ProfileRepository interface {
	// Load returns the stored profile, or domain.DefaultProfile if none.
	Load(ctx context.Context) (domain.Profile, error)
	Save(ctx context.Context, p domain.Profile) error
}

// ProfileUpdate changes the fields that are non-nil.
type ProfileUpdate struct {
	LineEnding *string `json:"line_ending,omitempty"`
	Prepend    *string `json:"prepend,omitempty"`
}

// ProfileService remembers the last endpoint and message composition
// preferences.
type ProfileService struct {
	repo   ProfileRepository
	logger *slog.Logger

	mu sync.Mutex
}

// NewProfileService creates a ProfileService.
func NewProfileService(repo ProfileRepository, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{repo: repo, logger: logger.With("component", "profile")}
}

// Get returns the current profile.
func (s *ProfileService) Get(ctx context.Context) (domain.Profile, error) {
	p, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Profile{}, domain.ErrStorage.Wrap(err).WithDetails("load profile")
	}
	if p.LineEnding == "" {
		p.LineEnding = domain.DefaultLineEnding
	}
	return p, nil
}

// Update applies u and returns the stored result.
func (s *ProfileService) Update(ctx context.Context, u ProfileUpdate) (domain.Profile, error) {
	var le domain.LineEnding
	if u.LineEnding != nil {
		var err error
		if le, err = domain.ParseLineEnding(*u.LineEnding); err != nil {
			return domain.Profile{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	if u.LineEnding != nil {
		p.LineEnding = le
	}
	if u.Prepend != nil {
		p.Prepend = *u.Prepend
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return domain.Profile{}, domain.ErrStorage.Wrap(err).WithDetails("save profile")
	}
	return p, nil
}

// RememberEndpoint stores ep as the last successfully connected endpoint.
func (s *ProfileService) RememberEndpoint(ctx context.Context, ep domain.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx)
	if err != nil {
		return err
	}
	p.LastEndpoint = &ep
	if err := s.repo.Save(ctx, p); err != nil {
		return domain.ErrStorage.Wrap(err).WithDetails("save profile")
	}
	s.logger.Debug("remembered endpoint", "endpoint", ep.String())
	return nil
}

// LastEndpoint returns the remembered endpoint, or ErrMissingArgument if
// nothing was ever connected.
func (s *ProfileService) LastEndpoint(ctx context.Context) (domain.Endpoint, error) {
	p, err := s.Get(ctx)
	if err != nil {
		return domain.Endpoint{}, err
	}
	if p.LastEndpoint == nil {
		return domain.Endpoint{}, domain.ErrMissingArgument.WithDetails("no previous endpoint")
	}
	return *p.LastEndpoint, nil
}

// Compose builds the payload for message using the stored composition.
func (s *ProfileService) Compose(ctx context.Context, message string) ([]byte, error) {
	p, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return p.Composition().Compose(message), nil
}
