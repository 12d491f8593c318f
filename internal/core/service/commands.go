package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/yndnr/tcplink/internal/core/domain"
)

// CommandRepository persists saved commands keyed by name.
type CommandRepository interface {
	Get(ctx context.Context, name string) (*domain.SavedCommand, error)
	Put(ctx context.Context, cmd *domain.SavedCommand) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]*domain.SavedCommand, error)
}

// CommandService manages saved commands and sends them through the manager.
type CommandService struct {
	repo     CommandRepository
	profiles *ProfileService
	manager  *Manager
	logger   *slog.Logger

	mu sync.Mutex
}

// NewCommandService creates a CommandService.
func NewCommandService(repo CommandRepository, profiles *ProfileService, manager *Manager, logger *slog.Logger) *CommandService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandService{
		repo:     repo,
		profiles: profiles,
		manager:  manager,
		logger:   logger.With("component", "commands"),
	}
}

// Save stores a new command. Names are unique.
func (s *CommandService) Save(ctx context.Context, name, message string) (*domain.SavedCommand, error) {
	cmd, err := domain.NewSavedCommand(name, message)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Get(ctx, cmd.Name); err == nil {
		return nil, domain.ErrCommandConflict.WithDetails(cmd.Name)
	} else if !errors.Is(err, domain.ErrCommandNotFound) {
		return nil, storageErr(err)
	}
	if err := s.repo.Put(ctx, cmd); err != nil {
		return nil, storageErr(err)
	}
	s.logger.Info("saved command", "name", cmd.Name)
	return cmd, nil
}

// Get returns the command named name.
func (s *CommandService) Get(ctx context.Context, name string) (*domain.SavedCommand, error) {
	cmd, err := s.repo.Get(ctx, name)
	if err != nil {
		return nil, storageErr(err)
	}
	return cmd, nil
}

// List returns all commands sorted by name.
func (s *CommandService) List(ctx context.Context) ([]*domain.SavedCommand, error) {
	cmds, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds, nil
}

// Delete removes the command named name.
func (s *CommandService) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, name); err != nil {
		return storageErr(err)
	}
	s.logger.Info("deleted command", "name", name)
	return nil
}

// Send composes the named command with the profile settings and transmits
// it. It returns the number of bytes sent.
func (s *CommandService) Send(ctx context.Context, name string) (int, error) {
	cmd, err := s.Get(ctx, name)
	if err != nil {
		return 0, err
	}
	payload, err := s.profiles.Compose(ctx, cmd.Message)
	if err != nil {
		return 0, err
	}
	if err := s.manager.Transmit(ctx, payload); err != nil {
		return 0, err
	}
	return len(payload), nil
}

// storageErr passes domain errors through and wraps anything else.
func storageErr(err error) error {
	if domain.IsDomainError(err, "") {
		return err
	}
	return domain.ErrStorage.Wrap(err).WithDetails(err.Error())
}
