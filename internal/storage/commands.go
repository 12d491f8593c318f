package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yndnr/tcplink/internal/core/domain"
)

const commandPrefix = "cmd/"

// CommandStore persists saved commands in a KVEngine.
type CommandStore struct {
	kv KVEngine
}

// NewCommandStore creates a CommandStore.
func NewCommandStore(kv KVEngine) *CommandStore {
	return &CommandStore{kv: kv}
}

func commandKey(name string) []byte {
	return []byte(commandPrefix + name)
}

// Get returns domain.ErrCommandNotFound for unknown names.
func (s *CommandStore) Get(ctx context.Context, name string) (*domain.SavedCommand, error) {
	raw, err := s.kv.Get(ctx, commandKey(name))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, domain.ErrCommandNotFound.WithDetails(name)
		}
		return nil, err
	}
	var cmd domain.SavedCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return nil, fmt.Errorf("decode command %q: %w", name, err)
	}
	return &cmd, nil
}

// Put stores cmd, replacing any command with the same name.
func (s *CommandStore) Put(ctx context.Context, cmd *domain.SavedCommand) error {
	raw, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode command %q: %w", cmd.Name, err)
	}
	return s.kv.Set(ctx, commandKey(cmd.Name), raw)
}

// Delete returns domain.ErrCommandNotFound for unknown names.
func (s *CommandStore) Delete(ctx context.Context, name string) error {
	err := s.kv.Delete(ctx, commandKey(name))
	if errors.Is(err, ErrKeyNotFound) {
		return domain.ErrCommandNotFound.WithDetails(name)
	}
	return err
}

// List returns all commands in key order.
func (s *CommandStore) List(ctx context.Context) ([]*domain.SavedCommand, error) {
	var (
		cmds   []*domain.SavedCommand
		decErr error
	)
	err := s.kv.Scan(ctx, []byte(commandPrefix), func(key, value []byte) bool {
		var cmd domain.SavedCommand
		if err := json.Unmarshal(value, &cmd); err != nil {
			decErr = fmt.Errorf("decode %s: %w", key, err)
			return false
		}
		cmds = append(cmds, &cmd)
		return true
	})
	if err != nil {
		return nil, err
	}
	if decErr != nil {
		return nil, decErr
	}
	return cmds, nil
}
