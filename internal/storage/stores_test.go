package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/yndnr/tcplink/internal/core/domain"
)

func TestCommandStore(t *testing.T) {
	store := NewCommandStore(newMemEngine(t))
	ctx := context.Background()

	if _, err := store.Get(ctx, "nope"); !errors.Is(err, domain.ErrCommandNotFound) {
		t.Errorf("Get() unknown error = %v", err)
	}

	for _, name := range []string{"beta", "alpha"} {
		cmd, _ := domain.NewSavedCommand(name, "msg-"+name)
		if err := store.Put(ctx, cmd); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	got, err := store.Get(ctx, "alpha")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Message != "msg-alpha" || got.CreatedAt.IsZero() {
		t.Errorf("Get() = %+v", got)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].Name != "alpha" {
		t.Errorf("List() = %v", list)
	}

	if err := store.Delete(ctx, "alpha"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, "alpha"); !errors.Is(err, domain.ErrCommandNotFound) {
		t.Errorf("Delete() twice error = %v", err)
	}
}

func TestCommandStore_IgnoresOtherKeys(t *testing.T) {
	kv := newMemEngine(t)
	store := NewCommandStore(kv)
	ctx := context.Background()

	_ = NewProfileStore(kv).Save(ctx, domain.DefaultProfile())
	list, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %v, want empty", list)
	}
}

func TestProfileStore(t *testing.T) {
	store := NewProfileStore(newMemEngine(t))
	ctx := context.Background()

	p, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if p.LineEnding != domain.LineEndingCRLF || p.LastEndpoint != nil {
		t.Errorf("Load() default = %+v", p)
	}

	p.LineEnding = domain.LineEndingNone
	p.Prepend = "#"
	p.LastEndpoint = &domain.Endpoint{Address: "h", Port: 9}
	if err := store.Save(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.LineEnding != domain.LineEndingNone || got.Prepend != "#" || got.LastEndpoint == nil || *got.LastEndpoint != *p.LastEndpoint {
		t.Errorf("Load() = %+v, want %+v", got, p)
	}
}
