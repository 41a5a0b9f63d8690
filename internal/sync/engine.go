// Package sync holds the import, export, and push-back engines that move
// items between local tasks and the external issue trackers. All
// operations are pull-on-demand or push-on-demand; nothing here runs in
// the background.
package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YardenSamorai/taskos-sync/internal/credential"
	"github.com/YardenSamorai/taskos-sync/internal/model"
	"github.com/YardenSamorai/taskos-sync/internal/provider"
	"github.com/YardenSamorai/taskos-sync/internal/store"
)

// TokenSource hands out valid access tokens; tests substitute a fake.
type TokenSource interface {
	ValidToken(ctx context.Context, userID string, p model.Provider) (credential.Token, error)
}

// AdapterFactory builds the adapter for a provider bound to a token.
type AdapterFactory func(p model.Provider, tok credential.Token) provider.Adapter

// Engine runs import, export, and push-back operations. Every dependency
// is injected so tests can run against fakes.
type Engine struct {
	store    store.Store
	tokens   TokenSource
	adapters AdapterFactory
	logger   *slog.Logger
}

// NewEngine creates a sync engine.
func NewEngine(
	st store.Store,
	tokens TokenSource,
	adapters AdapterFactory,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		store:    st,
		tokens:   tokens,
		adapters: adapters,
		logger:   logger,
	}
}

// adapterFor validates the provider tag and resolves a token-bound
// adapter. This is the single dispatch point for provider selection.
func (e *Engine) adapterFor(
	ctx context.Context,
	userID string,
	p model.Provider,
) (provider.Adapter, credential.Token, error) {
	if !model.ValidProvider(p) {
		return nil, credential.Token{}, fmt.Errorf("unknown provider %q", p)
	}

	tok, err := e.tokens.ValidToken(ctx, userID, p)
	if err != nil {
		return nil, credential.Token{}, err
	}

	return e.adapters(p, tok), tok, nil
}
