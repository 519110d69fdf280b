package view

import (
	"context"
	"errors"

	"barogreen/internal/moderation"

	"github.com/rs/zerolog/log"
)

// ErrNotConfirmed is returned when the operator declines a destructive action
var ErrNotConfirmed = errors.New("view: action not confirmed")

// ActionStore applies moderation actions
type ActionStore interface {
	ApplyAction(ctx context.Context, entity moderation.EntityType, action moderation.Action, id int) moderation.Result
}

// Confirmer asks the operator to confirm a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Dispatcher forwards actions to the store, asking the Confirmer first for
// destructive ones.
type Dispatcher struct {
	Store     ActionStore
	Confirmer Confirmer
}

// Dispatch applies the action. A declined confirmation, or a missing
// Confirmer for a destructive action, returns ErrNotConfirmed without
// calling the store.
func (d Dispatcher) Dispatch(ctx context.Context, entity moderation.EntityType, action moderation.Action, id int) (moderation.Result, error) {
	if moderation.Destructive(entity, action) {
		if d.Confirmer == nil || !d.Confirmer.Confirm(ctx, ConfirmPrompt(entity, id)) {
			log.Info().
				Str("entity", string(entity)).
				Int("id", id).
				Msg("view: destructive action declined")
			return moderation.Result{}, ErrNotConfirmed
		}
	}
	return d.Store.ApplyAction(ctx, entity, action, id), nil
}
