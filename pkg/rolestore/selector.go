package rolestore

import (
	"context"
	"sync"

	"github.com/dmitrymomot/rolesim/pkg/broadcast"
	"github.com/dmitrymomot/rolesim/pkg/rbac"
)

// Selector tracks the role id picked in a role switcher and keeps it in
// sync with the store.
type Selector struct {
	store *Store
	sub   *broadcast.Subscription

	mu       sync.RWMutex
	selected string
	state    rbac.State
}

// NewSelector subscribes to store. Call Close to release the subscription.
func NewSelector(store *Store) *Selector {
	sel := &Selector{store: store}
	sel.sub = store.Subscribe(sel.sync)
	return sel
}

func (sel *Selector) sync(st rbac.State) {
	sel.mu.Lock()
	defer sel.mu.Unlock()
	sel.state = st
	sel.selected = st.RoleID()
}

// Selected returns the selected role id, empty when none.
func (sel *Selector) Selected() string {
	sel.mu.RLock()
	defer sel.mu.RUnlock()
	return sel.selected
}

// State returns the last snapshot the selector received.
func (sel *Selector) State() rbac.State {
	sel.mu.RLock()
	defer sel.mu.RUnlock()
	return sel.state
}

// Select switches to id. On failure the selection reverts to the store's
// current role and the switch error is returned. An empty id is a no-op.
func (sel *Selector) Select(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	sel.mu.Lock()
	sel.selected = id
	sel.mu.Unlock()

	if err := sel.store.SwitchRole(ctx, id); err != nil {
		sel.mu.Lock()
		sel.selected = sel.state.RoleID()
		sel.mu.Unlock()
		return err
	}
	return nil
}

// Clear drops the current role.
func (sel *Selector) Clear(ctx context.Context) {
	sel.store.ClearRole(ctx)
}

// Close stops following the store.
func (sel *Selector) Close() {
	sel.sub.Unsubscribe()
}
