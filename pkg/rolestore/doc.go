// Package rolestore owns the simulated actor's role state.
//
// A Store is the only writer of rbac.State. It is created once per process
// with New, which restores the role id persisted under StorageKey (silently:
// the restored snapshot carries a zero LastChanged) or starts with no role.
// SwitchRole and ClearRole publish a new immutable snapshot to every
// subscriber and then persist the change on a best-effort basis: storage
// failures are logged and never fail the operation.
//
// Readers use State for a synchronous snapshot or Subscribe/Watch to follow
// changes. Subscribe replays the current snapshot before any later change.
// Mutations are serialized. Subscribers are notified after the store's lock
// is released, so a callback may call SwitchRole or ClearRole; the nested
// change is delivered once the current snapshot has reached every subscriber.
//
// Persistence is pluggable through Storage. MemoryStorage and BadgerStorage
// live here; a Redis-backed implementation is in pkg/redis.
//
// # Usage
//
//	db, _ := badger.Open(badger.DefaultOptions("./data"))
//	store := rolestore.New(ctx, rbac.DefaultCatalog(),
//	    rolestore.WithStorage(rolestore.NewBadgerStorage(db)),
//	    rolestore.WithLogger(log),
//	)
//
//	sub := store.Subscribe(func(s rbac.State) {
//	    log.Info("role", logger.RoleID(s.RoleID()))
//	})
//	defer sub.Unsubscribe()
//
//	if err := store.SwitchRole(ctx, "reviewer"); errors.Is(err, rbac.ErrRoleNotFound) {
//	    // keep the previous selection
//	}
//
// Selector mirrors a role picker: it tracks the selected id, switches on
// Select and falls back to the store's current role when a switch fails.
package rolestore
