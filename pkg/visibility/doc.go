// Package visibility shows or hides view fragments as the simulated role changes.
//
// A Directive binds a Condition to a Fragment and follows a role Source.
// Activate subscribes; the replayed snapshot is evaluated at once and every
// later snapshot re-evaluates the condition. The fragment is attached when the
// condition becomes true and detached when it becomes false, never twice in a
// row. Deactivate unsubscribes and detaches, and may be called at any time,
// including before the first snapshot arrives.
//
//	view := visibility.NewViewContainer(func() string { return "<button>Aprobar</button>" })
//	d := visibility.HasPermission(store, view, rbac.ResourceGestionPracticas, rbac.ActionApprove)
//	d.Activate()
//	defer d.Deactivate()
package visibility
