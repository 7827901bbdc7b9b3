package visibility

import (
	"sync"

	"github.com/dmitrymomot/rolesim/pkg/broadcast"
	"github.com/dmitrymomot/rolesim/pkg/rbac"
)

// Source streams role snapshots, replaying the current one on Subscribe.
type Source interface {
	Subscribe(fn func(rbac.State)) *broadcast.Subscription
}

// Directive keeps a fragment's visibility in line with a condition.
type Directive struct {
	source   Source
	cond     Condition
	fragment Fragment

	mu      sync.Mutex
	active  bool
	visible bool
	sub     *broadcast.Subscription
}

// New binds cond and fragment to source. Nothing happens until Activate.
func New(source Source, cond Condition, fragment Fragment) *Directive {
	return &Directive{
		source:   source,
		cond:     cond,
		fragment: fragment,
	}
}

// HasRole shows fragment while the current role is one of ids.
func HasRole(source Source, fragment Fragment, ids ...string) *Directive {
	return New(source, RoleCondition(ids...), fragment)
}

// HasPermission shows fragment while the current role holds the actions on
// resource (read when none are given).
func HasPermission(source Source, fragment Fragment, resource string, actions ...rbac.Action) *Directive {
	return New(source, PermissionCondition(resource, actions...), fragment)
}

// Activate subscribes to the source. The current snapshot is evaluated before
// Activate returns. Calling Activate on an active directive does nothing.
func (d *Directive) Activate() {
	d.mu.Lock()
	if d.active {
		d.mu.Unlock()
		return
	}
	d.active = true
	d.mu.Unlock()

	sub := d.source.Subscribe(d.update)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active {
		// Deactivated while subscribing.
		sub.Unsubscribe()
		return
	}
	d.sub = sub
}

// Deactivate unsubscribes and detaches a visible fragment. It is idempotent.
func (d *Directive) Deactivate() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.active = false
	if d.sub != nil {
		d.sub.Unsubscribe()
		d.sub = nil
	}
	if d.visible {
		d.fragment.Detach()
		d.visible = false
	}
}

// Visible reports whether the fragment is attached.
func (d *Directive) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}

// Active reports whether the directive follows its source.
func (d *Directive) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

func (d *Directive) update(st rbac.State) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return
	}

	show := d.cond.ShouldRender(st)
	switch {
	case show && !d.visible:
		d.fragment.Attach()
		d.visible = true
	case !show && d.visible:
		d.fragment.Detach()
		d.visible = false
	}
}
