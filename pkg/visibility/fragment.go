package visibility

import (
	"slices"
	"strings"
	"sync"
)

// Fragment is a piece of view that can be inserted and removed.
type Fragment interface {
	Attach()
	Detach()
}

// ViewContainer renders a template into a list of views.
// Attach appends one rendered view; Detach clears the list.
type ViewContainer struct {
	render func() string

	mu       sync.RWMutex
	views    []string
	attached int
	detached int
}

// NewViewContainer creates a container for the given template.
func NewViewContainer(render func() string) *ViewContainer {
	if render == nil {
		render = func() string { return "" }
	}
	return &ViewContainer{render: render}
}

// Attach renders the template and appends it.
func (v *ViewContainer) Attach() {
	out := v.render()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.views = append(v.views, out)
	v.attached++
}

// Detach removes every rendered view.
func (v *ViewContainer) Detach() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.views = nil
	v.detached++
}

// Views returns the rendered views.
func (v *ViewContainer) Views() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.views)
}

// Len returns the number of rendered views.
func (v *ViewContainer) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.views)
}

// Counts returns how many times Attach and Detach were called.
func (v *ViewContainer) Counts() (attached, detached int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.attached, v.detached
}

// String joins the rendered views.
func (v *ViewContainer) String() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return strings.Join(v.views, "")
}
