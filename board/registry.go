// Package board binds logical sensor instances to concrete drivers and
// exposes the uniform instance+function API an application talks to.
package board

import "github.com/harrkout/motion"

type entry struct {
	lifecycle motion.LifecycleDriver
	functions [motion.FunctionCount]motion.FunctionDriver
	enabled   motion.Function
}

// Registry is per-instance driver storage. It performs no validation of its
// own: probes decide what gets stored and the Board validates before every
// lookup. All mutations are direct overwrites, so re-probing an instance
// replaces its previous bindings. Instances are independent; concurrent use
// of the same instance needs external synchronization.
type Registry struct {
	entries []entry
}

// NewRegistry allocates storage for n instances.
func NewRegistry(n int) *Registry {
	return &Registry{entries: make([]entry, n)}
}

// Size returns the number of instance slots.
func (r *Registry) Size() int {
	return len(r.entries)
}

// Lifecycle returns the instance's lifecycle driver, nil before a
// successful probe.
func (r *Registry) Lifecycle(instance int) motion.LifecycleDriver {
	return r.entries[instance].lifecycle
}

// SetLifecycle stores the instance's lifecycle driver.
func (r *Registry) SetLifecycle(instance int, d motion.LifecycleDriver) {
	r.entries[instance].lifecycle = d
}

// Function returns the driver bound for a single function flag, nil when
// unbound or when fn is not a single defined flag.
func (r *Registry) Function(instance int, fn motion.Function) motion.FunctionDriver {
	i := fn.Index()
	if i < 0 {
		return nil
	}
	return r.entries[instance].functions[i]
}

// Bind stores the driver for a single function flag. Undefined flags are
// ignored.
func (r *Registry) Bind(instance int, fn motion.Function, d motion.FunctionDriver) {
	i := fn.Index()
	if i < 0 {
		return
	}
	r.entries[instance].functions[i] = d
}

// Enabled returns the instance's enabled-functions mask.
func (r *Registry) Enabled(instance int) motion.Function {
	return r.entries[instance].enabled
}

// SetEnabled stores the instance's enabled-functions mask.
func (r *Registry) SetEnabled(instance int, fns motion.Function) {
	r.entries[instance].enabled = fns
}
