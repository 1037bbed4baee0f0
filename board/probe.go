package board

import (
	"context"
	"fmt"

	"github.com/harrkout/motion"
)

// ProbeFunc detects and qualifies the physical sensor behind an instance and
// registers its drivers. It is the only code allowed to mutate the Registry.
type ProbeFunc func(ctx context.Context, reg *Registry, instance int, requested motion.Function) error

// ProbeSpec describes one concrete sensor type to the generic probe
// protocol.
type ProbeSpec struct {
	// IO is the transport binding the drivers were constructed over.
	IO motion.BusIO
	// WantID is the identification byte the chip must report.
	WantID byte
	// Lifecycle is the sensor's lifecycle driver.
	Lifecycle motion.LifecycleDriver
	// Repertoire maps each function this sensor type can ever implement to
	// its driver. A requested function missing from the repertoire is a
	// caller/config mismatch, not a hardware absence.
	Repertoire map[motion.Function]motion.FunctionDriver
}

// Probe builds the probe routine for one sensor type. The protocol, in
// order:
//
//  1. the transport binding must be complete, otherwise the device cannot
//     be talked to at all;
//  2. the chip's identification byte must match WantID exactly, a read
//     failure counts as a mismatch;
//  3. only then are the silicon capabilities read and stored as the
//     instance's enabled mask, independent of what was requested;
//  4. each requested function present in silicon is bound and the lifecycle
//     Init is invoked for it, the first failure aborts;
//  5. a requested function absent from silicon is skipped silently, but a
//     requested function absent from the repertoire fails the probe.
func Probe(spec ProbeSpec) ProbeFunc {
	return func(ctx context.Context, reg *Registry, instance int, requested motion.Function) error {
		if err := spec.IO.Validate(); err != nil {
			return fmt.Errorf("%s: %w", err, motion.ErrUnknownComponent)
		}
		if spec.IO.Init != nil {
			if err := spec.IO.Init(ctx); err != nil {
				return fmt.Errorf("bus setup failed: %v: %w", err, motion.ErrUnknownComponent)
			}
		}
		id, err := spec.Lifecycle.ReadID(ctx)
		if err != nil {
			return fmt.Errorf("could not read device id: %v: %w", err, motion.ErrUnknownComponent)
		}
		if id != spec.WantID {
			return fmt.Errorf("device id mismatch: got %#x, want %#x: %w", id, spec.WantID, motion.ErrUnknownComponent)
		}

		// The enabled mask reflects silicon, not the request. Capability
		// read failures leave it empty, which disables every function-scoped
		// operation downstream.
		caps, _ := spec.Lifecycle.GetCapabilities(ctx)
		reg.SetLifecycle(instance, spec.Lifecycle)
		reg.SetEnabled(instance, caps.Functions())

		for _, fn := range motion.All {
			if !requested.Has(fn) {
				continue
			}
			drv, ok := spec.Repertoire[fn]
			if !ok {
				return fmt.Errorf("%s is not implemented by this sensor type: %w", fn, motion.ErrComponentFailure)
			}
			if !caps.Functions().Has(fn) {
				continue
			}
			reg.Bind(instance, fn, drv)
			if err := spec.Lifecycle.Init(ctx); err != nil {
				return fmt.Errorf("could not initialize %s: %v: %w", fn, err, motion.ErrComponentFailure)
			}
		}
		return nil
	}
}
