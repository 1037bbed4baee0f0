package board

import (
	"context"
	"fmt"

	"github.com/harrkout/motion"
)

// Descriptor names one sensor instance and carries its probe routine.
type Descriptor struct {
	Name  string
	Probe ProbeFunc
}

// Board is the application-facing façade. Every operation addresses an
// instance by index; function-scoped operations additionally name the
// sensing function they act on. All calls run synchronously on the caller's
// goroutine; instances are independent, a single instance expects one caller
// at a time.
type Board struct {
	reg         *Registry
	descriptors []Descriptor
}

// New builds a Board with one instance slot per descriptor, owning a fresh
// registry.
func New(descriptors ...Descriptor) *Board {
	return NewWithRegistry(NewRegistry(len(descriptors)), descriptors...)
}

// NewWithRegistry builds a Board over caller-owned registry storage. The
// registry must have at least one slot per descriptor.
func NewWithRegistry(reg *Registry, descriptors ...Descriptor) *Board {
	return &Board{reg: reg, descriptors: descriptors}
}

// Registry exposes the board's driver storage, mainly for tests and
// diagnostics.
func (b *Board) Registry() *Registry {
	return b.reg
}

// Instances returns the number of configured instance slots.
func (b *Board) Instances() int {
	return len(b.descriptors)
}

// Name returns the descriptor name of an instance, "" when out of range.
func (b *Board) Name(instance int) string {
	if instance < 0 || instance >= len(b.descriptors) {
		return ""
	}
	return b.descriptors[instance].Name
}

// Init probes the instance and enables every requested function the device
// supports. Requesting zero functions is valid and binds nothing.
func (b *Board) Init(ctx context.Context, instance int, functions motion.Function) error {
	if instance < 0 || instance >= len(b.descriptors) {
		return b.outOfRange(instance)
	}
	d := b.descriptors[instance]
	if d.Probe == nil {
		return fmt.Errorf("instance %d has no probe routine: %w", instance, motion.ErrWrongParam)
	}
	if err := d.Probe(ctx, b.reg, instance, functions); err != nil {
		return fmt.Errorf("%s probe: %w: %w", d.Name, motion.ErrNoInit, err)
	}
	caps, err := b.reg.Lifecycle(instance).GetCapabilities(ctx)
	if err != nil {
		return fmt.Errorf("could not read %s capabilities: %v: %w", d.Name, err, motion.ErrUnknownComponent)
	}
	supported := caps.Functions()
	for _, fn := range motion.All {
		if !functions.Has(fn) || !supported.Has(fn) {
			continue
		}
		// The probe bound every requested function present in silicon, so
		// the lookup cannot come back nil here.
		if err := b.reg.Function(instance, fn).Enable(ctx); err != nil {
			return fmt.Errorf("could not enable %s on %s: %v: %w", fn, d.Name, err, motion.ErrComponentFailure)
		}
	}
	return nil
}

// DeInit powers the instance down. Bindings and the enabled mask are kept,
// matching the probe-once lifecycle: a de-initialized instance is expected
// to be re-initialized before further use.
func (b *Board) DeInit(ctx context.Context, instance int) error {
	drv, err := b.lifecycle(instance)
	if err != nil {
		return err
	}
	if err := drv.DeInit(ctx); err != nil {
		return fmt.Errorf("could not deinitialize instance %d: %v: %w", instance, err, motion.ErrComponentFailure)
	}
	return nil
}

// ReadID returns the instance's hardware identification byte. No
// enabled-mask gating: identity must be readable before anything is
// enabled.
func (b *Board) ReadID(ctx context.Context, instance int) (byte, error) {
	drv, err := b.lifecycle(instance)
	if err != nil {
		return 0, err
	}
	id, err := drv.ReadID(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not read id of instance %d: %v: %w", instance, err, motion.ErrUnknownComponent)
	}
	return id, nil
}

// GetCapabilities returns what the instance's device implements in silicon.
func (b *Board) GetCapabilities(ctx context.Context, instance int) (motion.Capabilities, error) {
	drv, err := b.lifecycle(instance)
	if err != nil {
		return motion.Capabilities{}, err
	}
	caps, err := drv.GetCapabilities(ctx)
	if err != nil {
		return motion.Capabilities{}, fmt.Errorf("could not read capabilities of instance %d: %v: %w", instance, err, motion.ErrUnknownComponent)
	}
	return caps, nil
}

// Enable starts the function's measurements.
func (b *Board) Enable(ctx context.Context, instance int, fn motion.Function) error {
	drv, err := b.function(instance, fn)
	if err != nil {
		return err
	}
	if err := drv.Enable(ctx); err != nil {
		return fmt.Errorf("could not enable %s on instance %d: %v: %w", fn, instance, err, motion.ErrComponentFailure)
	}
	return nil
}

// Disable stops the function's measurements.
func (b *Board) Disable(ctx context.Context, instance int, fn motion.Function) error {
	drv, err := b.function(instance, fn)
	if err != nil {
		return err
	}
	if err := drv.Disable(ctx); err != nil {
		return fmt.Errorf("could not disable %s on instance %d: %v: %w", fn, instance, err, motion.ErrComponentFailure)
	}
	return nil
}

// GetAxes returns converted axis data for the function.
func (b *Board) GetAxes(ctx context.Context, instance int, fn motion.Function) (motion.Axes, error) {
	drv, err := b.function(instance, fn)
	if err != nil {
		return motion.Axes{}, err
	}
	axes, err := drv.GetAxes(ctx)
	if err != nil {
		return motion.Axes{}, fmt.Errorf("could not read %s axes on instance %d: %v: %w", fn, instance, err, motion.ErrComponentFailure)
	}
	return axes, nil
}

// GetAxesRaw returns unconverted axis data for the function.
func (b *Board) GetAxesRaw(ctx context.Context, instance int, fn motion.Function) (motion.AxesRaw, error) {
	drv, err := b.function(instance, fn)
	if err != nil {
		return motion.AxesRaw{}, err
	}
	raw, err := drv.GetAxesRaw(ctx)
	if err != nil {
		return motion.AxesRaw{}, fmt.Errorf("could not read raw %s axes on instance %d: %v: %w", fn, instance, err, motion.ErrComponentFailure)
	}
	return raw, nil
}

// GetSensitivity returns the function's conversion factor at its current
// full scale.
func (b *Board) GetSensitivity(ctx context.Context, instance int, fn motion.Function) (float32, error) {
	drv, err := b.function(instance, fn)
	if err != nil {
		return 0, err
	}
	s, err := drv.GetSensitivity(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not read %s sensitivity on instance %d: %v: %w", fn, instance, err, motion.ErrComponentFailure)
	}
	return s, nil
}

// GetOutputDataRate returns the function's output data rate in Hz.
func (b *Board) GetOutputDataRate(ctx context.Context, instance int, fn motion.Function) (float32, error) {
	drv, err := b.function(instance, fn)
	if err != nil {
		return 0, err
	}
	odr, err := drv.GetOutputDataRate(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not read %s output data rate on instance %d: %v: %w", fn, instance, err, motion.ErrComponentFailure)
	}
	return odr, nil
}

// SetOutputDataRate requests a new output data rate; drivers round up to
// the nearest rate the chip offers.
func (b *Board) SetOutputDataRate(ctx context.Context, instance int, fn motion.Function, odr float32) error {
	drv, err := b.function(instance, fn)
	if err != nil {
		return err
	}
	if err := drv.SetOutputDataRate(ctx, odr); err != nil {
		return fmt.Errorf("could not set %s output data rate on instance %d: %v: %w", fn, instance, err, motion.ErrComponentFailure)
	}
	return nil
}

// GetFullScale returns the function's full scale in its unit (g, dps,
// gauss).
func (b *Board) GetFullScale(ctx context.Context, instance int, fn motion.Function) (int32, error) {
	drv, err := b.function(instance, fn)
	if err != nil {
		return 0, err
	}
	fs, err := drv.GetFullScale(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not read %s full scale on instance %d: %v: %w", fn, instance, err, motion.ErrComponentFailure)
	}
	return fs, nil
}

// SetFullScale selects the function's full scale.
func (b *Board) SetFullScale(ctx context.Context, instance int, fn motion.Function, fullscale int32) error {
	drv, err := b.function(instance, fn)
	if err != nil {
		return err
	}
	if err := drv.SetFullScale(ctx, fullscale); err != nil {
		return fmt.Errorf("could not set %s full scale on instance %d: %v: %w", fn, instance, err, motion.ErrComponentFailure)
	}
	return nil
}

func (b *Board) outOfRange(instance int) error {
	return fmt.Errorf("instance %d out of range [0,%d): %w", instance, len(b.descriptors), motion.ErrWrongParam)
}

// lifecycle validates the instance index and returns its lifecycle driver.
func (b *Board) lifecycle(instance int) (motion.LifecycleDriver, error) {
	if instance < 0 || instance >= len(b.descriptors) {
		return nil, b.outOfRange(instance)
	}
	drv := b.reg.Lifecycle(instance)
	if drv == nil {
		return nil, fmt.Errorf("instance %d has not been probed: %w", instance, motion.ErrNoInit)
	}
	return drv, nil
}

// function validates the instance index and the enabled mask, then returns
// the bound driver. The mask check is exact: a combined fn argument needs
// every bit enabled. The bind check runs strictly after the mask check so a
// disabled function can never reach an unpopulated binding.
func (b *Board) function(instance int, fn motion.Function) (motion.FunctionDriver, error) {
	if instance < 0 || instance >= len(b.descriptors) {
		return nil, b.outOfRange(instance)
	}
	if fn == 0 || !b.reg.Enabled(instance).Has(fn) {
		return nil, fmt.Errorf("%s not enabled on instance %d: %w", fn, instance, motion.ErrWrongParam)
	}
	drv := b.reg.Function(instance, fn)
	if drv == nil {
		// Present in silicon but never requested at probe time, or a
		// combined mask that names no single binding.
		return nil, fmt.Errorf("%s not bound on instance %d: %w", fn, instance, motion.ErrWrongParam)
	}
	return drv, nil
}
