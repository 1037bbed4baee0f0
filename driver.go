package motion

import "context"

// LifecycleDriver covers the operations that apply to a whole sensor
// instance regardless of which functions are enabled.
type LifecycleDriver interface {
	// Init brings the device into a known configured state. It is called
	// once per function bound during probing and must be idempotent.
	Init(ctx context.Context) error
	// DeInit powers the device down.
	DeInit(ctx context.Context) error
	// ReadID returns the hardware identification byte.
	ReadID(ctx context.Context) (byte, error)
	// GetCapabilities reports what the device implements in silicon.
	GetCapabilities(ctx context.Context) (Capabilities, error)
}

// FunctionDriver covers the operations scoped to one sensing function of an
// instance. A combo chip exposes one FunctionDriver per function it
// implements, all backed by the same device object.
type FunctionDriver interface {
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error
	GetAxes(ctx context.Context) (Axes, error)
	GetAxesRaw(ctx context.Context) (AxesRaw, error)
	// GetSensitivity returns the conversion factor for the current full
	// scale, in the function's milli-unit per LSB.
	GetSensitivity(ctx context.Context) (float32, error)
	GetOutputDataRate(ctx context.Context) (float32, error)
	SetOutputDataRate(ctx context.Context, odr float32) error
	// Full scale is expressed in the function's unit: g, dps or gauss.
	GetFullScale(ctx context.Context) (int32, error)
	SetFullScale(ctx context.Context, fullscale int32) error
}
