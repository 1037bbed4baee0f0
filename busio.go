package motion

import (
	"context"
	"fmt"
	"time"
)

// BusKind identifies how a sensor is wired to the board.
type BusKind int

const (
	BusI2C BusKind = iota
	BusSPI4Wire
	BusSPI3Wire
)

func (k BusKind) String() string {
	switch k {
	case BusI2C:
		return "i2c"
	case BusSPI4Wire:
		return "spi-4w"
	case BusSPI3Wire:
		return "spi-3w"
	}
	return "unknown"
}

// BusIO binds a sensor driver to its transport. It carries the bus kind, the
// device address and the register-level primitives the driver calls. A
// driver never talks to the bus any other way, so probing with a different
// BusIO is all it takes to move a sensor to another transport.
type BusIO struct {
	Kind    BusKind
	Address byte

	// Init and DeInit are optional; a nil func means the transport needs no
	// per-device setup or teardown.
	Init   func(ctx context.Context) error
	DeInit func(ctx context.Context) error

	// ReadReg fills buf starting at register reg. WriteReg writes data
	// starting at register reg. Both are required.
	ReadReg  func(ctx context.Context, reg byte, buf []byte) error
	WriteReg func(ctx context.Context, reg byte, data []byte) error

	// GetTick returns a monotonic millisecond tick used by drivers for
	// data-ready timeouts.
	GetTick func() int64
}

// Validate checks that the binding carries everything a driver needs.
func (io BusIO) Validate() error {
	if io.ReadReg == nil {
		return fmt.Errorf("bus binding has no register read primitive")
	}
	if io.WriteReg == nil {
		return fmt.Errorf("bus binding has no register write primitive")
	}
	if io.GetTick == nil {
		return fmt.Errorf("bus binding has no tick source")
	}
	return nil
}

// NewI2CBusIO builds a register-level binding over an I2CBus for the device
// at the given 7-bit address. Register reads set the register pointer first
// and then read, which is what every chip supported here expects.
func NewI2CBusIO(bus I2CBus, address byte) BusIO {
	return BusIO{
		Kind:    BusI2C,
		Address: address,
		DeInit: func(ctx context.Context) error {
			return bus.Release(ctx)
		},
		ReadReg: func(ctx context.Context, reg byte, buf []byte) error {
			if err := bus.WriteToAddr(ctx, address, []byte{reg}); err != nil {
				return fmt.Errorf("could not set register pointer %#x: %w", reg, err)
			}
			if err := bus.ReadFromAddr(ctx, address, buf); err != nil {
				return fmt.Errorf("could not read register %#x: %w", reg, err)
			}
			return nil
		},
		WriteReg: func(ctx context.Context, reg byte, data []byte) error {
			out := make([]byte, 0, len(data)+1)
			out = append(out, reg)
			out = append(out, data...)
			if err := bus.WriteToAddr(ctx, address, out); err != nil {
				return fmt.Errorf("could not write register %#x: %w", reg, err)
			}
			return nil
		},
		GetTick: func() int64 {
			return time.Now().UnixMilli()
		},
	}
}
