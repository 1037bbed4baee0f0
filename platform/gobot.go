// Package platform adapts gobot board adaptors to the motion bus contract,
// for boards periph.io has no driver for.
package platform

import (
	"context"
	"fmt"

	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/harrkout/motion"
)

var _ motion.I2CBus = &GobotBus{}

// GobotBus exposes a gobot i2c.Connector (nanopi, raspi, ...) as a
// motion.I2CBus. Connections are opened per target address and cached by the
// underlying adaptor.
type GobotBus struct {
	adaptor i2c.Connector
	bus     int
}

// NewGobotBus wraps a connected gobot adaptor. bus selects the adaptor's I2C
// bus number; pass a negative value to use the adaptor default.
func NewGobotBus(adaptor i2c.Connector, bus int) *GobotBus {
	if bus < 0 {
		bus = adaptor.DefaultI2cBus()
	}
	return &GobotBus{adaptor: adaptor, bus: bus}
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	conn, err := b.adaptor.GetI2cConnection(int(address), b.bus)
	if err != nil {
		return fmt.Errorf("could not open i2c connection to %x: %w", address, err)
	}
	n, err := conn.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c device %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short read from i2c device %x: %d of %d bytes", address, n, len(buffer))
	}
	return nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	conn, err := b.adaptor.GetI2cConnection(int(address), b.bus)
	if err != nil {
		return fmt.Errorf("could not open i2c connection to %x: %w", address, err)
	}
	n, err := conn.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c device %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short write to i2c device %x: %d of %d bytes", address, n, len(buffer))
	}
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}
