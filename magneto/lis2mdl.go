// Package magneto holds magnetometer drivers.
package magneto

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/harrkout/motion"
	"github.com/harrkout/motion/board"
)

// LIS2MDLAddress is the chip's fixed 7-bit I2C address.
const LIS2MDLAddress = 0x1E

// LIS2MDLID is the WHO_AM_I value the chip must report.
const LIS2MDLID = 0x40

const (
	lis2mdlRegWhoAmI = 0x4F
	lis2mdlRegCfgA   = 0x60
	lis2mdlRegCfgC   = 0x62
	lis2mdlRegStatus = 0x67
	lis2mdlRegOutXL  = 0x68
)

// CFG_REG_A fields
const (
	lis2mdlModeContinuous = 0x00
	lis2mdlModeIdle       = 0x03
	lis2mdlModeMask       = 0x03
	lis2mdlODRMask        = 0x0C
	lis2mdlCompTempEn     = 0x80
)

// CFG_REG_C fields
const lis2mdlBDU = 0x10

// STATUS_REG fields
const lis2mdlZyxda = 0x08

const lis2mdlDataReadyTimeoutMs = 200

// ODR coding of CFG_REG_A bits 3:2.
var lis2mdlRates = []float32{10, 20, 50, 100}

// The LIS2MDL has a single ±50 gauss range with a fixed sensitivity of
// 1.5 mgauss/LSB.
const (
	lis2mdlFullScale   = 50
	lis2mdlSensitivity = 1.5
)

// LIS2MDL represents an ST LIS2MDL magnetometer.
type LIS2MDL struct {
	io          motion.BusIO
	initialized bool
}

func NewLIS2MDL(io motion.BusIO) *LIS2MDL {
	return &LIS2MDL{io: io}
}

// ProbeLIS2MDL builds the probe routine for a LIS2MDL. The repertoire is
// magnetometer-only.
func ProbeLIS2MDL(bus motion.I2CBus, address byte) board.ProbeFunc {
	io := motion.NewI2CBusIO(bus, address)
	m := NewLIS2MDL(io)
	return board.Probe(board.ProbeSpec{
		IO:        io,
		WantID:    LIS2MDLID,
		Lifecycle: m,
		Repertoire: map[motion.Function]motion.FunctionDriver{
			motion.Magnetometer: m.Magnetometer(),
		},
	})
}

// Init enables block data update and temperature compensation and parks the
// chip in idle mode at 10 Hz.
func (m *LIS2MDL) Init(ctx context.Context) error {
	if m.initialized {
		return nil
	}
	if err := m.writeReg(ctx, lis2mdlRegCfgC, lis2mdlBDU); err != nil {
		return err
	}
	if err := m.writeReg(ctx, lis2mdlRegCfgA, lis2mdlCompTempEn|lis2mdlModeIdle); err != nil {
		return err
	}
	m.initialized = true
	return nil
}

// DeInit parks the chip in idle mode.
func (m *LIS2MDL) DeInit(ctx context.Context) error {
	if err := m.updateReg(ctx, lis2mdlRegCfgA, lis2mdlModeMask, lis2mdlModeIdle); err != nil {
		return err
	}
	m.initialized = false
	if m.io.DeInit != nil {
		return m.io.DeInit(ctx)
	}
	return nil
}

func (m *LIS2MDL) ReadID(ctx context.Context) (byte, error) {
	return m.readReg(ctx, lis2mdlRegWhoAmI)
}

func (m *LIS2MDL) GetCapabilities(ctx context.Context) (motion.Capabilities, error) {
	return motion.Capabilities{
		Magneto:   true,
		MagMaxFS:  lis2mdlFullScale,
		MagMaxODR: 100,
	}, nil
}

// Magnetometer returns the chip's single function driver.
func (m *LIS2MDL) Magnetometer() motion.FunctionDriver {
	return &lis2mdlMag{m: m}
}

type lis2mdlMag struct {
	m *LIS2MDL
}

func (g *lis2mdlMag) Enable(ctx context.Context) error {
	return g.m.updateReg(ctx, lis2mdlRegCfgA, lis2mdlModeMask, lis2mdlModeContinuous)
}

func (g *lis2mdlMag) Disable(ctx context.Context) error {
	return g.m.updateReg(ctx, lis2mdlRegCfgA, lis2mdlModeMask, lis2mdlModeIdle)
}

func (g *lis2mdlMag) GetAxesRaw(ctx context.Context) (motion.AxesRaw, error) {
	if err := g.m.waitReady(ctx); err != nil {
		return motion.AxesRaw{}, err
	}
	buf := make([]byte, 6)
	if err := g.m.io.ReadReg(ctx, lis2mdlRegOutXL, buf); err != nil {
		return motion.AxesRaw{}, fmt.Errorf("lis2mdl: %w", err)
	}
	return motion.AxesRaw{
		X: int16(binary.LittleEndian.Uint16(buf[0:2])),
		Y: int16(binary.LittleEndian.Uint16(buf[2:4])),
		Z: int16(binary.LittleEndian.Uint16(buf[4:6])),
	}, nil
}

func (g *lis2mdlMag) GetAxes(ctx context.Context) (motion.Axes, error) {
	raw, err := g.GetAxesRaw(ctx)
	if err != nil {
		return motion.Axes{}, err
	}
	return motion.Axes{
		X: int32(float32(raw.X) * lis2mdlSensitivity),
		Y: int32(float32(raw.Y) * lis2mdlSensitivity),
		Z: int32(float32(raw.Z) * lis2mdlSensitivity),
	}, nil
}

func (g *lis2mdlMag) GetSensitivity(ctx context.Context) (float32, error) {
	return lis2mdlSensitivity, nil
}

func (g *lis2mdlMag) GetOutputDataRate(ctx context.Context) (float32, error) {
	cfg, err := g.m.readReg(ctx, lis2mdlRegCfgA)
	if err != nil {
		return 0, err
	}
	return lis2mdlRates[(cfg&lis2mdlODRMask)>>2], nil
}

// SetOutputDataRate selects the lowest chip rate at or above odr.
func (g *lis2mdlMag) SetOutputDataRate(ctx context.Context, odr float32) error {
	for bits, rate := range lis2mdlRates {
		if rate >= odr {
			return g.m.updateReg(ctx, lis2mdlRegCfgA, lis2mdlODRMask, byte(bits)<<2)
		}
	}
	return fmt.Errorf("lis2mdl: output data rate %.1f Hz out of range", odr)
}

func (g *lis2mdlMag) GetFullScale(ctx context.Context) (int32, error) {
	return lis2mdlFullScale, nil
}

// SetFullScale accepts only the chip's single range.
func (g *lis2mdlMag) SetFullScale(ctx context.Context, fullscale int32) error {
	if fullscale != lis2mdlFullScale {
		return fmt.Errorf("lis2mdl: unsupported full scale %d", fullscale)
	}
	return nil
}

func (m *LIS2MDL) readReg(ctx context.Context, reg byte) (byte, error) {
	buf := make([]byte, 1)
	if err := m.io.ReadReg(ctx, reg, buf); err != nil {
		return 0, fmt.Errorf("lis2mdl: %w", err)
	}
	return buf[0], nil
}

func (m *LIS2MDL) writeReg(ctx context.Context, reg, val byte) error {
	if err := m.io.WriteReg(ctx, reg, []byte{val}); err != nil {
		return fmt.Errorf("lis2mdl: %w", err)
	}
	return nil
}

func (m *LIS2MDL) updateReg(ctx context.Context, reg, mask, val byte) error {
	cur, err := m.readReg(ctx, reg)
	if err != nil {
		return err
	}
	return m.writeReg(ctx, reg, (cur&^mask)|(val&mask))
}

// waitReady polls STATUS_REG until all three axes report new data, bounded
// by the binding's tick source.
func (m *LIS2MDL) waitReady(ctx context.Context) error {
	deadline := m.io.GetTick() + lis2mdlDataReadyTimeoutMs
	for {
		status, err := m.readReg(ctx, lis2mdlRegStatus)
		if err != nil {
			return err
		}
		if status&lis2mdlZyxda != 0 {
			return nil
		}
		if m.io.GetTick() > deadline {
			return fmt.Errorf("lis2mdl: data not ready after %dms", lis2mdlDataReadyTimeoutMs)
		}
	}
}

var _ motion.LifecycleDriver = (*LIS2MDL)(nil)
