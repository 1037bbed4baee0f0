// Package accel holds accelerometer-only drivers.
package accel

import (
	"context"
	"fmt"

	"github.com/harrkout/motion"
	"github.com/harrkout/motion/board"
)

// BMA220Address is the chip's fixed 7-bit I2C address.
const BMA220Address = 0x0A

// BMA220ID is the CHIPID value the chip must report.
const BMA220ID = 0xDD

const (
	regChipID        = 0x00
	regAxisX         = 0x04
	regAxisY         = 0x06
	regAxisZ         = 0x08
	regSlopeSettings = 0x12
	regInterrupts    = 0x18
	regSlopeDet      = 0x1A
	regLatch         = 0x1C
	regFilter        = 0x20
	regRange         = 0x22
	regWatchdog      = 0x2E
	regSuspend       = 0x30
)

// Range coding of register 0x22 bits 1:0, sensitivity in mg/LSB for the
// 6-bit output.
var bma220FS = []struct {
	fs   int32
	sens float32
}{
	{2, 62.5},
	{4, 125},
	{8, 250},
	{16, 500},
}

// Filter coding of register 0x20 bits 3:0, bandwidth in Hz. The chip has no
// separate data-rate setting, so the filter bandwidth doubles as the output
// data rate here.
var bma220Rates = []float32{1000, 500, 250, 125, 64, 32}

// BMA220 represents a Bosch BMA220 accelerometer. It implements the
// lifecycle driver directly and hands out its single function driver via
// Accelerometer(). Reading the suspend register toggles the chip in and out
// of suspend mode, so the driver tracks which side of the toggle it is on.
type BMA220 struct {
	io          motion.BusIO
	suspended   bool
	initialized bool
}

func NewBMA220(io motion.BusIO) *BMA220 {
	return &BMA220{io: io}
}

// ProbeBMA220 builds the probe routine for a BMA220. The repertoire is
// accelerometer-only: requesting a gyroscope or magnetometer on this chip is
// a configuration error.
func ProbeBMA220(bus motion.I2CBus, address byte) board.ProbeFunc {
	io := motion.NewI2CBusIO(bus, address)
	b := NewBMA220(io)
	return board.Probe(board.ProbeSpec{
		IO:        io,
		WantID:    BMA220ID,
		Lifecycle: b,
		Repertoire: map[motion.Function]motion.FunctionDriver{
			motion.Accelerometer: b.Accelerometer(),
		},
	})
}

// Init selects the 2g range and the default filter bandwidth.
func (b *BMA220) Init(ctx context.Context) error {
	if b.initialized {
		return nil
	}
	if err := b.writeReg(ctx, regRange, 0x00); err != nil {
		return fmt.Errorf("could not set default range: %w", err)
	}
	if err := b.writeReg(ctx, regFilter, 0x02); err != nil {
		return fmt.Errorf("could not set default filter: %w", err)
	}
	b.initialized = true
	return nil
}

// DeInit puts the chip into suspend mode.
func (b *BMA220) DeInit(ctx context.Context) error {
	if err := b.suspend(ctx, true); err != nil {
		return err
	}
	b.initialized = false
	if b.io.DeInit != nil {
		return b.io.DeInit(ctx)
	}
	return nil
}

func (b *BMA220) ReadID(ctx context.Context) (byte, error) {
	return b.readReg(ctx, regChipID)
}

func (b *BMA220) GetCapabilities(ctx context.Context) (motion.Capabilities, error) {
	return motion.Capabilities{
		Acc:       true,
		LowPower:  true,
		AccMaxFS:  16,
		AccMaxODR: 1000,
	}, nil
}

// Accelerometer returns the chip's single function driver.
func (b *BMA220) Accelerometer() motion.FunctionDriver {
	return &bma220Accel{b: b}
}

/*
Slope (any-motion) detection, kept from the original connector:

	en_slope_x/y/z (0x1A.5/.4/.3) enable slope detection per axis
	slope_th (0x12[5:2]) threshold, 1 LSB of acc_data per LSB
	slope_dur (0x12[1:0]) consecutive data points above threshold
	slope_filt (0x12.6) use filtered data when set
	slope_int (0x18.0) interrupt flag
	lat_int (0x1C[6:4]) interrupt latch mode
*/

// InitMotionDetection configures latched slope detection on all three axes.
func (b *BMA220) InitMotionDetection(ctx context.Context) error {
	if err := b.writeReg(ctx, regRange, 0x03); err != nil {
		return fmt.Errorf("could not set detection sensitivity: %w", err)
	}
	// permanent interrupt latch lat_int[2:0] = 111
	if err := b.writeReg(ctx, regLatch, 0b01110000); err != nil {
		return fmt.Errorf("could not set interrupt settings: %w", err)
	}
	if err := b.writeReg(ctx, regSlopeDet, 0b00111000); err != nil {
		return fmt.Errorf("could not enable slope detection: %w", err)
	}
	if err := b.writeReg(ctx, regSlopeSettings, 0x45); err != nil {
		return fmt.Errorf("could not set slope detection settings: %w", err)
	}
	if err := b.writeReg(ctx, regWatchdog, 0x06); err != nil {
		return fmt.Errorf("could not set watchdog settings: %w", err)
	}
	return nil
}

// CheckMotionInterrupt reports whether the latched slope interrupt fired.
func (b *BMA220) CheckMotionInterrupt(ctx context.Context) (bool, error) {
	val, err := b.readReg(ctx, regInterrupts)
	if err != nil {
		return false, fmt.Errorf("could not read interrupt state: %w", err)
	}
	// slope detection is on bit 0
	return val&0x01 != 0, nil
}

// ResetMotionInterrupt clears the interrupt latch.
func (b *BMA220) ResetMotionInterrupt(ctx context.Context) error {
	if err := b.writeReg(ctx, regLatch, 0b11110000); err != nil {
		return fmt.Errorf("could not reset interrupt latch: %w", err)
	}
	return nil
}

type bma220Accel struct {
	b *BMA220
}

func (a *bma220Accel) Enable(ctx context.Context) error {
	return a.b.suspend(ctx, false)
}

func (a *bma220Accel) Disable(ctx context.Context) error {
	return a.b.suspend(ctx, true)
}

// GetAxesRaw reads the three axis registers. Output is 6 bits, two's
// complement, left-aligned in the register byte.
func (a *bma220Accel) GetAxesRaw(ctx context.Context) (motion.AxesRaw, error) {
	var out [3]int16
	for i, reg := range []byte{regAxisX, regAxisY, regAxisZ} {
		val, err := a.b.readReg(ctx, reg)
		if err != nil {
			return motion.AxesRaw{}, fmt.Errorf("could not read axis register %#x: %w", reg, err)
		}
		out[i] = int16(int8(val) >> 2)
	}
	return motion.AxesRaw{X: out[0], Y: out[1], Z: out[2]}, nil
}

func (a *bma220Accel) GetAxes(ctx context.Context) (motion.Axes, error) {
	raw, err := a.GetAxesRaw(ctx)
	if err != nil {
		return motion.Axes{}, err
	}
	sens, err := a.GetSensitivity(ctx)
	if err != nil {
		return motion.Axes{}, err
	}
	return motion.Axes{
		X: int32(float32(raw.X) * sens),
		Y: int32(float32(raw.Y) * sens),
		Z: int32(float32(raw.Z) * sens),
	}, nil
}

func (a *bma220Accel) GetSensitivity(ctx context.Context) (float32, error) {
	rng, err := a.b.readReg(ctx, regRange)
	if err != nil {
		return 0, err
	}
	return bma220FS[rng&0x03].sens, nil
}

func (a *bma220Accel) GetOutputDataRate(ctx context.Context) (float32, error) {
	filt, err := a.b.readReg(ctx, regFilter)
	if err != nil {
		return 0, err
	}
	bits := int(filt & 0x0F)
	if bits >= len(bma220Rates) {
		return 0, fmt.Errorf("reserved filter coding %#x", bits)
	}
	return bma220Rates[bits], nil
}

// SetOutputDataRate selects the narrowest filter bandwidth at or above odr.
func (a *bma220Accel) SetOutputDataRate(ctx context.Context, odr float32) error {
	for i := len(bma220Rates) - 1; i >= 0; i-- {
		if bma220Rates[i] >= odr {
			return a.b.writeReg(ctx, regFilter, byte(i))
		}
	}
	return fmt.Errorf("output data rate %.1f Hz out of range", odr)
}

func (a *bma220Accel) GetFullScale(ctx context.Context) (int32, error) {
	rng, err := a.b.readReg(ctx, regRange)
	if err != nil {
		return 0, err
	}
	return bma220FS[rng&0x03].fs, nil
}

func (a *bma220Accel) SetFullScale(ctx context.Context, fullscale int32) error {
	for bits, entry := range bma220FS {
		if entry.fs == fullscale {
			return a.b.writeReg(ctx, regRange, byte(bits))
		}
	}
	return fmt.Errorf("unsupported full scale %d", fullscale)
}

// suspend toggles the chip's suspend mode when the requested state differs
// from the tracked one. The toggle is a read of register 0x30.
func (b *BMA220) suspend(ctx context.Context, want bool) error {
	if b.suspended == want {
		return nil
	}
	if _, err := b.readReg(ctx, regSuspend); err != nil {
		return fmt.Errorf("could not toggle suspend mode: %w", err)
	}
	b.suspended = want
	return nil
}

func (b *BMA220) readReg(ctx context.Context, reg byte) (byte, error) {
	buf := make([]byte, 1)
	if err := b.io.ReadReg(ctx, reg, buf); err != nil {
		return 0, fmt.Errorf("bma220: %w", err)
	}
	return buf[0], nil
}

func (b *BMA220) writeReg(ctx context.Context, reg, val byte) error {
	if err := b.io.WriteReg(ctx, reg, []byte{val}); err != nil {
		return fmt.Errorf("bma220: %w", err)
	}
	return nil
}

var _ motion.LifecycleDriver = (*BMA220)(nil)
