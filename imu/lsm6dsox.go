// Package imu holds inertial measurement unit drivers.
package imu

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/harrkout/motion"
	"github.com/harrkout/motion/board"
)

// LSM6DSOXAddress is the 7-bit I2C address with SA0 tied to ground; pulling
// SA0 high moves the chip to 0x6B.
const LSM6DSOXAddress = 0x6A

// LSM6DSOXID is the WHO_AM_I value the chip must report.
const LSM6DSOXID = 0x6C

const (
	lsm6dsoxRegWhoAmI  = 0x0F
	lsm6dsoxRegCtrl1XL = 0x10
	lsm6dsoxRegCtrl2G  = 0x11
	lsm6dsoxRegCtrl3C  = 0x12
	lsm6dsoxRegStatus  = 0x1E
	lsm6dsoxRegOutXLG  = 0x22
	lsm6dsoxRegOutXLA  = 0x28
)

// CTRL3_C bits
const (
	lsm6dsoxBDU   = 0x40
	lsm6dsoxIfInc = 0x04
)

// STATUS_REG data-ready bits
const (
	lsm6dsoxXLDA = 0x01
	lsm6dsoxGDA  = 0x02
)

const lsm6dsoxDataReadyTimeoutMs = 100

// ODR nibble coding shared by CTRL1_XL and CTRL2_G (bits 7:4).
var lsm6dsoxODRTable = []float32{0, 12.5, 26, 52, 104, 208, 416, 833, 1660, 3330, 6660}

const lsm6dsoxDefaultODRBits = 0x4 // 104 Hz

// Accelerometer full scale, FS_XL bits 3:2 of CTRL1_XL. Sensitivity in
// mg/LSB, from the datasheet.
var lsm6dsoxAccFS = []struct {
	fs   int32
	sens float32
}{
	{2, 0.061},
	{16, 0.488},
	{4, 0.122},
	{8, 0.244},
}

// Gyroscope full scale, FS_G bits 3:2 of CTRL2_G. Sensitivity in mdps/LSB.
var lsm6dsoxGyroFS = []struct {
	fs   int32
	sens float32
}{
	{250, 8.75},
	{500, 17.5},
	{1000, 35.0},
	{2000, 70.0},
}

// LSM6DSOX is an ST accelerometer + gyroscope combo chip. One object backs
// both function drivers; Accelerometer() and Gyroscope() hand out views over
// the same device.
type LSM6DSOX struct {
	io          motion.BusIO
	initialized bool
}

func NewLSM6DSOX(io motion.BusIO) *LSM6DSOX {
	return &LSM6DSOX{io: io}
}

// ProbeLSM6DSOX builds the probe routine for an LSM6DSOX wired to the given
// bus. The repertoire covers accelerometer and gyroscope; requesting a
// magnetometer on this chip is a configuration error.
func ProbeLSM6DSOX(bus motion.I2CBus, address byte) board.ProbeFunc {
	io := motion.NewI2CBusIO(bus, address)
	s := NewLSM6DSOX(io)
	return board.Probe(board.ProbeSpec{
		IO:        io,
		WantID:    LSM6DSOXID,
		Lifecycle: s,
		Repertoire: map[motion.Function]motion.FunctionDriver{
			motion.Accelerometer: s.Accelerometer(),
			motion.Gyroscope:     s.Gyroscope(),
		},
	})
}

// Init configures block data update and register auto-increment and leaves
// both functions powered down. Safe to call once per bound function.
func (s *LSM6DSOX) Init(ctx context.Context) error {
	if s.initialized {
		return nil
	}
	if err := s.writeReg(ctx, lsm6dsoxRegCtrl3C, lsm6dsoxBDU|lsm6dsoxIfInc); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

// DeInit powers both functions down.
func (s *LSM6DSOX) DeInit(ctx context.Context) error {
	if err := s.updateReg(ctx, lsm6dsoxRegCtrl1XL, 0xF0, 0x00); err != nil {
		return err
	}
	if err := s.updateReg(ctx, lsm6dsoxRegCtrl2G, 0xF0, 0x00); err != nil {
		return err
	}
	s.initialized = false
	if s.io.DeInit != nil {
		return s.io.DeInit(ctx)
	}
	return nil
}

func (s *LSM6DSOX) ReadID(ctx context.Context) (byte, error) {
	return s.readReg(ctx, lsm6dsoxRegWhoAmI)
}

func (s *LSM6DSOX) GetCapabilities(ctx context.Context) (motion.Capabilities, error) {
	return motion.Capabilities{
		Acc:        true,
		Gyro:       true,
		LowPower:   true,
		AccMaxFS:   16,
		GyroMaxFS:  2000,
		AccMaxODR:  6660,
		GyroMaxODR: 6660,
	}, nil
}

// Accelerometer returns the accelerometer function driver.
func (s *LSM6DSOX) Accelerometer() motion.FunctionDriver {
	return &lsm6dsoxFunc{
		s:       s,
		ctrlReg: lsm6dsoxRegCtrl1XL,
		outReg:  lsm6dsoxRegOutXLA,
		ready:   lsm6dsoxXLDA,
		fsTable: lsm6dsoxAccFS,
	}
}

// Gyroscope returns the gyroscope function driver.
func (s *LSM6DSOX) Gyroscope() motion.FunctionDriver {
	return &lsm6dsoxFunc{
		s:       s,
		ctrlReg: lsm6dsoxRegCtrl2G,
		outReg:  lsm6dsoxRegOutXLG,
		ready:   lsm6dsoxGDA,
		fsTable: lsm6dsoxGyroFS,
	}
}

// lsm6dsoxFunc drives one function of the chip. Accelerometer and gyroscope
// share the register layout, only the control/output registers and the
// full-scale coding differ.
type lsm6dsoxFunc struct {
	s       *LSM6DSOX
	ctrlReg byte
	outReg  byte
	ready   byte
	fsTable []struct {
		fs   int32
		sens float32
	}
}

func (f *lsm6dsoxFunc) Enable(ctx context.Context) error {
	ctrl, err := f.s.readReg(ctx, f.ctrlReg)
	if err != nil {
		return err
	}
	if ctrl&0xF0 != 0 {
		// already running at a configured rate
		return nil
	}
	return f.s.updateReg(ctx, f.ctrlReg, 0xF0, lsm6dsoxDefaultODRBits<<4)
}

func (f *lsm6dsoxFunc) Disable(ctx context.Context) error {
	return f.s.updateReg(ctx, f.ctrlReg, 0xF0, 0x00)
}

func (f *lsm6dsoxFunc) GetAxesRaw(ctx context.Context) (motion.AxesRaw, error) {
	if err := f.s.waitReady(ctx, f.ready); err != nil {
		return motion.AxesRaw{}, err
	}
	buf := make([]byte, 6)
	if err := f.s.io.ReadReg(ctx, f.outReg, buf); err != nil {
		return motion.AxesRaw{}, fmt.Errorf("lsm6dsox: %w", err)
	}
	return motion.AxesRaw{
		X: int16(binary.LittleEndian.Uint16(buf[0:2])),
		Y: int16(binary.LittleEndian.Uint16(buf[2:4])),
		Z: int16(binary.LittleEndian.Uint16(buf[4:6])),
	}, nil
}

func (f *lsm6dsoxFunc) GetAxes(ctx context.Context) (motion.Axes, error) {
	raw, err := f.GetAxesRaw(ctx)
	if err != nil {
		return motion.Axes{}, err
	}
	sens, err := f.GetSensitivity(ctx)
	if err != nil {
		return motion.Axes{}, err
	}
	return motion.Axes{
		X: int32(float32(raw.X) * sens),
		Y: int32(float32(raw.Y) * sens),
		Z: int32(float32(raw.Z) * sens),
	}, nil
}

func (f *lsm6dsoxFunc) GetSensitivity(ctx context.Context) (float32, error) {
	ctrl, err := f.s.readReg(ctx, f.ctrlReg)
	if err != nil {
		return 0, err
	}
	return f.fsTable[(ctrl>>2)&0x03].sens, nil
}

func (f *lsm6dsoxFunc) GetOutputDataRate(ctx context.Context) (float32, error) {
	ctrl, err := f.s.readReg(ctx, f.ctrlReg)
	if err != nil {
		return 0, err
	}
	bits := int(ctrl >> 4)
	if bits >= len(lsm6dsoxODRTable) {
		return 0, fmt.Errorf("lsm6dsox: reserved odr coding %#x in register %#x", bits, f.ctrlReg)
	}
	return lsm6dsoxODRTable[bits], nil
}

// SetOutputDataRate selects the lowest chip rate at or above odr.
func (f *lsm6dsoxFunc) SetOutputDataRate(ctx context.Context, odr float32) error {
	for bits, rate := range lsm6dsoxODRTable {
		if bits == 0 {
			continue
		}
		if rate >= odr {
			return f.s.updateReg(ctx, f.ctrlReg, 0xF0, byte(bits)<<4)
		}
	}
	return fmt.Errorf("lsm6dsox: output data rate %.1f Hz out of range", odr)
}

func (f *lsm6dsoxFunc) GetFullScale(ctx context.Context) (int32, error) {
	ctrl, err := f.s.readReg(ctx, f.ctrlReg)
	if err != nil {
		return 0, err
	}
	return f.fsTable[(ctrl>>2)&0x03].fs, nil
}

func (f *lsm6dsoxFunc) SetFullScale(ctx context.Context, fullscale int32) error {
	for bits, entry := range f.fsTable {
		if entry.fs == fullscale {
			return f.s.updateReg(ctx, f.ctrlReg, 0x0C, byte(bits)<<2)
		}
	}
	return fmt.Errorf("lsm6dsox: unsupported full scale %d", fullscale)
}

func (s *LSM6DSOX) readReg(ctx context.Context, reg byte) (byte, error) {
	buf := make([]byte, 1)
	if err := s.io.ReadReg(ctx, reg, buf); err != nil {
		return 0, fmt.Errorf("lsm6dsox: %w", err)
	}
	return buf[0], nil
}

func (s *LSM6DSOX) writeReg(ctx context.Context, reg, val byte) error {
	if err := s.io.WriteReg(ctx, reg, []byte{val}); err != nil {
		return fmt.Errorf("lsm6dsox: %w", err)
	}
	return nil
}

// updateReg rewrites the masked bits of a control register, preserving the
// rest.
func (s *LSM6DSOX) updateReg(ctx context.Context, reg, mask, val byte) error {
	cur, err := s.readReg(ctx, reg)
	if err != nil {
		return err
	}
	return s.writeReg(ctx, reg, (cur&^mask)|(val&mask))
}

// waitReady polls the status register until the data-ready bit is set,
// bounded by the binding's tick source.
func (s *LSM6DSOX) waitReady(ctx context.Context, bit byte) error {
	deadline := s.io.GetTick() + lsm6dsoxDataReadyTimeoutMs
	for {
		status, err := s.readReg(ctx, lsm6dsoxRegStatus)
		if err != nil {
			return err
		}
		if status&bit != 0 {
			return nil
		}
		if s.io.GetTick() > deadline {
			return fmt.Errorf("lsm6dsox: data not ready after %dms", lsm6dsoxDataReadyTimeoutMs)
		}
	}
}

var _ motion.LifecycleDriver = (*LSM6DSOX)(nil)
