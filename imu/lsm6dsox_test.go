package imu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harrkout/motion"
	"github.com/harrkout/motion/board"
)

// chip simulates the register file behind an I2C bus: a register pointer
// write followed by auto-incremented reads, the way the real part behaves.
type chip struct {
	regs     map[byte]byte
	ptr      byte
	reads    map[byte]int
	released bool
}

func newChip(regs map[byte]byte) *chip {
	if regs == nil {
		regs = map[byte]byte{}
	}
	return &chip{regs: regs, reads: map[byte]int{}}
}

func (c *chip) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	c.ptr = buffer[0]
	for i, v := range buffer[1:] {
		c.regs[c.ptr+byte(i)] = v
	}
	return nil
}

func (c *chip) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	c.reads[c.ptr]++
	for i := range buffer {
		buffer[i] = c.regs[c.ptr+byte(i)]
	}
	return nil
}

func (c *chip) Release(ctx context.Context) error {
	c.released = true
	return nil
}

// testIO binds a driver to the simulated chip with a deterministic tick so
// data-ready timeouts do not depend on wall-clock time.
func testIO(c *chip) motion.BusIO {
	io := motion.NewI2CBusIO(c, LSM6DSOXAddress)
	var tick int64
	io.GetTick = func() int64 {
		tick += 25
		return tick
	}
	return io
}

func TestLSM6DSOX_Probe(t *testing.T) {
	c := newChip(map[byte]byte{lsm6dsoxRegWhoAmI: LSM6DSOXID})
	b := board.New(board.Descriptor{Name: "imu-0", Probe: ProbeLSM6DSOX(c, LSM6DSOXAddress)})
	ctx := context.Background()

	err := b.Init(ctx, 0, motion.Accelerometer|motion.Gyroscope)
	assert.NoError(t, err)
	assert.Equal(t, motion.Accelerometer|motion.Gyroscope, b.Registry().Enabled(0))
	assert.Equal(t, byte(lsm6dsoxBDU|lsm6dsoxIfInc), c.regs[lsm6dsoxRegCtrl3C])
	// both functions come up at the default 104 Hz
	assert.Equal(t, byte(lsm6dsoxDefaultODRBits<<4), c.regs[lsm6dsoxRegCtrl1XL])
	assert.Equal(t, byte(lsm6dsoxDefaultODRBits<<4), c.regs[lsm6dsoxRegCtrl2G])

	id, err := b.ReadID(ctx, 0)
	assert.NoError(t, err)
	assert.Equal(t, byte(LSM6DSOXID), id)
}

func TestLSM6DSOX_ProbeWrongChip(t *testing.T) {
	c := newChip(map[byte]byte{lsm6dsoxRegWhoAmI: 0x71})
	b := board.New(board.Descriptor{Name: "imu-0", Probe: ProbeLSM6DSOX(c, LSM6DSOXAddress)})

	err := b.Init(context.Background(), 0, motion.Accelerometer)
	assert.ErrorIs(t, err, motion.ErrNoInit)
	assert.ErrorIs(t, err, motion.ErrUnknownComponent)
	assert.Equal(t, motion.Function(0), b.Registry().Enabled(0))
}

func TestLSM6DSOX_ProbeMagnetometerRequest(t *testing.T) {
	c := newChip(map[byte]byte{lsm6dsoxRegWhoAmI: LSM6DSOXID})
	b := board.New(board.Descriptor{Name: "imu-0", Probe: ProbeLSM6DSOX(c, LSM6DSOXAddress)})

	err := b.Init(context.Background(), 0, motion.Magnetometer)
	assert.ErrorIs(t, err, motion.ErrComponentFailure)
}

func TestLSM6DSOX_Axes(t *testing.T) {
	c := newChip(map[byte]byte{
		lsm6dsoxRegStatus: lsm6dsoxXLDA,
		// X=1000, Y=-200, Z=16384, little endian
		lsm6dsoxRegOutXLA:     0xE8,
		lsm6dsoxRegOutXLA + 1: 0x03,
		lsm6dsoxRegOutXLA + 2: 0x38,
		lsm6dsoxRegOutXLA + 3: 0xFF,
		lsm6dsoxRegOutXLA + 4: 0x00,
		lsm6dsoxRegOutXLA + 5: 0x40,
	})
	acc := NewLSM6DSOX(testIO(c)).Accelerometer()
	ctx := context.Background()

	raw, err := acc.GetAxesRaw(ctx)
	assert.NoError(t, err)
	assert.Equal(t, motion.AxesRaw{X: 1000, Y: -200, Z: 16384}, raw)

	// default 2g range, 0.061 mg/LSB
	axes, err := acc.GetAxes(ctx)
	assert.NoError(t, err)
	assert.Equal(t, motion.Axes{X: 61, Y: -12, Z: 999}, axes)
}

func TestLSM6DSOX_DataReadyTimeout(t *testing.T) {
	c := newChip(map[byte]byte{lsm6dsoxRegStatus: 0x00})
	gyro := NewLSM6DSOX(testIO(c)).Gyroscope()

	_, err := gyro.GetAxesRaw(context.Background())
	assert.ErrorContains(t, err, "data not ready")
	assert.Greater(t, c.reads[lsm6dsoxRegStatus], 1, "status must be polled until the deadline")
}

func TestLSM6DSOX_OutputDataRate(t *testing.T) {
	c := newChip(nil)
	s := NewLSM6DSOX(testIO(c))
	acc := s.Accelerometer()
	ctx := context.Background()

	// requested rates round up to the next chip rate
	assert.NoError(t, acc.SetOutputDataRate(ctx, 100))
	odr, err := acc.GetOutputDataRate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, float32(104), odr)

	assert.NoError(t, acc.SetOutputDataRate(ctx, 0.1))
	odr, err = acc.GetOutputDataRate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, float32(12.5), odr)

	assert.Error(t, acc.SetOutputDataRate(ctx, 7000))

	// the gyroscope control register stays untouched
	assert.Equal(t, byte(0), c.regs[lsm6dsoxRegCtrl2G])
}

func TestLSM6DSOX_FullScale(t *testing.T) {
	c := newChip(nil)
	s := NewLSM6DSOX(testIO(c))
	acc := s.Accelerometer()
	gyro := s.Gyroscope()
	ctx := context.Background()

	assert.NoError(t, acc.SetFullScale(ctx, 4))
	fs, err := acc.GetFullScale(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int32(4), fs)
	sens, err := acc.GetSensitivity(ctx)
	assert.NoError(t, err)
	assert.Equal(t, float32(0.122), sens)

	assert.NoError(t, gyro.SetFullScale(ctx, 2000))
	fs, err = gyro.GetFullScale(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int32(2000), fs)
	sens, err = gyro.GetSensitivity(ctx)
	assert.NoError(t, err)
	assert.Equal(t, float32(70.0), sens)

	assert.Error(t, acc.SetFullScale(ctx, 3))
}

func TestLSM6DSOX_EnableKeepsConfiguredRate(t *testing.T) {
	c := newChip(map[byte]byte{lsm6dsoxRegCtrl1XL: 0x60}) // 416 Hz
	acc := NewLSM6DSOX(testIO(c)).Accelerometer()
	ctx := context.Background()

	assert.NoError(t, acc.Enable(ctx))
	assert.Equal(t, byte(0x60), c.regs[lsm6dsoxRegCtrl1XL], "an already-running function keeps its rate")

	assert.NoError(t, acc.Disable(ctx))
	assert.Equal(t, byte(0x60&0x0F), c.regs[lsm6dsoxRegCtrl1XL])

	assert.NoError(t, acc.Enable(ctx))
	assert.Equal(t, byte(lsm6dsoxDefaultODRBits<<4), c.regs[lsm6dsoxRegCtrl1XL])
}

func TestLSM6DSOX_DeInit(t *testing.T) {
	c := newChip(map[byte]byte{
		lsm6dsoxRegCtrl1XL: 0x48, // 104 Hz, 4g
		lsm6dsoxRegCtrl2G:  0x44, // 104 Hz, 500 dps
	})
	s := NewLSM6DSOX(testIO(c))

	assert.NoError(t, s.DeInit(context.Background()))
	assert.Equal(t, byte(0x08), c.regs[lsm6dsoxRegCtrl1XL], "power down keeps the full-scale bits")
	assert.Equal(t, byte(0x04), c.regs[lsm6dsoxRegCtrl2G])
	assert.True(t, c.released)
}
