package magneto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harrkout/motion"
	"github.com/harrkout/motion/board"
)

// chip simulates the register file behind an I2C bus.
type chip struct {
	regs  map[byte]byte
	ptr   byte
	reads map[byte]int
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

func (c *chip) Release(ctx context.Context) error { return nil }

func testIO(c *chip) motion.BusIO {
	io := motion.NewI2CBusIO(c, LIS2MDLAddress)
	var tick int64
	io.GetTick = func() int64 {
		tick += 50
		return tick
	}
	return io
}

func TestLIS2MDL_Probe(t *testing.T) {
	c := newChip(map[byte]byte{lis2mdlRegWhoAmI: LIS2MDLID})
	b := board.New(board.Descriptor{Name: "mag-0", Probe: ProbeLIS2MDL(c, LIS2MDLAddress)})
	ctx := context.Background()

	err := b.Init(ctx, 0, motion.Magnetometer)
	assert.NoError(t, err)
	assert.Equal(t, motion.Magnetometer, b.Registry().Enabled(0))
	assert.Equal(t, byte(lis2mdlBDU), c.regs[lis2mdlRegCfgC])
	// init parks the chip idle, the enable pass switches it to continuous
	assert.Equal(t, byte(lis2mdlCompTempEn|lis2mdlModeContinuous), c.regs[lis2mdlRegCfgA])
}

func TestLIS2MDL_ProbeWrongChip(t *testing.T) {
	c := newChip(map[byte]byte{lis2mdlRegWhoAmI: 0x3D})
	b := board.New(board.Descriptor{Name: "mag-0", Probe: ProbeLIS2MDL(c, LIS2MDLAddress)})

	err := b.Init(context.Background(), 0, motion.Magnetometer)
	assert.ErrorIs(t, err, motion.ErrNoInit)
	assert.ErrorIs(t, err, motion.ErrUnknownComponent)
}

func TestLIS2MDL_ProbeAccelerometerRequest(t *testing.T) {
	c := newChip(map[byte]byte{lis2mdlRegWhoAmI: LIS2MDLID})
	b := board.New(board.Descriptor{Name: "mag-0", Probe: ProbeLIS2MDL(c, LIS2MDLAddress)})

	err := b.Init(context.Background(), 0, motion.Accelerometer)
	assert.ErrorIs(t, err, motion.ErrComponentFailure)
}

func TestLIS2MDL_Axes(t *testing.T) {
	c := newChip(map[byte]byte{
		lis2mdlRegStatus: lis2mdlZyxda,
		// X=100, Y=-100, Z=2000, little endian
		lis2mdlRegOutXL:     0x64,
		lis2mdlRegOutXL + 1: 0x00,
		lis2mdlRegOutXL + 2: 0x9C,
		lis2mdlRegOutXL + 3: 0xFF,
		lis2mdlRegOutXL + 4: 0xD0,
		lis2mdlRegOutXL + 5: 0x07,
	})
	mag := NewLIS2MDL(testIO(c)).Magnetometer()
	ctx := context.Background()

	raw, err := mag.GetAxesRaw(ctx)
	assert.NoError(t, err)
	assert.Equal(t, motion.AxesRaw{X: 100, Y: -100, Z: 2000}, raw)

	// fixed 1.5 mgauss/LSB
	axes, err := mag.GetAxes(ctx)
	assert.NoError(t, err)
	assert.Equal(t, motion.Axes{X: 150, Y: -150, Z: 3000}, axes)
}

func TestLIS2MDL_DataReadyTimeout(t *testing.T) {
	c := newChip(map[byte]byte{lis2mdlRegStatus: 0x00})
	mag := NewLIS2MDL(testIO(c)).Magnetometer()

	_, err := mag.GetAxesRaw(context.Background())
	assert.ErrorContains(t, err, "data not ready")
	assert.Greater(t, c.reads[lis2mdlRegStatus], 1)
}

func TestLIS2MDL_OutputDataRate(t *testing.T) {
	c := newChip(map[byte]byte{lis2mdlRegCfgA: lis2mdlCompTempEn | lis2mdlModeIdle})
	mag := NewLIS2MDL(testIO(c)).Magnetometer()
	ctx := context.Background()

	odr, err := mag.GetOutputDataRate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, float32(10), odr)

	assert.NoError(t, mag.SetOutputDataRate(ctx, 30))
	odr, err = mag.GetOutputDataRate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, float32(50), odr)
	// rate changes leave the mode and compensation bits alone
	assert.Equal(t, byte(lis2mdlCompTempEn|lis2mdlModeIdle|0x08), c.regs[lis2mdlRegCfgA])

	assert.Error(t, mag.SetOutputDataRate(ctx, 500))
}

func TestLIS2MDL_FullScale(t *testing.T) {
	mag := NewLIS2MDL(testIO(newChip(nil))).Magnetometer()
	ctx := context.Background()

	fs, err := mag.GetFullScale(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int32(lis2mdlFullScale), fs)

	sens, err := mag.GetSensitivity(ctx)
	assert.NoError(t, err)
	assert.Equal(t, float32(lis2mdlSensitivity), sens)

	// single-range part: only the native scale is accepted
	assert.NoError(t, mag.SetFullScale(ctx, lis2mdlFullScale))
	assert.Error(t, mag.SetFullScale(ctx, 16))
}

func TestLIS2MDL_EnableDisable(t *testing.T) {
	c := newChip(map[byte]byte{lis2mdlRegCfgA: lis2mdlCompTempEn | lis2mdlModeIdle})
	mag := NewLIS2MDL(testIO(c)).Magnetometer()
	ctx := context.Background()

	assert.NoError(t, mag.Enable(ctx))
	assert.Equal(t, byte(lis2mdlCompTempEn|lis2mdlModeContinuous), c.regs[lis2mdlRegCfgA])

	assert.NoError(t, mag.Disable(ctx))
	assert.Equal(t, byte(lis2mdlCompTempEn|lis2mdlModeIdle), c.regs[lis2mdlRegCfgA])
}
