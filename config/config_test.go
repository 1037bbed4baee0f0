package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harrkout/motion"
)

type nopBus struct{}

func (nopBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error { return nil }
func (nopBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return nil
}
func (nopBus) Release(ctx context.Context) error { return nil }

const sampleConfig = `
instances:
  - name: head-imu
    sensor: lsm6dsox
    functions: [acc, gyro]
  - sensor: lis2mdl
    address: 0x1F
    functions: [mag]
  - sensor: bma220
    functions: []
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	assert.NoError(t, err)
	assert.Len(t, cfg.Instances, 3)

	assert.Equal(t, "head-imu", cfg.Instances[0].Name)
	assert.Equal(t, "lsm6dsox", cfg.Instances[0].Sensor)
	mask, err := cfg.Instances[0].FunctionMask()
	assert.NoError(t, err)
	assert.Equal(t, motion.Accelerometer|motion.Gyroscope, mask)

	mask, err = cfg.Instances[1].FunctionMask()
	assert.NoError(t, err)
	assert.Equal(t, motion.Magnetometer, mask)

	mask, err = cfg.Instances[2].FunctionMask()
	assert.NoError(t, err)
	assert.Equal(t, motion.Function(0), mask, "no functions means probe-only")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed yaml", "instances: ["},
		{"unknown sensor", "instances:\n  - sensor: bmi160\n    functions: [acc]"},
		{"missing sensor", "instances:\n  - name: x\n    functions: [acc]"},
		{"unknown function", "instances:\n  - sensor: bma220\n    functions: [barometer]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse([]byte("instances: []"))
	assert.NoError(t, err)
	assert.Empty(t, cfg.Instances)
}

func TestInstance_BusAddress(t *testing.T) {
	assert.Equal(t, byte(0x6A), Instance{Sensor: "lsm6dsox"}.BusAddress())
	assert.Equal(t, byte(0x0A), Instance{Sensor: "bma220"}.BusAddress())
	assert.Equal(t, byte(0x1E), Instance{Sensor: "lis2mdl"}.BusAddress())
	assert.Equal(t, byte(0x6B), Instance{Sensor: "lsm6dsox", Address: 0x6B}.BusAddress())
}

func TestDescriptors(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	assert.NoError(t, err)

	descriptors, err := cfg.Descriptors(nopBus{})
	assert.NoError(t, err)
	assert.Len(t, descriptors, 3)
	assert.Equal(t, "head-imu", descriptors[0].Name)
	assert.Equal(t, "lis2mdl-1", descriptors[1].Name, "unnamed instances get a generated name")
	assert.Equal(t, "bma220-2", descriptors[2].Name)
	for _, d := range descriptors {
		assert.NotNil(t, d.Probe)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Len(t, cfg.Instances, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
