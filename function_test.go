package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunction_Index(t *testing.T) {
	assert.Equal(t, 0, Gyroscope.Index())
	assert.Equal(t, 1, Accelerometer.Index())
	assert.Equal(t, 2, Magnetometer.Index())
	assert.Equal(t, -1, Function(0).Index())
	assert.Equal(t, -1, (Gyroscope | Accelerometer).Index())
	assert.Equal(t, -1, Function(1<<7).Index())
}

func TestFunction_Has(t *testing.T) {
	mask := Gyroscope | Accelerometer
	assert.True(t, mask.Has(Gyroscope))
	assert.True(t, mask.Has(Accelerometer))
	assert.True(t, mask.Has(Gyroscope|Accelerometer), "combined masks need every bit")
	assert.False(t, mask.Has(Magnetometer))
	assert.False(t, mask.Has(Gyroscope|Magnetometer), "one missing bit fails the whole check")
	assert.True(t, mask.Has(0), "empty mask is a subset of anything")
}

func TestFunction_String(t *testing.T) {
	tests := []struct {
		fn   Function
		want string
	}{
		{0, "none"},
		{Gyroscope, "gyroscope"},
		{Accelerometer, "accelerometer"},
		{Magnetometer, "magnetometer"},
		{Gyroscope | Magnetometer, "gyroscope|magnetometer"},
		{Gyroscope | Accelerometer | Magnetometer, "gyroscope|accelerometer|magnetometer"},
		{Function(1 << 6), "unknown(0x40)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn.String())
		})
	}
}

func TestParseFunction(t *testing.T) {
	tests := []struct {
		name string
		want Function
	}{
		{"gyro", Gyroscope},
		{"gyroscope", Gyroscope},
		{"acc", Accelerometer},
		{"accel", Accelerometer},
		{"accelerometer", Accelerometer},
		{"mag", Magnetometer},
		{"magnetometer", Magnetometer},
		{" GYRO ", Gyroscope},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := ParseFunction(tt.name)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, fn)
		})
	}

	_, err := ParseFunction("barometer")
	assert.Error(t, err)
	_, err = ParseFunction("")
	assert.Error(t, err)
}

func TestCapabilities_Functions(t *testing.T) {
	assert.Equal(t, Function(0), Capabilities{}.Functions())
	assert.Equal(t, Accelerometer, Capabilities{Acc: true}.Functions())
	assert.Equal(t, Gyroscope|Accelerometer, Capabilities{Acc: true, Gyro: true}.Functions())
	assert.Equal(t, Gyroscope|Accelerometer|Magnetometer,
		Capabilities{Acc: true, Gyro: true, Magneto: true}.Functions())
}
