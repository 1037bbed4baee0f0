package motion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockI2CBus is a mock implementation of I2CBus using testify/mock
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if args.Get(0) != nil {
		if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
			copy(buffer, data)
		}
	}
	return args.Error(1)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestBusIO_Validate(t *testing.T) {
	read := func(ctx context.Context, reg byte, buf []byte) error { return nil }
	write := func(ctx context.Context, reg byte, data []byte) error { return nil }
	tick := func() int64 { return 0 }

	assert.NoError(t, BusIO{ReadReg: read, WriteReg: write, GetTick: tick}.Validate())
	assert.Error(t, BusIO{WriteReg: write, GetTick: tick}.Validate())
	assert.Error(t, BusIO{ReadReg: read, GetTick: tick}.Validate())
	assert.Error(t, BusIO{ReadReg: read, WriteReg: write}.Validate())
}

func TestNewI2CBusIO_ReadReg(t *testing.T) {
	bus := new(MockI2CBus)
	io := NewI2CBusIO(bus, 0x6A)
	ctx := context.Background()

	assert.Equal(t, BusI2C, io.Kind)
	assert.Equal(t, byte(0x6A), io.Address)
	assert.NoError(t, io.Validate())

	// register pointer is written first, then the data is read back
	bus.On("WriteToAddr", mock.Anything, byte(0x6A), []byte{0x0F}).
		Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, byte(0x6A), mock.Anything).
		Return([]byte{0x6C}, nil).Once()

	buf := make([]byte, 1)
	err := io.ReadReg(ctx, 0x0F, buf)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x6C), buf[0])
	bus.AssertExpectations(t)
}

func TestNewI2CBusIO_ReadRegPointerFailure(t *testing.T) {
	bus := new(MockI2CBus)
	io := NewI2CBusIO(bus, 0x6A)
	ctx := context.Background()

	busErr := errors.New("nack")
	bus.On("WriteToAddr", mock.Anything, byte(0x6A), []byte{0x0F}).
		Return(busErr).Once()

	err := io.ReadReg(ctx, 0x0F, make([]byte, 1))
	assert.ErrorIs(t, err, busErr)
	bus.AssertNotCalled(t, "ReadFromAddr", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewI2CBusIO_WriteReg(t *testing.T) {
	bus := new(MockI2CBus)
	io := NewI2CBusIO(bus, 0x1E)
	ctx := context.Background()

	// register address travels as the first payload byte
	bus.On("WriteToAddr", mock.Anything, byte(0x1E), []byte{0x60, 0x80, 0x0C}).
		Return(nil).Once()

	err := io.WriteReg(ctx, 0x60, []byte{0x80, 0x0C})
	assert.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestNewI2CBusIO_DeInitReleasesBus(t *testing.T) {
	bus := new(MockI2CBus)
	io := NewI2CBusIO(bus, 0x0A)
	ctx := context.Background()

	bus.On("Release", mock.Anything).Return(nil).Once()
	assert.NoError(t, io.DeInit(ctx))
	bus.AssertExpectations(t)
}

func TestNewI2CBusIO_GetTick(t *testing.T) {
	io := NewI2CBusIO(new(MockI2CBus), 0x0A)
	first := io.GetTick()
	second := io.GetTick()
	assert.GreaterOrEqual(t, second, first)
}
