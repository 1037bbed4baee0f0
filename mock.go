package motion

import "context"

// MockSensor is a hardware-free LifecycleDriver. Zero value behaves as a
// healthy device reporting WhoAmI and Caps; set an On* func to override one
// operation. Every call is appended to Calls so tests can assert that a
// rejected operation never reached the driver.
type MockSensor struct {
	WhoAmI byte
	Caps   Capabilities

	OnInit            func(ctx context.Context) error
	OnDeInit          func(ctx context.Context) error
	OnReadID          func(ctx context.Context) (byte, error)
	OnGetCapabilities func(ctx context.Context) (Capabilities, error)

	Calls []string
}

func (m *MockSensor) Init(ctx context.Context) error {
	m.Calls = append(m.Calls, "Init")
	if m.OnInit != nil {
		return m.OnInit(ctx)
	}
	return nil
}

func (m *MockSensor) DeInit(ctx context.Context) error {
	m.Calls = append(m.Calls, "DeInit")
	if m.OnDeInit != nil {
		return m.OnDeInit(ctx)
	}
	return nil
}

func (m *MockSensor) ReadID(ctx context.Context) (byte, error) {
	m.Calls = append(m.Calls, "ReadID")
	if m.OnReadID != nil {
		return m.OnReadID(ctx)
	}
	return m.WhoAmI, nil
}

func (m *MockSensor) GetCapabilities(ctx context.Context) (Capabilities, error) {
	m.Calls = append(m.Calls, "GetCapabilities")
	if m.OnGetCapabilities != nil {
		return m.OnGetCapabilities(ctx)
	}
	return m.Caps, nil
}

// CallCount returns how many times the named operation was invoked.
func (m *MockSensor) CallCount(name string) int {
	n := 0
	for _, c := range m.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// MockFunction is a hardware-free FunctionDriver in the same style as
// MockSensor.
type MockFunction struct {
	Axes        Axes
	Raw         AxesRaw
	Sensitivity float32
	ODR         float32
	FullScale   int32

	OnEnable  func(ctx context.Context) error
	OnDisable func(ctx context.Context) error
	Err       error // when set, every operation fails with it

	Calls []string
}

func (m *MockFunction) Enable(ctx context.Context) error {
	m.Calls = append(m.Calls, "Enable")
	if m.OnEnable != nil {
		return m.OnEnable(ctx)
	}
	return m.Err
}

func (m *MockFunction) Disable(ctx context.Context) error {
	m.Calls = append(m.Calls, "Disable")
	if m.OnDisable != nil {
		return m.OnDisable(ctx)
	}
	return m.Err
}

func (m *MockFunction) GetAxes(ctx context.Context) (Axes, error) {
	m.Calls = append(m.Calls, "GetAxes")
	return m.Axes, m.Err
}

func (m *MockFunction) GetAxesRaw(ctx context.Context) (AxesRaw, error) {
	m.Calls = append(m.Calls, "GetAxesRaw")
	return m.Raw, m.Err
}

func (m *MockFunction) GetSensitivity(ctx context.Context) (float32, error) {
	m.Calls = append(m.Calls, "GetSensitivity")
	return m.Sensitivity, m.Err
}

func (m *MockFunction) GetOutputDataRate(ctx context.Context) (float32, error) {
	m.Calls = append(m.Calls, "GetOutputDataRate")
	return m.ODR, m.Err
}

func (m *MockFunction) SetOutputDataRate(ctx context.Context, odr float32) error {
	m.Calls = append(m.Calls, "SetOutputDataRate")
	if m.Err != nil {
		return m.Err
	}
	m.ODR = odr
	return nil
}

func (m *MockFunction) GetFullScale(ctx context.Context) (int32, error) {
	m.Calls = append(m.Calls, "GetFullScale")
	return m.FullScale, m.Err
}

func (m *MockFunction) SetFullScale(ctx context.Context, fullscale int32) error {
	m.Calls = append(m.Calls, "SetFullScale")
	if m.Err != nil {
		return m.Err
	}
	m.FullScale = fullscale
	return nil
}

// CallCount returns how many times the named operation was invoked.
func (m *MockFunction) CallCount(name string) int {
	n := 0
	for _, c := range m.Calls {
		if c == name {
			n++
		}
	}
	return n
}

var (
	_ LifecycleDriver = (*MockSensor)(nil)
	_ FunctionDriver  = (*MockFunction)(nil)
)
