package motion

import (
	"fmt"
	"strings"
)

// Function is a bitmask of independent sensing capabilities. A sensor
// instance may implement any combination of them.
type Function uint32

const (
	Gyroscope Function = 1 << iota
	Accelerometer
	Magnetometer
)

// FunctionCount is the number of defined sensing functions.
const FunctionCount = 3

// All lists every defined function in bit order. Probe and enable loops
// iterate in this order.
var All = []Function{Gyroscope, Accelerometer, Magnetometer}

// Index maps a single function flag to its dense table index. It returns -1
// for combined masks and undefined bits.
func (f Function) Index() int {
	switch f {
	case Gyroscope:
		return 0
	case Accelerometer:
		return 1
	case Magnetometer:
		return 2
	}
	return -1
}

// Has reports whether every bit of g is set in f.
func (f Function) Has(g Function) bool {
	return f&g == g
}

func (f Function) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	if f.Has(Gyroscope) {
		names = append(names, "gyroscope")
	}
	if f.Has(Accelerometer) {
		names = append(names, "accelerometer")
	}
	if f.Has(Magnetometer) {
		names = append(names, "magnetometer")
	}
	if rest := f &^ (Gyroscope | Accelerometer | Magnetometer); rest != 0 {
		names = append(names, fmt.Sprintf("unknown(%#x)", uint32(rest)))
	}
	return strings.Join(names, "|")
}

// ParseFunction resolves a configuration name to a function flag.
func ParseFunction(name string) (Function, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gyroscope", "gyro":
		return Gyroscope, nil
	case "accelerometer", "accelero", "accel", "acc":
		return Accelerometer, nil
	case "magnetometer", "magneto", "mag":
		return Magnetometer, nil
	}
	return 0, fmt.Errorf("unknown sensor function %q", name)
}
