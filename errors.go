package motion

import "errors"

// The four failure kinds every operation of this layer reports. They are
// returned wrapped with call context; match with errors.Is.
var (
	// ErrWrongParam marks an out-of-range instance or a function that is not
	// enabled on the addressed instance.
	ErrWrongParam = errors.New("wrong parameter")
	// ErrNoInit marks a probe that failed outright during instance
	// initialization.
	ErrNoInit = errors.New("sensor not initialized")
	// ErrUnknownComponent marks a failed identity or capability negotiation
	// with the physical device.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrComponentFailure marks a bound driver operation that failed after
	// validation passed, or a request for a function the sensor type never
	// implements.
	ErrComponentFailure = errors.New("component failure")
)
