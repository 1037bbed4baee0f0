package motion

// Axes holds converted axis data: milli-g for accelerometers, milli-degrees
// per second for gyroscopes, milli-gauss for magnetometers.
type Axes struct {
	X int32
	Y int32
	Z int32
}

// AxesRaw holds axis data as read from the output registers, before
// sensitivity conversion.
type AxesRaw struct {
	X int16
	Y int16
	Z int16
}

// Capabilities describes what a physical device reports implementing in
// silicon. It is read once during probing.
type Capabilities struct {
	Acc      bool
	Gyro     bool
	Magneto  bool
	LowPower bool

	// Maximum full scale per function, in g / dps / gauss.
	AccMaxFS  int32
	GyroMaxFS int32
	MagMaxFS  int32

	// Maximum output data rate per function, in Hz.
	AccMaxODR  float32
	GyroMaxODR float32
	MagMaxODR  float32
}

// Functions folds the capability booleans into a function mask.
func (c Capabilities) Functions() Function {
	var f Function
	if c.Gyro {
		f |= Gyroscope
	}
	if c.Acc {
		f |= Accelerometer
	}
	if c.Magneto {
		f |= Magnetometer
	}
	return f
}
