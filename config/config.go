// Package config loads YAML board descriptions and turns them into sensor
// instance descriptors.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harrkout/motion"
	"github.com/harrkout/motion/accel"
	"github.com/harrkout/motion/board"
	"github.com/harrkout/motion/imu"
	"github.com/harrkout/motion/magneto"
)

// Config describes the motion sensors attached to a board. Instance order in
// the file is instance order on the board.
type Config struct {
	Instances []Instance `yaml:"instances"`
}

// Instance describes one attached sensor.
type Instance struct {
	Name   string `yaml:"name"`
	Sensor string `yaml:"sensor"`
	// Address is the 7-bit bus address; 0 selects the sensor's default.
	Address   uint8    `yaml:"address,omitempty"`
	Functions []string `yaml:"functions"`
}

// Known sensor type names, mapped to their default bus address.
var defaultAddress = map[string]byte{
	"lsm6dsox": imu.LSM6DSOXAddress,
	"bma220":   accel.BMA220Address,
	"lis2mdl":  magneto.LIS2MDLAddress,
}

// Load reads and validates a board description file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML board description.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks sensor types and function names. An empty instance list is
// valid: the board just has no motion sensors.
func (c *Config) Validate() error {
	for i, inst := range c.Instances {
		if inst.Sensor == "" {
			return fmt.Errorf("instance %d: sensor type is required", i)
		}
		if _, ok := defaultAddress[inst.Sensor]; !ok {
			return fmt.Errorf("instance %d: unknown sensor type %q", i, inst.Sensor)
		}
		if _, err := inst.FunctionMask(); err != nil {
			return fmt.Errorf("instance %d: %w", i, err)
		}
	}
	return nil
}

// FunctionMask folds the instance's function names into a mask.
func (i Instance) FunctionMask() (motion.Function, error) {
	var mask motion.Function
	for _, name := range i.Functions {
		fn, err := motion.ParseFunction(name)
		if err != nil {
			return 0, err
		}
		mask |= fn
	}
	return mask, nil
}

// BusAddress returns the configured address, falling back to the sensor
// type's default.
func (i Instance) BusAddress() byte {
	if i.Address != 0 {
		return i.Address
	}
	return defaultAddress[i.Sensor]
}

// Descriptors builds one board descriptor per configured instance, all
// probing over the given bus.
func (c *Config) Descriptors(bus motion.I2CBus) ([]board.Descriptor, error) {
	descriptors := make([]board.Descriptor, 0, len(c.Instances))
	for i, inst := range c.Instances {
		name := inst.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", inst.Sensor, i)
		}
		var probe board.ProbeFunc
		switch inst.Sensor {
		case "lsm6dsox":
			probe = imu.ProbeLSM6DSOX(bus, inst.BusAddress())
		case "bma220":
			probe = accel.ProbeBMA220(bus, inst.BusAddress())
		case "lis2mdl":
			probe = magneto.ProbeLIS2MDL(bus, inst.BusAddress())
		default:
			return nil, fmt.Errorf("instance %d: unknown sensor type %q", i, inst.Sensor)
		}
		descriptors = append(descriptors, board.Descriptor{Name: name, Probe: probe})
	}
	return descriptors, nil
}
