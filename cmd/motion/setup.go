package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/harrkout/motion"
	"github.com/harrkout/motion/adapter"
	"github.com/harrkout/motion/board"
	"github.com/harrkout/motion/config"
	"github.com/harrkout/motion/i2c"
	"github.com/harrkout/motion/imu"
	"github.com/harrkout/motion/platform"
)

// newBus builds the transport selected by the global --bus flag.
func newBus(c *cli.Context) (motion.I2CBus, error) {
	switch c.String("bus") {
	case "mcp2221":
		return adapter.NewMCP2221(), nil
	case "periph":
		return i2c.NewGenericBus(c.String("device"))
	case "nanopi":
		npi := nanopi.NewNeoAdaptor()
		if err := npi.Connect(); err != nil {
			return nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		return platform.NewGobotBus(npi, -1), nil
	}
	return nil, fmt.Errorf("unknown bus backend %q", c.String("bus"))
}

// newBoard builds a Board from the --config file, or a single default
// LSM6DSOX instance when no file is given.
func newBoard(c *cli.Context, bus motion.I2CBus) (*board.Board, *config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, nil, err
		}
		descriptors, err := cfg.Descriptors(bus)
		if err != nil {
			return nil, nil, err
		}
		return board.New(descriptors...), cfg, nil
	}
	return board.New(board.Descriptor{
		Name:  "lsm6dsox-0",
		Probe: imu.ProbeLSM6DSOX(bus, imu.LSM6DSOXAddress),
	}), nil, nil
}

// parseFunctions turns a comma-separated --functions value into a mask.
func parseFunctions(value string) (motion.Function, error) {
	var mask motion.Function
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	for _, name := range strings.Split(value, ",") {
		fn, err := motion.ParseFunction(name)
		if err != nil {
			return 0, err
		}
		mask |= fn
	}
	return mask, nil
}

// instanceFunctions resolves the function mask to request for an instance:
// the explicit --functions flag wins, then the config file, then the
// accelerometer+gyroscope default.
func instanceFunctions(c *cli.Context, cfg *config.Config, instance int) (motion.Function, error) {
	if c.IsSet("functions") {
		return parseFunctions(c.String("functions"))
	}
	if cfg != nil && instance < len(cfg.Instances) {
		return cfg.Instances[instance].FunctionMask()
	}
	return motion.Accelerometer | motion.Gyroscope, nil
}

var instanceFlag = &cli.IntFlag{
	Name:    "instance",
	Aliases: []string{"i"},
	Value:   0,
	Usage:   "sensor instance index",
}

var functionsFlag = &cli.StringFlag{
	Name:    "functions",
	Aliases: []string{"f"},
	Usage:   "comma-separated functions (gyro,acc,mag)",
}

var functionFlag = &cli.StringFlag{
	Name:    "function",
	Aliases: []string{"f"},
	Value:   "acc",
	Usage:   "sensor function (gyro, acc or mag)",
}
