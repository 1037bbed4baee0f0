package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/harrkout/motion"
	"github.com/harrkout/motion/accel"
	"github.com/harrkout/motion/cmd/motion/console"
)

// detectCmd drives the BMA220's autonomous slope detection, bypassing the
// board façade: the interrupt machinery is a chip extra, not a board-level
// function.
var detectCmd = cli.Command{
	Name:  "detect",
	Usage: "BMA220 motion (slope) detection",
	Subcommands: cli.Commands{
		&detectInitCmd,
		&detectCheckCmd,
		&detectResetCmd,
	},
}

func newBMA220(c *cli.Context) (*accel.BMA220, context.Context, error) {
	ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
	bus, err := newBus(c)
	if err != nil {
		return nil, nil, console.Exit(1, "bus error: %s", console.Red(err))
	}
	return accel.NewBMA220(motion.NewI2CBusIO(bus, accel.BMA220Address)), ctx, nil
}

var detectInitCmd = cli.Command{
	Name: "init",
	Action: func(c *cli.Context) error {
		s, ctx, err := newBMA220(c)
		if err != nil {
			return err
		}
		if err := s.InitMotionDetection(ctx); err != nil {
			console.Errorf("error initializing BMA220: %s", console.Red(err))
		}
		return nil
	},
}

var detectCheckCmd = cli.Command{
	Name: "check",
	Action: func(c *cli.Context) error {
		s, ctx, err := newBMA220(c)
		if err != nil {
			return err
		}
		fired, err := s.CheckMotionInterrupt(ctx)
		if err != nil {
			console.Errorf("error checking motion detection on BMA220: %s", console.Red(err))
			return nil
		}
		if fired {
			console.Printf("motion interrupt: %s\n", console.Yellow(fired))
		} else {
			console.Printf("motion interrupt: %s\n", console.Green(fired))
		}
		return nil
	},
}

var detectResetCmd = cli.Command{
	Name: "reset",
	Action: func(c *cli.Context) error {
		s, ctx, err := newBMA220(c)
		if err != nil {
			return err
		}
		if err := s.ResetMotionInterrupt(ctx); err != nil {
			console.Errorf("error resetting motion interrupt on BMA220: %s", console.Red(err))
		}
		return nil
	},
}
