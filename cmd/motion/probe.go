package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/harrkout/motion/cmd/motion/console"
)

var probeCmd = cli.Command{
	Name:  "probe",
	Usage: "probe and initialize the configured sensor instances",
	Flags: []cli.Flag{functionsFlag},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		bus, err := newBus(c)
		if err != nil {
			return console.Exit(1, "bus error: %s", console.Red(err))
		}
		b, cfg, err := newBoard(c, bus)
		if err != nil {
			return console.Exit(1, "board error: %s", console.Red(err))
		}
		for i := 0; i < b.Instances(); i++ {
			fns, err := instanceFunctions(c, cfg, i)
			if err != nil {
				return console.Exit(1, "config error: %s", console.Red(err))
			}
			if err := b.Init(ctx, i, fns); err != nil {
				console.Errorf("instance %d (%s): %s", i, b.Name(i), console.Red(err))
				continue
			}
			console.PInfof(console.PictoSatellite, "instance %d (%s) probed, enabled: %s",
				i, console.White(b.Name(i)), console.Green(b.Registry().Enabled(i)))
		}
		return nil
	},
}

var idCmd = cli.Command{
	Name:  "id",
	Usage: "read the hardware identification byte",
	Flags: []cli.Flag{instanceFlag},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		bus, err := newBus(c)
		if err != nil {
			return console.Exit(1, "bus error: %s", console.Red(err))
		}
		b, _, err := newBoard(c, bus)
		if err != nil {
			return console.Exit(1, "board error: %s", console.Red(err))
		}
		instance := c.Int("instance")
		// a zero-function init registers the lifecycle driver without
		// enabling anything
		if err := b.Init(ctx, instance, 0); err != nil {
			return console.Exit(1, "probe error: %s", console.Red(err))
		}
		id, err := b.ReadID(ctx, instance)
		if err != nil {
			return console.Exit(1, "read error: %s", console.Red(err))
		}
		console.Printf("instance %d (%s) id: %s\n", instance, console.White(b.Name(instance)), console.Green(console.Bold(id)))
		return nil
	},
}

var capsCmd = cli.Command{
	Name:  "caps",
	Usage: "report the device capabilities",
	Flags: []cli.Flag{instanceFlag},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		bus, err := newBus(c)
		if err != nil {
			return console.Exit(1, "bus error: %s", console.Red(err))
		}
		b, _, err := newBoard(c, bus)
		if err != nil {
			return console.Exit(1, "board error: %s", console.Red(err))
		}
		instance := c.Int("instance")
		if err := b.Init(ctx, instance, 0); err != nil {
			return console.Exit(1, "probe error: %s", console.Red(err))
		}
		caps, err := b.GetCapabilities(ctx, instance)
		if err != nil {
			return console.Exit(1, "read error: %s", console.Red(err))
		}
		console.Printf("instance %d (%s) implements: %s\n", instance, console.White(b.Name(instance)), console.Green(caps.Functions()))
		if caps.Acc {
			console.Printf("  accelerometer: max %s g @ %s Hz\n", console.White(caps.AccMaxFS), console.White(caps.AccMaxODR))
		}
		if caps.Gyro {
			console.Printf("  gyroscope:     max %s dps @ %s Hz\n", console.White(caps.GyroMaxFS), console.White(caps.GyroMaxODR))
		}
		if caps.Magneto {
			console.Printf("  magnetometer:  max %s gauss @ %s Hz\n", console.White(caps.MagMaxFS), console.White(caps.MagMaxODR))
		}
		return nil
	},
}
