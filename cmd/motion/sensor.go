package main

import (
	"context"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/harrkout/motion"
	"github.com/harrkout/motion/board"
	"github.com/harrkout/motion/cmd/motion/console"
)

// withFunction runs a function-scoped action against a freshly probed
// board: build the bus, probe the instance for the selected function and
// hand over.
func withFunction(c *cli.Context, action func(ctx context.Context, b *board.Board, instance int, fn motion.Function) error) error {
	ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
	fn, err := motion.ParseFunction(c.String("function"))
	if err != nil {
		return console.Exit(1, "%s", console.Red(err))
	}
	bus, err := newBus(c)
	if err != nil {
		return console.Exit(1, "bus error: %s", console.Red(err))
	}
	b, _, err := newBoard(c, bus)
	if err != nil {
		return console.Exit(1, "board error: %s", console.Red(err))
	}
	instance := c.Int("instance")
	if err := b.Init(ctx, instance, fn); err != nil {
		return console.Exit(1, "probe error: %s", console.Red(err))
	}
	return action(ctx, b, instance, fn)
}

var enableCmd = cli.Command{
	Name:  "enable",
	Usage: "enable a sensor function",
	Flags: []cli.Flag{instanceFlag, functionFlag},
	Action: func(c *cli.Context) error {
		return withFunction(c, func(ctx context.Context, b *board.Board, instance int, fn motion.Function) error {
			if err := b.Enable(ctx, instance, fn); err != nil {
				return console.Exit(1, "enable error: %s", console.Red(err))
			}
			console.PInfof(console.PictoCompass, "%s enabled on instance %d", console.Green(fn), instance)
			return nil
		})
	},
}

var disableCmd = cli.Command{
	Name:  "disable",
	Usage: "disable a sensor function",
	Flags: []cli.Flag{instanceFlag, functionFlag},
	Action: func(c *cli.Context) error {
		return withFunction(c, func(ctx context.Context, b *board.Board, instance int, fn motion.Function) error {
			if err := b.Disable(ctx, instance, fn); err != nil {
				return console.Exit(1, "disable error: %s", console.Red(err))
			}
			console.PInfof(console.PictoStop, "%s disabled on instance %d", console.Yellow(fn), instance)
			return nil
		})
	},
}

var readCmd = cli.Command{
	Name:  "read",
	Usage: "read axis data from a sensor function",
	Flags: []cli.Flag{
		instanceFlag,
		functionFlag,
		&cli.BoolFlag{Name: "raw", Usage: "print raw register values instead of converted units"},
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "number of samples"},
		&cli.DurationFlag{Name: "interval", Value: 500 * time.Millisecond, Usage: "delay between samples"},
	},
	Action: func(c *cli.Context) error {
		return withFunction(c, func(ctx context.Context, b *board.Board, instance int, fn motion.Function) error {
			for n := 0; n < c.Int("count"); n++ {
				if n > 0 {
					time.Sleep(c.Duration("interval"))
				}
				if c.Bool("raw") {
					raw, err := b.GetAxesRaw(ctx, instance, fn)
					if err != nil {
						return console.Exit(1, "read error: %s", console.Red(err))
					}
					console.Printf("%s raw: x=%s y=%s z=%s\n", fn,
						console.White(raw.X), console.White(raw.Y), console.White(raw.Z))
					continue
				}
				axes, err := b.GetAxes(ctx, instance, fn)
				if err != nil {
					return console.Exit(1, "read error: %s", console.Red(err))
				}
				console.Printf("%s: x=%s y=%s z=%s\n", fn,
					console.Green(axes.X), console.Green(axes.Y), console.Green(axes.Z))
			}
			return nil
		})
	},
}

var odrCmd = cli.Command{
	Name:  "odr",
	Usage: "output data rate",
	Subcommands: cli.Commands{
		{
			Name:  "get",
			Flags: []cli.Flag{instanceFlag, functionFlag},
			Action: func(c *cli.Context) error {
				return withFunction(c, func(ctx context.Context, b *board.Board, instance int, fn motion.Function) error {
					odr, err := b.GetOutputDataRate(ctx, instance, fn)
					if err != nil {
						return console.Exit(1, "read error: %s", console.Red(err))
					}
					console.Printf("%s output data rate: %s Hz\n", fn, console.Green(odr))
					return nil
				})
			},
		},
		{
			Name:      "set",
			ArgsUsage: "<rate-hz>",
			Flags:     []cli.Flag{instanceFlag, functionFlag},
			Action: func(c *cli.Context) error {
				odr, err := strconv.ParseFloat(c.Args().First(), 32)
				if err != nil {
					return console.Exit(1, "invalid rate %q", c.Args().First())
				}
				return withFunction(c, func(ctx context.Context, b *board.Board, instance int, fn motion.Function) error {
					if err := b.SetOutputDataRate(ctx, instance, fn, float32(odr)); err != nil {
						return console.Exit(1, "set error: %s", console.Red(err))
					}
					console.Infof("%s output data rate set to %s Hz (or next supported rate)", fn, console.Green(odr))
					return nil
				})
			},
		},
	},
}

var fsCmd = cli.Command{
	Name:  "fs",
	Usage: "full scale",
	Subcommands: cli.Commands{
		{
			Name:  "get",
			Flags: []cli.Flag{instanceFlag, functionFlag},
			Action: func(c *cli.Context) error {
				return withFunction(c, func(ctx context.Context, b *board.Board, instance int, fn motion.Function) error {
					fs, err := b.GetFullScale(ctx, instance, fn)
					if err != nil {
						return console.Exit(1, "read error: %s", console.Red(err))
					}
					console.Printf("%s full scale: %s\n", fn, console.Green(fs))
					return nil
				})
			},
		},
		{
			Name:      "set",
			ArgsUsage: "<full-scale>",
			Flags: []cli.Flag{
				instanceFlag,
				functionFlag,
				&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
			},
			Action: func(c *cli.Context) error {
				fs, err := strconv.ParseInt(c.Args().First(), 10, 32)
				if err != nil {
					return console.Exit(1, "invalid full scale %q", c.Args().First())
				}
				if !c.Bool("yes") {
					// changing the scale invalidates any calibration done at
					// the previous one
					answer, err := console.YesOrNo("change full scale?")
					if err != nil {
						return err
					}
					if answer != console.Yes {
						return nil
					}
				}
				return withFunction(c, func(ctx context.Context, b *board.Board, instance int, fn motion.Function) error {
					if err := b.SetFullScale(ctx, instance, fn, int32(fs)); err != nil {
						return console.Exit(1, "set error: %s", console.Red(err))
					}
					console.Infof("%s full scale set to %s", fn, console.Green(fs))
					return nil
				})
			},
		},
	},
}
