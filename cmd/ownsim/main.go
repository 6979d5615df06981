package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/ownership/internal/sim"
	"github.com/wippyai/ownership/linear"
	"github.com/wippyai/ownership/resource"
	"github.com/wippyai/ownership/shared"
)

func main() {
	app := &cli.App{
		Name:  "ownsim",
		Usage: "Run ownership scripts against shared, weak and exclusive handles",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log control block and handle table activity to stderr",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "print lifecycle metrics in Prometheus format on exit",
			},
			&cli.StringFlag{
				Name:  "color",
				Value: "auto",
				Usage: "colorize output: auto, always or never",
			},
		},
		Commands: []*cli.Command{{
			Name:      "run",
			Usage:     "Execute a script file, or stdin when no file is given",
			ArgsUsage: "[script]",
			Action: func(ctx *cli.Context) error {
				logger, err := setupLogging(ctx.Bool("debug"))
				if err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()

				r, closeFn, err := openScript(ctx.Args().First())
				if err != nil {
					return err
				}
				defer closeFn()

				p := newPrinter(os.Stdout, useColor(ctx.String("color")))
				err = runScript(r, sim.NewSession(logger), p)
				if ctx.Bool("metrics") {
					shared.WriteMetrics(os.Stdout)
				}
				return err
			},
		}, {
			Name:  "repl",
			Usage: "Start an interactive session",
			Action: func(ctx *cli.Context) error {
				logger, err := setupLogging(ctx.Bool("debug"))
				if err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()

				err = runInteractive(sim.NewSession(logger), os.Stdout, useColor(ctx.String("color")))
				if ctx.Bool("metrics") {
					shared.WriteMetrics(os.Stdout)
				}
				return err
			},
		}, {
			Name:  "commands",
			Usage: "List the script commands",
			Action: func(ctx *cli.Context) error {
				for _, line := range sim.Usage() {
					fmt.Println(line)
				}
				return nil
			},
		}},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	shared.SetLogger(logger.Named("shared"))
	resource.SetLogger(logger.Named("resource"))
	linear.SetLogger(logger.Named("linear"))
	return logger, nil
}

func openScript(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open script: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func useColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func runScript(r io.Reader, s *sim.Session, p *printer) error {
	err := s.Run(r, p.step)
	p.events(s.Close())
	return err
}
