// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	ucli "github.com/urfave/cli/v2"

	"github.com/katalvlaran/wfpad/builder"
	"github.com/katalvlaran/wfpad/config"
	"github.com/katalvlaran/wfpad/internal/app"
	"github.com/katalvlaran/wfpad/machine"
	"github.com/katalvlaran/wfpad/trace"
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Run executes the command line args (args[0] is the program name).
func Run(ctx context.Context, args []string, outW, errW io.Writer) error {
	return NewApp(outW, errW).RunContext(ctx, args)
}

// NewApp returns the wfpad command tree. Machines and help go to outW, logs
// and diagnostics to errW.
func NewApp(outW, errW io.Writer) *ucli.App {
	commands := []*ucli.Command{
		frontCommand(outW, errW),
		pipelinedFrontCommand(outW, errW),
		regulatorCommand(outW, errW),
		surakavCommand(outW, errW),
		generateCommand(outW, errW),
		decodeCommand(outW),
	}
	for _, cmd := range commands {
		cmd.OnUsageError = onUsageError
	}

	return &ucli.App{
		Name:      "wfpad",
		Usage:     "synthesize padding machines for website-fingerprinting defenses",
		Writer:    outW,
		ErrWriter: errW,
		Flags: []ucli.Flag{
			&ucli.Int64Flag{Name: "seed", Usage: "seed of the random source (default: from the OS)"},
			&ucli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(machine.FormatCompact), Usage: "output format: compact, yaml or json"},
			&ucli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write machines to this file instead of stdout"},
			&ucli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error"},
			&ucli.StringFlag{Name: "log-format", Value: "text", Usage: "text or json"},
			&ucli.IntFlag{Name: "parallelism", Usage: "concurrent builds (default: GOMAXPROCS)"},
		},
		Before:          validateGlobals,
		Commands:        commands,
		OnUsageError:    onUsageError,
		HideHelpCommand: true,
	}
}

func onUsageError(_ *ucli.Context, err error, _ bool) error {
	return usageError("%v", err)
}

func validateGlobals(c *ucli.Context) error {
	if _, err := machine.ParseFormat(c.String("format")); err != nil {
		return usageError("--format: %v", err)
	}
	switch strings.ToLower(c.String("log-level")) {
	case "debug", "info", "warn", "error":
	default:
		return usageError("--log-level must be 'debug', 'info', 'warn', or 'error'")
	}
	switch strings.ToLower(c.String("log-format")) {
	case "text", "json":
	default:
		return usageError("--log-format must be 'text' or 'json'")
	}
	if c.Int("parallelism") < 0 {
		return usageError("--parallelism must be ≥ 0")
	}

	return nil
}

// appConfig reads the global flags.
func appConfig(c *ucli.Context) app.Config {
	format, _ := machine.ParseFormat(c.String("format"))
	cfg := app.Config{
		Format:      format,
		Output:      c.String("output"),
		LogLevel:    strings.ToLower(c.String("log-level")),
		LogFormat:   strings.ToLower(c.String("log-format")),
		Parallelism: c.Int("parallelism"),
	}
	if c.IsSet("seed") {
		seed := c.Int64("seed")
		cfg.Seed = &seed
	}

	return cfg
}

// builderOptions reads the flags shared by all family commands.
func builderOptions(c *ucli.Context) ([]builder.BuilderOption, error) {
	var opts []builder.BuilderOption
	if c.IsSet("cell-size") {
		size := c.Float64("cell-size")
		if !(size > 0) {
			return nil, usageError("--cell-size must be > 0")
		}
		opts = append(opts, builder.WithCellSize(size))
	}
	fn, err := config.LabelScheme(c.String("labels"))
	if err != nil {
		return nil, usageError("--labels: %v", err)
	}
	opts = append(opts, builder.WithLabelScheme(fn))
	if n := c.Int("parallelism"); n > 0 {
		opts = append(opts, builder.WithParallelism(n))
	}

	return opts, nil
}

func commonFlags() []ucli.Flag {
	return []ucli.Flag{
		&ucli.Float64Flag{Name: "cell-size", Value: builder.TorCellSize, Usage: "padding size in bytes"},
		&ucli.StringFlag{Name: "labels", Value: "default", Usage: "state label scheme: default or upper"},
	}
}

func windowFlags() []ucli.Flag {
	return []ucli.Flag{
		&ucli.Float64Flag{Name: "window", Aliases: []string{"w"}, Usage: "maximum padding window in seconds (required)"},
		&ucli.IntFlag{Name: "budget", Aliases: []string{"n"}, Usage: "padding budget in cells (required)"},
		&ucli.IntFlag{Name: "states", Aliases: []string{"k"}, Value: 1, Usage: "number of padding states"},
		&ucli.Float64Flag{Name: "min-window", Value: builder.DefaultMinWindow, Usage: "lower bound of the window draw in seconds"},
		&ucli.BoolFlag{Name: "fixed-window", Usage: "use the maximum window instead of a random draw"},
	}
}

func frontParams(c *ucli.Context) (builder.FrontParams, []builder.BuilderOption, error) {
	for _, name := range []string{"window", "budget"} {
		if !c.IsSet(name) {
			return builder.FrontParams{}, nil, usageError("%s: --%s is required", c.Command.Name, name)
		}
	}
	opts, err := builderOptions(c)
	if err != nil {
		return builder.FrontParams{}, nil, err
	}
	if c.IsSet("min-window") {
		mw := c.Float64("min-window")
		if !(mw > 0) {
			return builder.FrontParams{}, nil, usageError("--min-window must be > 0")
		}
		opts = append(opts, builder.WithMinWindow(mw))
	}
	if c.Bool("fixed-window") {
		opts = append(opts, builder.WithFixedWindow())
	}

	return builder.FrontParams{
		Window: c.Float64("window"),
		Budget: c.Int("budget"),
		States: c.Int("states"),
	}, opts, nil
}

func run(c *ucli.Context, outW, errW io.Writer, jobs ...app.Job) error {
	return app.New(outW, errW, appConfig(c)).Run(c.Context, jobs...)
}

func frontCommand(outW, errW io.Writer) *ucli.Command {
	return &ucli.Command{
		Name:  builder.FamilyFront,
		Usage: "build a FRONT machine",
		Flags: append(windowFlags(), commonFlags()...),
		Action: func(c *ucli.Context) error {
			p, opts, err := frontParams(c)
			if err != nil {
				return err
			}
			return run(c, outW, errW, app.Job{Name: builder.FamilyFront, Cons: builder.Front(p), Options: opts})
		},
	}
}

func pipelinedFrontCommand(outW, errW io.Writer) *ucli.Command {
	flags := append(windowFlags(),
		&ucli.IntFlag{Name: "pipelines", Aliases: []string{"p"}, Value: 2, Usage: "number of pipelines"},
		&ucli.BoolFlag{Name: "composed", Usage: "emit one machine whose start state fans out to every pipeline"},
	)

	return &ucli.Command{
		Name:  builder.FamilyPipelinedFront,
		Usage: "build Pipelined FRONT machines",
		Flags: append(flags, commonFlags()...),
		Action: func(c *ucli.Context) error {
			fp, opts, err := frontParams(c)
			if err != nil {
				return err
			}
			if c.Bool("composed") {
				opts = append(opts, builder.WithComposedPipelines())
			}
			p := builder.PipelinedFrontParams{FrontParams: fp, Pipelines: c.Int("pipelines")}
			return run(c, outW, errW, app.Job{Name: builder.FamilyPipelinedFront, Cons: builder.PipelinedFront(p), Options: opts})
		},
	}
}

func regulatorCommand(outW, errW io.Writer) *ucli.Command {
	return &ucli.Command{
		Name:  builder.FamilyRegulator,
		Usage: "build the RegulaTor relay and client machines",
		Flags: append([]ucli.Flag{
			&ucli.Float64Flag{Name: "initial-rate", Aliases: []string{"r"}, Value: 277, Usage: "initial surge rate R, packets/s"},
			&ucli.Float64Flag{Name: "decay", Aliases: []string{"d"}, Value: 0.94, Usage: "decay factor D in (0,1)"},
			&ucli.Float64Flag{Name: "threshold", Aliases: []string{"t"}, Value: 3.55, Usage: "surge threshold T"},
			&ucli.Float64Flag{Name: "upload-ratio", Aliases: []string{"u"}, Value: 3.95, Usage: "upload ratio U"},
			&ucli.IntFlag{Name: "cells-per-state", Aliases: []string{"c"}, Value: 100, Usage: "cells per relay send state"},
		}, commonFlags()...),
		Action: func(c *ucli.Context) error {
			opts, err := builderOptions(c)
			if err != nil {
				return err
			}
			p := builder.RegulatorParams{
				InitialRate:   c.Float64("initial-rate"),
				Decay:         c.Float64("decay"),
				Threshold:     c.Float64("threshold"),
				UploadRatio:   c.Float64("upload-ratio"),
				CellsPerState: c.Int("cells-per-state"),
			}
			return run(c, outW, errW, app.Job{Name: builder.FamilyRegulator, Cons: builder.Regulator(p), Options: opts})
		},
	}
}

func surakavCommand(outW, errW io.Writer) *ucli.Command {
	return &ucli.Command{
		Name:      builder.FamilySurakav,
		Usage:     "build Surakav client and relay machines from a reference trace",
		ArgsUsage: "<trace file>",
		Flags: append([]ucli.Flag{
			&ucli.StringFlag{Name: "trace-format", Value: trace.FormatAuto.String(), Usage: "auto, bursts or timed"},
			&ucli.IntFlag{Name: "cutoff", Value: trace.DefaultCutoff, Usage: "maximum number of bursts read"},
		}, commonFlags()...),
		Action: func(c *ucli.Context) error {
			if c.NArg() != 1 {
				return usageError("surakav: want exactly one trace file, got %d arguments", c.NArg())
			}
			opts, err := builderOptions(c)
			if err != nil {
				return err
			}
			f, err := config.TraceFormat(c.String("trace-format"))
			if err != nil {
				return usageError("--trace-format: %v", err)
			}
			if c.Int("cutoff") < 1 {
				return usageError("--cutoff must be ≥ 1")
			}
			tr, err := trace.Load(c.Args().First(), trace.WithFormat(f), trace.WithCutoff(c.Int("cutoff")))
			if err != nil {
				return err
			}
			return run(c, outW, errW, app.Job{Name: builder.FamilySurakav, Cons: builder.Surakav(tr), Options: opts})
		},
	}
}

func generateCommand(outW, errW io.Writer) *ucli.Command {
	return &ucli.Command{
		Name:      "generate",
		Usage:     "build every defense of an HCL parameter file",
		ArgsUsage: "<file.hcl>",
		Action: func(c *ucli.Context) error {
			if c.NArg() != 1 {
				return usageError("generate: want exactly one parameter file, got %d arguments", c.NArg())
			}
			file, err := config.Load(c.Args().First())
			if err != nil {
				return err
			}

			cfg := appConfig(c)
			if cfg.Seed == nil && file.Seed != nil {
				cfg.Seed = file.Seed
			}
			if !c.IsSet("format") && file.Format != "" {
				cfg.Format = file.Format
			}

			jobs := make([]app.Job, 0, len(file.Defenses))
			for _, d := range file.Defenses {
				jobs = append(jobs, app.Job{Name: d.Name, Cons: d.Constructor(), Options: d.Options})
			}

			return app.New(outW, errW, cfg).Run(c.Context, jobs...)
		},
	}
}

func decodeCommand(outW io.Writer) *ucli.Command {
	return &ucli.Command{
		Name:      "decode",
		Usage:     "describe a compact machine string",
		ArgsUsage: "<machine>",
		Action: func(c *ucli.Context) error {
			if c.NArg() != 1 {
				return usageError("decode: want exactly one machine string, got %d arguments", c.NArg())
			}
			m, err := machine.Decode(strings.TrimSpace(c.Args().First()))
			if err != nil {
				return err
			}
			m.Name = "decoded"

			format := machine.FormatYAML
			if c.IsSet("format") {
				format, _ = machine.ParseFormat(c.String("format"))
			}
			def := &machine.Defense{Family: "decoded", Machines: []*machine.Machine{m}}

			return machine.Describe(outW, def, format)
		},
	}
}

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return 1
}
