// SPDX-License-Identifier: MIT

package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/wfpad/builder"
	"github.com/katalvlaran/wfpad/dist"
	"github.com/katalvlaran/wfpad/internal/ctxlog"
	"github.com/katalvlaran/wfpad/machine"
)

// Config holds everything a run needs besides the jobs themselves.
type Config struct {
	// Seed pins the root Sampler; nil seeds it from crypto/rand.
	Seed *int64
	// Format selects the output rendering.
	Format machine.Format
	// Output is a file path; empty or "-" means the App's writer.
	Output    string
	LogLevel  string
	LogFormat string
	// Parallelism bounds concurrent jobs; 0 means one per job.
	Parallelism int
}

// Job is one defense to build.
type Job struct {
	Name    string
	Cons    builder.Constructor
	Options []builder.BuilderOption
}

// App runs jobs and writes their machines.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    Config
}

// New returns an App writing machines to outW and logs to logW.
func New(outW, logW io.Writer, cfg Config) *App {
	if cfg.Format == "" {
		cfg.Format = machine.FormatCompact
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured.", "level", cfg.LogLevel, "format", cfg.LogFormat)

	return &App{outW: outW, logger: logger, cfg: cfg}
}

// Logger returns the App's logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Run builds every job and writes the results in job order. Nothing is
// written unless all jobs succeed.
func (a *App) Run(ctx context.Context, jobs ...Job) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	defs, err := a.build(ctx, jobs)
	if err != nil {
		return err
	}

	return a.write(ctx, defs)
}

// rootSampler creates the process-wide random stream.
func (a *App) rootSampler(ctx context.Context) (*dist.Sampler, error) {
	logger := ctxlog.FromContext(ctx)
	if a.cfg.Seed != nil {
		logger.Debug("Using fixed seed.", "seed", *a.cfg.Seed)
		return dist.NewSampler(*a.cfg.Seed), nil
	}
	s, err := dist.NewRandomSampler()
	if err != nil {
		return nil, err
	}
	logger.Info("Seeded from the operating system; pass --seed to reproduce.", "seed", s.Seed())

	return s, nil
}

func (a *App) build(ctx context.Context, jobs []Job) ([]*machine.Defense, error) {
	logger := ctxlog.FromContext(ctx)
	root, err := a.rootSampler(ctx)
	if err != nil {
		return nil, err
	}

	// Children are derived in job order before any goroutine starts.
	samplers := make([]*dist.Sampler, len(jobs))
	for i := range jobs {
		samplers[i] = root.Derive(uint64(i))
	}

	defs := make([]*machine.Defense, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if a.cfg.Parallelism > 0 {
		g.SetLimit(a.cfg.Parallelism)
	}
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			opts := append([]builder.BuilderOption{
				builder.WithSampler(samplers[i]),
				builder.WithLogger(logger.With("job", job.Name)),
			}, job.Options...)

			def, err := builder.Build(job.Cons, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			def.Name = job.Name
			defs[i] = def
			logger.Debug("Defense built.", "job", job.Name, "family", def.Family, "machines", len(def.Machines))

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return defs, nil
}

func (a *App) write(ctx context.Context, defs []*machine.Defense) (err error) {
	logger := ctxlog.FromContext(ctx)

	w := a.outW
	if a.cfg.Output != "" && a.cfg.Output != "-" {
		f, ferr := os.Create(a.cfg.Output)
		if ferr != nil {
			return fmt.Errorf("output: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("output: %w", cerr)
			}
		}()
		w = f
	}

	cw := &countingWriter{w: w}
	for i, def := range defs {
		if err := writeSeparator(cw, a.cfg.Format, def, i, len(defs)); err != nil {
			return err
		}
		if err := machine.Describe(cw, def, a.cfg.Format); err != nil {
			return fmt.Errorf("%s: %w", def.Name, err)
		}
		for _, m := range def.Machines {
			logger.Info("Machine ready.",
				"defense", def.Name,
				"machine", m.Name,
				"states", m.Len(),
				"id", m.ID().String(),
			)
		}
	}
	logger.Debug("Output written.", "bytes", humanize.Bytes(uint64(cw.n)), "defenses", len(defs))

	return nil
}

// writeSeparator keeps multi-defense output parseable: YAML documents are
// separated by "---", compact blocks get a "# family name" header.
func writeSeparator(w io.Writer, f machine.Format, def *machine.Defense, i, total int) error {
	if total < 2 {
		return nil
	}
	var err error
	switch f {
	case machine.FormatYAML:
		if i > 0 {
			_, err = io.WriteString(w, "---\n")
		}
	case machine.FormatCompact:
		_, err = fmt.Fprintf(w, "# %s %s\n", def.Family, def.Name)
	}

	return err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}
