// SPDX-License-Identifier: MIT
// Package: wfpad/config
//
// config.go - loading parameter files into buildable defenses.
//
// Contract:
//   • Parse and decode errors are HCL diagnostics, wrapped with the file name.
//   • Defense names are unique per file; families are the builder.Family* names.
//   • Every parameter set passes its Validate before Load returns.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/katalvlaran/wfpad/builder"
	"github.com/katalvlaran/wfpad/machine"
	"github.com/katalvlaran/wfpad/trace"
)

// Sentinel errors.
var (
	// ErrUnknownFamily indicates a defense block whose family label is not
	// one of the builder families.
	ErrUnknownFamily = errors.New("config: unknown defense family")

	// ErrDuplicateName indicates two defense blocks with the same name.
	ErrDuplicateName = errors.New("config: duplicate defense name")

	// ErrNoDefenses indicates a file without a single defense block.
	ErrNoDefenses = errors.New("config: no defense blocks")

	// ErrBadValue indicates a setting outside its domain (labels, format, ...).
	ErrBadValue = errors.New("config: invalid value")
)

// File is a loaded parameter file.
type File struct {
	Path string
	// Seed is nil when the file does not pin one.
	Seed *int64
	// Format is empty when the file does not choose one.
	Format   machine.Format
	Defenses []Defense
}

// Defense is one decoded defense block, ready to build.
type Defense struct {
	Family string
	Name   string

	Front          *builder.FrontParams
	PipelinedFront *builder.PipelinedFrontParams
	Regulator      *builder.RegulatorParams
	Trace          *trace.Trace

	// Options carries the per-defense builder knobs from the block.
	Options []builder.BuilderOption
}

// Constructor returns the builder constructor of the defense's family.
func (d Defense) Constructor() builder.Constructor {
	switch {
	case d.Front != nil:
		return builder.Front(*d.Front)
	case d.PipelinedFront != nil:
		return builder.PipelinedFront(*d.PipelinedFront)
	case d.Regulator != nil:
		return builder.Regulator(*d.Regulator)
	case d.Trace != nil:
		return builder.Surakav(d.Trace)
	}

	return nil
}

// Load reads and decodes the parameter file at path.
func Load(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return Parse(src, path)
}

// Parse decodes src. filename is used in diagnostics and as the base for
// relative trace paths.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: %s: %w", filename, diags)
	}

	ctx := evalContext()
	var root fileRoot
	if diags := gohcl.DecodeBody(f.Body, ctx, &root); diags.HasErrors() {
		return nil, fmt.Errorf("config: %s: %w", filename, diags)
	}
	if len(root.Defenses) == 0 {
		return nil, fmt.Errorf("config: %s: %w", filename, ErrNoDefenses)
	}

	out := &File{Path: filename, Seed: root.Seed}
	if root.Format != nil {
		format, err := machine.ParseFormat(*root.Format)
		if err != nil {
			return nil, fmt.Errorf("config: %s: format: %w", filename, err)
		}
		out.Format = format
	}

	baseDir := filepath.Dir(filename)
	seen := make(map[string]bool, len(root.Defenses))
	for _, blk := range root.Defenses {
		if seen[blk.Name] {
			return nil, fmt.Errorf("config: %s: %q: %w", filename, blk.Name, ErrDuplicateName)
		}
		seen[blk.Name] = true

		def, err := decodeDefense(blk, ctx, baseDir)
		if err != nil {
			return nil, fmt.Errorf("config: %s: defense %q %q: %w", filename, blk.Family, blk.Name, err)
		}
		out.Defenses = append(out.Defenses, def)
	}

	return out, nil
}

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"tor_cell_size": cty.NumberIntVal(builder.TorCellSize),
		},
		Functions: map[string]function.Function{
			"min":   stdlib.MinFunc,
			"max":   stdlib.MaxFunc,
			"floor": stdlib.FloorFunc,
			"ceil":  stdlib.CeilFunc,
			"abs":   stdlib.AbsoluteFunc,
			"pow":   stdlib.PowFunc,
		},
	}
}

func decodeDefense(blk *defenseBlock, ctx *hcl.EvalContext, baseDir string) (Defense, error) {
	def := Defense{Family: blk.Family, Name: blk.Name}

	var (
		common commonBody
		diags  hcl.Diagnostics
	)
	switch blk.Family {
	case builder.FamilyFront:
		var b frontBody
		if diags = gohcl.DecodeBody(blk.Body, ctx, &b); diags.HasErrors() {
			return def, diags
		}
		p := builder.FrontParams{Window: b.Window, Budget: b.Budget, States: b.States}
		if err := p.Validate(); err != nil {
			return def, err
		}
		def.Front = &p
		opts, err := windowOptions(b.MinWindow, b.FixedWindow)
		if err != nil {
			return def, err
		}
		def.Options = opts
		common = b.common()

	case builder.FamilyPipelinedFront:
		var b pipelinedFrontBody
		if diags = gohcl.DecodeBody(blk.Body, ctx, &b); diags.HasErrors() {
			return def, diags
		}
		p := builder.PipelinedFrontParams{
			FrontParams: builder.FrontParams{Window: b.Window, Budget: b.Budget, States: b.States},
			Pipelines:   b.Pipelines,
		}
		if err := p.Validate(); err != nil {
			return def, err
		}
		def.PipelinedFront = &p
		opts, err := windowOptions(b.MinWindow, b.FixedWindow)
		if err != nil {
			return def, err
		}
		def.Options = opts
		if b.Composed != nil && *b.Composed {
			def.Options = append(def.Options, builder.WithComposedPipelines())
		}
		common = b.common()

	case builder.FamilyRegulator:
		var b regulatorBody
		if diags = gohcl.DecodeBody(blk.Body, ctx, &b); diags.HasErrors() {
			return def, diags
		}
		p := builder.RegulatorParams{
			InitialRate:   b.InitialRate,
			Decay:         b.Decay,
			Threshold:     b.Threshold,
			UploadRatio:   b.UploadRatio,
			CellsPerState: b.CellsPerState,
		}
		if err := p.Validate(); err != nil {
			return def, err
		}
		def.Regulator = &p
		common = b.common()

	case builder.FamilySurakav:
		var b surakavBody
		if diags = gohcl.DecodeBody(blk.Body, ctx, &b); diags.HasErrors() {
			return def, diags
		}
		tr, err := loadTrace(b, baseDir)
		if err != nil {
			return def, err
		}
		def.Trace = tr
		common = b.common()

	default:
		return def, fmt.Errorf("%q: %w", blk.Family, ErrUnknownFamily)
	}

	opts, err := commonOptions(common)
	if err != nil {
		return def, err
	}
	def.Options = append(def.Options, opts...)

	return def, nil
}

func windowOptions(minWindow *float64, fixed *bool) ([]builder.BuilderOption, error) {
	var opts []builder.BuilderOption
	if minWindow != nil {
		if !(*minWindow > 0) {
			return nil, fmt.Errorf("min_window=%g must be > 0: %w", *minWindow, ErrBadValue)
		}
		opts = append(opts, builder.WithMinWindow(*minWindow))
	}
	if fixed != nil && *fixed {
		opts = append(opts, builder.WithFixedWindow())
	}

	return opts, nil
}

// commonOptions converts the shared knobs; option constructors panic on
// nonsense, so values are checked here first.
func commonOptions(c commonBody) ([]builder.BuilderOption, error) {
	var opts []builder.BuilderOption
	if c.CellSize != nil {
		if !(*c.CellSize > 0) {
			return nil, fmt.Errorf("cell_size=%g must be > 0: %w", *c.CellSize, ErrBadValue)
		}
		opts = append(opts, builder.WithCellSize(*c.CellSize))
	}
	if c.Labels != nil {
		fn, err := LabelScheme(*c.Labels)
		if err != nil {
			return nil, err
		}
		opts = append(opts, builder.WithLabelScheme(fn))
	}

	return opts, nil
}

// LabelScheme resolves a label scheme name: "default" or "upper".
func LabelScheme(name string) (builder.LabelFn, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return builder.DefaultLabelFn, nil
	case "upper":
		return builder.UpperLabelFn, nil
	}

	return nil, fmt.Errorf("labels %q: %w", name, ErrBadValue)
}

func loadTrace(b surakavBody, baseDir string) (*trace.Trace, error) {
	var opts []trace.Option
	if b.Cutoff != nil {
		if *b.Cutoff < 1 {
			return nil, fmt.Errorf("cutoff=%d must be ≥ 1: %w", *b.Cutoff, ErrBadValue)
		}
		opts = append(opts, trace.WithCutoff(*b.Cutoff))
	}
	if b.Format != nil {
		f, err := TraceFormat(*b.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, trace.WithFormat(f))
	}

	path := b.Trace
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	return trace.Load(path, opts...)
}

// TraceFormat resolves "auto", "bursts" or "timed".
func TraceFormat(name string) (trace.Format, error) {
	for _, f := range []trace.Format{trace.FormatAuto, trace.FormatBursts, trace.FormatTimed} {
		if strings.EqualFold(name, f.String()) {
			return f, nil
		}
	}

	return trace.FormatAuto, fmt.Errorf("trace format %q: %w", name, ErrBadValue)
}
