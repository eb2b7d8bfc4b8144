// SPDX-License-Identifier: MIT
// Package: wfpad/builder
//
// impl_pipelined_front.go - implementation of PipelinedFront(p).
//
// Contract:
//   • p.Validate() first (ErrInvalidParameter).
//   • Pipeline i draws from cfg.sampler.Derive(i). All children are derived
//     sequentially before any goroutine starts, so the result does not
//     depend on scheduling.
//   • Default: one FRONT machine per pipeline, named machine.PipelineName(i),
//     built concurrently (errgroup, at most cfg.parallelism at once).
//   • WithComposedPipelines: one machine. Its start state fans out with
//     probability 1/Pipelines to the first state of each chain; chain i
//     uses role "p<i>/pad" so no two pipelines share a state.
//   • Separate machines each carry the full budget N over k states. Composed
//     chains carry a graded ladder instead (ComposedBudgets): chain i pads
//     with (i+1)/Pipelines of N.
//
// Complexity:
//   • Time: O(Pipelines · k · solverIterations). Space: O(Pipelines · k).

package builder

import (
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/wfpad/dist"
	"github.com/katalvlaran/wfpad/machine"
)

// PipelinedFront returns a Constructor for Pipelined FRONT.
func PipelinedFront(p PipelinedFrontParams) Constructor {
	return func(cfg builderConfig) (*machine.Defense, error) {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if !cfg.fixedWindow && cfg.sampler == nil {
			return nil, fmt.Errorf("%s: window draw: %w", methodPipelinedFront, ErrNeedRandSource)
		}
		samplers := pipelineSamplers(cfg.sampler, p.Pipelines)

		var (
			machines []*machine.Machine
			err      error
		)
		if cfg.composed {
			var m *machine.Machine
			m, err = composedPipelines(cfg, p, samplers)
			machines = []*machine.Machine{m}
		} else {
			machines, err = parallelPipelines(cfg, p, samplers)
		}
		if err != nil {
			return nil, err
		}

		return &machine.Defense{
			Family:   FamilyPipelinedFront,
			Name:     FamilyPipelinedFront,
			Params:   p.provenance(),
			Machines: machines,
		}, nil
	}
}

// ComposedBudgets returns the total padding budget of every chain of the
// composed machine. Chain i gets ⌊(i+1)·n/pipelines⌋ cells, so per state
// about (i+1)·n/(k·pipelines), and never fewer than k. The last chain
// carries n. Returns nil when k < 1, n < 0 or pipelines < 1.
// Complexity: O(pipelines).
func ComposedBudgets(n, k, pipelines int) []int {
	if k < 1 || n < 0 || pipelines < 1 {
		return nil
	}
	out := make([]int, pipelines)
	for i := range out {
		out[i] = max(k, (i+1)*n/pipelines)
	}

	return out
}

// pipelineSamplers derives one child stream per pipeline, in order.
// A nil parent (fixed window) yields nil children.
func pipelineSamplers(parent *dist.Sampler, n int) []*dist.Sampler {
	out := make([]*dist.Sampler, n)
	if parent == nil {
		return out
	}
	for i := range out {
		out[i] = parent.Derive(uint64(i))
	}

	return out
}

func parallelPipelines(cfg builderConfig, p PipelinedFrontParams, samplers []*dist.Sampler) ([]*machine.Machine, error) {
	machines := make([]*machine.Machine, p.Pipelines)

	var g errgroup.Group
	g.SetLimit(cfg.parallelism)
	for i := range machines {
		c := cfg
		c.sampler = samplers[i]
		g.Go(func() error {
			m, err := frontMachine(c, methodPipelinedFront, p.FrontParams, machine.PipelineName(i))
			if err != nil {
				return fmt.Errorf("pipeline %d: %w", i, err)
			}
			machines[i] = m

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return machines, nil
}

func composedPipelines(cfg builderConfig, p PipelinedFrontParams, samplers []*dist.Sampler) (*machine.Machine, error) {
	d := machine.NewDraft(FamilyPipelinedFront, frontLimits())
	d.Provenance = p.provenance()
	d.AddState(labelStart, machine.StateSpec{})

	share := 1 / float64(p.Pipelines)
	budgets := ComposedBudgets(p.Budget, p.States, p.Pipelines)
	for i, s := range samplers {
		c := cfg
		c.sampler = s
		w, err := frontWindow(c, methodPipelinedFront, p.Window)
		if err != nil {
			return nil, err
		}
		tag := "p" + strconv.Itoa(i)
		d.Provenance = d.Provenance.Add(tag+"_window", w).AddInt(tag+"_budget", budgets[i])

		first, err := addFrontChain(d, c, tag+"/"+rolePad, w, budgets[i], p.States, machine.End)
		if err != nil {
			return nil, fmt.Errorf("%s: pipeline %d: %w", methodPipelinedFront, i, err)
		}
		d.On(labelStart, machine.NonPaddingSent, first, share)
		d.On(labelStart, machine.NonPaddingRecv, first, share)
	}

	m, err := machine.Assemble(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", methodPipelinedFront, ErrConstructFailed, err)
	}
	cfg.logger.Debug("composed pipelines assembled", "pipelines", p.Pipelines, "states", m.Len())

	return m, nil
}
