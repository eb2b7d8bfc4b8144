// SPDX-License-Identifier: MIT
// Package: wfpad/config
//
// schema.go - gohcl decoding targets.

package config

import "github.com/hashicorp/hcl/v2"

type fileRoot struct {
	Seed     *int64          `hcl:"seed,optional"`
	Format   *string         `hcl:"format,optional"`
	Defenses []*defenseBlock `hcl:"defense,block"`
}

// defenseBlock defers body decoding until the family is known.
type defenseBlock struct {
	Family string   `hcl:"family,label"`
	Name   string   `hcl:"name,label"`
	Body   hcl.Body `hcl:",remain"`
}

// commonBody holds the knobs every family accepts.
type commonBody struct {
	CellSize *float64 `hcl:"cell_size,optional"`
	Labels   *string  `hcl:"labels,optional"`
}

type frontBody struct {
	Window      float64  `hcl:"window"`
	Budget      int      `hcl:"budget"`
	States      int      `hcl:"states"`
	MinWindow   *float64 `hcl:"min_window,optional"`
	FixedWindow *bool    `hcl:"fixed_window,optional"`
	CellSize    *float64 `hcl:"cell_size,optional"`
	Labels      *string  `hcl:"labels,optional"`
}

type pipelinedFrontBody struct {
	Window      float64  `hcl:"window"`
	Budget      int      `hcl:"budget"`
	States      int      `hcl:"states"`
	Pipelines   int      `hcl:"pipelines"`
	Composed    *bool    `hcl:"composed,optional"`
	MinWindow   *float64 `hcl:"min_window,optional"`
	FixedWindow *bool    `hcl:"fixed_window,optional"`
	CellSize    *float64 `hcl:"cell_size,optional"`
	Labels      *string  `hcl:"labels,optional"`
}

type regulatorBody struct {
	InitialRate   float64  `hcl:"initial_rate"`
	Decay         float64  `hcl:"decay"`
	Threshold     float64  `hcl:"threshold"`
	UploadRatio   float64  `hcl:"upload_ratio"`
	CellsPerState int      `hcl:"cells_per_state"`
	CellSize      *float64 `hcl:"cell_size,optional"`
	Labels        *string  `hcl:"labels,optional"`
}

type surakavBody struct {
	Trace    string   `hcl:"trace"`
	Format   *string  `hcl:"format,optional"`
	Cutoff   *int     `hcl:"cutoff,optional"`
	CellSize *float64 `hcl:"cell_size,optional"`
	Labels   *string  `hcl:"labels,optional"`
}

func (b frontBody) common() commonBody {
	return commonBody{CellSize: b.CellSize, Labels: b.Labels}
}

func (b pipelinedFrontBody) common() commonBody {
	return commonBody{CellSize: b.CellSize, Labels: b.Labels}
}

func (b regulatorBody) common() commonBody {
	return commonBody{CellSize: b.CellSize, Labels: b.Labels}
}

func (b surakavBody) common() commonBody {
	return commonBody{CellSize: b.CellSize, Labels: b.Labels}
}
