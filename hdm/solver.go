// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hdm

// Solver is the numerical collaborator of a domain. It owns one or more
// grids and the model-specific routines operating on them; the framework
// prescribes no numerical algorithms.
type Solver interface {

	// Initialize prepares the solver before timestepping begins
	Initialize() error

	// AdjustPatches re-expresses the patches at the start of timestep ts,
	// after any grid mutation, and validates them
	AdjustPatches(ts uint)

	// ImposePatchBCs transfers boundary data between parent and child
	// grids for the given phase
	ImposePatchBCs(phase int)
}

// Phase is one named step within a timestep. Domains execute their phases
// in insertion order, once per timestep.
type Phase interface {
	Name() string
	Run(ts uint)
}

// phase adapts a plain function to the Phase interface
type phase struct {
	name string
	fcn  func(ts uint)
}

func (o *phase) Name() string { return o.name }
func (o *phase) Run(ts uint)  { o.fcn(ts) }

// NewPhase wraps fcn as a named Phase
func NewPhase(name string, fcn func(ts uint)) Phase {
	return &phase{name: name, fcn: fcn}
}

// Model supplies the model-specific lifecycle of a domain. Implementations
// typically allocate the solver in InstantiateMembers, load configuration
// in ReadInputs, and register phases in DoInitialize.
type Model interface {

	// InstantiateMembers lazily allocates solvers, grids, and outputs
	InstantiateMembers() error

	// ReadInputs loads the domain input files
	ReadInputs() error

	// DoInitialize completes the initialization before timestepping
	DoInitialize() error

	// PostProcess runs after timestepping has finished
	PostProcess() error

	// Nts returns the total number of timesteps of this domain
	Nts() uint
}
