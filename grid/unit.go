// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid implements the container and manager of discrete model data
// for individual domain instances: typed buckets of mesh units, patches
// designating the active regions of the mesh, and revalidatable handles
// that survive relocation of the underlying storage.
package grid

import "github.com/cpmech/gosl/chk"

// Kind identifies a unit type within a grid; e.g. nodes, elements, cells.
// A derived model registers one Kind per unit type it stores.
type Kind int

// PatchNone is the patchID of a unit that is not included in any patch.
const PatchNone = -1

// Base holds the attributes every mesh unit carries. Concrete unit types
// (nodes, elements, cells, interfaces, ...) embed Base and are stored in
// the grid by pointer.
type Base struct {
	id       int  // constant id used for input/output; unique within a kind bucket
	kind     Kind // unit type tag
	pos      int  // current index in the grid bucket; may change
	slot     int  // index of the primary handle; fixed for the unit's lifetime
	patchPos int  // position of the unit within its containing patch
	patchID  int  // id of the containing patch; PatchNone while inactive
	active   bool
	boundary bool
	actTs    uint // timestep at which the unit was activated
}

// NewBase returns the base attributes of a new, inactive unit.
func NewBase(kind Kind, id int, boundary bool) Base {
	return Base{
		id:       id,
		kind:     kind,
		pos:      -1,
		slot:     -1,
		patchPos: -1,
		patchID:  PatchNone,
		boundary: boundary,
	}
}

// ID returns the constant unit id
func (o *Base) ID() int { return o.id }

// UnitKind returns the unit type tag
func (o *Base) UnitKind() Kind { return o.kind }

// Pos returns the current index of the unit in its grid bucket
func (o *Base) Pos() int { return o.pos }

// PatchPos returns the position of the unit within its containing patch
func (o *Base) PatchPos() int { return o.patchPos }

// PatchID returns the id of the containing patch, or PatchNone
func (o *Base) PatchID() int { return o.patchID }

// IsActive tells whether the unit is included in a patch
func (o *Base) IsActive() bool { return o.active }

// IsBoundary tells whether the unit lies on a domain boundary
func (o *Base) IsBoundary() bool { return o.boundary }

// ActivationTimestep returns the timestep at which the unit was activated
func (o *Base) ActivationTimestep() uint { return o.actTs }

// activate marks the unit active at timestep ts. Only patches activate
// units, upon inclusion.
func (o *Base) activate(ts uint) {
	if o.active {
		chk.Panic("unit %d is already active", o.id)
	}
	o.active = true
	o.actTs = ts
}

// deactivate marks the unit inactive and detaches it from its patch
func (o *Base) deactivate() {
	if !o.active {
		chk.Panic("unit %d is already inactive", o.id)
	}
	o.active = false
	o.patchPos = -1
	o.patchID = PatchNone
}

// resetPatchState clears activation and patch membership; used when a unit
// is deep-copied into a child grid, where no patch contains the copy yet
func (o *Base) resetPatchState() {
	o.active = false
	o.actTs = 0
	o.patchPos = -1
	o.patchID = PatchNone
}

// base gives the grid and its patches access to the shared attributes
func (o *Base) base() *Base { return o }

// Unit is implemented by every mesh entity stored in a grid. Concrete
// types embed Base (which provides base) and supply Clone, a deep copy
// used when a child grid copies a unit from its parent.
type Unit interface {
	base() *Base
	Clone() Unit
}
