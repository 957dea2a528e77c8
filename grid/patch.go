// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "github.com/cpmech/gosl/chk"

// Patch designates an active region of a grid: the subset of units at
// which numerical computations are carried out. A patch maintains per-kind
// sequences of handles into the grid. After any grid mutation that may
// relocate units, the patch is marked stale and must not be read until the
// solver has re-expressed it and called Validate.
type Patch struct {
	g        *Grid
	id       int
	upToDate bool
	locked   bool
	refs     map[Kind][]URef
}

// ID returns the grid-assigned patch id
func (o *Patch) ID() int { return o.id }

// IsLocked tells whether the patch is locked
func (o *Patch) IsLocked() bool { return o.locked }

// IsUpToDate tells whether the patch refs may be read
func (o *Patch) IsUpToDate() bool { return o.upToDate }

// IncludeUnit appends a handle to the patch and activates the referenced
// unit at timestep ts. The unit must be inactive.
func (o *Patch) IncludeUnit(r URef, ts uint) {
	if r.g != o.g {
		chk.Panic("patch %d: includeUnit: ref does not belong to the patch's grid", o.id)
	}
	u, err := r.Deref()
	if err != nil {
		chk.Panic("patch %d: includeUnit: %v", o.id, err)
	}
	c := u.base()
	c.patchPos = len(o.refs[c.kind])
	c.activate(ts)
	c.patchID = o.id
	o.refs[c.kind] = append(o.refs[c.kind], r)
}

// ExcludeUnit deactivates the referenced unit and removes its handle from
// the patch, compacting the patch positions of the units placed after it.
// Activation order of the remaining units is preserved.
func (o *Patch) ExcludeUnit(r URef) {
	u, err := r.Deref()
	if err != nil {
		chk.Panic("patch %d: excludeUnit: %v", o.id, err)
	}
	c := u.base()
	if c.patchID != o.id {
		chk.Panic("patch %d: excludeUnit: unit %d is not included in this patch", o.id, c.id)
	}
	pp := c.patchPos
	rs := o.refs[c.kind]
	if pp < 0 || pp >= len(rs) || !rs[pp].Equal(r) {
		chk.Panic("patch %d: excludeUnit: patchPos %d of unit %d is inconsistent", o.id, pp, c.id)
	}
	c.deactivate()
	o.refs[c.kind] = append(rs[:pp], rs[pp+1:]...)
	for i := pp; i < len(o.refs[c.kind]); i++ {
		m, err := o.refs[c.kind][i].Deref()
		if err != nil {
			chk.Panic("patch %d: excludeUnit: %v", o.id, err)
		}
		m.base().patchPos--
	}
}

// Invalidate marks the patch stale and locks it. Called by the grid
// whenever an operation that may relocate units is performed. Idempotent.
func (o *Patch) Invalidate() {
	o.upToDate = false
	o.locked = true
}

// Validate marks the patch readable again. The solver calls this after
// re-expressing the patch; the locked flag is left for the solver to
// manage.
func (o *Patch) Validate() { o.upToDate = true }

// Unlock clears the locked flag
func (o *Patch) Unlock() { o.locked = false }

// Units returns the handle sequence of a kind. The patch must be up to
// date. The slice is owned by the patch; callers must not modify it.
func (o *Patch) Units(kind Kind) []URef {
	if !o.upToDate {
		chk.Panic("patch %d is not up to date and may not be read", o.id)
	}
	return o.refs[kind]
}

// NumUnits returns the number of units of a kind included in the patch
func (o *Patch) NumUnits(kind Kind) int { return len(o.refs[kind]) }
