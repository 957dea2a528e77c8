// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "errors"

// Recoverable ref failures. Everything else about handles is fatal.
var (
	// ErrInvalidatedRef reports a dereferencing attempt through a reset or
	// stale handle
	ErrInvalidatedRef = errors.New("grid: dereferencing attempted for an invalidated ref")

	// ErrSelfAssignment reports a move assignment of a handle onto itself
	ErrSelfAssignment = errors.New("grid: move assignment called for self")
)

// ref is the primary handle: exactly one per unit, owned by the unit's
// bucket and indexed by the unit's slot. When the grid relocates a unit it
// rewrites pos here, revalidating every external handle at once; when the
// unit is removed the generation is bumped, invalidating them at once.
type ref struct {
	pos  int
	gen  uint32
	live bool
}

// URef is an external handle to a unit. Any number of URefs may be created
// by clients; each dereferences through the primary handle, so relocations
// of the unit inside the grid never go stale. A URef is either Bound or
// Reset; only a Bound handle may be dereferenced.
type URef struct {
	g    *Grid
	kind Kind
	slot int
	gen  uint32
}

// Deref returns the referenced unit, or ErrInvalidatedRef if the handle is
// reset or the unit no longer lives in the grid.
func (o URef) Deref() (Unit, error) {
	if o.g == nil {
		return nil, ErrInvalidatedRef
	}
	r := &o.g.bucketOf(o.kind).refs[o.slot]
	if !r.live || r.gen != o.gen {
		return nil, ErrInvalidatedRef
	}
	return o.g.bucketOf(o.kind).units[r.pos], nil
}

// IsBound tells whether the handle may be dereferenced
func (o URef) IsBound() bool {
	_, err := o.Deref()
	return err == nil
}

// Reset detaches the handle; subsequent dereferencing fails with
// ErrInvalidatedRef. Resetting a reset handle is a no-op.
func (o *URef) Reset() {
	o.g = nil
	o.slot = -1
	o.gen = 0
}

// MoveFrom transfers src into o and resets src. Moving a handle onto
// itself fails with ErrSelfAssignment.
func (o *URef) MoveFrom(src *URef) error {
	if o == src {
		return ErrSelfAssignment
	}
	*o = *src
	src.Reset()
	return nil
}

// Equal compares by identity: two handles are equal iff they dereference
// through the same primary handle.
func (o URef) Equal(other URef) bool {
	return o.g == other.g && o.kind == other.kind && o.slot == other.slot && o.gen == other.gen
}
