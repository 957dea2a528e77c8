// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// bucket stores all units of one kind. Positions are dense: removals
// compact the tail downward, so live positions are always 0..len-1.
type bucket struct {
	units    []Unit
	refs     []ref        // primary handles, indexed by slot
	free     []int        // slots of removed units, reusable
	occupied map[int]bool // live positions
	vacant   []int        // positions freed by removals, reused FIFO
	id2pos   map[int]int
}

func newBucket() *bucket {
	return &bucket{
		occupied: make(map[int]bool),
		id2pos:   make(map[int]int),
	}
}

// Grid is the container and manager of discrete model data for one domain.
// It stores units in per-kind buckets, owns the patches designating the
// active regions, and, for child grids, keeps the position correspondence
// with the parent grid.
type Grid struct {
	kinds   []Kind
	buckets map[Kind]*bucket

	patches []*Patch
	vpids   []int // vacant patch ids, reused FIFO

	parent *Grid
	cp2pp  map[Kind]map[int]int // child unit pos => parent unit pos
	pp2cp  map[Kind]map[int]int // parent unit pos => child unit pos

	Verbose bool
}

// New returns a grid storing the given unit kinds
func New(kinds ...Kind) (o *Grid) {
	if len(kinds) == 0 {
		chk.Panic("grid: at least one unit kind is required")
	}
	o = &Grid{
		kinds:   kinds,
		buckets: make(map[Kind]*bucket),
		cp2pp:   make(map[Kind]map[int]int),
		pp2cp:   make(map[Kind]map[int]int),
	}
	for _, kind := range kinds {
		if _, ok := o.buckets[kind]; ok {
			chk.Panic("grid: unit kind %d is given multiple times", kind)
		}
		o.buckets[kind] = newBucket()
		o.cp2pp[kind] = make(map[int]int)
		o.pp2cp[kind] = make(map[int]int)
	}
	return
}

// NewChild returns a grid nested within parent, storing the same unit
// kinds. Only child grids may call CopyFromParent.
func NewChild(parent *Grid) (o *Grid) {
	o = New(parent.kinds...)
	o.parent = parent
	return
}

// Kinds returns the unit kinds stored by this grid
func (o *Grid) Kinds() []Kind { return o.kinds }

// Parent returns the parent grid, or nil
func (o *Grid) Parent() *Grid { return o.parent }

func (o *Grid) bucketOf(kind Kind) *bucket {
	b, ok := o.buckets[kind]
	if !ok {
		chk.Panic("grid: unit kind %d is not stored by this grid", kind)
	}
	return b
}

// InsertUnit adds u to the bucket of its kind and returns a handle to it.
// The position is drawn from the vacant list (FIFO) when one is available;
// otherwise the unit goes to the back. Inserting may relocate units placed
// after the reused position, so every currently valid patch of the grid is
// invalidated and the affected primary handles are revalidated in place.
func (o *Grid) InsertUnit(u Unit) URef {
	c := u.base()
	b := o.bucketOf(c.kind)
	if _, ok := b.id2pos[c.id]; ok {
		chk.Panic("grid: insertUnit: unit id %d is used multiple times in kind %d bucket", c.id, c.kind)
	}

	// assign the position; a vacant position beyond the current back
	// degenerates to an append
	pos := len(b.units)
	if len(b.vacant) > 0 {
		if b.vacant[0] < pos {
			pos = b.vacant[0]
		}
		b.vacant = b.vacant[1:]
	}
	c.pos = pos

	// primary handle
	slot := len(b.refs)
	if len(b.free) > 0 {
		slot = b.free[0]
		b.free = b.free[1:]
		b.refs[slot].pos = pos
		b.refs[slot].live = true
	} else {
		b.refs = append(b.refs, ref{pos: pos, live: true})
	}
	c.slot = slot

	// splice the unit in; shift and revalidate the tail
	b.units = append(b.units, nil)
	copy(b.units[pos+1:], b.units[pos:])
	b.units[pos] = u
	for i := pos + 1; i < len(b.units); i++ {
		m := b.units[i].base()
		m.pos = i
		b.id2pos[m.id] = i
		b.refs[m.slot].pos = i
	}

	b.occupied[len(b.units)-1] = true
	b.id2pos[c.id] = pos

	o.invalidatePatches()
	return URef{g: o, kind: c.kind, slot: slot, gen: b.refs[slot].gen}
}

// CopyFromParent deep-copies a parent unit into this grid and records the
// parent-child position correspondence for its kind. The copy starts
// inactive and outside any patch. Only legal on a child grid.
func (o *Grid) CopyFromParent(parentUnit Unit) URef {
	if o.parent == nil {
		chk.Panic("grid: copyFromParent is called on a grid with no parent")
	}
	pc := parentUnit.base()
	parentPos := pc.pos

	child := parentUnit.Clone()
	child.base().resetPatchState()
	r := o.InsertUnit(child)
	childPos := child.base().pos

	o.cp2pp[pc.kind][childPos] = parentPos
	o.pp2cp[pc.kind][parentPos] = childPos
	return r
}

// RemoveUnit erases u from its bucket, compacting the positions after it
// downward by one. External handles to u turn stale; handles to the
// shifted units are revalidated. Avoid this operation: prefer to
// deactivate the unit instead.
func (o *Grid) RemoveUnit(u Unit) {
	c := u.base()
	b := o.bucketOf(c.kind)
	if c.pos < 0 || c.pos >= len(b.units) || b.units[c.pos] != u {
		chk.Panic("grid: removeUnit: position %d of unit %d does not match where the unit lives", c.pos, c.id)
	}
	if o.Verbose {
		io.Pfyel("grid: warning: removing unit at position %d\n", c.pos)
	}
	pos := c.pos

	// the primary handle dies; external handles turn stale
	b.refs[c.slot].live = false
	b.refs[c.slot].gen++
	b.free = append(b.free, c.slot)

	// position bookkeeping
	delete(b.id2pos, c.id)
	delete(b.occupied, len(b.units)-1)
	b.vacant = append(b.vacant, pos)

	// erase and compact
	b.units = append(b.units[:pos], b.units[pos+1:]...)
	for i := pos; i < len(b.units); i++ {
		m := b.units[i].base()
		m.pos = i
		b.id2pos[m.id] = i
		b.refs[m.slot].pos = i
	}
	c.pos = -1
	c.slot = -1

	o.invalidatePatches()
}

// UnitExists tells whether a unit with the given id lives in the kind bucket
func (o *Grid) UnitExists(kind Kind, id int) bool {
	_, ok := o.bucketOf(kind).id2pos[id]
	return ok
}

// PosOf returns the current position of the unit with the given id
func (o *Grid) PosOf(kind Kind, id int) int {
	pos, ok := o.bucketOf(kind).id2pos[id]
	if !ok {
		chk.Panic("grid: no unit with id %d exists in kind %d bucket", id, kind)
	}
	return pos
}

// UnitAt returns the unit at a position
func (o *Grid) UnitAt(kind Kind, pos int) Unit {
	b := o.bucketOf(kind)
	if pos < 0 || pos >= len(b.units) {
		chk.Panic("grid: position %d is out of range of kind %d bucket", pos, kind)
	}
	return b.units[pos]
}

// Units returns the bucket sequence of a kind. The slice is owned by the
// grid; callers must not modify it.
func (o *Grid) Units(kind Kind) []Unit { return o.bucketOf(kind).units }

// NumUnits returns the number of live units of a kind
func (o *Grid) NumUnits(kind Kind) int { return len(o.bucketOf(kind).units) }

// RefTo returns a new external handle to a unit living in this grid
func (o *Grid) RefTo(u Unit) URef {
	c := u.base()
	b := o.bucketOf(c.kind)
	if c.pos < 0 || c.pos >= len(b.units) || b.units[c.pos] != u {
		chk.Panic("grid: refTo: unit %d does not live in this grid", c.id)
	}
	return URef{g: o, kind: c.kind, slot: c.slot, gen: b.refs[c.slot].gen}
}

// ParentPos maps a child unit position to the corresponding parent position
func (o *Grid) ParentPos(kind Kind, childPos int) (parentPos int, ok bool) {
	parentPos, ok = o.cp2pp[kind][childPos]
	return
}

// ChildPos maps a parent unit position to the corresponding child position
func (o *Grid) ChildPos(kind Kind, parentPos int) (childPos int, ok bool) {
	childPos, ok = o.pp2cp[kind][parentPos]
	return
}

// patch management /////////////////////////////////////////////////////////

// AddPatch creates a new patch on this grid with an id drawn from the
// vacant-id list (FIFO) if one is available
func (o *Grid) AddPatch() *Patch {
	id := len(o.patches)
	if len(o.vpids) > 0 {
		id = o.vpids[0]
		o.vpids = o.vpids[1:]
	}
	p := &Patch{g: o, id: id, refs: make(map[Kind][]URef)}
	o.patches = append(o.patches, p)
	return p
}

// RemovePatch removes a patch from the grid and returns its id to the
// vacant-id list
func (o *Grid) RemovePatch(patch *Patch) {
	for i, p := range o.patches {
		if p.id == patch.id {
			o.patches = append(o.patches[:i], o.patches[i+1:]...)
			o.vpids = append(o.vpids, patch.id)
			return
		}
	}
	chk.Panic("grid: removePatch: no patch with id %d exists", patch.id)
}

// GetPatch returns the patch with the given id
func (o *Grid) GetPatch(id int) *Patch {
	for _, p := range o.patches {
		if p.id == id {
			return p
		}
	}
	chk.Panic("grid: no patch with id %d exists", id)
	return nil
}

// Patches returns the patches of this grid
func (o *Grid) Patches() []*Patch { return o.patches }

// invalidatePatches marks every currently valid patch stale. Called by any
// mutation that may relocate units.
func (o *Grid) invalidatePatches() {
	for _, p := range o.patches {
		if p.IsUpToDate() {
			p.Invalidate()
		}
	}
}
