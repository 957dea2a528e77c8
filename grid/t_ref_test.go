// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_ref01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ref01. relocation revalidates external handles")

	g := New(kindNode)
	for i := 0; i < 3; i++ {
		g.InsertUnit(newTestNode(i, float64(i)))
	}

	// external handle on the unit at position 1
	h := g.RefTo(g.UnitAt(kindNode, 1))
	if !h.IsBound() {
		tst.Errorf("handle must be bound\n")
		return
	}

	// growing the bucket must not unbind the handle
	g.InsertUnit(newTestNode(3, 3))
	u, err := h.Deref()
	if err != nil {
		tst.Errorf("handle went stale after growth: %v\n", err)
		return
	}
	chk.IntAssert(u.(*testNode).ID(), 1)

	// relocating the unit (removal before it) must not unbind the handle
	g.RemoveUnit(g.UnitAt(kindNode, 0))
	u, err = h.Deref()
	if err != nil {
		tst.Errorf("handle went stale after relocation: %v\n", err)
		return
	}
	chk.IntAssert(u.(*testNode).ID(), 1)
	chk.IntAssert(u.base().Pos(), 0)

	// removing the unit itself unbinds the handle
	g.RemoveUnit(u)
	if _, err := h.Deref(); err != ErrInvalidatedRef {
		tst.Errorf("expected ErrInvalidatedRef, got %v\n", err)
	}
}

func Test_ref02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ref02. handle state machine: bound, reset, move")

	g := New(kindNode)
	g.InsertUnit(newTestNode(0, 0))
	g.InsertUnit(newTestNode(1, 1))

	a := g.RefTo(g.UnitAt(kindNode, 0))
	b := g.RefTo(g.UnitAt(kindNode, 1))

	// the zero handle is reset
	var z URef
	if z.IsBound() {
		tst.Errorf("zero handle must be reset\n")
		return
	}
	if _, err := z.Deref(); err != ErrInvalidatedRef {
		tst.Errorf("expected ErrInvalidatedRef, got %v\n", err)
		return
	}

	// moving transfers the binding and resets the source
	if err := z.MoveFrom(&a); err != nil {
		tst.Errorf("move failed: %v\n", err)
		return
	}
	if !z.IsBound() || a.IsBound() {
		tst.Errorf("move must bind the target and reset the source\n")
		return
	}
	u, err := z.Deref()
	if err != nil {
		tst.Errorf("moved handle must dereference: %v\n", err)
		return
	}
	chk.IntAssert(u.(*testNode).ID(), 0)

	// self move-assignment is rejected
	if err := b.MoveFrom(&b); err != ErrSelfAssignment {
		tst.Errorf("expected ErrSelfAssignment, got %v\n", err)
		return
	}
	if !b.IsBound() {
		tst.Errorf("rejected self-move must leave the handle bound\n")
		return
	}

	// reset is idempotent
	b.Reset()
	b.Reset()
	if b.IsBound() {
		tst.Errorf("reset handle must not be bound\n")
	}
}

func Test_ref03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ref03. equality compares identity")

	g := New(kindNode)
	g.InsertUnit(newTestNode(0, 0))
	g.InsertUnit(newTestNode(1, 1))

	a1 := g.RefTo(g.UnitAt(kindNode, 0))
	a2 := g.RefTo(g.UnitAt(kindNode, 0))
	b := g.RefTo(g.UnitAt(kindNode, 1))

	if !a1.Equal(a2) {
		tst.Errorf("handles to the same unit must be equal\n")
		return
	}
	if a1.Equal(b) {
		tst.Errorf("handles to different units must not be equal\n")
		return
	}

	// a copy of a handle is an independent, equal handle
	c := a1
	if !c.Equal(a1) {
		tst.Errorf("copied handle must be equal to the original\n")
		return
	}
	c.Reset()
	if !a1.IsBound() {
		tst.Errorf("resetting a copy must not affect the original\n")
	}
}
