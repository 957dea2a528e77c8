// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package swe implements a minimal one-dimensional shallow-water model on
// top of the OpenHDM runtime. It exists to prove the framework end to end:
// node units in a grid, wetting/drying through patch adjustment, tidal
// forcing at the open boundary, and parent-to-child boundary imposition in
// nested runs.
package swe

import "github.com/atdyer/OpenHDM/grid"

// KindNode is the single unit kind of the shallow-water model
const KindNode grid.Kind = 0

// Node is one point of the line mesh carrying the free-surface elevation
// and the depth-averaged velocity
type Node struct {
	grid.Base
	X   float64 // coordinate [m]
	H   float64 // still-water depth [m]
	Eta float64 // free-surface elevation [m]
	U   float64 // depth-averaged velocity [m/s]
}

// NewNode returns an inactive node
func NewNode(id int, x, h float64, boundary bool) *Node {
	return &Node{Base: grid.NewBase(KindNode, id, boundary), X: x, H: h}
}

// Clone implements grid.Unit; used when a child grid copies this node
// from its parent
func (o *Node) Clone() grid.Unit {
	c := *o
	return &c
}

// Depth returns the total water column height
func (o *Node) Depth() float64 { return o.H + o.Eta }
