// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swe

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"

	"github.com/atdyer/OpenHDM/grid"
	"github.com/atdyer/OpenHDM/hdm"
	"github.com/atdyer/OpenHDM/inp"
	"github.com/atdyer/OpenHDM/out"
)

// Grav is the gravitational acceleration [m/s²]
const Grav = 9.81

// Solver holds the grid, the active-region patch, and the numerical
// routines of one shallow-water domain. It implements hdm.Solver.
type Solver struct {
	Dom    *hdm.Domain
	Cfg    *inp.DomainConfig
	Parent *Solver // nil for the root domain

	G   *grid.Grid
	Act *grid.Patch // the wet region

	Tide fun.TimeSpace // open-boundary forcing

	Wr  *out.Writer
	Sum *out.Summary

	T float64 // current simulation time [s]

	nodes   []*Node // mesh-ordered access for stencils
	scratch []float64

	Verbose bool
}

// Initialize builds the mesh, the active patch, the forcing function, and
// the output members. For nested domains the nodes are deep-copied from
// the parent grid so that the position correspondence is recorded.
func (o *Solver) Initialize() (err error) {

	// forcing
	if o.Cfg.TideAmp > 0 {
		if o.Cfg.TidePeriod <= 0 {
			return chk.Err("swe: domain %s: tideperiod must be positive when tideamp is given", o.Dom.ID)
		}
		prms := dbf.Params{
			&dbf.P{N: "a", V: o.Cfg.TideAmp},
			&dbf.P{N: "b", V: 2 * math.Pi / o.Cfg.TidePeriod},
			&dbf.P{N: "c", V: 0},
		}
		o.Tide, err = fun.New("cos", prms)
		if err != nil {
			return chk.Err("swe: domain %s: cannot allocate tidal function: %v", o.Dom.ID, err)
		}
	} else {
		o.Tide = &fun.Zero
	}

	// grid and nodes
	nn := o.Cfg.Nnodes
	if o.Parent == nil {
		o.G = grid.New(KindNode)
		xx := utl.LinSpace(0, o.Cfg.Dx*float64(nn-1), nn)
		for i := 0; i < nn; i++ {
			n := NewNode(i, xx[i], o.Cfg.Depth, i == 0 || i == nn-1)
			o.G.InsertUnit(n)
			o.nodes = append(o.nodes, n)
		}
	} else {
		if o.Cfg.NestOffset+nn > o.Parent.G.NumUnits(KindNode) {
			return chk.Err("swe: domain %s: nest window [%d,%d) exceeds the parent mesh",
				o.Dom.ID, o.Cfg.NestOffset, o.Cfg.NestOffset+nn)
		}
		o.G = grid.NewChild(o.Parent.G)
		for i := 0; i < nn; i++ {
			pu := o.Parent.G.UnitAt(KindNode, o.Cfg.NestOffset+i)
			r := o.G.CopyFromParent(pu)
			u, err := r.Deref()
			if err != nil {
				return chk.Err("swe: domain %s: cannot dereference copied node: %v", o.Dom.ID, err)
			}
			o.nodes = append(o.nodes, u.(*Node))
		}
	}

	// active region
	o.Act = o.G.AddPatch()
	o.scratch = make([]float64, nn)
	la.VecFill(o.scratch, 0)

	// output members
	key := o.Cfg.OutKey
	if key == "" {
		key = o.Dom.ID
	}
	o.Wr = out.NewWriter(o.Dom.OutputDir, key)
	o.Sum, err = out.OpenSummary(o.Dom.OutputDir, key)
	if err != nil {
		return chk.Err("swe: domain %s: cannot open summary store: %v", o.Dom.ID, err)
	}
	return
}

// AdjustPatches re-expresses the wet region at the start of timestep ts:
// nodes with enough water are included, nodes that dried are excluded.
// The patch is validated and unlocked afterwards.
func (o *Solver) AdjustPatches(ts uint) {
	for _, n := range o.nodes {
		wet := n.Depth() > o.Cfg.DryTol
		switch {
		case wet && !n.IsActive():
			o.Act.IncludeUnit(o.G.RefTo(n), ts)
		case !wet && n.IsActive():
			o.Act.ExcludeUnit(o.G.RefTo(n))
		}
	}
	o.Act.Validate()
	o.Act.Unlock()
}

// ImposePatchBCs transfers boundary data onto the patch. The root domain
// forces the tide at its open boundary; a child domain pulls the state of
// its interface nodes from the parent grid through the position maps.
// Phase 0 transfers water levels, phase 1 velocities.
func (o *Solver) ImposePatchBCs(phase int) {
	if o.Parent == nil {
		if phase == 0 {
			o.nodes[0].Eta = o.Tide.F(o.T, nil)
		}
		return
	}
	for _, i := range []int{0, len(o.nodes) - 1} {
		cn := o.nodes[i]
		ppos, ok := o.G.ParentPos(KindNode, cn.Pos())
		if !ok {
			chk.Panic("swe: domain %s: node %d has no parent correspondence", o.Dom.ID, cn.ID())
		}
		pn := o.Parent.G.UnitAt(KindNode, ppos).(*Node)
		if phase == 0 {
			cn.Eta = pn.Eta
		} else {
			cn.U = pn.U
		}
	}
}

// phaseWaterLevels is the first phase of a timestep: adjust the wet
// region, impose water-level boundary data, and advance the continuity
// equation on the interior of the patch.
func (o *Solver) phaseWaterLevels(ts uint) {
	o.T = float64(ts) * o.Cfg.Dt
	o.AdjustPatches(ts)
	o.ImposePatchBCs(0)

	nn := len(o.nodes)
	for i := 1; i < nn-1; i++ {
		n := o.nodes[i]
		o.scratch[i] = n.Eta
		if !n.IsActive() {
			continue
		}
		l, r := o.nodes[i-1], o.nodes[i+1]
		dudx := (r.U - l.U) / (2 * o.Cfg.Dx)
		o.scratch[i] = n.Eta - o.Cfg.Dt*n.H*dudx
	}
	for i := 1; i < nn-1; i++ {
		o.nodes[i].Eta = o.scratch[i]
	}
}

// phaseVelocities is the second phase of a timestep: impose velocity
// boundary data, advance the momentum equation, and write results.
func (o *Solver) phaseVelocities(ts uint) {
	o.ImposePatchBCs(1)

	nn := len(o.nodes)
	for i := 1; i < nn-1; i++ {
		n := o.nodes[i]
		o.scratch[i] = n.U
		if !n.IsActive() {
			continue
		}
		l, r := o.nodes[i-1], o.nodes[i+1]
		detadx := (r.Eta - l.Eta) / (2 * o.Cfg.Dx)
		o.scratch[i] = n.U - o.Cfg.Dt*(Grav*detadx+o.Cfg.Cf*n.U)
	}
	for i := 1; i < nn-1; i++ {
		o.nodes[i].U = o.scratch[i]
	}

	// the landward end of the root mesh is closed
	if o.Parent == nil {
		o.nodes[nn-1].U = 0
	}

	o.writeResults(ts)
}

// writeResults stores the water-level snapshot and the summary record of
// timestep ts
func (o *Solver) writeResults(ts uint) {
	etas := make([]float64, len(o.nodes))
	for i, n := range o.nodes {
		etas[i] = n.Eta
	}
	if o.Cfg.OutSkip > 0 && ts%o.Cfg.OutSkip == 0 {
		if err := o.Wr.WriteSnapshot(ts, etas); err != nil {
			chk.Panic("swe: domain %s: %v", o.Dom.ID, err)
		}
	}
	if err := o.Sum.RecordTimestep(o.Dom.ID, ts, o.T); err != nil {
		chk.Panic("swe: domain %s: %v", o.Dom.ID, err)
	}
	if o.Verbose {
		io.Pf("swe: %s ts=%d t=%.1f max(eta)=%.4f mean(eta)=%.4f nwet=%d\n",
			o.Dom.ID, ts, o.T, floats.Max(etas), stat.Mean(etas, nil), o.Act.NumUnits(KindNode))
	}
}

// Nodes returns the mesh-ordered nodes
func (o *Solver) Nodes() []*Node { return o.nodes }
