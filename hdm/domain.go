// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hdm implements the runtime skeleton of hierarchical multi-domain
// hydrodynamic simulations: domains, phased concurrent timestepping, and
// the project driver coordinating them.
package hdm

import (
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Domain encapsulates one model instance with a distinct set of inputs, a
// computational grid, and outputs. General tasks regarding hierarchy,
// phasing, and multithreading are implemented here; model-specific tasks
// are delegated to the Model and Solver collaborators.
type Domain struct {

	// input parameters
	ID        string
	Path      string
	OutputDir string

	// collaborators
	Mdl Model
	Sol Solver

	Verbose bool

	// hierarchy: the project owns all domains; these links are navigation
	// only (child => parent and parent => child never form an ownership
	// cycle)
	parent   *Domain
	children []*Domain

	// phases and control point
	phases []Phase
	cp     ControlPoint

	// multithreading: a parent owns the pool, the mutex, and both
	// condition variables; its children share them
	pool          *Pool
	mu            *sync.Mutex
	cond          *sync.Cond // waited on by this domain
	cond4children *sync.Cond // waited on by the children (parent only)
	childCPs      []*ControlPoint

	// NprocIntra is the processor budget phase bodies of this domain may
	// use for intra-domain parallelism
	NprocIntra int

	initialized  bool
	hierarchySet bool
}

// NewDomain constructs an empty domain. Hierarchy, concurrency, and
// members are wired later by the project.
func NewDomain(id, path, outputDir string) *Domain {
	return &Domain{
		ID:         id,
		Path:       path,
		OutputDir:  outputDir,
		cp:         NewControlPoint(),
		NprocIntra: 1,
	}
}

// InsertPhase appends a phase to the domain. Each phase is executed once
// per timestep, in insertion order.
func (o *Domain) InsertPhase(p Phase) {
	o.phases = append(o.phases, p)
	o.cp.ncp++
	if o.cp.ncp != len(o.phases) {
		chk.Panic("domain %s: the number of phases and the number of control points are inconsistent", o.ID)
	}
}

// NPhases returns the number of phases per timestep
func (o *Domain) NPhases() int { return len(o.phases) }

// Phases returns the registered phases in insertion order
func (o *Domain) Phases() []Phase { return o.phases }

// hierarchy ////////////////////////////////////////////////////////////////

// SetHierarchy wires this domain into the hierarchy. With a parent, the
// domain is attached as its child; either way the hierarchy is marked set.
func (o *Domain) SetHierarchy(parent *Domain) {
	if parent != nil {
		parent.addChild(o)
		if o.Verbose {
			io.Pf("domain %s: child of %s\n", o.ID, parent.ID)
		}
	}
	o.hierarchySet = true
}

func (o *Domain) addChild(child *Domain) {
	o.children = append(o.children, child)
	child.setParent(o)
	o.hierarchySet = true
}

func (o *Domain) setParent(parent *Domain) {
	if o.parent != nil {
		chk.Panic("domain %s: parent domain is already set", o.ID)
	}
	o.parent = parent
	o.hierarchySet = true
}

// IsParent tells whether this domain has no parent
func (o *Domain) IsParent() bool {
	if !o.hierarchySet {
		chk.Panic("domain %s: hierarchy is not set yet", o.ID)
	}
	return o.parent == nil
}

// IsChild tells whether this domain has a parent
func (o *Domain) IsChild() bool {
	if !o.hierarchySet {
		chk.Panic("domain %s: hierarchy is not set yet", o.ID)
	}
	return o.parent != nil
}

// HierarchyIsSet tells whether SetHierarchy was called
func (o *Domain) HierarchyIsSet() bool { return o.hierarchySet }

// Parent returns the parent domain, or nil
func (o *Domain) Parent() *Domain { return o.parent }

// NChild returns the number of child domains
func (o *Domain) NChild() int { return len(o.children) }

// Child returns the i-th child domain
func (o *Domain) Child(i int) *Domain {
	if i < 0 || i >= len(o.children) {
		chk.Panic("domain %s: child domain index %d is invalid", o.ID, i)
	}
	return o.children[i]
}

// initialization ///////////////////////////////////////////////////////////

// Initialize finalizes the domain initialization; called by the project
// before timestepping begins
func (o *Domain) Initialize() {
	if err := o.Mdl.DoInitialize(); err != nil {
		chk.Panic("domain %s: initialization failed:\n%v", o.ID, err)
	}
	o.initialized = true
}

// IsInitialized tells whether Initialize has completed
func (o *Domain) IsInitialized() bool { return o.initialized }

// concurrency //////////////////////////////////////////////////////////////

// SetConcurrency allocates the phasing primitives. A parent creates the
// pool (with nProcInter permits), the mutex, and the condition variables;
// a child shares its parent's and registers its control point with the
// parent. The hierarchy must be set first.
func (o *Domain) SetConcurrency(nProcInter int) {
	if !o.hierarchySet {
		chk.Panic("domain %s: concurrency configuration requires the hierarchy to be set", o.ID)
	}
	if o.IsParent() {
		o.pool = NewPool(nProcInter)
		o.mu = new(sync.Mutex)
		o.cond = sync.NewCond(o.mu)
		o.cond4children = sync.NewCond(o.mu)
		return
	}
	p := o.parent
	o.pool = p.pool
	o.mu = p.mu
	o.cond = p.cond4children // the child waits where the parent notifies
	p.childCPs = append(p.childCPs, &o.cp)
}

// Snapshot returns the control-point state under the domain mutex. Without
// concurrency configured (sequential mode) the state is read directly.
func (o *Domain) Snapshot() (val int, done bool) {
	if o.mu == nil {
		return o.cp.val, o.cp.done
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cp.val, o.cp.done
}

// timestepping /////////////////////////////////////////////////////////////

// Timestepping executes nts timesteps, each visiting every phase exactly
// once in insertion order. A parent with no children runs sequentially;
// any domain participating in a hierarchy runs the phasing protocol.
func (o *Domain) Timestepping(nts uint) {
	if o.Verbose {
		io.Pf("domain %s: initiating timestepping\n", o.ID)
	}
	if o.IsParent() && len(o.children) == 0 {
		for ts := uint(1); ts <= nts; ts++ {
			for _, p := range o.phases {
				p.Run(ts)
			}
		}
		return
	}
	for ts := uint(1); ts <= nts; ts++ {
		for _, p := range o.phases {
			o.phaseCheck()
			p.Run(ts)
			o.completePhase()
		}
	}
}

// phaseCheck blocks until the progress-window rule admits the next phase,
// then claims the control point and one pool permit.
//
// A parent may proceed when every child has reached the same control
// point. A child may proceed when the parent is at least two phases ahead,
// or exactly one phase ahead with that phase finished, so the child always
// sees parent state from the current or immediately preceding phase.
func (o *Domain) phaseCheck() {
	if o.IsParent() {
		o.mu.Lock()
		for !o.childrenAtSamePoint() {
			o.cond.Wait()
		}
		o.cp.Increment()
		o.cond4children.Broadcast()
		o.pool.Acquire()
		o.mu.Unlock()
		return
	}
	o.mu.Lock()
	for !o.parentIsAhead() {
		o.cond.Wait()
	}
	o.cp.Increment()
	o.parent.cond.Signal()
	o.pool.Acquire()
	o.mu.Unlock()
}

// childrenAtSamePoint evaluates the parent's progress-window predicate.
// Caller must hold the domain mutex.
func (o *Domain) childrenAtSamePoint() bool {
	for _, ccp := range o.childCPs {
		if (o.cp.ncp+o.cp.val-ccp.val)%o.cp.ncp > 0 {
			return false
		}
	}
	return true
}

// parentIsAhead evaluates the child's progress-window predicate. Caller
// must hold the domain mutex.
func (o *Domain) parentIsAhead() bool {
	d := (o.cp.ncp + o.parent.cp.val - o.cp.val) % o.cp.ncp
	return d > 1 || (d == 1 && o.parent.cp.done)
}

// completePhase releases the pool permit and signals phase completion
func (o *Domain) completePhase() {
	o.pool.Release()
	o.mu.Lock()
	o.cp.MarkDone()
	if o.IsParent() {
		o.cond4children.Broadcast()
	} else {
		o.parent.cond.Signal()
	}
	o.mu.Unlock()
}
