// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hdm

import "sync"

// ControlPoint marks the point at which a domain is within a phase of a
// timestep. val counts phases modulo ncp; done tells whether the current
// phase has finished. Both fields are guarded by the enclosing domain
// mutex: the ControlPoint carries no synchronization of its own.
type ControlPoint struct {
	ncp  int // number of control points at which domains synchronize
	val  int // current control point
	done bool
}

// NewControlPoint returns a control point positioned before the first phase
func NewControlPoint() ControlPoint {
	return ControlPoint{val: -1, done: true}
}

// Increment moves to the next control point and marks it unfinished
func (o *ControlPoint) Increment() {
	o.val = (o.val + 1) % o.ncp
	o.done = false
}

// MarkDone flags the current phase as finished
func (o *ControlPoint) MarkDone() { o.done = true }

// Val returns the current control point
func (o *ControlPoint) Val() int { return o.val }

// IsDone tells whether the current phase has finished
func (o *ControlPoint) IsDone() bool { return o.done }

// Ncp returns the number of control points
func (o *ControlPoint) Ncp() int { return o.ncp }

// Pool allocates the inter-domain processors among concurrent domains: a
// domain acquires one permit for the duration of each phase it executes.
type Pool struct {
	mu        sync.Mutex
	cond      *sync.Cond
	nprocs    int
	remaining int
}

// NewPool returns a pool holding nprocs permits
func NewPool(nprocs int) (o *Pool) {
	o = &Pool{nprocs: nprocs, remaining: nprocs}
	o.cond = sync.NewCond(&o.mu)
	return
}

// Nprocs returns the pool capacity
func (o *Pool) Nprocs() int { return o.nprocs }

// Acquire blocks until a permit is available and claims it
func (o *Pool) Acquire() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for o.remaining == 0 {
		o.cond.Wait()
	}
	o.remaining--
}

// Release returns a permit to the pool
func (o *Pool) Release() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.remaining++
	o.cond.Broadcast()
}
