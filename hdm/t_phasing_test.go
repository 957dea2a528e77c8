// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hdm

import (
	"sync"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// phaseRec is one observed phase execution
type phaseRec struct {
	ts    uint
	phase int
}

// phaseLog records the executions of one domain (appended only from that
// domain's timestepping goroutine)
type phaseLog struct {
	recs []phaseRec
}

func (o *phaseLog) add(ts uint, phase int) { o.recs = append(o.recs, phaseRec{ts, phase}) }

// checkAscending verifies that a domain visited every phase of every
// timestep exactly once, in (ts, phase) order
func checkAscending(tst *testing.T, msg string, log *phaseLog, nts uint, nph int) {
	chk.IntAssert(len(log.recs), int(nts)*nph)
	k := 0
	for ts := uint(1); ts <= nts; ts++ {
		for p := 0; p < nph; p++ {
			r := log.recs[k]
			if r.ts != ts || r.phase != p {
				tst.Errorf("%s: execution %d is (ts=%d,phase=%d), want (ts=%d,phase=%d)\n",
					msg, k, r.ts, r.phase, ts, p)
				return
			}
			k++
		}
	}
}

func Test_phasing01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("phasing01. sequential mode: a childless root")

	d := NewDomain("solo", "", "/tmp/openhdm/solo")
	d.SetHierarchy(nil)

	log := new(phaseLog)
	d.InsertPhase(NewPhase("first", func(ts uint) { log.add(ts, 0) }))
	d.InsertPhase(NewPhase("second", func(ts uint) { log.add(ts, 1) }))
	chk.IntAssert(d.NPhases(), 2)
	chk.IntAssert(d.cp.ncp, 2)

	d.Timestepping(3)
	checkAscending(tst, "solo", log, 3, 2)
}

func Test_phasing02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("phasing02. progress window of a parent with two children")

	const nts = 3
	const nph = 2

	parent := NewDomain("P", "", "/tmp/openhdm/P")
	childA := NewDomain("A", "", "/tmp/openhdm/A")
	childB := NewDomain("B", "", "/tmp/openhdm/B")
	parent.SetHierarchy(nil)
	childA.SetHierarchy(parent)
	childB.SetHierarchy(parent)

	// bookkeeping shared by the phase bodies: which phases the parent has
	// completed, and any window violations observed
	var mu sync.Mutex
	parentDone := make(map[phaseRec]bool)
	var violations []string

	plog := new(phaseLog)
	alog := new(phaseLog)
	blog := new(phaseLog)

	parentPhase := func(p int) func(ts uint) {
		return func(ts uint) {
			plog.add(ts, p)
			mu.Lock()
			parentDone[phaseRec{ts, p}] = true
			mu.Unlock()
		}
	}
	childPhase := func(d *Domain, log *phaseLog, p int) func(ts uint) {
		return func(ts uint) {
			log.add(ts, p)

			// the parent must have completed this same phase of this same
			// timestep before the child may run it
			mu.Lock()
			if !parentDone[phaseRec{ts, p}] {
				violations = append(violations,
					io.Sf("%s ran (ts=%d,phase=%d) before the parent completed it", d.ID, ts, p))
			}
			mu.Unlock()

			// the progress-window predicate itself, at an instant the
			// scheduler may observe
			pval, _ := parent.Snapshot()
			cval, _ := d.Snapshot()
			if diff := (nph + pval - cval) % nph; diff != 0 && diff != 1 {
				violations = append(violations,
					io.Sf("%s observed window %d", d.ID, diff))
			}
		}
	}

	for p := 0; p < nph; p++ {
		parent.InsertPhase(NewPhase(io.Sf("p%d", p), parentPhase(p)))
		childA.InsertPhase(NewPhase(io.Sf("a%d", p), childPhase(childA, alog, p)))
		childB.InsertPhase(NewPhase(io.Sf("b%d", p), childPhase(childB, blog, p)))
	}

	parent.SetConcurrency(2)
	childA.SetConcurrency(0)
	childB.SetConcurrency(0)

	var wg sync.WaitGroup
	for _, d := range []*Domain{parent, childA, childB} {
		wg.Add(1)
		go func(d *Domain) {
			defer wg.Done()
			d.Timestepping(nts)
		}(d)
	}
	wg.Wait()

	for _, v := range violations {
		tst.Errorf("violation: %s\n", v)
	}
	checkAscending(tst, "parent", plog, nts, nph)
	checkAscending(tst, "childA", alog, nts, nph)
	checkAscending(tst, "childB", blog, nts, nph)
}

func Test_phasing03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("phasing03. single-permit pool keeps the protocol correct")

	const nts = 4
	const nph = 2

	parent := NewDomain("P", "", "/tmp/openhdm/P1")
	child := NewDomain("C", "", "/tmp/openhdm/C1")
	parent.SetHierarchy(nil)
	child.SetHierarchy(parent)

	plog := new(phaseLog)
	clog := new(phaseLog)
	for p := 0; p < nph; p++ {
		p := p
		parent.InsertPhase(NewPhase(io.Sf("p%d", p), func(ts uint) { plog.add(ts, p) }))
		child.InsertPhase(NewPhase(io.Sf("c%d", p), func(ts uint) { clog.add(ts, p) }))
	}

	parent.SetConcurrency(1)
	child.SetConcurrency(0)

	var wg sync.WaitGroup
	for _, d := range []*Domain{parent, child} {
		wg.Add(1)
		go func(d *Domain) {
			defer wg.Done()
			d.Timestepping(nts)
		}(d)
	}
	wg.Wait()

	checkAscending(tst, "parent", plog, nts, nph)
	checkAscending(tst, "child", clog, nts, nph)
}

func Test_phasing04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("phasing04. phase and hierarchy fatals")

	d := NewDomain("D", "", "/tmp/openhdm/D")

	// hierarchy queries before the hierarchy is set
	expectPanic(tst, "isParent unset", func() { d.IsParent() })
	expectPanic(tst, "isChild unset", func() { d.IsChild() })

	// concurrency before the hierarchy is set
	expectPanic(tst, "setConcurrency unset", func() { d.SetConcurrency(1) })

	// parent reassignment
	p1 := NewDomain("P1", "", "/tmp/openhdm/P1x")
	p2 := NewDomain("P2", "", "/tmp/openhdm/P2x")
	d.SetHierarchy(p1)
	expectPanic(tst, "parent reassignment", func() { d.SetHierarchy(p2) })

	// child index out of range
	chk.IntAssert(p1.NChild(), 1)
	if p1.Child(0) != d {
		tst.Errorf("child 0 of P1 must be D\n")
		return
	}
	expectPanic(tst, "child index", func() { p1.Child(1) })
}
