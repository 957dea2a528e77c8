// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hdm

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// expectPanic runs fcn and fails the test if it does not panic
func expectPanic(tst *testing.T, msg string, fcn func()) {
	defer func() {
		if recover() == nil {
			tst.Errorf("%s: panic did not occur\n", msg)
		}
	}()
	fcn()
}

func Test_cp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cp01. control point counting")

	cp := NewControlPoint()
	cp.ncp = 3
	chk.IntAssert(cp.Val(), -1)
	if !cp.IsDone() {
		tst.Errorf("a fresh control point must be done\n")
		return
	}

	// increments count phases modulo ncp and clear the done flag
	vals := []int{0, 1, 2, 0, 1}
	for _, want := range vals {
		cp.Increment()
		chk.IntAssert(cp.Val(), want)
		if cp.IsDone() {
			tst.Errorf("increment must clear the done flag\n")
			return
		}
		cp.MarkDone()
		if !cp.IsDone() {
			tst.Errorf("markDone must set the done flag\n")
			return
		}
	}
	chk.IntAssert(cp.Ncp(), 3)
}

func Test_pool01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pool01. the pool bounds concurrency")

	pool := NewPool(1)
	chk.IntAssert(pool.Nprocs(), 1)

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				pool.Acquire()
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				atomic.AddInt32(&inside, -1)
				pool.Release()
			}
		}()
	}
	wg.Wait()

	if maxInside > 1 {
		tst.Errorf("pool with one permit admitted %d concurrent holders\n", maxInside)
	}
}
