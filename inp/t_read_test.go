// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/google/go-cmp/cmp"
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

func Test_prj01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("prj01. read a project file")

	pin := ReadProject("data/demo.hdm")
	io.Pforan("header    = %q\n", pin.Header)
	io.Pforan("projectID = %q\n", pin.ProjectID)
	io.Pforan("nd        = %d\n", pin.Nd)

	chk.StrAssert(pin.Header, "demo")
	chk.StrAssert(pin.ProjectID, "P")
	chk.IntAssert(pin.Nd, 2)

	want := []DomainRow{
		{DomainID: "A", DomainPath: "/a", OutputDir: "/outA"},
		{DomainID: "B", DomainPath: "/b", OutputDir: "/outB", ParentID: "A"},
	}
	if diff := cmp.Diff(want, pin.Domains); diff != "" {
		tst.Errorf("domain rows mismatch (-want +got):\n%s", diff)
	}
}

func Test_prj02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("prj02. malformed project files abort")

	// a row with five columns
	expectPanic(tst, "five columns", func() { ReadProject("data/bad.hdm") })

	// missing file
	expectPanic(tst, "missing file", func() { ReadProject("data/nosuch.hdm") })

	// fewer rows than declared
	io.WriteStringToFileD("/tmp/openhdm/inp", "short.hdm", "hdr\nP\n3\nA /a /outA\n")
	expectPanic(tst, "short file", func() { ReadProject("/tmp/openhdm/inp/short.hdm") })

	// empty project id
	io.WriteStringToFileD("/tmp/openhdm/inp", "noid.hdm", "hdr\n\n1\nA /a /outA\n")
	expectPanic(tst, "empty project id", func() { ReadProject("/tmp/openhdm/inp/noid.hdm") })
}

func Test_dom01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dom01. read a domain config")

	cfg := ReadDomainConfig("data/domain.yml")
	io.Pforan("cfg = %+v\n", cfg)

	chk.StrAssert(cfg.Desc, "test basin")
	chk.IntAssert(int(cfg.Nts), 10)
	chk.Float64(tst, "dt", 1e-17, cfg.Dt, 5.0)
	chk.IntAssert(cfg.Nnodes, 11)
	chk.Float64(tst, "dx", 1e-17, cfg.Dx, 1000.0)
	chk.Float64(tst, "depth", 1e-17, cfg.Depth, 10.0)
	chk.Float64(tst, "tideamp", 1e-17, cfg.TideAmp, 0.5)
	chk.Float64(tst, "tideperiod", 1e-17, cfg.TidePeriod, 43200.0)
	chk.IntAssert(int(cfg.OutSkip), 5)

	// defaults fill the omitted parameters
	chk.Float64(tst, "drytol default", 1e-17, cfg.DryTol, 0.05)
	chk.Float64(tst, "cf default", 1e-17, cfg.Cf, 0.0025)
}

func Test_dom02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dom02. invalid domain configs abort")

	expectPanic(tst, "nts zero", func() { ReadDomainConfig("data/badnts.yml") })

	io.WriteStringToFileD("/tmp/openhdm/inp", "badnn.yml", "nts: 1\ndt: 1.0\nnnodes: 1\ndx: 1.0\n")
	expectPanic(tst, "one node", func() { ReadDomainConfig("/tmp/openhdm/inp/badnn.yml") })

	io.WriteStringToFileD("/tmp/openhdm/inp", "baddt.yml", "nts: 1\ndt: -1.0\nnnodes: 4\ndx: 1.0\n")
	expectPanic(tst, "negative dt", func() { ReadDomainConfig("/tmp/openhdm/inp/baddt.yml") })
}
