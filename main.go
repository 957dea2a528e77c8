// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/atdyer/OpenHDM/hdm"
	"github.com/atdyer/OpenHDM/inp"
	"github.com/atdyer/OpenHDM/swe"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".hdm", true)
	nProcTotal := io.ArgToInt(1, 2)
	nProcChild := io.ArgToInt(2, 0)
	verbose := io.ArgToBool(3, true)

	// message
	if verbose {
		io.PfWhite("\nOpenHDM -- Hierarchical Hydrodynamic Models\n\n")
		io.Pf("%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"project file path", "fnamepath", fnamepath,
			"total number of processors", "nProcTotal", nProcTotal,
			"processors for child domains", "nProcChild", nProcChild,
			"show messages", "verbose", verbose,
		))
	}

	// build and run the project
	pin := inp.ReadProject(fnamepath)
	prj := hdm.NewProject(pin, func(id, path, outputDir string) *hdm.Domain {
		d := swe.NewDomain(id, path, outputDir)
		d.Verbose = verbose
		return d
	})
	prj.Verbose = verbose
	prj.Run(nProcTotal, nProcChild)

	if verbose {
		io.PfGreen("\n> Success\n")
	}
}
