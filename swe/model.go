// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swe

import (
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/atdyer/OpenHDM/hdm"
	"github.com/atdyer/OpenHDM/inp"
)

// Model wires a shallow-water solver into the domain lifecycle. It
// implements hdm.Model.
type Model struct {
	D   *hdm.Domain
	Cfg *inp.DomainConfig
	S   *Solver
}

// NewDomain allocates a domain running the shallow-water model. It is the
// hdm.Allocator of swe projects.
func NewDomain(id, path, outputDir string) *hdm.Domain {
	d := hdm.NewDomain(id, path, outputDir)
	d.Mdl = &Model{D: d}
	return d
}

// InstantiateMembers allocates the solver
func (o *Model) InstantiateMembers() error {
	o.S = &Solver{Dom: o.D, Verbose: o.D.Verbose}
	o.D.Sol = o.S
	return nil
}

// ReadInputs loads the domain configuration from domain.yml under the
// domain path
func (o *Model) ReadInputs() error {
	o.Cfg = inp.ReadDomainConfig(filepath.Join(o.D.Path, "domain.yml"))
	o.S.Cfg = o.Cfg
	return nil
}

// DoInitialize wires nested solvers, builds the mesh, and registers the
// phases. Domains are initialized in declaration order, so the parent
// solver is complete before any of its children get here.
func (o *Model) DoInitialize() error {
	if o.D.IsChild() {
		ps, ok := o.D.Parent().Sol.(*Solver)
		if !ok {
			return chk.Err("swe: domain %s: parent domain %s does not run the shallow-water model",
				o.D.ID, o.D.Parent().ID)
		}
		o.S.Parent = ps
	}
	if err := o.S.Initialize(); err != nil {
		return err
	}
	o.D.InsertPhase(hdm.NewPhase("waterLevels", o.S.phaseWaterLevels))
	o.D.InsertPhase(hdm.NewPhase("velocities", o.S.phaseVelocities))
	return nil
}

// PostProcess reports the recorded progress and closes the summary store
func (o *Model) PostProcess() error {
	n, err := o.S.Sum.NumTimesteps(o.D.ID)
	if err != nil {
		return err
	}
	ts, t, found, err := o.S.Sum.LastTimestep(o.D.ID)
	if err != nil {
		return err
	}
	if o.D.Verbose {
		if found {
			io.Pf("swe: %s finished: %d timesteps recorded, last ts=%d at t=%.1f s\n", o.D.ID, n, ts, t)
		} else {
			io.Pf("swe: %s finished: no timesteps recorded\n", o.D.ID)
		}
	}
	return o.S.Sum.Close()
}

// Nts returns the total number of timesteps of this domain
func (o *Model) Nts() uint { return o.Cfg.Nts }
