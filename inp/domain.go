// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"gopkg.in/yaml.v3"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// DomainConfig holds the model parameters of one domain, read from the
// domain.yml file under the domain path.
type DomainConfig struct {

	// global information
	Desc   string `yaml:"desc"`   // description of the domain
	OutKey string `yaml:"outkey"` // file name key for results; defaults to the domain id

	// timestepping
	Nts uint    `yaml:"nts"` // total number of timesteps
	Dt  float64 `yaml:"dt"`  // timestep size [s]

	// mesh
	Nnodes int     `yaml:"nnodes"` // number of nodes on the line mesh
	Dx     float64 `yaml:"dx"`     // node spacing [m]
	Depth  float64 `yaml:"depth"`  // still-water depth [m]

	// physics
	Cf float64 `yaml:"cf"` // linear bottom-friction coefficient [1/s]

	// wetting and drying
	DryTol float64 `yaml:"drytol"` // minimum wet depth [m]

	// open-boundary tidal forcing
	TideAmp    float64 `yaml:"tideamp"`    // amplitude [m]
	TidePeriod float64 `yaml:"tideperiod"` // period [s]

	// nesting: first parent node covered by this (child) domain
	NestOffset int `yaml:"nestoffset"`

	// output
	OutSkip uint `yaml:"outskip"` // write a snapshot every OutSkip timesteps; 0 disables
}

// ReadDomainConfig reads and validates a domain configuration file
func ReadDomainConfig(path string) (o *DomainConfig) {
	b := io.ReadFile(path)
	o = new(DomainConfig)
	if err := yaml.Unmarshal(b, o); err != nil {
		chk.Panic("inp: cannot unmarshal domain config %q:\n%v", path, err)
	}

	// defaults
	if o.DryTol == 0 {
		o.DryTol = 0.05
	}
	if o.Cf == 0 {
		o.Cf = 0.0025
	}

	// validation
	if o.Nts < 1 {
		chk.Panic("inp: domain config %q: nts must be at least 1", path)
	}
	if o.Dt <= 0 {
		chk.Panic("inp: domain config %q: dt must be positive", path)
	}
	if o.Nnodes < 2 {
		chk.Panic("inp: domain config %q: nnodes must be at least 2", path)
	}
	if o.Dx <= 0 {
		chk.Panic("inp: domain config %q: dx must be positive", path)
	}
	if o.NestOffset < 0 {
		chk.Panic("inp: domain config %q: nestoffset must not be negative", path)
	}
	return
}
