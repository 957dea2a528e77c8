// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hdm

import (
	"runtime"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/atdyer/OpenHDM/inp"
	"github.com/atdyer/OpenHDM/out"
)

// Allocator constructs a model-specific domain. Implementations set the
// Mdl (and usually Sol) collaborators of the returned domain.
type Allocator func(id, path, outputDir string) *Domain

// Project is the main driver of concurrent simulations. A single Project
// instance owns the domains of a run and coordinates their hierarchy,
// concurrency, and timestepping.
type Project struct {

	// input parameters
	ID      string
	Verbose bool

	// timestepping parameters shared by all domains
	Nts     uint
	NPhases int

	domains        []*Domain
	hierarchyTable map[string]string // child id => parent id
}

// NewProject builds a project and the domains declared in the project
// input, in declaration order. Parents must be declared before their
// children.
func NewProject(pin *inp.ProjectInput, alloc Allocator) (o *Project) {
	o = &Project{
		ID:             pin.ProjectID,
		hierarchyTable: make(map[string]string),
	}
	for _, row := range pin.Domains {
		if row.ParentID != "" {
			if o.GetDomain(row.ParentID) == nil {
				chk.Panic("project %s: parent domain %s of child domain %s is not declared yet. ensure that %s is declared before %s",
					o.ID, row.ParentID, row.DomainID, row.ParentID, row.DomainID)
			}
			o.hierarchyTable[row.DomainID] = row.ParentID
		}
		o.AddDomain(alloc(row.DomainID, row.DomainPath, row.OutputDir))
	}
	return
}

// AddDomain registers a domain. Domain ids and output directories must be
// unique across the project.
func (o *Project) AddDomain(d *Domain) {
	for _, e := range o.domains {
		if e.ID == d.ID {
			chk.Panic("project %s: domain id %q is used multiple times", o.ID, d.ID)
		}
		if e.OutputDir == d.OutputDir {
			chk.Panic("project %s: output directory %q is used multiple times", o.ID, d.OutputDir)
		}
	}
	o.domains = append(o.domains, d)
}

// RemoveDomain removes a domain from the project
func (o *Project) RemoveDomain(domainID string) {
	for i, d := range o.domains {
		if d.ID == domainID {
			o.domains = append(o.domains[:i], o.domains[i+1:]...)
			return
		}
	}
	chk.Panic("project %s: no domain with id %q exists", o.ID, domainID)
}

// GetDomain returns the domain with the given id, or nil
func (o *Project) GetDomain(domainID string) *Domain {
	for _, d := range o.domains {
		if d.ID == domainID {
			return d
		}
	}
	return nil
}

// Domains returns the domains in declaration order
func (o *Project) Domains() []*Domain { return o.domains }

// Nd returns the number of domains
func (o *Project) Nd() int { return len(o.domains) }

// Run performs the simulation of all domains in the project:
// hierarchy => concurrency => member instantiation => inputs =>
// initialization => timestepping => post-processing.
func (o *Project) Run(nProcTotal, nProcChild int) {

	// 1. initialize
	if o.Verbose {
		io.Pf("project %s: run is initializing\n", o.ID)
	}
	o.setDomainHierarchy()
	o.setDomainConcurrency(nProcTotal, nProcChild)

	for _, d := range o.domains {
		out.EnsureDir(d.OutputDir)
		if err := d.Mdl.InstantiateMembers(); err != nil {
			chk.Panic("project %s: cannot instantiate members of domain %s:\n%v", o.ID, d.ID, err)
		}
	}
	for _, d := range o.domains {
		if err := d.Mdl.ReadInputs(); err != nil {
			chk.Panic("project %s: cannot read inputs of domain %s:\n%v", o.ID, d.ID, err)
		}
	}
	for _, d := range o.domains {
		d.Initialize()
	}
	o.processTimesteppingParams()

	// 2. timestepping
	if o.Verbose {
		io.Pf("project %s: timestepping is starting\n", o.ID)
	}
	o.initiateTimestepping()

	// 3. finalize
	if o.Verbose {
		io.Pf("project %s: run is finalizing\n", o.ID)
	}
	for _, d := range o.domains {
		if err := d.Mdl.PostProcess(); err != nil {
			chk.Panic("project %s: cannot post-process domain %s:\n%v", o.ID, d.ID, err)
		}
	}
}

// setDomainHierarchy resolves the parent ids recorded at input time
func (o *Project) setDomainHierarchy() {
	for _, d := range o.domains {
		if parentID, ok := o.hierarchyTable[d.ID]; ok {
			d.SetHierarchy(o.GetDomain(parentID))
		} else {
			d.SetHierarchy(nil)
		}
	}
}

// setDomainConcurrency clamps the processor counts, splits them between
// the inter-domain pool and intra-domain budgets, and allocates the
// phasing primitives of the root and its children.
func (o *Project) setDomainConcurrency(nProcTotal, nProcChild int) {

	// clamp to the machine
	if nc := runtime.NumCPU(); nProcTotal > nc-1 {
		io.Pfred("project %s: warning: nProcTotal=%d is greater than the number of available threads=%d minus one; setting it to %d\n",
			o.ID, nProcTotal, nc, nc-1)
		nProcTotal = nc - 1
	}
	if nProcTotal < 1 {
		nProcTotal = 1
	}
	if nProcChild >= nProcTotal {
		io.Pfred("project %s: warning: nProcChild=%d must be smaller than nProcTotal=%d; setting it to %d\n",
			o.ID, nProcChild, nProcTotal, nProcTotal-1)
		nProcChild = nProcTotal - 1
	}

	// no child domains anywhere: every domain runs sequentially with the
	// whole budget and no inter-domain pool is created
	roots, nested := o.rootDomains()
	if !nested {
		if nProcChild > 0 {
			io.Pfred("project %s: warning: nProcChild=%d is given but no domain has children\n",
				o.ID, nProcChild)
		}
		for _, d := range roots {
			d.NprocIntra = nProcTotal
		}
		return
	}

	// concurrent mode: a single root owns the phasing primitives
	if len(roots) > 1 {
		chk.Panic("project %s: only one parent domain can be executed during concurrent runs", o.ID)
	}
	root := roots[0]

	// split the budget between the inter-domain pool and the root's
	// intra-domain share
	nProcInter := utl.Imax(1, nProcTotal/2)
	if nProcChild > 0 {
		nProcInter = nProcChild + 1
	}
	root.NprocIntra = utl.Imax(1, nProcTotal-nProcInter+1)

	root.SetConcurrency(nProcInter)
	for i := 0; i < root.NChild(); i++ {
		child := root.Child(i)
		child.SetConcurrency(0)
		child.NprocIntra = 1
	}
}

// rootDomains returns the parent domains and whether any of them has
// children (i.e. whether the run uses the concurrent protocol)
func (o *Project) rootDomains() (roots []*Domain, nested bool) {
	for _, d := range o.domains {
		if d.IsParent() {
			roots = append(roots, d)
			if d.NChild() > 0 {
				nested = true
			}
		}
	}
	if len(roots) == 0 {
		chk.Panic("project %s: the project has no root domain", o.ID)
	}
	return
}

// processTimesteppingParams reads nts and nPhases from the first domain
// and ensures they are the same for all domains. Must be called after the
// domains are initialized.
func (o *Project) processTimesteppingParams() {
	if len(o.domains) == 0 {
		chk.Panic("project %s: the project has no domains instantiated", o.ID)
	}
	o.Nts = o.domains[0].Mdl.Nts()
	o.NPhases = o.domains[0].NPhases()
	for _, d := range o.domains {
		if d.Mdl.Nts() != o.Nts {
			chk.Panic("project %s: nts of %s is not the same as the previous domain(s)", o.ID, d.ID)
		}
		if d.NPhases() != o.NPhases {
			chk.Panic("project %s: nPhases of %s is not the same as the previous domain(s)", o.ID, d.ID)
		}
	}
}

// initiateTimestepping spawns one timestepping task per domain and waits
// for all of them
func (o *Project) initiateTimestepping() {
	var wg sync.WaitGroup
	for _, d := range o.domains {
		wg.Add(1)
		go func(d *Domain) {
			defer wg.Done()
			d.Timestepping(o.Nts)
		}(d)
	}
	wg.Wait()
}
