// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp implements the input files read by OpenHDM projects: the
// line-oriented project file listing the domains of a run, and the
// per-domain model configuration.
package inp

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// DomainRow is one domain declaration in a project file. A row has three
// whitespace-separated columns for a root domain and four for a child:
//
//	domainID domainPath outputDir [parentID]
type DomainRow struct {
	DomainID   string
	DomainPath string
	OutputDir  string
	ParentID   string // empty for root domains
}

// ProjectInput holds the contents of a project file:
//
//	free-text header line
//	projectID
//	nd
//	nd domain rows
type ProjectInput struct {
	Path      string
	Header    string
	ProjectID string
	Nd        int
	Domains   []DomainRow
}

// FileTitle returns the file name key of the project file
func (o *ProjectInput) FileTitle() string { return io.FnKey(o.Path) }

// ReadProject reads a project file. Parents must be declared before their
// children; that ordering is enforced later, when the project builds its
// domains from this input. Any malformed row is fatal.
func ReadProject(path string) (o *ProjectInput) {
	b := io.ReadFile(path)

	lines := strings.Split(string(b), "\n")
	if len(lines) < 3 {
		chk.Panic("inp: project file %q must have a header, a project id, and a domain count", path)
	}

	o = &ProjectInput{
		Path:      path,
		Header:    strings.TrimSpace(lines[0]),
		ProjectID: strings.TrimSpace(lines[1]),
		Nd:        io.Atoi(strings.TrimSpace(lines[2])),
	}
	if o.ProjectID == "" {
		chk.Panic("inp: project file %q has an empty project id", path)
	}
	if o.Nd < 0 {
		chk.Panic("inp: project file %q declares a negative number of domains", path)
	}
	if len(lines) < 3+o.Nd {
		chk.Panic("inp: project file %q declares %d domains but defines only %d", path, o.Nd, len(lines)-3)
	}

	for i := 0; i < o.Nd; i++ {
		fields := strings.Fields(lines[3+i])
		switch len(fields) {
		case 3:
			o.Domains = append(o.Domains, DomainRow{
				DomainID:   fields[0],
				DomainPath: fields[1],
				OutputDir:  fields[2],
			})
		case 4:
			o.Domains = append(o.Domains, DomainRow{
				DomainID:   fields[0],
				DomainPath: fields[1],
				OutputDir:  fields[2],
				ParentID:   fields[3],
			})
		case 0:
			chk.Panic("inp: project file %q: domain row %d is empty", path, i+1)
		default:
			chk.Panic("inp: project file %q: domain %s: a row must have 3 or 4 columns, not %d",
				path, fields[0], len(fields))
		}
	}
	return
}
