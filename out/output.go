// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package out implements results output for OpenHDM domains: output
// directory handling, compressed field snapshots, and the run-summary
// store.
package out

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"

	"github.com/DataDog/zstd"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// EnsureDir creates dir (and any missing parents) with permissions 0744
func EnsureDir(dir string) {
	if err := os.MkdirAll(dir, 0744); err != nil {
		chk.Panic("out: cannot create output directory %q:\n%v", dir, err)
	}
}

// Writer writes timestep snapshots of a scalar field to a domain's output
// directory as zstd-compressed little-endian payloads
type Writer struct {
	Dir string // output directory
	Key string // file name key; e.g. the domain id
}

// NewWriter returns a snapshot writer rooted at dir
func NewWriter(dir, key string) *Writer {
	EnsureDir(dir)
	return &Writer{Dir: dir, Key: key}
}

// SnapshotFilename returns the snapshot file name for timestep ts
func (o *Writer) SnapshotFilename(ts uint) string {
	return filepath.Join(o.Dir, io.Sf("%s_%08d.zst", o.Key, ts))
}

// WriteSnapshot stores vals as the snapshot of timestep ts
func (o *Writer) WriteSnapshot(ts uint, vals []float64) (err error) {
	raw := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(raw[8*i:], math.Float64bits(v))
	}
	compressed, err := zstd.Compress(nil, raw)
	if err != nil {
		return chk.Err("out: cannot compress snapshot ts=%d of %s: %v", ts, o.Key, err)
	}
	return os.WriteFile(o.SnapshotFilename(ts), compressed, 0644)
}

// ReadSnapshot loads the snapshot of timestep ts
func (o *Writer) ReadSnapshot(ts uint) (vals []float64, err error) {
	b, err := os.ReadFile(o.SnapshotFilename(ts))
	if err != nil {
		return nil, chk.Err("out: cannot read snapshot ts=%d of %s: %v", ts, o.Key, err)
	}
	raw, err := zstd.Decompress(nil, b)
	if err != nil {
		return nil, chk.Err("out: cannot decompress snapshot ts=%d of %s: %v", ts, o.Key, err)
	}
	if len(raw)%8 != 0 {
		return nil, chk.Err("out: snapshot ts=%d of %s has a corrupt payload of %d bytes", ts, o.Key, len(raw))
	}
	vals = make([]float64, len(raw)/8)
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
	}
	return
}
