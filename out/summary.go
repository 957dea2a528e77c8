// Copyright 2017 The OpenHDM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cpmech/gosl/chk"
)

// Summary records timestepping progress in a small database: one bucket
// per domain, keyed by timestep, holding the simulation time reached.
type Summary struct {
	db *bolt.DB
}

// OpenSummary opens (creating if needed) the summary database of a run
func OpenSummary(dir, key string) (*Summary, error) {
	EnsureDir(dir)
	db, err := bolt.Open(filepath.Join(dir, key+".db"), 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, chk.Err("out: cannot open summary database of %s: %v", key, err)
	}
	return &Summary{db: db}, nil
}

// Close closes the database
func (o *Summary) Close() error { return o.db.Close() }

// RecordTimestep stores the simulation time t reached by a domain at
// timestep ts
func (o *Summary) RecordTimestep(domainID string, ts uint, t float64) error {
	return o.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(domainID))
		if err != nil {
			return err
		}
		k := make([]byte, 8)
		binary.BigEndian.PutUint64(k, uint64(ts))
		v := make([]byte, 8)
		binary.BigEndian.PutUint64(v, math.Float64bits(t))
		return b.Put(k, v)
	})
}

// NumTimesteps returns the number of timesteps recorded for a domain
func (o *Summary) NumTimesteps(domainID string) (n int, err error) {
	err = o.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket([]byte(domainID)); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return
}

// LastTimestep returns the last timestep recorded for a domain and the
// simulation time it reached. found is false when the domain has no
// records.
func (o *Summary) LastTimestep(domainID string) (ts uint, t float64, found bool, err error) {
	err = o.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(domainID))
		if b == nil {
			return nil
		}
		k, v := b.Cursor().Last()
		if k == nil {
			return nil
		}
		ts = uint(binary.BigEndian.Uint64(k))
		t = math.Float64frombits(binary.BigEndian.Uint64(v))
		found = true
		return nil
	})
	return
}
