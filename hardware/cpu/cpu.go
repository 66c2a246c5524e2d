// This file is part of s32gsim.
//
// s32gsim is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// s32gsim is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with s32gsim.  If not, see <https://www.gnu.org/licenses/>.

package cpu

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/hardware/checkpoint"
)

// Core is a single application core.
type Core struct {
	ID int

	halted atomic.Bool
	kicks  atomic.Int64

	// address the core starts executing from when released
	entry atomic.Uint32
}

func (c *Core) String() string {
	state := "running"
	if c.Halted() {
		state = "halted"
	}
	return fmt.Sprintf("cpu%d: %s (kicks=%d entry=%08x)", c.ID, state, c.Kicks(), c.Entry())
}

// Halt the core.
func (c *Core) Halt() {
	c.halted.Store(true)
}

// Resume clears the halted state and kicks the core.
func (c *Core) Resume() {
	c.halted.Store(false)
	c.kicks.Add(1)
}

// Halted returns true if the core is halted.
func (c *Core) Halted() bool {
	return c.halted.Load()
}

// Kicks returns the number of times the core has been kicked.
func (c *Core) Kicks() int {
	return int(c.kicks.Load())
}

// SetEntry sets the address the core will execute from.
func (c *Core) SetEntry(entry uint32) {
	c.entry.Store(entry)
}

// Entry returns the address the core will execute from.
func (c *Core) Entry() uint32 {
	return c.entry.Load()
}

// Reset the core. The kick count is cleared.
func (c *Core) Reset(startHalted bool) {
	c.halted.Store(startHalted)
	c.kicks.Store(0)
}

// Cluster is the list of cores in enumeration order.
type Cluster struct {
	Cores []*Core
}

// NewCluster is the preferred method of initialisation for the Cluster type.
func NewCluster(n int) *Cluster {
	cl := &Cluster{
		Cores: make([]*Core, n),
	}
	for i := range cl.Cores {
		cl.Cores[i] = &Core{ID: i}
	}
	cl.Reset()
	return cl
}

func (cl *Cluster) String() string {
	s := strings.Builder{}
	for _, c := range cl.Cores {
		s.WriteString(c.String())
		s.WriteString("\n")
	}
	return s.String()
}

// Core returns the core with the enumeration index i or nil.
func (cl *Cluster) Core(i int) *Core {
	if i < 0 || i >= len(cl.Cores) {
		return nil
	}
	return cl.Cores[i]
}

// Reset every core. The boot core (core 0) is running and the secondary
// cores are halted until released by the reset generation module.
func (cl *Cluster) Reset() {
	for i, c := range cl.Cores {
		c.Reset(i != 0)
	}
}

const (
	sectionName    = "cpus"
	sectionVersion = 1
)

// SaveCheckpoint adds the halted state and entry address of every core to
// the checkpoint.
func (cl *Cluster) SaveCheckpoint(w *checkpoint.Writer) error {
	b := make([]byte, 0, len(cl.Cores)*5)
	for _, c := range cl.Cores {
		h := uint8(0)
		if c.Halted() {
			h = 1
		}
		b = append(b, h)
		b = binary.LittleEndian.AppendUint32(b, c.Entry())
	}
	return w.Section(sectionName, sectionVersion, b)
}

// LoadCheckpoint restores the state saved by SaveCheckpoint.
func (cl *Cluster) LoadCheckpoint(r *checkpoint.Reader) error {
	b, err := r.Section(sectionName, sectionVersion)
	if err != nil {
		return err
	}
	if len(b) != len(cl.Cores)*5 {
		return curated.Errorf(checkpoint.BadSection, sectionName, "wrong number of cores")
	}
	for i, c := range cl.Cores {
		c.halted.Store(b[i*5] != 0)
		c.entry.Store(binary.LittleEndian.Uint32(b[i*5+1:]))
	}
	return nil
}

// CoreState is the state of a core returned by Snapshot().
type CoreState struct {
	Halted bool
	Kicks  int
	Entry  uint32
}

// Snapshot returns the state of every core.
func (cl *Cluster) Snapshot() []CoreState {
	s := make([]CoreState, len(cl.Cores))
	for i, c := range cl.Cores {
		s[i] = CoreState{
			Halted: c.Halted(),
			Kicks:  c.Kicks(),
			Entry:  c.Entry(),
		}
	}
	return s
}

// Plumb restores the state returned by Snapshot().
func (cl *Cluster) Plumb(s []CoreState) {
	if len(s) != len(cl.Cores) {
		panic(fmt.Sprintf("cpu: snapshot has %d cores, cluster has %d", len(s), len(cl.Cores)))
	}
	for i, c := range cl.Cores {
		c.halted.Store(s[i].Halted)
		c.kicks.Store(int64(s[i].Kicks))
		c.entry.Store(s[i].Entry)
	}
}
