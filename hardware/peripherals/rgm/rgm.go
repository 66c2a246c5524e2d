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

package rgm

import (
	"fmt"
	"time"

	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/checkpoint"
	"github.com/s32gsim/s32gsim/hardware/clocks"
	"github.com/s32gsim/s32gsim/hardware/memory/memorymap"
	"github.com/s32gsim/s32gsim/hardware/memory/registers"
	"github.com/s32gsim/s32gsim/hardware/preferences"
	"github.com/s32gsim/s32gsim/logger"
)

// Register offsets.
const (
	DES    = 0x000
	FES    = 0x008
	PRST0  = 0x040
	PRST1  = 0x048
	PRST2  = 0x050
	PRST3  = 0x058
	PSTAT0 = 0x140
	PSTAT1 = 0x148
	PSTAT2 = 0x150
	PSTAT3 = 0x158
)

// PartitionMask is the set of valid bits in the PRST1 register.
const PartitionMask = 0x1f

// CoreBits maps a core's enumeration index to its bit in PRST1 and PSTAT1.
var CoreBits = [...]uint32{
	1 << 1,
	1 << 2,
	1 << 3,
	1 << 4,
}

// Core is a CPU controlled by the reset module.
type Core interface {
	Halt()
	Resume()
}

// RGM is the reset generation module.
type RGM struct {
	env *environment.Environment

	bank  *registers.Bank
	cores []Core

	timer *clocks.Timer

	// masked value of the previous write to PRST1
	previous uint32

	// partitions that changed since the timer was armed
	pending uint32
}

// NewRGM is the preferred method of initialisation for the RGM type. Cores
// beyond the length of the CoreBits table are not controlled by the module.
func NewRGM(env *environment.Environment, clk *clocks.Clock, cores []Core) *RGM {
	r := &RGM{
		env:   env,
		cores: cores,
	}
	if len(r.cores) > len(CoreBits) {
		r.cores = r.cores[:len(CoreBits)]
	}

	mirror := func(status uint32) registers.WriteFunc {
		return func(offset uint32, value uint32) {
			r.bank.Poke(offset, value)
			r.bank.Poke(status, value)
		}
	}
	ignore := func(uint32, uint32) {}

	r.bank = registers.NewBank(env, "mc_rgm", memorymap.SizeMC_RGM, []registers.Definition{
		{Offset: DES, Name: "DES", Default: 0x1},
		{Offset: FES, Name: "FES"},
		{Offset: PRST0, Name: "PRST0", Write: mirror(PSTAT0)},
		{Offset: PRST1, Name: "PRST1", Write: r.writePRST1},
		{Offset: PRST2, Name: "PRST2", Write: mirror(PSTAT2)},
		{Offset: PRST3, Name: "PRST3", Write: mirror(PSTAT3)},
		{Offset: PSTAT0, Name: "PSTAT0", Write: ignore},
		{Offset: PSTAT1, Name: "PSTAT1", Default: PartitionMask, Write: ignore},
		{Offset: PSTAT2, Name: "PSTAT2", Write: ignore},
		{Offset: PSTAT3, Name: "PSTAT3", Write: ignore},
	})

	r.timer = clk.NewTimer(r.release)

	return r
}

func (r *RGM) String() string {
	s := fmt.Sprintf("PRST1=%02x PSTAT1=%02x", r.peek(PRST1), r.peek(PSTAT1))
	if r.timer.Pending() {
		s = fmt.Sprintf("%s [pending %02x at %v]", s, r.pending, r.timer.Deadline())
	}
	return s
}

func (r *RGM) peek(offset uint32) uint32 {
	v, _ := r.bank.Peek(offset)
	return v
}

func (r *RGM) latency() time.Duration {
	us := preferences.DefaultResetLatency
	if r.env != nil && r.env.Prefs != nil {
		us = r.env.Prefs.ResetLatency.Get().(int)
	}
	return time.Duration(us) * time.Microsecond
}

func (r *RGM) tracing() bool {
	return r.env != nil && r.env.Prefs != nil && r.env.Prefs.TraceRegisters.Get().(bool)
}

func (r *RGM) writePRST1(offset uint32, value uint32) {
	v := value & PartitionMask
	r.bank.Poke(offset, v)

	changed := v ^ r.previous
	r.previous = v

	release := changed != 0 && changed&value == 0

	if r.timer.Pending() {
		r.pending |= changed
		if release {
			r.timer.ModIn(r.latency())
		}
		return
	}

	if release {
		r.pending = changed
		r.timer.ModIn(r.latency())
		if r.tracing() {
			logger.Logf(r.env, "mc_rgm", "release of %02x due at %v", changed, r.timer.Deadline())
		}
	}
}

// release is the timer callback
func (r *RGM) release() {
	r.timer.Del()

	changed := r.pending
	r.pending = 0

	prst := r.peek(PRST1)
	pstat := r.peek(PSTAT1)
	if changed != 0 && changed&prst == 0 {
		pstat &^= changed & PartitionMask
	} else {
		pstat |= prst & PartitionMask
	}
	r.bank.Poke(PSTAT1, pstat)

	for i, c := range r.cores {
		bit := CoreBits[i]
		if changed&bit == 0 {
			continue
		}
		if prst&bit != 0 {
			c.Halt()
		} else {
			c.Resume()
		}
	}

	if r.tracing() {
		logger.Logf(r.env, "mc_rgm", "partition status now %02x", pstat)
	}
}

// Pending returns true if a change to the reset partitions is waiting for
// its deadline.
func (r *RGM) Pending() bool {
	return r.timer.Pending()
}

// Read implements the memory.Device interface.
func (r *RGM) Read(offset uint32, size int) uint32 {
	return r.bank.Read(offset, size)
}

// Write implements the memory.Device interface.
func (r *RGM) Write(offset uint32, size int, value uint32) {
	r.bank.Write(offset, size, value)
}

// Peek returns the value of a register without side effects.
func (r *RGM) Peek(offset uint32) (uint32, bool) {
	return r.bank.Peek(offset)
}

// Reset the module. Any pending change is abandoned.
func (r *RGM) Reset() {
	r.timer.Del()
	r.pending = 0
	r.previous = 0
	r.bank.Reset()
}

// Snapshot returns a copy of the register values.
func (r *RGM) Snapshot() []uint32 {
	return r.bank.Snapshot()
}

// Plumb restores register values previously returned by Snapshot(). A
// pending change is abandoned.
func (r *RGM) Plumb(values []uint32) {
	r.bank.Plumb(values)
	r.resync()
}

func (r *RGM) resync() {
	r.timer.Del()
	r.pending = 0
	r.previous = r.peek(PRST1) & PartitionMask
}

// SaveCheckpoint adds the register values to the checkpoint.
func (r *RGM) SaveCheckpoint(w *checkpoint.Writer) error {
	return r.bank.SaveCheckpoint(w)
}

// LoadCheckpoint restores the register values from the checkpoint. A pending
// change is not part of the checkpoint and is abandoned.
func (r *RGM) LoadCheckpoint(rd *checkpoint.Reader) error {
	if err := r.bank.LoadCheckpoint(rd); err != nil {
		return err
	}
	r.resync()
	return nil
}
