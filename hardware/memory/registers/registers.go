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

package registers

import (
	"fmt"

	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/checkpoint"
	"github.com/s32gsim/s32gsim/logger"
)

// WordSize is the size in bytes of every register.
const WordSize = 4

// WriteFunc is called instead of the default store when a register is
// written. The value is the full register value after sub-word merging.
type WriteFunc func(offset uint32, value uint32)

// ReadFunc is called instead of the default load when a register is read.
type ReadFunc func(offset uint32) uint32

// Definition describes a single register in a Bank.
type Definition struct {
	Offset  uint32
	Name    string
	Default uint32

	// writes to read-only registers are logged and ignored
	ReadOnly bool

	// optional overrides. a nil function means the default behaviour
	Write WriteFunc
	Read  ReadFunc
}

// Bank is a register file. Values are indexed by offset/4.
type Bank struct {
	env *environment.Environment

	name string
	size uint32

	values   []uint32
	defaults []uint32

	defs map[uint32]Definition
}

// NewBank is the preferred method of initialisation for the Bank type. The
// size argument is in bytes. Definitions outside of the bank are a
// programming error and cause a panic.
func NewBank(env *environment.Environment, name string, size uint32, defs []Definition) *Bank {
	b := &Bank{
		env:      env,
		name:     name,
		size:     size,
		values:   make([]uint32, size/WordSize),
		defaults: make([]uint32, size/WordSize),
		defs:     make(map[uint32]Definition),
	}

	for _, d := range defs {
		if d.Offset%WordSize != 0 || d.Offset/WordSize >= uint32(len(b.values)) {
			panic(fmt.Sprintf("registers: %s: definition %s at 0x%x is outside bank", name, d.Name, d.Offset))
		}
		b.defaults[d.Offset/WordSize] = d.Default
		b.defs[d.Offset] = d
	}

	b.Reset()

	return b
}

func (b *Bank) String() string {
	return fmt.Sprintf("%s [%d registers]", b.name, len(b.values))
}

// Name returns the name of the bank. The name is also used as the log tag.
func (b *Bank) Name() string {
	return b.name
}

// Size returns the size of the bank in bytes.
func (b *Bank) Size() uint32 {
	return b.size
}

// RegisterName returns the name of the register at offset. Registers
// without a definition are named by their offset.
func (b *Bank) RegisterName(offset uint32) string {
	if d, ok := b.defs[offset&^(WordSize-1)]; ok && d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("0x%04x", offset)
}

// Reset all registers to their default values.
func (b *Bank) Reset() {
	copy(b.values, b.defaults)
}

func (b *Bank) inBounds(offset uint32) bool {
	return offset/WordSize < uint32(len(b.values))
}

func (b *Bank) tracing() bool {
	return b.env != nil && b.env.Prefs != nil && b.env.Prefs.TraceRegisters.Get().(bool)
}

func sizeMask(size int) uint32 {
	if size <= 0 || size >= WordSize {
		return 0xffffffff
	}
	return (uint32(1) << (size * 8)) - 1
}

// Read the register at offset. The value is shifted and masked for accesses
// smaller than a word.
func (b *Bank) Read(offset uint32, size int) uint32 {
	if !b.inBounds(offset) {
		logger.Logf(b.env, b.name, "read out of bounds at offset 0x%x", offset)
		return 0
	}

	aligned := offset &^ (WordSize - 1)

	var v uint32
	if d, ok := b.defs[aligned]; ok && d.Read != nil {
		v = d.Read(aligned)
	} else {
		v = b.values[aligned/WordSize]
	}

	if b.tracing() {
		logger.Logf(b.env, b.name, "read %s = %08x", b.RegisterName(aligned), v)
	}

	shift := (offset - aligned) * 8
	return (v >> shift) & sizeMask(size)
}

// Write value to the register at offset. Accesses smaller than a word modify
// only the addressed bytes.
func (b *Bank) Write(offset uint32, size int, value uint32) {
	if !b.inBounds(offset) {
		logger.Logf(b.env, b.name, "write out of bounds at offset 0x%x (value %08x)", offset, value)
		return
	}

	aligned := offset &^ (WordSize - 1)
	idx := aligned / WordSize

	shift := (offset - aligned) * 8
	mask := sizeMask(size) << shift
	v := (b.values[idx] &^ mask) | ((value << shift) & mask)

	if b.tracing() {
		logger.Logf(b.env, b.name, "write %s = %08x", b.RegisterName(aligned), v)
	}

	d, ok := b.defs[aligned]
	if ok && d.ReadOnly {
		logger.Logf(b.env, b.name, "write to read-only register %s ignored", b.RegisterName(aligned))
		return
	}
	if ok && d.Write != nil {
		d.Write(aligned, v)
		return
	}

	b.values[idx] = v
}

// Peek returns the stored value of the register at offset without side
// effects or logging. The second return value is false if offset is out of
// bounds.
func (b *Bank) Peek(offset uint32) (uint32, bool) {
	if !b.inBounds(offset) {
		return 0, false
	}
	return b.values[offset/WordSize], true
}

// Poke stores a value in the register at offset without side effects or
// logging. Override functions use Poke to update the bank.
func (b *Bank) Poke(offset uint32, value uint32) bool {
	if !b.inBounds(offset) {
		return false
	}
	b.values[offset/WordSize] = value
	return true
}

// Snapshot returns a copy of the register values.
func (b *Bank) Snapshot() []uint32 {
	return append([]uint32(nil), b.values...)
}

// Plumb restores register values previously returned by Snapshot().
func (b *Bank) Plumb(values []uint32) {
	if len(values) != len(b.values) {
		panic(fmt.Sprintf("registers: %s: snapshot has %d values, expected %d", b.name, len(values), len(b.values)))
	}
	copy(b.values, values)
}

// checkpoint section version for register banks
const sectionVersion = 1

// SaveCheckpoint adds the register values to the checkpoint as a section
// named after the bank.
func (b *Bank) SaveCheckpoint(w *checkpoint.Writer) error {
	return w.Section(b.name, sectionVersion, checkpoint.EncodeWords(b.values))
}

// LoadCheckpoint restores register values from the checkpoint section named
// after the bank.
func (b *Bank) LoadCheckpoint(r *checkpoint.Reader) error {
	p, err := r.Section(b.name, sectionVersion)
	if err != nil {
		return err
	}
	v, err := checkpoint.DecodeWords(b.name, p, len(b.values))
	if err != nil {
		return err
	}
	copy(b.values, v)
	return nil
}
