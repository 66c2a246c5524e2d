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

package banks

import (
	"fmt"

	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/memory/memorymap"
	"github.com/s32gsim/s32gsim/hardware/memory/registers"
)

// SRAM controller registers.
const (
	PRAMCR   = 0x00
	PRAMIAS  = 0x04
	PRAMIAE  = 0x08
	PRAMSR   = 0x0c
	PRAMECCA = 0x10

	// PRAMCR initialisation request and PRAMSR initialisation done
	PRAMInit = 0x01
)

// SIUL2 registers.
const (
	MIDR1 = 0x04
	MIDR2 = 0x08

	MIDR1Value = 0x1d120011
	MIDR2Value = 0x48bb0000
)

// NCORE registers.
const (
	NCORESTAT = 0x00
)

// PLL registers.
const (
	PLLCR = 0x00
	PLLSR = 0x04
	PLLDV = 0x08

	// PLLSR lock bit. always reported as set
	PLLLock = 1 << 2
)

// Bank is a register-file peripheral at a fixed location in the address map.
type Bank struct {
	*registers.Bank

	Origin uint32

	minAccess int
	maxAccess int
}

// AccessSizes implements the memory.AccessSizer interface.
func (b *Bank) AccessSizes() (int, int) {
	return b.minAccess, b.maxAccess
}

// Area returns the location of the bank in the address map.
func (b *Bank) Area() memorymap.Area {
	return memorymap.Area{
		Name:   b.Name(),
		Origin: b.Origin,
		Size:   b.Size(),
	}
}

// Template describes a Bank. The definitions function is given the Bank
// being created so that override functions can refer to it.
type Template struct {
	Name   string
	Origin uint32
	Size   uint32

	// zero values mean word access only
	MinAccess int
	MaxAccess int

	Definitions func(b *Bank) []registers.Definition
}

// Templates is the list of register-file peripherals in address order.
var Templates = []Template{
	{Name: "mc_cgm0", Origin: memorymap.OriginMC_CGM0, Size: 0x804},
	{Name: "core_pll", Origin: memorymap.OriginCorePLL, Size: 0x104, Definitions: pll},
	{Name: "periph_pll", Origin: memorymap.OriginPeriphPLL, Size: 0x104, Definitions: pll},
	{Name: "accel_pll", Origin: memorymap.OriginAccelPLL, Size: 0x104, Definitions: pll},
	{Name: "ddr_pll", Origin: memorymap.OriginDDRPLL, Size: 0x104, Definitions: pll},
	{Name: "src", Origin: memorymap.OriginSRC, Size: 0x1004},
	{Name: "siul2", Origin: memorymap.OriginSIUL2, Size: 0x2000, Definitions: siul2},
	{Name: "sramc0", Origin: memorymap.OriginSRAMC0, Size: 0x14, Definitions: sramc},
	{Name: "sramc1", Origin: memorymap.OriginSRAMC1, Size: 0x14, Definitions: sramc},
	{Name: "ddrphy", Origin: memorymap.OriginDDRPHY, Size: 0x10004},
	{Name: "ncore", Origin: memorymap.OriginNCORE, Size: 0x100000, MinAccess: 1, MaxAccess: 4, Definitions: ncore},
}

func sramc(b *Bank) []registers.Definition {
	return []registers.Definition{
		{Offset: PRAMCR, Name: "PRAMCR", Write: func(_ uint32, v uint32) {
			// initialisation completes immediately. the request itself is
			// not stored
			if v&PRAMInit == PRAMInit {
				b.Poke(PRAMSR, PRAMInit)
			}
		}},
		{Offset: PRAMIAS, Name: "PRAMIAS"},
		{Offset: PRAMIAE, Name: "PRAMIAE"},
		{Offset: PRAMSR, Name: "PRAMSR"},
		{Offset: PRAMECCA, Name: "PRAMECCA"},
	}
}

func siul2(_ *Bank) []registers.Definition {
	return []registers.Definition{
		{Offset: MIDR1, Name: "MIDR1", Default: MIDR1Value, ReadOnly: true},
		{Offset: MIDR2, Name: "MIDR2", Default: MIDR2Value, ReadOnly: true},
	}
}

func ncore(_ *Bank) []registers.Definition {
	return []registers.Definition{
		{Offset: NCORESTAT, Name: "STAT"},
	}
}

func pll(b *Bank) []registers.Definition {
	return []registers.Definition{
		{Offset: PLLCR, Name: "PLLCR"},
		{Offset: PLLSR, Name: "PLLSR", Read: func(o uint32) uint32 {
			v, _ := b.Peek(o)
			return v | PLLLock
		}},
		{Offset: PLLDV, Name: "PLLDV"},
	}
}

// New creates a Bank from the template.
func (t Template) New(env *environment.Environment) *Bank {
	b := &Bank{
		Origin:    t.Origin,
		minAccess: t.MinAccess,
		maxAccess: t.MaxAccess,
	}
	if b.minAccess == 0 {
		b.minAccess = registers.WordSize
	}
	if b.maxAccess == 0 {
		b.maxAccess = registers.WordSize
	}

	var defs []registers.Definition
	if t.Definitions != nil {
		defs = t.Definitions(b)
	}
	b.Bank = registers.NewBank(env, t.Name, t.Size, defs)

	return b
}

// NewAll creates a Bank for every entry in Templates.
func NewAll(env *environment.Environment) []*Bank {
	all := make([]*Bank, 0, len(Templates))
	for _, t := range Templates {
		all = append(all, t.New(env))
	}
	return all
}

// Find returns the named bank from the list or nil.
func Find(all []*Bank, name string) *Bank {
	for _, b := range all {
		if b.Name() == name {
			return b
		}
	}
	return nil
}

func (b *Bank) String() string {
	return fmt.Sprintf("%08x %s", b.Origin, b.Bank.String())
}
