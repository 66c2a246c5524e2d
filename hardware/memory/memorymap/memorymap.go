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

package memorymap

// Area is a named range of the address space.
type Area struct {
	Name   string
	Origin uint32
	Size   uint32
}

// Memtop returns the last address of the area.
func (a Area) Memtop() uint32 {
	return a.Origin + a.Size - 1
}

const (
	KiB = 1024
	MiB = 1024 * KiB
)

// System RAM.
const (
	OriginSRAM = uint32(0x34000000)
	SizeSRAM   = uint32(8 * MiB)
)

// Clocking.
const (
	OriginMC_CGM0     = uint32(0x40030000)
	OriginCorePLL     = uint32(0x40038000)
	OriginPeriphPLL   = uint32(0x4003c000)
	OriginAccelPLL    = uint32(0x40040000)
	OriginDDRPLL      = uint32(0x40044000)
	OriginMC_RGM      = uint32(0x40078000)
	OriginSRC         = uint32(0x4007c000)
	OriginSIUL2       = uint32(0x4009c000)
	OriginSRAMC0      = uint32(0x4019c000)
	OriginSRAMC1      = uint32(0x401a0000)
	OriginSPI0        = uint32(0x401d4000)
	OriginSPI1        = uint32(0x401d8000)
	OriginDDRPHY      = uint32(0x403c0000)
	OriginNCORE       = uint32(0x50400000)
	SizeMC_RGM        = uint32(0x200)
	SizeSPIController = uint32(0x200)
)

// Region of the boot image that is staged into SRAM by the boot ROM.
const (
	BootROMSize = uint32(32 * KiB)
)
