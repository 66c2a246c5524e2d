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

package soc

import (
	"github.com/s32gsim/s32gsim/hardware/cpu"
	"github.com/s32gsim/s32gsim/hardware/memory"
	"github.com/s32gsim/s32gsim/hardware/peripherals/spiflash"
)

// State stores the SoC sub-systems. It is produced by the Snapshot() function
// and can be restored with the Plumb() function.
//
// Virtual time is not part of the state. Neither is the SD card, which is
// backed by the host.
type State struct {
	CPUs  []cpu.CoreState
	SRAM  *memory.RAM
	Banks [][]uint32
	RGM   []uint32
	SPI0  []uint32
	SPI1  []uint32
	Bus0  uint8
	Bus1  uint8
	Flash *spiflash.Flash
}

// Snapshot the state of the SoC.
func (soc *SoC) Snapshot() *State {
	s := &State{
		CPUs:  soc.CPUs.Snapshot(),
		SRAM:  soc.SRAM.Snapshot(),
		RGM:   soc.RGM.Snapshot(),
		SPI0:  soc.SPI0.Snapshot(),
		SPI1:  soc.SPI1.Snapshot(),
		Bus0:  soc.SPI0.Bus().Snapshot(),
		Bus1:  soc.SPI1.Bus().Snapshot(),
		Flash: soc.Flash.Snapshot(),
	}
	for _, b := range soc.Banks {
		s.Banks = append(s.Banks, b.Snapshot())
	}
	return s
}

// Plumb a previously snapshotted state. Pending timers and bottom halves are
// cancelled.
func (soc *SoC) Plumb(s *State) {
	if s == nil {
		panic("soc: cannot plumb in a nil state")
	}

	soc.Clock.Reset()

	soc.CPUs.Plumb(s.CPUs)
	soc.SRAM.Plumb(s.SRAM)
	for i, b := range soc.Banks {
		b.Plumb(s.Banks[i])
	}
	soc.RGM.Plumb(s.RGM)
	soc.SPI0.Plumb(s.SPI0)
	soc.SPI1.Plumb(s.SPI1)
	soc.SPI0.Bus().Plumb(s.Bus0)
	soc.SPI1.Bus().Plumb(s.Bus1)
	soc.Flash.Plumb(s.Flash)
}
