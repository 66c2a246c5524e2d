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

package soc_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/bootrom"
	"github.com/s32gsim/s32gsim/hardware/memory/memorymap"
	"github.com/s32gsim/s32gsim/hardware/peripherals/banks"
	"github.com/s32gsim/s32gsim/hardware/peripherals/dspi"
	"github.com/s32gsim/s32gsim/hardware/peripherals/rgm"
	"github.com/s32gsim/s32gsim/hardware/peripherals/spiflash"
	"github.com/s32gsim/s32gsim/hardware/preferences"
	"github.com/s32gsim/s32gsim/hardware/soc"
	"github.com/s32gsim/s32gsim/test"
)

func newSoC(t *testing.T) *soc.SoC {
	t.Helper()
	env, err := environment.NewEnvironment(environment.MainEmulation, preferences.NewDefaultPreferences())
	test.DemandSuccess(t, err)
	s, err := soc.NewSoC(env)
	test.DemandSuccess(t, err)
	return s
}

const (
	rgmPRST1  = memorymap.OriginMC_RGM + rgm.PRST1
	rgmPSTAT1 = memorymap.OriginMC_RGM + rgm.PSTAT1
)

func TestMemoryMap(t *testing.T) {
	s := newSoC(t)

	test.ExpectEquality(t, s.Read32(memorymap.OriginSIUL2+banks.MIDR1), uint32(banks.MIDR1Value))
	test.ExpectEquality(t, s.Read32(rgmPSTAT1), uint32(0x1f))

	s.Write32(memorymap.OriginSRAM+0x100, 0xdeadbeef)
	test.ExpectEquality(t, s.Read32(memorymap.OriginSRAM+0x100), uint32(0xdeadbeef))

	// unmapped
	test.ExpectEquality(t, s.Read32(0x10000000), uint32(0))

	// the register banks only accept word access
	test.ExpectEquality(t, s.Mem.Read(memorymap.OriginSIUL2+banks.MIDR1, 1), uint32(0))
}

func TestCoreRelease(t *testing.T) {
	s := newSoC(t)
	core := s.CPUs.Core(1)
	test.DemandSuccess(t, core != nil)
	test.ExpectSuccess(t, core.Halted())

	s.Write32(rgmPRST1, 0x1f)
	s.Write32(rgmPRST1, 0x1b)
	test.ExpectSuccess(t, core.Halted())

	s.Advance(time.Millisecond)
	test.ExpectFailure(t, core.Halted())
	test.ExpectEquality(t, core.Kicks(), 1)
	test.ExpectEquality(t, s.Read32(rgmPSTAT1), uint32(0x1b))

	s.Reset()
	test.ExpectSuccess(t, core.Halted())
	test.ExpectEquality(t, core.Kicks(), 0)
	test.ExpectEquality(t, s.Read32(rgmPSTAT1), uint32(0x1f))
}

func push(s *soc.SoC, pcs uint8, data uint8, cont bool) {
	v := uint32(pcs)<<dspi.PUSHRPCSShift | uint32(data)
	if cont {
		v |= dspi.PUSHRCont
	}
	s.Write32(memorymap.OriginSPI0+dspi.PUSHR, v)
}

func TestFlashThroughController(t *testing.T) {
	s := newSoC(t)

	push(s, soc.FlashAddress, spiflash.CmdReadID, true)
	push(s, soc.FlashAddress, 0x00, true)
	push(s, soc.FlashAddress, 0x00, true)
	push(s, soc.FlashAddress, 0x00, false)
	s.Advance(0)

	// nothing is shifted in while the command byte is shifted out
	test.ExpectEquality(t, s.Read32(memorymap.OriginSPI0+dspi.POPR), uint32(0xff))
	for _, v := range spiflash.JEDECID {
		test.ExpectEquality(t, s.Read32(memorymap.OriginSPI0+dspi.POPR), uint32(v))
	}
	test.ExpectEquality(t, s.Read32(memorymap.OriginSPI0+dspi.TCR)>>16, uint32(4))
	test.ExpectFailure(t, s.SPI0.Bus().Busy())

	// the second controller has no slaves
	s.Write32(memorymap.OriginSPI1+dspi.PUSHR, uint32(soc.FlashAddress)<<dspi.PUSHRPCSShift)
	s.Advance(0)
	test.ExpectEquality(t, s.Read32(memorymap.OriginSPI1+dspi.SR)&dspi.SRTFUF, uint32(dspi.SRTFUF))
}

// readFlash reads two bytes from the start of flash through the first
// controller. the command and address frames each pop 0xff
func readFlash(t *testing.T, s *soc.SoC) {
	t.Helper()

	s.Flash.Poke(0, 0xaa)
	s.Flash.Poke(1, 0xbb)

	push(s, soc.FlashAddress, spiflash.CmdRead, true)
	push(s, soc.FlashAddress, 0x00, true)
	push(s, soc.FlashAddress, 0x00, true)
	push(s, soc.FlashAddress, 0x00, true)
	s.Advance(0)
	for range 4 {
		test.ExpectEquality(t, s.Read32(memorymap.OriginSPI0+dspi.POPR), uint32(0xff))
	}
	test.ExpectSuccess(t, s.SPI0.Bus().Busy())

	push(s, soc.FlashAddress, 0xff, true)
	push(s, soc.FlashAddress, 0xff, false)
	s.Advance(0)
	test.ExpectEquality(t, s.Read32(memorymap.OriginSPI0+dspi.POPR), uint32(0xaa))
	test.ExpectEquality(t, s.Read32(memorymap.OriginSPI0+dspi.POPR), uint32(0xbb))
	test.ExpectEquality(t, s.Read32(memorymap.OriginSPI0+dspi.TCR)>>16, uint32(6))
	test.ExpectFailure(t, s.SPI0.Bus().Busy())
}

func TestFlashReadThroughController(t *testing.T) {
	readFlash(t, newSoC(t))
}

func TestFlashReadThroughControllerAsync(t *testing.T) {
	s := newSoC(t)
	s.Write32(memorymap.OriginSPI0+dspi.CTAR0, dspi.CTARAsync)
	readFlash(t, s)
	test.ExpectEquality(t, s.Read32(memorymap.OriginSPI0+dspi.SR)&dspi.SRTFUF, uint32(0))
}

func writeBootImage(s *soc.SoC, start uint32, code []uint8) {
	const appOff = 0x1000
	put := func(off uint32, v uint32) {
		b := binary.LittleEndian.AppendUint32(nil, v)
		for i, x := range b {
			s.Flash.Poke(off+uint32(i), x)
		}
	}
	put(0x00, bootrom.IVTHeader)
	put(0x20, appOff)

	// the erased flash would otherwise select secure boot
	put(0x28, 0)
	put(appOff+0x0, bootrom.AppHeader)
	put(appOff+0x4, start)
	put(appOff+0x8, start+0x10)
	put(appOff+0xc, uint32(len(code)))
	for i, x := range code {
		s.Flash.Poke(appOff+0x10+uint32(i), x)
	}
}

func TestBootImage(t *testing.T) {
	s := newSoC(t)

	code := []uint8{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	writeBootImage(s, memorymap.OriginSRAM+0x1000, code)
	test.DemandSuccess(t, s.LoadBootImage(nil))

	test.ExpectEquality(t, s.CPUs.Core(0).Entry(), memorymap.OriginSRAM+0x1010)
	test.ExpectEquality(t, s.Read32(memorymap.OriginSRAM+0x1010), uint32(0x04030201))
	test.ExpectEquality(t, s.Read32(memorymap.OriginSRAM+0x1000), uint32(bootrom.AppHeader))
	test.ExpectEquality(t, s.Boot.StagedBytes, len(code)+0x10)

	// staging outside of sram is fatal
	writeBootImage(s, 0x1000, code)
	err := s.LoadBootImage(nil)
	test.ExpectSuccess(t, curated.Is(err, bootrom.StagingFailure))
	test.ExpectSuccess(t, curated.Has(err, soc.StagingOutsideSRAM))
}

func TestSnapshot(t *testing.T) {
	s := newSoC(t)

	s.Write32(memorymap.OriginSRAM, 0x11111111)
	s.Write32(rgmPRST1, 0x1f)
	s.Write32(memorymap.OriginSRAMC0+banks.PRAMCR, banks.PRAMInit)
	state := s.Snapshot()

	s.Write32(memorymap.OriginSRAM, 0x22222222)
	s.Write32(rgmPRST1, 0x1d)
	s.Reset()

	s.Plumb(state)
	test.ExpectEquality(t, s.Read32(memorymap.OriginSRAM), uint32(0x11111111))
	test.ExpectEquality(t, s.Read32(rgmPRST1), uint32(0x1f))
	test.ExpectEquality(t, s.Read32(memorymap.OriginSRAMC0+banks.PRAMSR), uint32(banks.PRAMInit))

	// changes after plumbing do not affect the snapshot
	s.Write32(memorymap.OriginSRAM, 0x33333333)
	s.Plumb(state)
	test.ExpectEquality(t, s.Read32(memorymap.OriginSRAM), uint32(0x11111111))
}

func TestCheckpoint(t *testing.T) {
	s := newSoC(t)

	s.Write32(memorymap.OriginSRAM+0x40, 0xcafebabe)
	s.Write32(rgmPRST1, 0x1f)
	s.Write32(rgmPRST1, 0x1b)
	s.Advance(time.Millisecond)
	s.CPUs.Core(0).SetEntry(0x34001010)

	push(s, soc.WiFiAddress, 0xc9, true)
	s.Advance(0)
	test.ExpectSuccess(t, s.SPI0.Bus().Busy())

	b := &bytes.Buffer{}
	test.DemandSuccess(t, s.WriteCheckpoint(b))

	other := newSoC(t)
	test.DemandSuccess(t, other.ReadCheckpoint(b))

	test.ExpectEquality(t, other.Read32(memorymap.OriginSRAM+0x40), uint32(0xcafebabe))
	test.ExpectEquality(t, other.Read32(rgmPSTAT1), uint32(0x1b))
	test.ExpectFailure(t, other.CPUs.Core(1).Halted())
	test.ExpectEquality(t, other.CPUs.Core(0).Entry(), uint32(0x34001010))
	test.ExpectEquality(t, other.SPI0.Bus().Snapshot(), uint8(soc.WiFiAddress))

	// a corrupt checkpoint is rejected
	err := other.ReadCheckpoint(bytes.NewReader([]byte("not a checkpoint")))
	test.ExpectFailure(t, err)
}

func TestRunFor(t *testing.T) {
	s := newSoC(t)

	s.Write32(rgmPRST1, 0x1f)
	s.Write32(rgmPRST1, 0x17)
	test.DemandSuccess(t, s.RunFor(context.Background(), 1050*time.Microsecond))
	test.ExpectEquality(t, s.Clock.Now(), 1050*time.Microsecond)
	test.ExpectFailure(t, s.CPUs.Core(2).Halted())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	test.ExpectSuccess(t, s.Run(ctx, nil))
}
