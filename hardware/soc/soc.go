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
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/bootrom"
	"github.com/s32gsim/s32gsim/hardware/clocks"
	"github.com/s32gsim/s32gsim/hardware/cpu"
	"github.com/s32gsim/s32gsim/hardware/memory"
	"github.com/s32gsim/s32gsim/hardware/memory/memorymap"
	"github.com/s32gsim/s32gsim/hardware/peripherals/atwilc"
	"github.com/s32gsim/s32gsim/hardware/peripherals/banks"
	"github.com/s32gsim/s32gsim/hardware/peripherals/dspi"
	"github.com/s32gsim/s32gsim/hardware/peripherals/rgm"
	"github.com/s32gsim/s32gsim/hardware/peripherals/sdcard"
	"github.com/s32gsim/s32gsim/hardware/peripherals/spiflash"
	"github.com/s32gsim/s32gsim/hardware/spi"
	"github.com/s32gsim/s32gsim/logger"
)

// SPI slave addresses on the first SPI bus.
const (
	FlashAddress = 1
	WiFiAddress  = 2
	SDAddress    = 3
)

// FlashSize is the size of the boot flash.
const FlashSize = spiflash.MaxSize

// Sentinel errors.
const (
	StagingOutsideSRAM = "soc: cannot stage %d bytes at %08x: not in sram"
)

// SoC is the main container for the emulated components.
type SoC struct {
	Env *environment.Environment

	Clock *clocks.Clock
	CPUs  *cpu.Cluster
	Mem   *memory.Bus

	SRAM  *memory.RAM
	Banks []*banks.Bank
	RGM   *rgm.RGM

	SPI0 *dspi.Controller
	SPI1 *dspi.Controller

	Flash *spiflash.Flash
	WiFi  *atwilc.Module
	SD    *sdcard.Card

	// the most recent boot image loaded with LoadBootImage()
	Boot *bootrom.Image
}

// NewSoC is the preferred method of initialisation for the SoC type.
func NewSoC(env *environment.Environment) (*SoC, error) {
	if env == nil {
		return nil, curated.Errorf("soc: no environment")
	}

	soc := &SoC{
		Env:   env,
		Clock: clocks.NewClock(),
		CPUs:  cpu.NewCluster(env.Prefs.CPUs.Get().(int)),
		Mem:   memory.NewBus(env),
		SRAM:  memory.NewRAM("sram", memorymap.SizeSRAM),
		Banks: banks.NewAll(env),
	}

	var cores []rgm.Core
	for _, c := range soc.CPUs.Cores {
		cores = append(cores, c)
	}
	soc.RGM = rgm.NewRGM(env, soc.Clock, cores)

	bus0 := spi.NewBus(env, "spi0_bus")
	bus1 := spi.NewBus(env, "spi1_bus")
	soc.SPI0 = dspi.NewController(env, "spi0", soc.Clock, bus0)
	soc.SPI1 = dspi.NewController(env, "spi1", soc.Clock, bus1)

	soc.Flash = spiflash.NewFlash(env, FlashAddress, FlashSize, soc.Clock, bus0)
	soc.WiFi = atwilc.NewModule(env, WiFiAddress)
	soc.SD = sdcard.NewCard(env, SDAddress, nil, 0)

	for _, s := range []spi.Slave{soc.Flash, soc.WiFi, soc.SD} {
		if err := bus0.Attach(s); err != nil {
			return nil, curated.Errorf("soc: %v", err)
		}
	}

	if err := soc.Mem.Map(soc.SRAM.Name(), memorymap.OriginSRAM, memorymap.SizeSRAM, soc.SRAM); err != nil {
		return nil, curated.Errorf("soc: %v", err)
	}
	for _, b := range soc.Banks {
		if err := soc.Mem.Map(b.Name(), b.Origin, b.Size(), b); err != nil {
			return nil, curated.Errorf("soc: %v", err)
		}
	}
	if err := soc.Mem.Map("mc_rgm", memorymap.OriginMC_RGM, memorymap.SizeMC_RGM, soc.RGM); err != nil {
		return nil, curated.Errorf("soc: %v", err)
	}
	if err := soc.Mem.Map(soc.SPI0.Name(), memorymap.OriginSPI0, memorymap.SizeSPIController, soc.SPI0); err != nil {
		return nil, curated.Errorf("soc: %v", err)
	}
	if err := soc.Mem.Map(soc.SPI1.Name(), memorymap.OriginSPI1, memorymap.SizeSPIController, soc.SPI1); err != nil {
		return nil, curated.Errorf("soc: %v", err)
	}
	soc.Mem.Seal()

	soc.Reset()

	return soc, nil
}

func (soc *SoC) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("time: %v\n", soc.Clock.Now()))
	s.WriteString(soc.CPUs.String())
	s.WriteString(fmt.Sprintf("mc_rgm: %s\n", soc.RGM))
	s.WriteString(fmt.Sprintf("%s\n", soc.SPI0))
	s.WriteString(fmt.Sprintf("%s\n", soc.SPI1))
	return s.String()
}

// Reset every component of the SoC. The boot core is running and the other
// cores are halted. The contents of the boot flash and the SD card are
// unchanged.
func (soc *SoC) Reset() {
	soc.Clock.Reset()
	soc.CPUs.Reset()
	soc.SRAM.Reset()
	for _, b := range soc.Banks {
		b.Reset()
	}
	soc.RGM.Reset()
	soc.SPI0.Reset()
	soc.SPI1.Reset()
	soc.SPI0.Bus().Reset()
	soc.SPI1.Bus().Reset()
	soc.Flash.Reset()
	soc.WiFi.Reset()
	soc.SD.Reset()
	soc.Boot = nil
}

// Read32 reads a word from the address map.
func (soc *SoC) Read32(address uint32) uint32 {
	return soc.Mem.Read(address, 4)
}

// Write32 writes a word to the address map.
func (soc *SoC) Write32(address uint32, value uint32) {
	soc.Mem.Write(address, 4, value)
}

// Advance virtual time by d. Returns the number of timer and bottom half
// callbacks that ran.
func (soc *SoC) Advance(d time.Duration) int {
	return soc.Clock.Advance(d)
}

// Load implements the bootrom.Target interface. Data can only be staged into
// SRAM.
func (soc *SoC) Load(address uint32, data []uint8) error {
	name, offset, ok := soc.Mem.Lookup(address)
	if !ok || name != soc.SRAM.Name() {
		return curated.Errorf(StagingOutsideSRAM, len(data), address)
	}
	return soc.SRAM.Load(offset, data)
}

// LoadBootImage stages the boot image into SRAM and sets the entry address
// of the boot core. If r is nil the image is read from the boot flash. An
// error is fatal and the SoC should not be started.
func (soc *SoC) LoadBootImage(r io.ReaderAt) error {
	if r == nil {
		r = soc.Flash
	}

	img, err := bootrom.Load(soc.Env, r, soc)
	if err != nil {
		return err
	}
	soc.Boot = img

	if c := soc.CPUs.Core(0); c != nil {
		c.SetEntry(img.Entry)
	}

	logger.Logf(soc.Env, "soc", "boot core entry at %08x", img.Entry)
	return nil
}

// InsertSD inserts a card into the SD slot. A nil backend ejects the card.
func (soc *SoC) InsertSD(backend io.ReaderAt, size int64) {
	if backend == nil {
		soc.SD.Eject()
		return
	}
	soc.SD.Insert(backend, size)
}
