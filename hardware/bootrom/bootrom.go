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

package bootrom

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/memory/memorymap"
	"github.com/s32gsim/s32gsim/logger"
)

// Sentinel errors. Every error returned by Load() is fatal to machine start.
const (
	ReadError      = "bootrom: failed to read boot image: %v"
	BadIVT         = "bootrom: bad ivt header %08x"
	BadAppHeader   = "bootrom: bad application header %08x at %08x"
	BadEntry       = "bootrom: entry %08x is before ram start %08x"
	BadCodeOffset  = "bootrom: application at %08x has no room for %d bytes before the code"
	StagingFailure = "bootrom: staging %d bytes at %08x: %v"
	ImageTooLarge  = "bootrom: application of %d bytes is larger than sram"
)

// Header tags. The tag is the least significant byte of the header word.
const (
	IVTTag = 0xd1
	AppTag = 0xd5

	IVTHeader = 0x600001d1
	AppHeader = 0x600000d5
)

// BootConfigSecure is the secure boot bit of the boot configuration word.
const BootConfigSecure = 1 << 3

// ivt and application header layout.
const (
	ivtSize       = 0x100
	gmacOffset    = 0xf0
	appHeaderSize = 0x10
)

// IVT is the image vector table.
type IVT struct {
	Header        uint32
	SelfTestDCD   uint32
	SelfTestDCDBk uint32
	DCD           uint32
	DCDBk         uint32
	HSEFirmware   uint32
	HSEFirmwareBk uint32
	AppStart      uint32
	AppStartBk    uint32
	BootConfig    uint32
	LifeCycle     uint32
	GMAC          [16]uint8
}

// Secure returns true if the secure boot bit is set.
func (ivt IVT) Secure() bool {
	return ivt.BootConfig&BootConfigSecure == BootConfigSecure
}

// ImageOffset returns the offset of the application header in the image.
func (ivt IVT) ImageOffset() uint32 {
	if ivt.Secure() {
		return ivt.HSEFirmware
	}
	return ivt.AppStart
}

// ParseIVT reads an IVT from the start of b. b must be at least 0x100 bytes
// long.
func ParseIVT(b []uint8) (IVT, error) {
	if len(b) < ivtSize {
		return IVT{}, curated.Errorf(ReadError, fmt.Sprintf("ivt is %d bytes", len(b)))
	}
	w := func(o int) uint32 {
		return binary.LittleEndian.Uint32(b[o:])
	}
	ivt := IVT{
		Header:        w(0x00),
		SelfTestDCD:   w(0x08),
		SelfTestDCDBk: w(0x0c),
		DCD:           w(0x10),
		DCDBk:         w(0x14),
		HSEFirmware:   w(0x18),
		HSEFirmwareBk: w(0x1c),
		AppStart:      w(0x20),
		AppStartBk:    w(0x24),
		BootConfig:    w(0x28),
		LifeCycle:     w(0x2c),
	}
	copy(ivt.GMAC[:], b[gmacOffset:])
	if ivt.Header&0xff != IVTTag {
		return ivt, curated.Errorf(BadIVT, ivt.Header)
	}
	return ivt, nil
}

// Application is the header of the application image.
type Application struct {
	Header   uint32
	RAMStart uint32
	RAMEntry uint32
	Length   uint32
}

// Target is the memory the application is staged into.
type Target interface {
	Load(address uint32, data []uint8) error
}

// Image is the result of a successful Load().
type Image struct {
	IVT         IVT
	App         Application
	AppOffset   uint32
	StagedBytes int
	Entry       uint32
}

func (img *Image) String() string {
	return fmt.Sprintf("app at %08x: %d bytes staged at %08x, entry %08x", img.AppOffset, img.StagedBytes, img.App.RAMStart, img.Entry)
}

func readAt(r io.ReaderAt, b []uint8, off int64) error {
	n, err := r.ReadAt(b, off)
	if n == len(b) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return curated.Errorf(ReadError, err)
}

// Load stages the boot image read from r into the target.
func Load(env *environment.Environment, r io.ReaderAt, target Target) (*Image, error) {
	rom := make([]uint8, memorymap.BootROMSize)
	if err := readAt(r, rom, 0); err != nil {
		return nil, err
	}

	ivt, err := ParseIVT(rom)
	if err != nil {
		return nil, err
	}

	img := &Image{
		IVT:       ivt,
		AppOffset: ivt.ImageOffset(),
	}

	hdr := make([]uint8, appHeaderSize)
	if err := readAt(r, hdr, int64(img.AppOffset)); err != nil {
		return nil, err
	}
	img.App = Application{
		Header:   binary.LittleEndian.Uint32(hdr[0x0:]),
		RAMStart: binary.LittleEndian.Uint32(hdr[0x4:]),
		RAMEntry: binary.LittleEndian.Uint32(hdr[0x8:]),
		Length:   binary.LittleEndian.Uint32(hdr[0xc:]),
	}
	if img.App.Header&0xff != AppTag {
		return nil, curated.Errorf(BadAppHeader, img.App.Header, img.AppOffset)
	}
	if img.App.RAMEntry < img.App.RAMStart {
		return nil, curated.Errorf(BadEntry, img.App.RAMEntry, img.App.RAMStart)
	}

	pre := int64(img.App.RAMEntry - img.App.RAMStart)
	code := int64(img.AppOffset) + appHeaderSize
	if pre > code {
		return nil, curated.Errorf(BadCodeOffset, img.AppOffset, pre)
	}

	if int64(img.App.Length)+pre > int64(memorymap.SizeSRAM) {
		return nil, curated.Errorf(ImageTooLarge, int64(img.App.Length)+pre)
	}

	data := make([]uint8, int64(img.App.Length)+pre)
	if err := readAt(r, data, code-pre); err != nil {
		return nil, err
	}
	if err := target.Load(img.App.RAMStart, data); err != nil {
		return nil, curated.Errorf(StagingFailure, len(data), img.App.RAMStart, err)
	}

	img.StagedBytes = len(data)
	img.Entry = img.App.RAMEntry

	logger.Logf(env, "bootrom", "%s", img)

	return img, nil
}
