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

package bootrom_test

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/hardware/bootrom"
	"github.com/s32gsim/s32gsim/test"
)

// target records what is staged
type target struct {
	address uint32
	data    []uint8
	fail    bool
}

func (t *target) Load(address uint32, data []uint8) error {
	if t.fail {
		return fmt.Errorf("no memory at %08x", address)
	}
	t.address = address
	t.data = append([]uint8(nil), data...)
	return nil
}

func putWord(b []uint8, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

// image builds a boot image with the application header at appOff
func image(size int, appOff uint32, start, entry, length uint32, bootConfig uint32) []uint8 {
	b := make([]uint8, size)
	putWord(b, 0x00, bootrom.IVTHeader)
	putWord(b, 0x20, appOff)
	putWord(b, 0x28, bootConfig)
	putWord(b, int(appOff)+0x0, bootrom.AppHeader)
	putWord(b, int(appOff)+0x4, start)
	putWord(b, int(appOff)+0x8, entry)
	putWord(b, int(appOff)+0xc, length)
	for i := range int(length) {
		b[int(appOff)+0x10+i] = uint8(i)
	}
	return b
}

type memImage []uint8

func (m memImage) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m)) {
		return 0, fmt.Errorf("read beyond end of image")
	}
	n := copy(p, m[off:])
	if n < len(p) {
		return n, fmt.Errorf("short read")
	}
	return n, nil
}

func TestLargeImage(t *testing.T) {
	const size = 64 * 1024 * 1024
	const appOff = 0x1000

	fn := filepath.Join(t.TempDir(), "boot.img")
	f, err := os.Create(fn)
	test.DemandSuccess(t, err)
	defer f.Close()
	test.DemandSuccess(t, f.Truncate(size))

	b := image(appOff+0x210, appOff, 0x1000, 0x1010, 0x200, 0)
	_, err = f.WriteAt(b, 0)
	test.DemandSuccess(t, err)

	tgt := &target{}
	img, err := bootrom.Load(nil, f, tgt)
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, img.Entry, uint32(0x1010))
	test.ExpectEquality(t, img.StagedBytes, 0x210)
	test.ExpectEquality(t, tgt.address, uint32(0x1000))
	test.ExpectEquality(t, len(tgt.data), 0x210)

	// the bytes before the entry point are the application header
	test.ExpectEquality(t, binary.LittleEndian.Uint32(tgt.data), uint32(bootrom.AppHeader))
	test.ExpectEquality(t, tgt.data[0x10], uint8(0))
	test.ExpectEquality(t, tgt.data[0x20f], uint8(0xff))
}

func TestSecureBoot(t *testing.T) {
	b := image(0x10000, 0x8000, 0x34000000, 0x34000010, 0x40, 0)
	putWord(b, 0x18, 0x9000)
	putWord(b, 0x9000, bootrom.AppHeader)
	putWord(b, 0x9004, 0x34100000)
	putWord(b, 0x9008, 0x34100010)
	putWord(b, 0x900c, 0x20)

	tgt := &target{}
	img, err := bootrom.Load(nil, memImage(b), tgt)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, img.AppOffset, uint32(0x8000))
	test.ExpectFailure(t, img.IVT.Secure())

	putWord(b, 0x28, bootrom.BootConfigSecure)
	img, err = bootrom.Load(nil, memImage(b), tgt)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, img.IVT.Secure())
	test.ExpectEquality(t, img.AppOffset, uint32(0x9000))
	test.ExpectEquality(t, img.Entry, uint32(0x34100010))
	test.ExpectEquality(t, tgt.address, uint32(0x34100000))
	test.ExpectEquality(t, len(tgt.data), 0x30)
}

func TestGMAC(t *testing.T) {
	b := image(0x10000, 0x8000, 0x0, 0x10, 0x10, 0)
	for i := range 16 {
		b[0xf0+i] = uint8(0xa0 + i)
	}
	ivt, err := bootrom.ParseIVT(b)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ivt.GMAC[0], uint8(0xa0))
	test.ExpectEquality(t, ivt.GMAC[15], uint8(0xaf))
}

func TestFailures(t *testing.T) {
	tgt := &target{}

	// image shorter than the region read by the boot rom
	_, err := bootrom.Load(nil, memImage(make([]uint8, 0x100)), tgt)
	test.ExpectSuccess(t, curated.Is(err, bootrom.ReadError))

	b := image(0x10000, 0x8000, 0x1000, 0x1010, 0x100, 0)
	putWord(b, 0, 0)
	_, err = bootrom.Load(nil, memImage(b), tgt)
	test.ExpectSuccess(t, curated.Is(err, bootrom.BadIVT))

	b = image(0x10000, 0x8000, 0x1000, 0x1010, 0x100, 0)
	putWord(b, 0x8000, 0)
	_, err = bootrom.Load(nil, memImage(b), tgt)
	test.ExpectSuccess(t, curated.Is(err, bootrom.BadAppHeader))

	b = image(0x10000, 0x8000, 0x1010, 0x1000, 0x100, 0)
	_, err = bootrom.Load(nil, memImage(b), tgt)
	test.ExpectSuccess(t, curated.Is(err, bootrom.BadEntry))

	// code runs off the end of the image
	b = image(0x10000, 0x8000, 0x1000, 0x1010, 0x100, 0)
	putWord(b, 0x800c, 0x10000)
	_, err = bootrom.Load(nil, memImage(b), tgt)
	test.ExpectSuccess(t, curated.Is(err, bootrom.ReadError))

	b = image(0x10000, 0x8000, 0x1000, 0x1010, 0x100, 0)
	tgt.fail = true
	_, err = bootrom.Load(nil, memImage(b), tgt)
	test.ExpectSuccess(t, curated.Is(err, bootrom.StagingFailure))
}
