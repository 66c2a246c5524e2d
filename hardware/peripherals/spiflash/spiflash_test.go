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

package spiflash_test

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/clocks"
	"github.com/s32gsim/s32gsim/hardware/peripherals/spiflash"
	"github.com/s32gsim/s32gsim/hardware/preferences"
	"github.com/s32gsim/s32gsim/hardware/spi"
	"github.com/s32gsim/s32gsim/test"
)

type rig struct {
	env *environment.Environment
	clk *clocks.Clock
	bus *spi.Bus
	fl  *spiflash.Flash
}

func newRig(t *testing.T) *rig {
	t.Helper()
	env, err := environment.NewEnvironment(environment.MainEmulation, preferences.NewDefaultPreferences())
	test.DemandSuccess(t, err)

	r := &rig{
		env: env,
		clk: clocks.NewClock(),
	}
	r.bus = spi.NewBus(env, "spi_test")
	r.fl = spiflash.NewFlash(env, 1, 0x1000, r.clk, r.bus)
	test.DemandSuccess(t, r.bus.Attach(r.fl))
	return r
}

// transfer sends the command bytes and then receives n bytes
func (r *rig) transfer(t *testing.T, cmd []uint8, n int) ([]uint8, error) {
	t.Helper()
	test.DemandSuccess(t, r.bus.StartSend(1))
	defer r.bus.EndTransfer()

	var err error
	for _, c := range cmd {
		if e := r.bus.Send(c); e != nil && err == nil {
			err = e
		}
	}
	var out []uint8
	for range n {
		out = append(out, r.bus.Recv())
	}
	return out, err
}

func TestReadID(t *testing.T) {
	r := newRig(t)
	out, err := r.transfer(t, []uint8{spiflash.CmdReadID}, 3)
	test.ExpectSuccess(t, err)
	if d := cmp.Diff(spiflash.JEDECID, out); d != "" {
		t.Error(d)
	}
}

func TestRead(t *testing.T) {
	r := newRig(t)
	r.fl.Poke(0x100, 0x12)
	r.fl.Poke(0x101, 0x34)

	out, err := r.transfer(t, []uint8{spiflash.CmdRead, 0x00, 0x01, 0x00}, 3)
	test.ExpectSuccess(t, err)
	if d := cmp.Diff([]uint8{0x12, 0x34, 0xff}, out); d != "" {
		t.Error(d)
	}

	// outside of a transaction nothing is returned
	test.ExpectEquality(t, r.bus.Recv(), uint8(0xff))
}

func TestProgram(t *testing.T) {
	r := newRig(t)

	// program without write enable is nak'd
	_, err := r.transfer(t, []uint8{spiflash.CmdPageProgram, 0x00, 0x00, 0x00, 0x00}, 0)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, r.fl.Data[0], uint8(0xff))

	_, err = r.transfer(t, []uint8{spiflash.CmdWriteEnable}, 0)
	test.ExpectSuccess(t, err)
	out, _ := r.transfer(t, []uint8{spiflash.CmdReadStatus}, 1)
	test.ExpectEquality(t, out[0], uint8(spiflash.StatusWEL))

	// program wraps within the page
	_, err = r.transfer(t, []uint8{spiflash.CmdPageProgram, 0x00, 0x00, 0xff, 0xa5, 0x5a}, 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r.fl.Data[0xff], uint8(0xa5))
	test.ExpectEquality(t, r.fl.Data[0x00], uint8(0x5a))
	test.ExpectEquality(t, r.fl.Data[0x100], uint8(0xff))

	// write enable is cleared by the program
	out, _ = r.transfer(t, []uint8{spiflash.CmdReadStatus}, 1)
	test.ExpectEquality(t, out[0], uint8(0))
}

func TestUnknownCommand(t *testing.T) {
	r := newRig(t)
	_, err := r.transfer(t, []uint8{0x77}, 0)
	test.ExpectSuccess(t, curated.Is(err, spi.SendNak))
	test.ExpectSuccess(t, curated.Has(err, spiflash.UnknownCommand))
}

func TestAsync(t *testing.T) {
	r := newRig(t)
	r.fl.Poke(0x10, 0x99)

	var resumed int
	master := r.clk.NewBH(func() { resumed++ })
	r.bus.BusMaster(master)
	r.bus.SchedulePendingMaster()
	r.clk.RunPending()
	test.ExpectEquality(t, resumed, 1)

	test.DemandSuccess(t, r.bus.StartSendAsync(1))
	for _, b := range []uint8{spiflash.CmdRead, 0x00, 0x00, 0x10} {
		test.ExpectSuccess(t, r.bus.SendAsync(b))
	}

	// bytes are dealt with and acknowledged once on the bottom half
	r.clk.RunPending()
	test.ExpectEquality(t, resumed, 2)
	test.ExpectEquality(t, r.bus.Recv(), uint8(0x99))

	r.bus.EndTransfer()
	r.bus.Release()
}

func TestReaderAt(t *testing.T) {
	r := newRig(t)
	r.fl.Poke(0xffe, 0x01)
	r.fl.Poke(0xfff, 0x02)

	p := make([]byte, 4)
	n, err := r.fl.ReadAt(p, 0xffe)
	test.ExpectEquality(t, n, 2)
	test.ExpectEquality(t, err, io.EOF)
	if d := cmp.Diff([]byte{0x01, 0x02, 0, 0}, p); d != "" {
		t.Error(d)
	}

	_, err = r.fl.ReadAt(p, 0x1000)
	test.ExpectEquality(t, err, io.EOF)
}

func TestFileAndSnapshot(t *testing.T) {
	r := newRig(t)
	r.fl.Poke(0, 0x42)

	fn := filepath.Join(t.TempDir(), "flash.bin")
	test.DemandSuccess(t, r.fl.SaveFile(fn))

	s := r.fl.Snapshot()
	r.fl.Poke(0, 0x00)
	r.fl.Plumb(s)
	test.ExpectEquality(t, r.fl.Data[0], uint8(0x42))

	other := spiflash.NewFlash(r.env, 2, 0x1000, r.clk, nil)
	test.DemandSuccess(t, other.LoadFile(fn))
	test.ExpectEquality(t, other.Data[0], uint8(0x42))
	test.ExpectEquality(t, other.Data[1], uint8(0xff))

	small := spiflash.NewFlash(r.env, 3, 0x10, r.clk, nil)
	err := small.LoadFile(fn)
	test.ExpectSuccess(t, curated.Is(err, spiflash.FileTooLarge))
}
