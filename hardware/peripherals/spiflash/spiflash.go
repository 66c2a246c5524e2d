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

package spiflash

import (
	"fmt"
	"io"
	"os"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/clocks"
	"github.com/s32gsim/s32gsim/hardware/spi"
	"github.com/s32gsim/s32gsim/logger"
)

// Commands understood by the flash.
const (
	CmdPageProgram = 0x02
	CmdRead        = 0x03
	CmdReadStatus  = 0x05
	CmdWriteEnable = 0x06
	CmdReadID      = 0x9f
)

// Status register bits.
const (
	StatusWIP = 1 << 0
	StatusWEL = 1 << 1
)

// PageSize is the size of a program page. Programming wraps around within a
// page.
const PageSize = 0x100

// MaxSize is the largest flash addressable with three address bytes.
const MaxSize = 0x1000000

// JEDEC identification returned by the read ID command.
var JEDECID = []uint8{0x20, 0xba, 0x18}

// Sentinel errors.
const (
	NotWriteEnabled = "spiflash: page program without write enable"
	UnknownCommand  = "spiflash: unknown command %02x"
	FileTooLarge    = "spiflash: %s is %d bytes. flash is %d bytes"
)

// State records how incoming bytes will be interpreted.
type State int

// List of valid State values.
const (
	StateIdle State = iota
	StateCommand
	StateAddress
	StateRead
	StateProgram
	StateStatus
	StateID

	// the command is complete and further bytes are ignored
	StateDone
)

// Flash is a serial NOR flash device.
type Flash struct {
	env *environment.Environment
	bus *spi.Bus

	address uint8

	// bottom half used to process bytes sent with SendAsync()
	async *clocks.BH
	queue []uint8

	State   State
	Command uint8

	// address of the next read or program. AddrCt counts the address bytes
	// received for the current command
	Addr   uint32
	AddrCt int

	// write enable latch
	WEL bool

	// index into JEDECID for the next read ID byte
	IDIdx int

	// amend Data only through program() and Poke()
	Data []uint8
}

// NewFlash is the preferred method of initialisation for the Flash type. The
// size is in bytes and must be no larger than MaxSize. Erased flash reads as
// 0xff.
func NewFlash(env *environment.Environment, address uint8, size int, clk *clocks.Clock, bus *spi.Bus) *Flash {
	if size > MaxSize {
		size = MaxSize
	}
	fl := &Flash{
		env:     env,
		bus:     bus,
		address: address,
		Data:    make([]uint8, size),
	}
	for i := range fl.Data {
		fl.Data[i] = 0xff
	}
	fl.async = clk.NewBH(fl.drain)
	return fl
}

func (fl *Flash) String() string {
	return fmt.Sprintf("flash %02x: %d bytes, cmd=%02x addr=%06x wel=%v", fl.address, len(fl.Data), fl.Command, fl.Addr, fl.WEL)
}

// Address implements the spi.Slave interface.
func (fl *Flash) Address() uint8 {
	return fl.address
}

// Event implements the spi.EventHandler interface.
func (fl *Flash) Event(ev spi.Event) error {
	switch ev {
	case spi.StartSend, spi.StartSendAsync:
		if fl.State == StateIdle {
			fl.State = StateCommand
		}
	case spi.Finish:
		if fl.Command == CmdPageProgram && fl.State == StateProgram {
			fl.WEL = false
		}
		fl.State = StateIdle
		fl.Command = 0
	}
	return nil
}

// Send implements the spi.Sender interface.
func (fl *Flash) Send(data uint8) error {
	switch fl.State {
	case StateIdle:
		// bytes outside of a transaction are ignored
		return nil

	case StateCommand:
		fl.Command = data
		switch data {
		case CmdRead:
			fl.Addr = 0
			fl.AddrCt = 0
			fl.State = StateAddress
		case CmdPageProgram:
			if !fl.WEL {
				fl.State = StateDone
				return curated.Errorf(NotWriteEnabled)
			}
			fl.Addr = 0
			fl.AddrCt = 0
			fl.State = StateAddress
		case CmdWriteEnable:
			fl.WEL = true
			fl.State = StateDone
		case CmdReadStatus:
			fl.State = StateStatus
		case CmdReadID:
			fl.IDIdx = 0
			fl.State = StateID
		default:
			fl.State = StateDone
			logger.Logf(fl.env, "spiflash", "unknown command %02x", data)
			return curated.Errorf(UnknownCommand, data)
		}

	case StateAddress:
		fl.Addr = (fl.Addr << 8) | uint32(data)
		fl.AddrCt++
		if fl.AddrCt == 3 {
			if fl.Command == CmdRead {
				fl.State = StateRead
			} else {
				fl.State = StateProgram
			}
		}

	case StateProgram:
		fl.program(data)
	}

	return nil
}

// programming can only clear bits. the address wraps within the page
func (fl *Flash) program(data uint8) {
	if len(fl.Data) == 0 {
		return
	}
	a := fl.Addr % uint32(len(fl.Data))
	fl.Data[a] &= data
	fl.Addr = (fl.Addr &^ (PageSize - 1)) | ((fl.Addr + 1) & (PageSize - 1))
}

// Recv implements the spi.Receiver interface.
func (fl *Flash) Recv() uint8 {
	switch fl.State {
	case StateRead:
		if len(fl.Data) == 0 {
			return 0xff
		}
		v := fl.Data[fl.Addr%uint32(len(fl.Data))]
		fl.Addr++
		return v
	case StateStatus:
		if fl.WEL {
			return StatusWEL
		}
		return 0
	case StateID:
		v := JEDECID[fl.IDIdx%len(JEDECID)]
		fl.IDIdx++
		return v
	}
	return 0xff
}

// SendAsync implements the spi.AsyncSender interface. The byte is dealt with
// on a bottom half which then acknowledges it on the bus.
func (fl *Flash) SendAsync(data uint8) {
	fl.queue = append(fl.queue, data)
	fl.async.Schedule()
}

func (fl *Flash) drain() {
	for _, d := range fl.queue {
		if err := fl.Send(d); err != nil {
			logger.Logf(fl.env, "spiflash", "async: %v", err)
		}
	}
	fl.queue = fl.queue[:0]
	if fl.bus != nil {
		fl.bus.Ack()
	}
}

// ReadAt implements the io.ReaderAt interface.
func (fl *Flash) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("spiflash: negative offset")
	}
	if off >= int64(len(fl.Data)) {
		return 0, io.EOF
	}
	n := copy(p, fl.Data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Poke a value into the flash.
func (fl *Flash) Poke(address uint32, data uint8) {
	fl.Data[address%uint32(len(fl.Data))] = data
}

// Reset the command state. The contents of the flash are unchanged.
func (fl *Flash) Reset() {
	fl.async.Cancel()
	fl.queue = fl.queue[:0]
	fl.State = StateIdle
	fl.Command = 0
	fl.Addr = 0
	fl.AddrCt = 0
	fl.WEL = false
	fl.IDIdx = 0
}

// Snapshot returns a copy of the flash.
func (fl *Flash) Snapshot() *Flash {
	cp := *fl
	cp.Data = make([]uint8, len(fl.Data))
	copy(cp.Data, fl.Data)
	cp.queue = nil
	return &cp
}

// Plumb restores the state of the flash from a copy returned by Snapshot().
func (fl *Flash) Plumb(s *Flash) {
	fl.async.Cancel()
	fl.queue = fl.queue[:0]
	fl.State = s.State
	fl.Command = s.Command
	fl.Addr = s.Addr
	fl.AddrCt = s.AddrCt
	fl.WEL = s.WEL
	fl.IDIdx = s.IDIdx
	copy(fl.Data, s.Data)
}

// LoadFile reads the flash contents from a file. Flash beyond the end of the
// file is erased.
func (fl *Flash) LoadFile(fn string) error {
	f, err := os.Open(fn)
	if err != nil {
		return curated.Errorf("spiflash: %v", err)
	}
	defer f.Close()

	fs, err := os.Stat(fn)
	if err != nil {
		return curated.Errorf("spiflash: %v", err)
	}
	if fs.Size() > int64(len(fl.Data)) {
		return curated.Errorf(FileTooLarge, fn, fs.Size(), len(fl.Data))
	}

	n, err := io.ReadFull(f, fl.Data[:fs.Size()])
	if err != nil {
		return curated.Errorf("spiflash: %v", err)
	}
	for i := n; i < len(fl.Data); i++ {
		fl.Data[i] = 0xff
	}

	logger.Logf(fl.env, "spiflash", "loaded %d bytes from %s", n, fn)
	return nil
}

// SaveFile writes the flash contents to a file.
func (fl *Flash) SaveFile(fn string) error {
	f, err := os.Create(fn)
	if err != nil {
		return curated.Errorf("spiflash: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil {
			logger.Logf(fl.env, "spiflash", "could not close %s: %v", fn, err)
		}
	}()

	n, err := f.Write(fl.Data)
	if err != nil {
		return curated.Errorf("spiflash: %v", err)
	}

	logger.Logf(fl.env, "spiflash", "saved %d bytes to %s", n, fn)
	return nil
}
