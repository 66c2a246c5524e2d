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

package sdcard

import (
	"fmt"
	"io"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/spi"
	"github.com/s32gsim/s32gsim/logger"
)

// BlockSize is the size of a data block in bytes.
const BlockSize = 512

// Commands. ACMD41 is only recognised after CMD55.
const (
	CMD0   = 0
	CMD8   = 8
	CMD16  = 16
	CMD17  = 17
	CMD24  = 24
	CMD55  = 55
	CMD58  = 58
	ACMD41 = 41
)

// R1 response bits.
const (
	R1Idle         = 0x01
	R1IllegalCmd   = 0x04
	R1AddressError = 0x20
)

// Data tokens.
const (
	TokenStartBlock = 0xfe

	// data response tokens for a block write
	DataAccepted   = 0x05
	DataWriteError = 0x0d
)

// OCR returned by CMD58. Powered up and high capacity.
const OCR = uint32(0xc0ff8000)

// Sentinel errors.
const (
	NotInserted = "sdcard: no card inserted"
)

// Card is an SD memory card.
type Card struct {
	env     *environment.Environment
	address uint8

	backend io.ReaderAt
	size    int64

	// the card is idle until initialised with ACMD41
	idle bool

	// the next command is an application command
	app bool

	// command frame being assembled
	cmd []uint8

	// bytes waiting to be received by the master
	out []uint8

	// block write in progress. writeAddr is the byte offset of the block
	writing   bool
	writeAddr int64
	block     []uint8
}

// NewCard is the preferred method of initialisation for the Card type. A nil
// backend means that no card is inserted.
func NewCard(env *environment.Environment, address uint8, backend io.ReaderAt, size int64) *Card {
	c := &Card{
		env:     env,
		address: address,
	}
	c.Insert(backend, size)
	return c
}

func (c *Card) String() string {
	if c.backend == nil {
		return fmt.Sprintf("sdcard %02x: empty", c.address)
	}
	return fmt.Sprintf("sdcard %02x: %d blocks idle=%v", c.address, c.size/BlockSize, c.idle)
}

// Insert a card. Any card already inserted is removed first.
func (c *Card) Insert(backend io.ReaderAt, size int64) {
	c.backend = backend
	c.size = size
	c.Reset()
}

// Eject the card.
func (c *Card) Eject() {
	c.Insert(nil, 0)
}

// Inserted returns true if a card is inserted.
func (c *Card) Inserted() bool {
	return c.backend != nil
}

// Reset the card to the power on state.
func (c *Card) Reset() {
	c.idle = true
	c.app = false
	c.cmd = c.cmd[:0]
	c.out = c.out[:0]
	c.writing = false
	c.block = c.block[:0]
}

// Address implements the spi.Slave interface.
func (c *Card) Address() uint8 {
	return c.address
}

// Event implements the spi.EventHandler interface.
func (c *Card) Event(ev spi.Event) error {
	switch ev {
	case spi.StartRecv, spi.StartSend, spi.StartSendAsync:
		if c.backend == nil {
			return curated.Errorf(NotInserted)
		}
	case spi.Finish:
		// deselecting the card abandons a partial command frame
		c.cmd = c.cmd[:0]
	}
	return nil
}

func (c *Card) r1() uint8 {
	if c.idle {
		return R1Idle
	}
	return 0
}

// Send implements the spi.Sender interface.
func (c *Card) Send(data uint8) error {
	if c.backend == nil {
		return curated.Errorf(NotInserted)
	}

	if c.writing {
		c.writeByte(data)
		return nil
	}

	// filler bytes between commands
	if len(c.cmd) == 0 && data&0xc0 != 0x40 {
		return nil
	}

	c.cmd = append(c.cmd, data)
	if len(c.cmd) == 6 {
		idx := c.cmd[0] & 0x3f
		arg := uint32(c.cmd[1])<<24 | uint32(c.cmd[2])<<16 | uint32(c.cmd[3])<<8 | uint32(c.cmd[4])
		c.cmd = c.cmd[:0]
		c.command(idx, arg)
	}

	return nil
}

func (c *Card) command(idx uint8, arg uint32) {
	app := c.app
	c.app = false

	// a new command discards any response the master did not collect
	c.out = c.out[:0]

	if app {
		switch idx {
		case ACMD41:
			c.idle = false
			c.out = append(c.out, c.r1())
			return
		}
	}

	switch idx {
	case CMD0:
		c.idle = true
		c.out = append(c.out, c.r1())

	case CMD8:
		c.out = append(c.out, c.r1(), 0x00, 0x00, uint8(arg>>8)&0x0f, uint8(arg))

	case CMD55:
		c.app = true
		c.out = append(c.out, c.r1())

	case CMD58:
		ocr := OCR
		c.out = append(c.out, c.r1(), uint8(ocr>>24), uint8(ocr>>16), uint8(ocr>>8), uint8(ocr))

	case CMD16:
		if arg != BlockSize {
			logger.Logf(c.env, "sdcard", "block length %d not supported", arg)
		}
		c.out = append(c.out, c.r1())

	case CMD17:
		c.read(int64(arg) * BlockSize)

	case CMD24:
		off := int64(arg) * BlockSize
		if off+BlockSize > c.size {
			c.out = append(c.out, c.r1()|R1AddressError)
			return
		}
		c.out = append(c.out, c.r1())
		c.writing = true
		c.writeAddr = off
		c.block = c.block[:0]

	default:
		logger.Logf(c.env, "sdcard", "unsupported command %d (%08x)", idx, arg)
		c.out = append(c.out, c.r1()|R1IllegalCmd)
	}
}

func (c *Card) read(off int64) {
	if off+BlockSize > c.size {
		c.out = append(c.out, c.r1()|R1AddressError)
		return
	}

	b := make([]uint8, BlockSize)
	if _, err := c.backend.ReadAt(b, off); err != nil && err != io.EOF {
		logger.Logf(c.env, "sdcard", "read of block at %d: %v", off, err)
		c.out = append(c.out, c.r1()|R1AddressError)
		return
	}

	c.out = append(c.out, c.r1(), TokenStartBlock)
	c.out = append(c.out, b...)

	// crc is not checked by the master
	c.out = append(c.out, 0xff, 0xff)
}

func (c *Card) writeByte(data uint8) {
	// wait for the start token
	if len(c.block) == 0 && data != TokenStartBlock {
		return
	}
	c.block = append(c.block, data)

	// start token, data block and two crc bytes
	if len(c.block) < BlockSize+3 {
		return
	}

	c.writing = false
	w, ok := c.backend.(io.WriterAt)
	if !ok {
		logger.Logf(c.env, "sdcard", "card is read only")
		c.out = append(c.out, DataWriteError)
		return
	}
	if _, err := w.WriteAt(c.block[1:BlockSize+1], c.writeAddr); err != nil {
		logger.Logf(c.env, "sdcard", "write of block at %d: %v", c.writeAddr, err)
		c.out = append(c.out, DataWriteError)
		return
	}
	c.out = append(c.out, DataAccepted)
}

// Recv implements the spi.Receiver interface.
func (c *Card) Recv() uint8 {
	if len(c.out) == 0 {
		return 0xff
	}
	v := c.out[0]
	c.out = c.out[1:]
	return v
}
