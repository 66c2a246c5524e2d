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

package dspi

import (
	"fmt"

	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/checkpoint"
	"github.com/s32gsim/s32gsim/hardware/clocks"
	"github.com/s32gsim/s32gsim/hardware/memory/memorymap"
	"github.com/s32gsim/s32gsim/hardware/memory/registers"
	"github.com/s32gsim/s32gsim/hardware/spi"
	"github.com/s32gsim/s32gsim/logger"
)

// Register offsets.
const (
	MCR   = 0x00
	TCR   = 0x08
	CTAR0 = 0x0c
	SR    = 0x2c
	RSER  = 0x30
	PUSHR = 0x34
	POPR  = 0x38
)

// MCR bits.
const (
	MCRHalt = 1 << 0
)

// CTAR bits.
const (
	// frames are sent with the asynchronous hand-off. the controller waits
	// for the slave to acknowledge each byte before the next frame
	CTARAsync = 1 << 0
)

// SR bits.
const (
	SRTCF  = 1 << 31
	SRTFUF = 1 << 27
	SRTFFF = 1 << 25
	SRRFDF = 1 << 17
)

// PUSHR fields.
const (
	PUSHRCont     = 1 << 31
	PUSHRPCSShift = 16
	PUSHRPCSMask  = 0xff
	PUSHRDataMask = 0xff
)

// TCR transfer counter is in the upper half of the register.
const tcrShift = 16

// FIFODepth is the number of entries in each of the TX and RX FIFOs.
const FIFODepth = 4

// Controller is an SPI controller.
type Controller struct {
	env  *environment.Environment
	bank *registers.Bank
	bus  *spi.Bus

	// runs the transfer when the controller has the bus
	master *clocks.BH

	tx []uint32
	rx []uint8

	// the controller is waiting in the bus queue (requested) or has been
	// given the bus (granted). only a granted controller transfers frames
	requested bool
	granted   bool

	// frame sent with SendAsync() that has not been acknowledged yet
	awaiting bool
	inflight uint32

	// a transaction kept open by the CONT bit
	open    bool
	openPCS uint8
}

// NewController is the preferred method of initialisation for the Controller
// type.
func NewController(env *environment.Environment, name string, clk *clocks.Clock, bus *spi.Bus) *Controller {
	c := &Controller{
		env: env,
		bus: bus,
	}

	c.bank = registers.NewBank(env, name, memorymap.SizeSPIController, []registers.Definition{
		{Offset: MCR, Name: "MCR", Write: c.writeMCR},
		{Offset: TCR, Name: "TCR"},
		{Offset: CTAR0, Name: "CTAR0"},
		{Offset: SR, Name: "SR", Read: c.readSR, Write: c.writeSR},
		{Offset: RSER, Name: "RSER"},
		{Offset: PUSHR, Name: "PUSHR", Write: c.writePUSHR},
		{Offset: POPR, Name: "POPR", Read: c.readPOPR},
	})

	c.master = clk.NewBH(c.transfer)

	return c
}

func (c *Controller) String() string {
	return fmt.Sprintf("%s: tx=%d rx=%d %s", c.bank.Name(), len(c.tx), len(c.rx), c.bus)
}

// Name returns the name of the controller.
func (c *Controller) Name() string {
	return c.bank.Name()
}

// Bus returns the bus the controller is master of.
func (c *Controller) Bus() *spi.Bus {
	return c.bus
}

func (c *Controller) halted() bool {
	v, _ := c.bank.Peek(MCR)
	return v&MCRHalt == MCRHalt
}

func (c *Controller) setStatus(bits uint32) {
	v, _ := c.bank.Peek(SR)
	c.bank.Poke(SR, v|bits)
}

func (c *Controller) writeMCR(offset uint32, value uint32) {
	c.bank.Poke(offset, value)
	if !c.halted() && len(c.tx) > 0 {
		c.request()
	}
}

func (c *Controller) readSR(offset uint32) uint32 {
	v, _ := c.bank.Peek(offset)
	if len(c.tx) < FIFODepth {
		v |= SRTFFF
	}
	if len(c.rx) > 0 {
		v |= SRRFDF
	}
	return v
}

// status flags are write-1-to-clear
func (c *Controller) writeSR(offset uint32, value uint32) {
	v, _ := c.bank.Peek(offset)
	c.bank.Poke(offset, v&^value)
}

func (c *Controller) readPOPR(offset uint32) uint32 {
	if len(c.rx) == 0 {
		return 0
	}
	d := c.rx[0]
	c.rx = c.rx[1:]
	c.bank.Poke(offset, uint32(d))
	return uint32(d)
}

func (c *Controller) writePUSHR(offset uint32, value uint32) {
	c.bank.Poke(offset, value)

	if len(c.tx) >= FIFODepth {
		logger.Logf(c.env, c.bank.Name(), "tx fifo overflow. frame %08x dropped", value)
		c.setStatus(SRTFUF)
		return
	}
	c.tx = append(c.tx, value)

	if !c.halted() {
		c.request()
	}
}

// ask for the bus. frames pushed while the controller is waiting for the
// bus stay in the FIFO until it is granted
func (c *Controller) request() {
	switch {
	case c.granted:
		if !c.awaiting {
			c.master.Schedule()
		}
	case c.requested:
	default:
		c.requested = true
		c.bus.BusMaster(c)
		c.bus.SchedulePendingMaster()
	}
}

// Schedule implements the spi.Master interface. The bus calls it when the
// controller is given the bus and when a slave acknowledges an asynchronous
// send.
func (c *Controller) Schedule() {
	c.granted = true
	c.master.Schedule()
}

func (c *Controller) async() bool {
	v, _ := c.bank.Peek(CTAR0)
	return v&CTARAsync == CTARAsync
}

// transfer is the bottom half run when the controller has the bus
func (c *Controller) transfer() {
	if !c.granted {
		return
	}

	if c.awaiting {
		c.awaiting = false
		c.complete(c.inflight)
	}

	for !c.halted() && len(c.tx) > 0 {
		frame := c.tx[0]
		c.tx = c.tx[1:]
		if c.frame(frame) {
			// resumed by the slave's acknowledgement
			return
		}
	}

	if c.open {
		// keep the bus until the transaction is finished
		return
	}

	c.requested = false
	c.granted = false
	c.bus.Release()
}

// frame returns true if the frame was sent asynchronously and is waiting to
// be acknowledged.
//
// the byte received for a frame is shifted in while the frame's data is
// shifted out. so it is collected before the data is sent
func (c *Controller) frame(frame uint32) bool {
	pcs := uint8((frame >> PUSHRPCSShift) & PUSHRPCSMask)
	data := uint8(frame & PUSHRDataMask)
	async := c.async()

	if c.open && c.openPCS != pcs {
		c.bus.EndTransfer()
		c.open = false
	}

	if !c.open {
		var err error
		if async {
			err = c.bus.StartSendAsync(pcs)
		} else {
			err = c.bus.StartSend(pcs)
		}
		if err != nil {
			logger.Logf(c.env, c.bank.Name(), "frame %08x: %v", frame, err)
			c.setStatus(SRTFUF | SRTCF)
			return false
		}
		c.open = true
		c.openPCS = pcs
	}

	if len(c.rx) >= FIFODepth {
		c.rx = c.rx[1:]
	}
	c.rx = append(c.rx, c.bus.Recv())

	if async {
		if err := c.bus.SendAsync(data); err != nil {
			logger.Logf(c.env, c.bank.Name(), "frame %08x: %v", frame, err)
			c.setStatus(SRTFUF)
		} else {
			c.awaiting = true
			c.inflight = frame
			return true
		}
	} else if err := c.bus.Send(data); err != nil {
		logger.Logf(c.env, c.bank.Name(), "frame %08x: %v", frame, err)
		c.setStatus(SRTFUF)
	}

	c.complete(frame)
	return false
}

// complete the frame once the data has been dealt with by the slave
func (c *Controller) complete(frame uint32) {
	if frame&PUSHRCont != PUSHRCont {
		c.bus.EndTransfer()
		c.open = false
	}

	tcr, _ := c.bank.Peek(TCR)
	c.bank.Poke(TCR, tcr+(1<<tcrShift))
	c.setStatus(SRTCF)
}

// Read implements the memory.Device interface.
func (c *Controller) Read(offset uint32, size int) uint32 {
	return c.bank.Read(offset, size)
}

// Write implements the memory.Device interface.
func (c *Controller) Write(offset uint32, size int, value uint32) {
	c.bank.Write(offset, size, value)
}

// Reset the controller. Queued frames and received data are discarded. The
// bus itself is reset separately by the owner of the bus.
func (c *Controller) Reset() {
	c.master.Cancel()
	c.tx = c.tx[:0]
	c.rx = c.rx[:0]
	c.requested = false
	c.granted = false
	c.awaiting = false
	c.open = false
	c.bank.Reset()
}

// Snapshot returns a copy of the register values.
func (c *Controller) Snapshot() []uint32 {
	return c.bank.Snapshot()
}

// Plumb restores register values previously returned by Snapshot(). The
// FIFOs are emptied.
func (c *Controller) Plumb(values []uint32) {
	c.master.Cancel()
	c.tx = c.tx[:0]
	c.rx = c.rx[:0]
	c.requested = false
	c.granted = false
	c.awaiting = false
	c.open = false
	c.bank.Plumb(values)
}

// SaveCheckpoint adds the register values to the checkpoint.
func (c *Controller) SaveCheckpoint(w *checkpoint.Writer) error {
	return c.bank.SaveCheckpoint(w)
}

// LoadCheckpoint restores the register values from the checkpoint.
func (c *Controller) LoadCheckpoint(r *checkpoint.Reader) error {
	if err := c.bank.LoadCheckpoint(r); err != nil {
		return err
	}
	c.Plumb(c.bank.Snapshot())
	return nil
}
