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

package spi

import (
	"fmt"
	"strings"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/checkpoint"
	"github.com/s32gsim/s32gsim/logger"
)

// Sentinel errors.
const (
	NoDevice         = "spi: no device at address 0x%02x"
	Nak              = "spi: nak from device at address 0x%02x: %v"
	SendNak          = "spi: send of %02x was nak'd: %v"
	NotSender        = "spi: device at address 0x%02x cannot receive bytes"
	NoAsync          = "spi: device at address 0x%02x does not support async send"
	ReservedAddress  = "spi: address 0x%02x is reserved"
	DuplicateAddress = "spi: address 0x%02x is already in use"
)

// Master is the handle of a deferred bus master. The bus schedules the
// handle when the master is given the bus and when a slave acknowledges an
// asynchronous send. A *clocks.BH satisfies this interface.
type Master interface {
	Schedule()
}

// Bus is an SPI bus.
type Bus struct {
	env  *environment.Environment
	name string

	// attached slaves in attach order
	slaves []Slave

	// slaves taking part in the current transaction. never empty while a
	// transaction is open
	current   []Slave
	broadcast bool

	// masters waiting for the bus in the order they asked for it
	pending []Master

	// the master that currently has the bus
	active Master
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus(env *environment.Environment, name string) *Bus {
	return &Bus{
		env:  env,
		name: name,
	}
}

func (bus *Bus) String() string {
	s := strings.Builder{}
	s.WriteString(bus.name)
	s.WriteString(": ")
	if len(bus.current) == 0 {
		s.WriteString("idle")
	} else if bus.broadcast {
		s.WriteString("broadcast")
	} else {
		s.WriteString(fmt.Sprintf("selected %02x", bus.current[0].Address()))
	}
	if bus.active != nil {
		s.WriteString(" [mastered]")
	}
	if len(bus.pending) > 0 {
		s.WriteString(fmt.Sprintf(" [%d pending]", len(bus.pending)))
	}
	return s.String()
}

// Name returns the name of the bus.
func (bus *Bus) Name() string {
	return bus.name
}

func (bus *Bus) trace(pattern string, args ...any) {
	if bus.env != nil && bus.env.Prefs != nil && bus.env.Prefs.TraceSPI.Get().(bool) {
		logger.Logf(bus.env, bus.name, pattern, args...)
	}
}

// Attach a slave to the bus. The broadcast address and NoAddress are
// reserved. Addresses must be unique on the bus.
func (bus *Bus) Attach(s Slave) error {
	a := s.Address()
	if a == Broadcast || a == NoAddress {
		return curated.Errorf(ReservedAddress, a)
	}
	for _, o := range bus.slaves {
		if o.Address() == a {
			return curated.Errorf(DuplicateAddress, a)
		}
	}
	bus.slaves = append(bus.slaves, s)
	return nil
}

// Slaves returns the attached slaves in attach order.
func (bus *Bus) Slaves() []Slave {
	return append([]Slave(nil), bus.slaves...)
}

// Selected returns the addresses of the slaves in the current transaction.
func (bus *Bus) Selected() []uint8 {
	a := make([]uint8, 0, len(bus.current))
	for _, s := range bus.current {
		a = append(a, s.Address())
	}
	return a
}

// Broadcasting returns true if the current transaction is a broadcast.
func (bus *Bus) Broadcasting() bool {
	return bus.broadcast
}

// Busy returns true if a transaction is open or a master has the bus.
func (bus *Bus) Busy() bool {
	return len(bus.current) > 0 || bus.active != nil
}

// scan the attached slaves and add any that match to the current
// transaction. a non-broadcast scan stops at the first match
func (bus *Bus) scan(address uint8) {
	for _, s := range bus.slaves {
		if match(s, address, bus.broadcast) {
			bus.current = append(bus.current, s)
			if !bus.broadcast {
				return
			}
		}
	}
}

func (bus *Bus) start(address uint8, ev Event) error {
	scanned := false

	// a broadcast start inside an open transaction turns the transaction into
	// a broadcast without rescanning
	if address == Broadcast {
		bus.broadcast = true
	}

	if len(bus.current) == 0 {
		bus.scan(address)
		scanned = true
	}

	if len(bus.current) == 0 {
		bus.broadcast = false
		bus.trace("%s: %v", ev, curated.Errorf(NoDevice, address))
		return curated.Errorf(NoDevice, address)
	}

	for _, s := range bus.current {
		h, ok := s.(EventHandler)
		if !ok {
			continue
		}
		bus.trace("%s %02x", ev, s.Address())
		if err := h.Event(ev); err != nil && !bus.broadcast {
			if scanned {
				bus.EndTransfer()
			}
			return curated.Errorf(Nak, s.Address(), err)
		}
	}

	return nil
}

// StartTransfer starts or continues a transaction with the slave at address.
// If recv is true the transfer is from slave to master.
func (bus *Bus) StartTransfer(address uint8, recv bool) error {
	if recv {
		return bus.start(address, StartRecv)
	}
	return bus.start(address, StartSend)
}

// StartRecv starts or continues a transaction for receiving from the slave
// at address.
func (bus *Bus) StartRecv(address uint8) error {
	return bus.start(address, StartRecv)
}

// StartSend starts or continues a transaction for sending to the slave at
// address.
func (bus *Bus) StartSend(address uint8) error {
	return bus.start(address, StartSend)
}

// StartSendAsync starts or continues a transaction for sending to the slave
// at address with SendAsync().
func (bus *Bus) StartSendAsync(address uint8) error {
	return bus.start(address, StartSendAsync)
}

// EndTransfer notifies every selected slave that the transaction has
// finished and returns the bus to the idle state.
func (bus *Bus) EndTransfer() {
	for _, s := range bus.current {
		if h, ok := s.(EventHandler); ok {
			bus.trace("%s %02x", Finish, s.Address())
			_ = h.Event(Finish)
		}
	}
	clear(bus.current)
	bus.current = bus.current[:0]
	bus.broadcast = false
}

// Send a byte to every selected slave. Every slave receives the byte even if
// an earlier slave NAKs it. A slave that cannot receive bytes counts as a
// NAK. The returned error wraps the first NAK.
func (bus *Bus) Send(data uint8) error {
	var nak error
	for _, s := range bus.current {
		snd, ok := s.(Sender)
		if !ok {
			if nak == nil {
				nak = curated.Errorf(NotSender, s.Address())
			}
			continue
		}
		bus.trace("send %02x to %02x", data, s.Address())
		if err := snd.Send(data); err != nil && nak == nil {
			nak = err
		}
	}
	if nak != nil {
		return curated.Errorf(SendNak, data, nak)
	}
	return nil
}

// SendAsync sends a byte to the first selected slave only. The slave will
// call Ack() when it has dealt with the byte.
func (bus *Bus) SendAsync(data uint8) error {
	if len(bus.current) == 0 {
		return curated.Errorf(NoDevice, NoAddress)
	}
	s := bus.current[0]
	snd, ok := s.(AsyncSender)
	if !ok {
		return curated.Errorf(NoAsync, s.Address())
	}
	bus.trace("send async %02x to %02x", data, s.Address())
	snd.SendAsync(data)
	return nil
}

// Recv a byte from the first selected slave. Returns 0xff if the transaction
// is a broadcast, if no transaction is open or if the slave cannot send
// bytes.
func (bus *Bus) Recv() uint8 {
	if len(bus.current) == 0 || bus.broadcast {
		return 0xff
	}
	s := bus.current[0]
	rcv, ok := s.(Receiver)
	if !ok {
		return 0xff
	}
	data := rcv.Recv()
	bus.trace("recv %02x from %02x", data, s.Address())
	return data
}

// Nack notifies every selected slave that the master NACKed the last byte
// received.
func (bus *Bus) Nack() {
	for _, s := range bus.current {
		if h, ok := s.(EventHandler); ok {
			bus.trace("%s %02x", Nack, s.Address())
			_ = h.Event(Nack)
		}
	}
}

// Ack is called by a slave when it has dealt with a byte sent by
// SendAsync(). The master that has the bus is scheduled.
func (bus *Bus) Ack() {
	if bus.active == nil {
		return
	}
	bus.trace("ack")
	bus.active.Schedule()
}

// BusMaster adds a master to the queue of masters waiting for the bus. The
// master is scheduled when it reaches the front of the queue and the bus is
// not busy. SchedulePendingMaster() must be called to start the process if
// the bus is idle.
func (bus *Bus) BusMaster(m Master) {
	bus.pending = append(bus.pending, m)
}

// SchedulePendingMaster gives the bus to the master at the front of the
// queue if the bus is not busy.
func (bus *Bus) SchedulePendingMaster() {
	if bus.Busy() || len(bus.pending) == 0 {
		return
	}
	bus.active = bus.pending[0]
	bus.pending[0] = nil
	bus.pending = bus.pending[1:]
	bus.active.Schedule()
}

// Release is called by the master that has the bus when it no longer needs
// it. The next waiting master is scheduled.
func (bus *Bus) Release() {
	bus.active = nil
	bus.SchedulePendingMaster()
}

// Pending returns the number of masters waiting for the bus.
func (bus *Bus) Pending() int {
	return len(bus.pending)
}

// Reset the bus. Any open transaction is abandoned without notifying the
// slaves and every waiting master is forgotten.
func (bus *Bus) Reset() {
	clear(bus.current)
	bus.current = bus.current[:0]
	bus.broadcast = false
	clear(bus.pending)
	bus.pending = bus.pending[:0]
	bus.active = nil
}

// Snapshot returns the saved address of the bus. The saved address is the
// address of the selected slave, the broadcast address or NoAddress if no
// transaction is open.
func (bus *Bus) Snapshot() uint8 {
	if len(bus.current) == 0 {
		return NoAddress
	}
	if bus.broadcast {
		return Broadcast
	}
	return bus.current[0].Address()
}

// Plumb restores the current transaction from a saved address. Each attached
// slave rejoins the transaction if its address matches the saved address or
// if the saved address is the broadcast address. Waiting masters are not
// part of the saved state.
func (bus *Bus) Plumb(saved uint8) {
	bus.Reset()
	if saved == NoAddress {
		return
	}
	bus.broadcast = saved == Broadcast
	for _, s := range bus.slaves {
		if bus.broadcast || s.Address() == saved {
			bus.current = append(bus.current, s)
		}
	}
	if len(bus.current) == 0 {
		bus.broadcast = false
		logger.Logf(bus.env, bus.name, "restored address 0x%02x has no device", saved)
	}
}

const sectionVersion = 1

// SaveCheckpoint adds the saved address of the bus to the checkpoint.
func (bus *Bus) SaveCheckpoint(w *checkpoint.Writer) error {
	return w.Section(bus.name, sectionVersion, []byte{bus.Snapshot()})
}

// LoadCheckpoint restores the bus from the checkpoint.
func (bus *Bus) LoadCheckpoint(r *checkpoint.Reader) error {
	p, err := r.Section(bus.name, sectionVersion)
	if err != nil {
		return err
	}
	if len(p) != 1 {
		return curated.Errorf(checkpoint.BadSection, bus.name, "wrong length")
	}
	bus.Plumb(p[0])
	return nil
}
