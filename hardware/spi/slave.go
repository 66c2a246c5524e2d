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

// Event is the kind of bus state change a slave is notified of.
type Event int

// List of valid Event values.
const (
	StartRecv Event = iota
	StartSend
	StartSendAsync
	Finish

	// master NACKed a received byte
	Nack
)

func (ev Event) String() string {
	switch ev {
	case StartRecv:
		return "start recv"
	case StartSend:
		return "start send"
	case StartSendAsync:
		return "start send async"
	case Finish:
		return "finish"
	case Nack:
		return "nack"
	}
	return "unknown event"
}

// Broadcast is the reserved address that selects every slave on the bus.
const Broadcast = uint8(0x00)

// NoAddress is the value of the saved address when no transaction is open.
// It cannot be used as a slave address.
const NoAddress = uint8(0xff)

// Slave is the minimum interface for a device attached to the bus.
type Slave interface {
	Address() uint8
}

// EventHandler is implemented by slaves that want to be notified of bus
// state changes. For start events a non-nil error is a NAK. For other events
// the error is ignored.
type EventHandler interface {
	Event(ev Event) error
}

// Sender is implemented by slaves that accept bytes from the master. A
// non-nil error is a NAK.
type Sender interface {
	Send(data uint8) error
}

// AsyncSender is implemented by slaves that accept bytes asynchronously. The
// slave must call Ack() on the bus when it has dealt with the byte.
type AsyncSender interface {
	SendAsync(data uint8)
}

// Receiver is implemented by slaves that send bytes to the master. Recv
// cannot fail.
type Receiver interface {
	Recv() uint8
}

// Matcher is implemented by slaves that want to decide for themselves
// whether they respond to an address. Slaves that don't implement Matcher
// respond to their own address and to broadcast.
type Matcher interface {
	Match(address uint8, broadcast bool) bool
}

func match(s Slave, address uint8, broadcast bool) bool {
	if m, ok := s.(Matcher); ok {
		return m.Match(address, broadcast)
	}
	return broadcast || s.Address() == address
}
