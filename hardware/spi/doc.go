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

// Package spi implements the transaction core of an SPI bus. A bus connects
// one or more masters (SPI controllers) to the slave devices attached to it.
//
// A transaction begins with one of the Start*() functions, which selects the
// slave with the given address, or every slave for the broadcast address.
// Bytes are moved with Send(), SendAsync() and Recv(). EndTransfer() closes
// the transaction and is the only way of deselecting slaves.
//
// Calling a Start*() function while a transaction is open does not rescan
// the bus. The event is delivered to the slaves that are already selected.
// If such a nested start is refused by a slave, the transaction remains open
// and the caller must end it.
//
// Masters that cannot use the bus immediately register a bottom half with
// BusMaster(). Masters are given the bus in the order they asked for it.
// The master that has the bus calls Release() when it is finished.
//
// Slaves implement the Slave interface and any of the optional capability
// interfaces (EventHandler, Sender, AsyncSender, Receiver and Matcher).
package spi
