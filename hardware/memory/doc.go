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

// Package memory implements the address map of the emulated machine. Devices
// are mapped into the address space with Map() and are accessed with
// device relative offsets.
//
// Every access is validated before being passed to the device. By default a
// device accepts only aligned 32 bit accesses. A device can implement the
// AccessSizer interface to accept other sizes. Invalid accesses and accesses
// to unmapped addresses are logged. Invalid reads return zero.
package memory
