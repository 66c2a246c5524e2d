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

// Package script runs Lua bring-up scripts against an emulated SoC. Scripts
// have the standard Lua libraries and the following functions:
//
//	read32(addr)			read a word from the address map
//	write32(addr, value)		write a word to the address map
//	advance(us)			advance virtual time
//	now()				virtual time in microseconds
//	halted(cpu)			true if the core is halted
//	kicks(cpu)			number of times the core has been kicked
//	log(msg)			add an entry to the emulation log
//	spi_transfer(addr, {bytes})	transfer bytes on the SPI bus and return
//					the bytes received
//
// The print function writes to the output given to Run().
package script
