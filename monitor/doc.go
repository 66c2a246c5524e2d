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

// Package monitor is a line based command interface to a running SoC. The
// Monitor type executes single command lines and returns the output as a
// string. Run() connects a Monitor to a terminal.
//
// Numeric arguments are parsed with strconv.ParseUint using base zero, so
// addresses can be given in hex with the 0x prefix.
//
// Commands:
//
//	r ADDR [COUNT]     read COUNT 32bit words starting at ADDR
//	w ADDR VALUE       write a 32bit word
//	adv MICROSECONDS   advance the clock
//	cpus               state of the CPU cluster
//	map                the memory map
//	log [N]            the last N log entries
//	lua SOURCE         run a line of Lua against the SoC
//	save FILE          write a checkpoint file
//	load FILE          restore a checkpoint file
//	reset              reset the SoC
//	help               list of commands
//	quit               end the monitor
package monitor
