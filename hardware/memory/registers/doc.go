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

// Package registers implements a flat, word addressed register file. Most
// peripherals of the SoC are nothing more than a Bank with a table of
// default values. Peripherals that react to register writes (for example,
// the reset generation module) install override functions for the offsets
// they are interested in.
//
// Every access is bounds checked. A read outside of the bank returns zero and
// a write outside of the bank is ignored. In both cases the access is logged
// and the emulation continues.
//
// The access size is advisory. Accesses smaller than a word read or modify
// the addressed bytes of the register containing the offset. Validation of
// access sizes happens in the memory package.
package registers
