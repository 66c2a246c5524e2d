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

// Package atwilc is a stand-in for the ATWILC1000 Wi-Fi module attached to
// the SoC's SPI bus. Only the register access commands of the module's SPI
// protocol are understood. Registers are stored but have no effect, apart
// from the chip ID register which is read-only.
//
// A register read is the command byte 0xc9 followed by a three byte address.
// The four byte value is then received most significant byte first. A
// register write is the command byte 0xca, a three byte address and a four
// byte value.
package atwilc
