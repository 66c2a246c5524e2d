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

// Package spiflash emulates the serial NOR flash the SoC boots from. The
// flash is a slave on an spi.Bus and understands the basic command set used
// by boot firmware: read, read identification, read status, write enable and
// page program.
//
// The flash contents are held in memory and can be loaded from and saved to
// a file on the host. The Flash type also implements io.ReaderAt so that the
// boot ROM can read the boot image directly.
package spiflash
