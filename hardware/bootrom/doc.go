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

// Package bootrom stages a boot image into memory the way the SoC's boot ROM
// does. The image vector table (IVT) at the start of the image points to an
// application image. The application is copied to the RAM address given in
// its header and the entry address is returned for the boot core.
//
// The IVT layout, all words little endian:
//
//	0x00	header
//	0x04	reserved
//	0x08	self-test DCD
//	0x0c	self-test DCD backup
//	0x10	DCD
//	0x14	DCD backup
//	0x18	HSE firmware start
//	0x1c	HSE firmware backup
//	0x20	application start
//	0x24	application backup
//	0x28	boot configuration
//	0x2c	lifecycle configuration
//	0xf0	GMAC (16 bytes)
//
// The application header is four words: header, RAM start, RAM entry and
// code length. The code follows the header. The bytes between RAM start and
// RAM entry are taken from the image immediately before the code, which for
// the usual layout is the application header itself.
package bootrom
