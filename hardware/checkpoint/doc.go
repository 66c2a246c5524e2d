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

// Package checkpoint reads and writes machine checkpoint files. A checkpoint
// is a list of named and versioned sections. Each device that persists state
// writes one section.
//
// The file format is little endian:
//
//	magic       8 bytes ("S32GCKPT")
//	count       uint32
//	sections    count * {
//	    name length uint16
//	    name        bytes
//	    version     uint32
//	    length      uint32
//	    payload     bytes
//	}
//
// Sections are written in the order they are added to the Writer. The
// Reader allows sections to be retrieved in any order.
package checkpoint
