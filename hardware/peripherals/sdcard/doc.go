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

// Package sdcard emulates an SD memory card in SPI mode. The card is a slave
// on an spi.Bus and its blocks are stored in an io.ReaderAt. If the backing
// store also implements io.WriterAt then blocks can be written.
//
// Commands are six byte frames sent by the master. The response is queued and
// is collected by the master with receive operations. Data blocks are
// always BlockSize bytes and addressed by block number (high capacity card
// addressing).
package sdcard
