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

// Package dspi emulates the register interface of the SoC's SPI controller.
// The controller is a master on an spi.Bus. Frames pushed to the PUSHR
// register are queued and transferred when the bus is granted to the
// controller. Frames pushed while another master has the bus stay in the
// FIFO. Received bytes are read back through POPR.
//
// Transfers are full duplex. The byte popped for a frame is the byte the
// slave shifted out while the frame's data was being shifted in, so the
// reply to a command appears in the frame after the command.
//
// Only the register fields needed by boot firmware are modelled. The one
// transfer attribute that has an effect is CTARAsync, which sends frames
// with the bus's asynchronous hand-off.
package dspi
