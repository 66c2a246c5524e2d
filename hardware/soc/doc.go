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

// Package soc is the main container for the emulated components of the SoC.
// It creates the cores, the virtual clock, the address map and every
// peripheral, and wires them together.
//
// The SPI bus of the first SPI controller has three slaves: the boot flash at
// address 1, the Wi-Fi module at address 2 and the SD card at address 3. The
// second controller's bus has no slaves.
//
// The state of the SoC can be copied in memory with Snapshot() and Plumb(),
// or saved to a checkpoint with SaveCheckpoint() and LoadCheckpoint(). In
// both cases transfers in progress on the SPI buses, masters waiting for a
// bus and a pending change of the reset partitions are not saved.
package soc
