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

// Package rgm emulates the reset generation module (MC_RGM). Writes to the
// reset partition 1 register hold or release the application cores. The
// change takes effect after a delay measured on the virtual clock, at which
// point the partition status register is updated and the affected cores are
// halted or resumed.
//
// The CPU to register bit mapping is given by the CoreBits table. Bit zero of
// the partition registers is the partition's peripheral reset and does not
// affect any core.
//
// A write that releases a core while an earlier release is still waiting for
// its deadline replaces the deadline. The partitions affected by both writes
// are acted on when the new deadline is reached. Writes that only assert
// reset never arm the delay but they do join a delay that is already armed.
package rgm
