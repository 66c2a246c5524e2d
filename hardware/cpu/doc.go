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

// Package cpu is a stand-in for the application cores of the SoC. Instruction
// execution is not emulated. A core is either halted or running, and the
// number of times a core has been kicked (woken from a halted state) is
// counted.
//
// Cores are held in a Cluster in enumeration order. The order is fixed at
// creation and is the order used by the reset generation module when
// mapping reset partition bits to cores.
package cpu
