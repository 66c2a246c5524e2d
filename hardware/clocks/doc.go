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

// Package clocks is the virtual clock and event loop of the emulated
// machine. Virtual time only moves forward when Advance() is called.
//
// There are two kinds of deferred work. A Timer runs a callback once virtual
// time has reached its deadline. A BH (bottom half) runs a callback at the
// next dispatch point, without any time passing. Bottom halves run in the
// order they were scheduled.
//
// Timers with the same deadline fire in the order in which they were armed.
// After every timer callback, any bottom halves scheduled by that callback are
// run before the next timer fires.
//
// The Clock type is not safe for concurrent use. Every register access, bus
// transaction and callback happens on the goroutine that calls Advance().
package clocks
