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

// Package curated wraps the plain Go error type with a pattern that can be
// tested for later. Curated errors are created with Errorf(), which takes a
// formatting pattern and values in the same way as fmt.Errorf().
//
// The pattern is the identity of the error. Is() checks the pattern of the
// outermost error; Has() checks every curated error in the chain:
//
//	e := curated.Errorf(spi.NoDevice, 0x12)
//	f := curated.Errorf("dspi: %v", e)
//
//	curated.Is(f, spi.NoDevice)  // false
//	curated.Has(f, spi.NoDevice) // true
//
// Sentinel patterns are exported as const strings by the package that
// returns them.
//
// When formatted, adjacent duplicate parts of the error chain are removed.
// Parts are separated by ": ". This means that a function can wrap the error
// of a callee with its own prefix without worrying whether the callee has
// already done so:
//
//	spi: spi: no device at address 0x12
//
// is printed as:
//
//	spi: no device at address 0x12
//
// Curated errors are compatible with errors.Unwrap(). The first error value
// in the value list is returned by Unwrap().
package curated
