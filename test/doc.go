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

// Package test contains helper functions that remove common boilerplate from
// tests.
//
// The Expect* functions report a failure with t.Errorf() and allow the test to
// continue. The Demand* functions stop the test with t.Fatalf().
//
// For the purposes of ExpectSuccess() and ExpectFailure() a nil value is a
// success. This matches how errors are used: a nil error indicates that
// nothing went wrong.
//
// Optional tags can be given to most functions. The tags are prepended to the
// failure message and are useful for identifying the iteration of a loop
// that failed.
package test
