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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It adds the concept of modes to the command line. A mode is the
// first non-flag argument on the command line and each mode can have its own
// set of flags and its own sub-modes:
//
//	s32gsim RUN -duration 10ms boot.img
//	s32gsim MONITOR -restore state.ckpt boot.img
//
// The Modes type is used by first calling NewArgs() with the command line
// arguments, then adding the sub-modes and flags of the top level. Parse()
// will select the mode. NewMode() then prepares the Modes type for the next
// level:
//
//	md := &modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "SCRIPT")
//	p, err := md.Parse()
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		duration := md.AddDuration("duration", time.Second, "run duration")
//		p, err = md.Parse()
//	}
//
// The first sub-mode added is the default mode. If the first argument is not
// a recognised mode then the default is selected and the argument is left for
// the next level.
//
// The "-help" flag is handled automatically at every level. Parse() returns
// ParseHelp when help has been printed.
package modalflag
