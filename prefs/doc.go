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

// Package prefs manages user preferences. Preference values are typed (Bool,
// Int, String) and are safe to read and write from different goroutines.
//
// Values can be associated with a key in a Disk instance and saved to and
// loaded from a preferences file. The file is plain text, one key/value pair
// per line:
//
//	hardware.reset.latency :: 1000
//
// Entries in the file that are not known to the Disk instance are preserved
// when the file is saved. This means many Disk instances can share the same
// file.
//
// Preference values can also be set from the command line with the command
// line stack. See PushCommandLineStack() for details.
//
// Hook functions can be attached to each value with SetHookPre() and
// SetHookPost(). The pre hook can veto a change by returning an error.
package prefs
