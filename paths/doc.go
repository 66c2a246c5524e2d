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

// Package paths contains functions to prepare paths for s32gsim resources.
//
// The ResourcePath() function returns the path to a resource, creating the
// resource directory if required. If a directory named ".s32gsim" exists in
// the current working directory then that is used as the base path.
// Otherwise the base path is the "s32gsim" directory in the user's
// configuration directory (as returned by os.UserConfigDir()).
package paths
