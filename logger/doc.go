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

// Package logger is the central log for the application. Log entries are
// kept in memory and can be written to any io.Writer on demand with Write()
// or Tail(). Entries can also be echoed as they are made with SetEcho().
//
// Consecutive entries with the same tag and detail are collapsed into a
// single entry with a repeat count.
//
// Every logging function takes a Permission argument. The emulation's
// environment implements the Permission interface and only the main
// emulation is allowed to log. Code that is not part of an emulation can use
// logger.Allow.
//
// As well as the central logger, new loggers can be created with NewLogger().
// These are useful for testing and for emulations that want to keep a private
// log.
package logger
