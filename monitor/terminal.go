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

package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pkg/term/termios"
	"github.com/s32gsim/s32gsim/curated"
	"golang.org/x/term"
)

// Prompt is the prompt shown by Run().
const Prompt = "s32g> "

type readWriter struct {
	io.Reader
	io.Writer
}

// Run reads command lines from input and writes the results to output until
// the quit command is executed, the input ends or the context is cancelled.
//
// If input is a terminal it is put into raw mode and a line editor with a
// history is used. Otherwise lines are read as they are.
func Run(ctx context.Context, m *Monitor, input *os.File, output io.Writer) error {
	var rw io.ReadWriter = readWriter{Reader: input, Writer: output}

	fd := int(input.Fd())
	if term.IsTerminal(fd) {
		// discard anything typed before the monitor started
		_ = termios.Tcflush(input.Fd(), termios.TCIFLUSH)

		state, err := term.MakeRaw(fd)
		if err != nil {
			return curated.Errorf("monitor: %v", err)
		}
		defer term.Restore(fd, state)
	}

	t := term.NewTerminal(rw, Prompt)
	if w, h, err := term.GetSize(fd); err == nil {
		_ = t.SetSize(w, h)
	}

	for !m.Quitting() {
		if ctx.Err() != nil {
			return nil
		}

		line, err := t.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return curated.Errorf("monitor: %v", err)
		}

		out, err := m.Execute(line)
		if out != "" {
			t.Write([]byte(out))
		}
		if err != nil {
			fmt.Fprintf(t, "* %v\n", err)
		}
	}

	return nil
}
