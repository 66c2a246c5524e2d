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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/hardware/soc"
	"github.com/s32gsim/s32gsim/logger"
	"github.com/s32gsim/s32gsim/script"
)

// Sentinel errors.
const (
	UnknownCommand = "monitor: unknown command (%s)"
	BadArguments   = "monitor: %s: %v"
	CommandFailed  = "monitor: %s: %v"
)

const defaultLogTail = 10

// Monitor executes command lines against a SoC.
type Monitor struct {
	soc  *soc.SoC
	quit bool
}

// NewMonitor is the preferred method of initialisation for the Monitor type.
func NewMonitor(s *soc.SoC) *Monitor {
	return &Monitor{soc: s}
}

// Quitting returns true once the quit command has been executed.
func (m *Monitor) Quitting() bool {
	return m.quit
}

type command struct {
	args  string
	help  string
	nargs [2]int
	fn    func(m *Monitor, args []string) (string, error)
}

var commands map[string]command

var commandOrder = []string{"r", "w", "adv", "cpus", "map", "log", "lua", "save", "load", "reset", "help", "quit"}

func init() {
	commands = map[string]command{
		"r":     {args: "ADDR [COUNT]", help: "read 32bit words", nargs: [2]int{1, 2}, fn: (*Monitor).read},
		"w":     {args: "ADDR VALUE", help: "write a 32bit word", nargs: [2]int{2, 2}, fn: (*Monitor).write},
		"adv":   {args: "MICROSECONDS", help: "advance the clock", nargs: [2]int{1, 1}, fn: (*Monitor).advance},
		"cpus":  {help: "state of the CPU cluster", fn: (*Monitor).cpus},
		"map":   {help: "the memory map", fn: (*Monitor).memoryMap},
		"log":   {args: "[N]", help: "the most recent log entries", nargs: [2]int{0, 1}, fn: (*Monitor).log},
		"lua":   {args: "SOURCE", help: "run a line of Lua", nargs: [2]int{1, -1}, fn: (*Monitor).lua},
		"save":  {args: "FILE", help: "write a checkpoint file", nargs: [2]int{1, 1}, fn: (*Monitor).save},
		"load":  {args: "FILE", help: "restore a checkpoint file", nargs: [2]int{1, 1}, fn: (*Monitor).load},
		"reset": {help: "reset the SoC", fn: (*Monitor).reset},
		"help":  {help: "this list", fn: (*Monitor).help},
		"quit":  {help: "end the monitor", fn: (*Monitor).exit},
	}
}

// Execute a single command line. An empty line does nothing.
func (m *Monitor) Execute(line string) (string, error) {
	f := strings.Fields(line)
	if len(f) == 0 {
		return "", nil
	}

	name := strings.ToLower(f[0])
	cmd, ok := commands[name]
	if !ok {
		return "", curated.Errorf(UnknownCommand, f[0])
	}

	args := f[1:]
	if len(args) < cmd.nargs[0] || (cmd.nargs[1] >= 0 && len(args) > cmd.nargs[1]) {
		return "", curated.Errorf(BadArguments, name, "usage: "+strings.TrimSpace(name+" "+cmd.args))
	}

	// the lua command takes the remainder of the line unsplit
	if name == "lua" {
		args = []string{strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), f[0]))}
	}

	return cmd.fn(m, args)
}

func parseUint32(name string, s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, curated.Errorf(BadArguments, name, err)
	}
	return uint32(v), nil
}

func (m *Monitor) read(args []string) (string, error) {
	addr, err := parseUint32("r", args[0])
	if err != nil {
		return "", err
	}
	count := uint32(1)
	if len(args) > 1 {
		count, err = parseUint32("r", args[1])
		if err != nil {
			return "", err
		}
	}

	s := strings.Builder{}
	for i := range count {
		a := addr + i*4
		s.WriteString(fmt.Sprintf("%08x: %08x\n", a, m.soc.Read32(a)))
	}
	return s.String(), nil
}

func (m *Monitor) write(args []string) (string, error) {
	addr, err := parseUint32("w", args[0])
	if err != nil {
		return "", err
	}
	v, err := parseUint32("w", args[1])
	if err != nil {
		return "", err
	}
	m.soc.Write32(addr, v)
	return "", nil
}

func (m *Monitor) advance(args []string) (string, error) {
	us, err := parseUint32("adv", args[0])
	if err != nil {
		return "", err
	}
	n := m.soc.Advance(time.Duration(us) * time.Microsecond)
	return fmt.Sprintf("%v (%d callbacks)\n", m.soc.Clock.Now(), n), nil
}

func (m *Monitor) cpus(_ []string) (string, error) {
	return m.soc.CPUs.String(), nil
}

func (m *Monitor) memoryMap(_ []string) (string, error) {
	return m.soc.Mem.Summary(), nil
}

func (m *Monitor) log(args []string) (string, error) {
	n := defaultLogTail
	if len(args) > 0 {
		v, err := parseUint32("log", args[0])
		if err != nil {
			return "", err
		}
		n = int(v)
	}
	s := strings.Builder{}
	logger.Tail(&s, n)
	return s.String(), nil
}

func (m *Monitor) lua(args []string) (string, error) {
	s := strings.Builder{}
	err := script.Run(context.Background(), m.soc, "monitor", args[0], &s)
	if err != nil {
		return s.String(), curated.Errorf(CommandFailed, "lua", err)
	}
	return s.String(), nil
}

func (m *Monitor) save(args []string) (string, error) {
	if err := m.soc.SaveCheckpointFile(args[0]); err != nil {
		return "", curated.Errorf(CommandFailed, "save", err)
	}
	return fmt.Sprintf("checkpoint saved to %s\n", args[0]), nil
}

func (m *Monitor) load(args []string) (string, error) {
	if err := m.soc.LoadCheckpointFile(args[0]); err != nil {
		return "", curated.Errorf(CommandFailed, "load", err)
	}
	return fmt.Sprintf("checkpoint restored from %s\n", args[0]), nil
}

func (m *Monitor) reset(_ []string) (string, error) {
	m.soc.Reset()
	return "", nil
}

func (m *Monitor) help(_ []string) (string, error) {
	s := strings.Builder{}
	for _, n := range commandOrder {
		c := commands[n]
		s.WriteString(fmt.Sprintf("%-24s %s\n", strings.TrimSpace(n+" "+c.args), c.help))
	}
	return s.String(), nil
}

func (m *Monitor) exit(_ []string) (string, error) {
	m.quit = true
	return "", nil
}
