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

package monitor_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/preferences"
	"github.com/s32gsim/s32gsim/hardware/soc"
	"github.com/s32gsim/s32gsim/logger"
	"github.com/s32gsim/s32gsim/monitor"
	"github.com/s32gsim/s32gsim/test"
)

func newMonitor(t *testing.T) (*monitor.Monitor, *soc.SoC) {
	t.Helper()
	env, err := environment.NewEnvironment(environment.MainEmulation, preferences.NewDefaultPreferences())
	test.DemandSuccess(t, err)
	s, err := soc.NewSoC(env)
	test.DemandSuccess(t, err)
	return monitor.NewMonitor(s), s
}

func TestReadWrite(t *testing.T) {
	m, s := newMonitor(t)

	out, err := m.Execute("w 0x34000010 0xcafef00d")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out, "")
	test.ExpectEquality(t, s.Read32(0x34000010), uint32(0xcafef00d))

	out, err = m.Execute("r 0x34000010 2")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out, "34000010: cafef00d\n34000014: 00000000\n")

	_, err = m.Execute("r nonsense")
	test.ExpectSuccess(t, curated.Is(err, monitor.BadArguments))

	_, err = m.Execute("w 0x34000010")
	test.ExpectSuccess(t, curated.Is(err, monitor.BadArguments))
}

func TestAdvance(t *testing.T) {
	m, s := newMonitor(t)

	_, err := m.Execute("w 0x40078048 0x1f")
	test.ExpectSuccess(t, err)
	_, err = m.Execute("w 0x40078048 0x1b")
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, s.CPUs.Core(1).Halted())

	out, err := m.Execute("adv 1000")
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, strings.HasPrefix(out, "1ms"))
	test.ExpectFailure(t, s.CPUs.Core(1).Halted())

	out, err = m.Execute("cpus")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out, s.CPUs.String())
}

func TestCommands(t *testing.T) {
	m, s := newMonitor(t)

	out, err := m.Execute("")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out, "")

	_, err = m.Execute("frobnicate")
	test.ExpectSuccess(t, curated.Is(err, monitor.UnknownCommand))

	out, err = m.Execute("MAP")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out, s.Mem.Summary())

	out, err = m.Execute("help")
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(out, "adv MICROSECONDS"))

	logger.Clear()
	logger.Log(logger.Allow, "test", "one")
	logger.Log(logger.Allow, "test", "two")
	out, err = m.Execute("log 1")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out, "test: two\n")

	out, err = m.Execute(`lua print(read32(0x4009c004) == 0x1d120011)`)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out, "true\n")

	_, err = m.Execute("lua (")
	test.ExpectSuccess(t, curated.Is(err, monitor.CommandFailed))

	test.ExpectFailure(t, m.Quitting())
	_, err = m.Execute("quit")
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, m.Quitting())
}

func TestCheckpointCommands(t *testing.T) {
	m, s := newMonitor(t)
	fn := filepath.Join(t.TempDir(), "monitor.chk")

	_, err := m.Execute("w 0x34000000 0x11223344")
	test.ExpectSuccess(t, err)
	_, err = m.Execute("save " + fn)
	test.ExpectSuccess(t, err)

	_, err = m.Execute("reset")
	test.ExpectSuccess(t, err)
	_, err = m.Execute("w 0x34000000 0")
	test.ExpectSuccess(t, err)

	_, err = m.Execute("load " + fn)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s.Read32(0x34000000), uint32(0x11223344))

	_, err = m.Execute("load " + filepath.Join(t.TempDir(), "missing"))
	test.ExpectSuccess(t, curated.Is(err, monitor.CommandFailed))
}
