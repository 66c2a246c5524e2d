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

package script_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/preferences"
	"github.com/s32gsim/s32gsim/hardware/soc"
	"github.com/s32gsim/s32gsim/logger"
	"github.com/s32gsim/s32gsim/script"
	"github.com/s32gsim/s32gsim/test"
)

func newSoC(t *testing.T) *soc.SoC {
	t.Helper()
	env, err := environment.NewEnvironment(environment.MainEmulation, preferences.NewDefaultPreferences())
	test.DemandSuccess(t, err)
	s, err := soc.NewSoC(env)
	test.DemandSuccess(t, err)
	return s
}

func run(t *testing.T, s *soc.SoC, src string) (string, error) {
	t.Helper()
	out := &strings.Builder{}
	err := script.Run(context.Background(), s, "test.lua", src, out)
	return out.String(), err
}

func TestRegisters(t *testing.T) {
	s := newSoC(t)
	out, err := run(t, s, `
write32(0x34000000, 0x12345678)
print(string.format("%08x", read32(0x34000000)))
print(string.format("%08x", read32(0x4009c004)))
`)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out, "12345678\n1d120011\n")
}

func TestCoreBringUp(t *testing.T) {
	s := newSoC(t)
	out, err := run(t, s, `
local prst1 = 0x40078048
write32(prst1, 0x1f)
write32(prst1, 0x1b)
print(halted(1))
advance(1000)
print(halted(1), kicks(1), now())
`)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out, "true\nfalse\t1\t1000\n")
}

func TestSPITransfer(t *testing.T) {
	s := newSoC(t)
	out, err := run(t, s, `
local id = spi_transfer(1, {0x9f, 0, 0, 0})
print(string.format("%02x %02x %02x %02x", id[1], id[2], id[3], id[4]))
`)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out, "ff 20 ba 18\n")
	test.ExpectFailure(t, s.SPI0.Bus().Busy())

	// no device
	_, err = run(t, s, `spi_transfer(9, {1})`)
	test.ExpectSuccess(t, curated.Is(err, script.ScriptError))
	test.ExpectFailure(t, s.SPI0.Bus().Busy())

	// another master has the bus
	s.SPI0.Bus().BusMaster(s.Clock.NewBH(func() {}))
	s.SPI0.Bus().SchedulePendingMaster()
	s.Clock.RunPending()
	_, err = run(t, s, `spi_transfer(1, {0x9f})`)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, strings.Contains(err.Error(), "busy"))
}

func TestLogAndErrors(t *testing.T) {
	s := newSoC(t)
	logger.Clear()

	_, err := run(t, s, `log("hello from lua")`)
	test.ExpectSuccess(t, err)
	w := &strings.Builder{}
	logger.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "script: hello from lua\n")

	_, err = run(t, s, `this is not lua`)
	test.ExpectSuccess(t, curated.Is(err, script.ScriptError))

	_, err = run(t, s, `halted(7)`)
	test.ExpectFailure(t, err)

	_, err = run(t, s, `error("stop")`)
	test.ExpectFailure(t, err)
}

func TestRunFile(t *testing.T) {
	s := newSoC(t)
	fn := filepath.Join(t.TempDir(), "bringup.lua")
	test.DemandSuccess(t, os.WriteFile(fn, []byte(`print(read32(0x40078000))`), 0o644))

	out := &strings.Builder{}
	test.ExpectSuccess(t, script.RunFile(context.Background(), s, fn, out))
	test.ExpectEquality(t, out.String(), "1\n")

	err := script.RunFile(context.Background(), s, filepath.Join(t.TempDir(), "missing.lua"), out)
	test.ExpectSuccess(t, curated.Is(err, script.ScriptError))
}
