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

package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/hardware/soc"
	"github.com/s32gsim/s32gsim/logger"
	lua "github.com/yuin/gopher-lua"
)

// Sentinel errors.
const (
	ScriptError = "script: %v"
	BusBusy     = "script: spi bus is busy"
)

type runner struct {
	soc *soc.SoC
	out io.Writer
}

// Run the Lua source against the SoC. The name is used in error messages.
func Run(ctx context.Context, s *soc.SoC, name string, source string, out io.Writer) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	r := &runner{soc: s, out: out}
	r.install(L)

	fn, err := L.Load(strings.NewReader(source), name)
	if err != nil {
		return curated.Errorf(ScriptError, err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

// RunFile runs the named Lua file against the SoC.
func RunFile(ctx context.Context, s *soc.SoC, fn string, out io.Writer) error {
	b, err := os.ReadFile(fn)
	if err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return Run(ctx, s, fn, string(b), out)
}

func (r *runner) install(L *lua.LState) {
	funcs := map[string]lua.LGFunction{
		"read32":       r.read32,
		"write32":      r.write32,
		"advance":      r.advance,
		"now":          r.now,
		"halted":       r.halted,
		"kicks":        r.kicks,
		"log":          r.log,
		"print":        r.print,
		"spi_transfer": r.spiTransfer,
	}
	for n, f := range funcs {
		L.SetGlobal(n, L.NewFunction(f))
	}
}

func checkAddress(L *lua.LState, n int) uint32 {
	v := L.CheckInt64(n)
	if v < 0 || v > 0xffffffff {
		L.ArgError(n, "address out of range")
	}
	return uint32(v)
}

func (r *runner) read32(L *lua.LState) int {
	L.Push(lua.LNumber(r.soc.Read32(checkAddress(L, 1))))
	return 1
}

func (r *runner) write32(L *lua.LState) int {
	addr := checkAddress(L, 1)
	v := L.CheckInt64(2)
	r.soc.Write32(addr, uint32(v))
	return 0
}

func (r *runner) advance(L *lua.LState) int {
	us := L.CheckInt64(1)
	if us < 0 {
		L.ArgError(1, "cannot advance backwards")
	}
	L.Push(lua.LNumber(r.soc.Advance(time.Duration(us) * time.Microsecond)))
	return 1
}

func (r *runner) now(L *lua.LState) int {
	L.Push(lua.LNumber(r.soc.Clock.Now().Microseconds()))
	return 1
}

func (r *runner) core(L *lua.LState) int {
	i := L.CheckInt(1)
	if r.soc.CPUs.Core(i) == nil {
		L.ArgError(1, fmt.Sprintf("no cpu %d", i))
	}
	return i
}

func (r *runner) halted(L *lua.LState) int {
	L.Push(lua.LBool(r.soc.CPUs.Core(r.core(L)).Halted()))
	return 1
}

func (r *runner) kicks(L *lua.LState) int {
	L.Push(lua.LNumber(r.soc.CPUs.Core(r.core(L)).Kicks()))
	return 1
}

func (r *runner) log(L *lua.LState) int {
	logger.Log(r.soc.Env, "script", L.CheckString(1))
	return 0
}

func (r *runner) print(L *lua.LState) int {
	var s []string
	for i := 1; i <= L.GetTop(); i++ {
		s = append(s, L.ToStringMeta(L.Get(i)).String())
	}
	if r.out != nil {
		fmt.Fprintln(r.out, strings.Join(s, "\t"))
	}
	return 0
}

// spi_transfer becomes master of the SPI bus for the duration of the
// transfer. The transfer fails if another master has or is waiting for the
// bus.
func (r *runner) spiTransfer(L *lua.LState) int {
	addr := L.CheckInt(1)
	if addr < 0 || addr > 0xff {
		L.ArgError(1, "spi address out of range")
	}
	tbl := L.CheckTable(2)

	var data []uint8
	var bad bool
	tbl.ForEach(func(_ lua.LValue, v lua.LValue) {
		n, ok := v.(lua.LNumber)
		if !ok || n < 0 || n > 0xff {
			bad = true
			return
		}
		data = append(data, uint8(n))
	})
	if bad {
		L.ArgError(2, "table must contain byte values")
	}

	bus := r.soc.SPI0.Bus()
	if bus.Busy() || bus.Pending() > 0 {
		L.RaiseError("%v", curated.Errorf(BusBusy))
		return 0
	}

	granted := false
	bus.BusMaster(r.soc.Clock.NewBH(func() { granted = true }))
	bus.SchedulePendingMaster()
	r.soc.Clock.RunPending()
	if !granted {
		L.RaiseError("%v", curated.Errorf(BusBusy))
		return 0
	}
	defer bus.Release()

	if err := bus.StartSend(uint8(addr)); err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	defer bus.EndTransfer()

	out := L.NewTable()
	for _, d := range data {
		// full duplex. the byte shifted in is the slave's reply to the
		// previous byte
		out.Append(lua.LNumber(bus.Recv()))
		if err := bus.Send(d); err != nil {
			logger.Logf(r.soc.Env, "script", "%v", err)
		}
	}
	L.Push(out)
	return 1
}
