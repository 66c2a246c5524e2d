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

package environment_test

import (
	"testing"

	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/preferences"
	"github.com/s32gsim/s32gsim/logger"
	"github.com/s32gsim/s32gsim/test"
)

func TestEnvironment(t *testing.T) {
	env, err := environment.NewEnvironment(environment.MainEmulation, preferences.NewDefaultPreferences())
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, env.IsMainEmulation())
	test.ExpectSuccess(t, env.AllowLogging())
	test.ExpectImplements(t, env, (*logger.Permission)(nil))

	sec, err := environment.NewEnvironment("verify", preferences.NewDefaultPreferences())
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, sec.IsMainEmulation())
	test.ExpectFailure(t, sec.AllowLogging())

	var none *environment.Environment
	test.ExpectSuccess(t, none.AllowLogging())
}

func TestLoggingPermission(t *testing.T) {
	emu, err := environment.NewEnvironment(environment.MainEmulation, preferences.NewDefaultPreferences())
	test.DemandSuccess(t, err)
	sec, err := environment.NewEnvironment("verify", preferences.NewDefaultPreferences())
	test.DemandSuccess(t, err)

	logger.Clear()
	logger.Log(sec, "test", "hidden")
	logger.Log(emu, "test", "shown")

	n := 0
	logger.BorrowLog(func(e []logger.Entry) {
		n = len(e)
	})
	test.ExpectEquality(t, n, 1)
}

func TestNormalise(t *testing.T) {
	env, err := environment.NewEnvironment(environment.MainEmulation, preferences.NewDefaultPreferences())
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, env.Prefs.ResetLatency.Set(10))
	test.DemandSuccess(t, env.Prefs.TraceSPI.Set(true))
	env.Normalise()
	test.ExpectEquality(t, env.Prefs.ResetLatency.Get().(int), preferences.DefaultResetLatency)
	test.ExpectEquality(t, env.Prefs.TraceSPI.Get().(bool), false)
}
