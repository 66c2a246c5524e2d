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

package performance_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/preferences"
	"github.com/s32gsim/s32gsim/hardware/soc"
	"github.com/s32gsim/s32gsim/performance"
	"github.com/s32gsim/s32gsim/test"
)

func TestCalcRatio(t *testing.T) {
	test.ExpectEquality(t, performance.CalcRatio(time.Second, time.Second), 1.0)
	test.ExpectEquality(t, performance.CalcRatio(time.Second, 2*time.Second), 0.5)
	test.ExpectEquality(t, performance.CalcRatio(time.Second, 0), 0.0)
}

func TestCheck(t *testing.T) {
	env, err := environment.NewEnvironment(environment.MainEmulation, preferences.NewDefaultPreferences())
	test.DemandSuccess(t, err)
	s, err := soc.NewSoC(env)
	test.DemandSuccess(t, err)

	out := &strings.Builder{}
	test.ExpectSuccess(t, performance.Check(context.Background(), out, false, s, 20*time.Millisecond))
	test.ExpectSuccess(t, strings.Contains(out.String(), "x realtime"))
	test.ExpectSuccess(t, s.Clock.Now() > 0)

	err = performance.Check(context.Background(), out, false, s, 0)
	test.ExpectSuccess(t, curated.Is(err, performance.PerformanceError))
}
