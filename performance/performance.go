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

package performance

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/hardware/soc"
)

// PerformanceError is the sentinel for errors in this package.
const PerformanceError = "performance: %v"

// profile file names
const (
	CPUProfile = "cpu.profile"
	MemProfile = "mem.profile"
)

// Check runs the SoC for duration of wall clock time and writes the amount of
// virtual time that was emulated to output.
func Check(ctx context.Context, output io.Writer, profile bool, s *soc.SoC, duration time.Duration) error {
	if duration <= 0 {
		return curated.Errorf(PerformanceError, "duration must be positive")
	}

	startTime := s.Clock.Now()
	var elapsed time.Duration

	err := cpuProfile(profile, CPUProfile, func() error {
		timesUp := make(chan bool, 1)
		t := time.AfterFunc(duration, func() {
			timesUp <- true
		})
		defer t.Stop()

		start := time.Now()
		err := s.Run(ctx, func() (soc.RunState, error) {
			select {
			case <-timesUp:
				return soc.Ending, nil
			default:
				return soc.Running, nil
			}
		})
		elapsed = time.Since(start)
		return err
	})
	if err != nil {
		return curated.Errorf(PerformanceError, err)
	}

	virtual := s.Clock.Now() - startTime
	fmt.Fprintf(output, "%.2fx realtime (%v of virtual time in %v)\n", CalcRatio(virtual, elapsed), virtual, elapsed.Round(time.Millisecond))

	return memProfile(profile, MemProfile)
}

// CalcRatio returns the amount of virtual time emulated for every unit of
// wall clock time. Returns zero if wall is zero.
func CalcRatio(virtual time.Duration, wall time.Duration) float64 {
	if wall <= 0 {
		return 0
	}
	return float64(virtual) / float64(wall)
}
