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

package soc

import (
	"context"
	"time"

	"github.com/s32gsim/s32gsim/curated"
)

// RunState is the state of a running emulation as returned by the
// continueCheck function given to Run().
type RunState int

// List of valid RunState values.
const (
	Running RunState = iota
	Paused
	Ending
)

// Quantum is the amount of virtual time Run() advances between calls to the
// continueCheck function.
const Quantum = 100 * time.Microsecond

// Run advances virtual time in steps of Quantum until continueCheck returns
// Ending, an error, or the context is cancelled. Virtual time does not
// advance while continueCheck returns Paused.
func (soc *SoC) Run(ctx context.Context, continueCheck func() (RunState, error)) error {
	if continueCheck == nil {
		continueCheck = func() (RunState, error) { return Running, nil }
	}

	state := Running
	for state != Ending {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		switch state {
		case Running:
			soc.Clock.Advance(Quantum)
		case Paused:
			// bottom halves still run while paused
			soc.Clock.RunPending()
		default:
			return curated.Errorf("soc: unsupported run state (%d) in Run() function", state)
		}

		var err error
		state, err = continueCheck()
		if err != nil {
			return err
		}
	}

	return nil
}

// RunFor advances virtual time by d, stopping early if the context is
// cancelled.
func (soc *SoC) RunFor(ctx context.Context, d time.Duration) error {
	end := soc.Clock.Now() + d
	return soc.Run(ctx, func() (RunState, error) {
		if soc.Clock.Now() >= end {
			return Ending, nil
		}
		if end-soc.Clock.Now() < Quantum {
			soc.Clock.Advance(end - soc.Clock.Now())
			return Ending, nil
		}
		return Running, nil
	})
}
