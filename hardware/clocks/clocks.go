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

package clocks

import (
	"container/heap"
	"time"
)

// Clock is the virtual clock of the emulated machine.
type Clock struct {
	now time.Duration

	// arming sequence. used to order timers with the same deadline
	seq uint64

	timers timerQueue
	bhs    []*BH
}

// NewClock is the preferred method of initialisation for the Clock type.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current virtual time.
func (clk *Clock) Now() time.Duration {
	return clk.now
}

// Timer is a one-shot timer on the virtual clock.
type Timer struct {
	clk      *Clock
	cb       func()
	deadline time.Duration
	seq      uint64

	// position in the timer queue. -1 when the timer is not pending
	index int
}

// NewTimer creates a timer that will call cb when it fires. The timer is not
// armed until Mod() or ModIn() is called.
func (clk *Clock) NewTimer(cb func()) *Timer {
	return &Timer{
		clk:   clk,
		cb:    cb,
		index: -1,
	}
}

// Mod arms the timer to fire at the absolute virtual time. If the timer is
// already pending then the deadline is replaced.
func (t *Timer) Mod(deadline time.Duration) {
	t.clk.seq++
	t.deadline = deadline
	t.seq = t.clk.seq
	if t.index >= 0 {
		heap.Fix(&t.clk.timers, t.index)
	} else {
		heap.Push(&t.clk.timers, t)
	}
}

// ModIn arms the timer to fire after duration d.
func (t *Timer) ModIn(d time.Duration) {
	t.Mod(t.clk.now + d)
}

// Del disarms the timer. It is safe to call Del on a timer that is not
// pending.
func (t *Timer) Del() {
	if t.index >= 0 {
		heap.Remove(&t.clk.timers, t.index)
	}
}

// Pending returns true if the timer is armed.
func (t *Timer) Pending() bool {
	return t.index >= 0
}

// Deadline returns the time at which the timer will fire. Only meaningful if
// Pending() is true.
func (t *Timer) Deadline() time.Duration {
	return t.deadline
}

// BH is a bottom half. A callback that runs at the next dispatch point.
type BH struct {
	clk       *Clock
	cb        func()
	scheduled bool
}

// NewBH creates a new bottom half that will call cb when it runs.
func (clk *Clock) NewBH(cb func()) *BH {
	return &BH{
		clk: clk,
		cb:  cb,
	}
}

// Schedule the bottom half. Scheduling a bottom half that is already
// scheduled has no effect.
func (bh *BH) Schedule() {
	if bh.scheduled {
		return
	}
	bh.scheduled = true
	bh.clk.bhs = append(bh.clk.bhs, bh)
}

// Cancel a scheduled bottom half.
func (bh *BH) Cancel() {
	if !bh.scheduled {
		return
	}
	bh.scheduled = false
	for i, b := range bh.clk.bhs {
		if b == bh {
			bh.clk.bhs = append(bh.clk.bhs[:i], bh.clk.bhs[i+1:]...)
			return
		}
	}
}

// Scheduled returns true if the bottom half is waiting to run.
func (bh *BH) Scheduled() bool {
	return bh.scheduled
}

// RunPending runs scheduled bottom halves until there are none left. Bottom
// halves scheduled while running are also run. Returns the number of
// callbacks made.
func (clk *Clock) RunPending() int {
	n := 0
	for len(clk.bhs) > 0 {
		bh := clk.bhs[0]
		clk.bhs = clk.bhs[1:]
		bh.scheduled = false
		bh.cb()
		n++
	}
	return n
}

// Advance moves virtual time forward by d, firing every timer with a
// deadline before or equal to the new time. Returns the number of callbacks
// made.
func (clk *Clock) Advance(d time.Duration) int {
	target := clk.now + max(d, 0)

	n := clk.RunPending()
	for len(clk.timers) > 0 && clk.timers[0].deadline <= target {
		t := heap.Pop(&clk.timers).(*Timer)
		clk.now = max(clk.now, t.deadline)
		t.cb()
		n++
		n += clk.RunPending()
	}
	clk.now = target

	return n
}

// NextDeadline returns the deadline of the next timer to fire. The second
// return value is false if no timer is pending.
func (clk *Clock) NextDeadline() (time.Duration, bool) {
	if len(clk.timers) == 0 {
		return 0, false
	}
	return clk.timers[0].deadline, true
}

// Reset disarms every timer and cancels every bottom half. Virtual time is
// not changed.
func (clk *Clock) Reset() {
	for len(clk.timers) > 0 {
		heap.Pop(&clk.timers)
	}
	for _, bh := range clk.bhs {
		bh.scheduled = false
	}
	clk.bhs = clk.bhs[:0]
}
