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

// Package preferences holds the preference values for the emulated machine.
// Preference values are saved to the global preferences file under the
// "hardware" prefix.
package preferences

import (
	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/paths"
	"github.com/s32gsim/s32gsim/prefs"
)

// Preferences for the emulated machine.
type Preferences struct {
	dsk *prefs.Disk

	// delay in microseconds between a write to a reset partition register
	// and the CPUs and status register reacting to the change
	ResetLatency prefs.Int

	// number of CPU cores in the cluster controlled by the reset module
	CPUs prefs.Int

	// log every access to the flat register banks
	TraceRegisters prefs.Bool

	// log every SPI bus transaction
	TraceSPI prefs.Bool
}

// default values
const (
	DefaultResetLatency = 1000
	DefaultCPUs         = 4
	MaxCPUs             = 4
)

func (p *Preferences) String() string {
	if p.dsk == nil {
		return ""
	}
	return p.dsk.String()
}

// NewDefaultPreferences returns preferences with default values that are not
// backed by the preferences file. Load() and Save() do nothing.
func NewDefaultPreferences() *Preferences {
	p := &Preferences{}
	p.SetDefaults()
	p.setHooks()
	return p
}

func (p *Preferences) setHooks() {
	p.CPUs.SetHookPre(func(v prefs.Value) error {
		if n := v.(int); n < 1 || n > MaxCPUs {
			return curated.Errorf("preferences: cpus must be between 1 and %d", MaxCPUs)
		}
		return nil
	})

	p.ResetLatency.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return curated.Errorf("preferences: reset latency cannot be negative")
		}
		return nil
	})
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the global preferences file.
func NewPreferences() (*Preferences, error) {
	p := NewDefaultPreferences()

	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.reset.latency", &p.ResetLatency)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.cpus", &p.CPUs)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.trace.registers", &p.TraceRegisters)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.trace.spi", &p.TraceSPI)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load(false)
	if err != nil {
		// ignore missing prefs file errors
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	_ = p.ResetLatency.Set(DefaultResetLatency)
	_ = p.CPUs.Set(DefaultCPUs)
	_ = p.TraceRegisters.Set(false)
	_ = p.TraceSPI.Set(false)
}

// Load current preference values from disk.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Load(false)
}

// Save current preference values to disk.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}
