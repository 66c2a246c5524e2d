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

// Package environment describes the context in which an emulation is running.
// The main emulation is the one the user is interacting with. Secondary
// emulations (for example the instance used to verify a checkpoint file)
// have a label.
//
// The Environment type implements the logger.Permission interface. Only the
// main emulation is allowed to create log entries.
package environment

import (
	"github.com/s32gsim/s32gsim/hardware/preferences"
)

// Label is used to name the environment.
type Label string

// MainEmulation is the label used for the main emulation.
const MainEmulation = Label("")

// Environment is used to provide context for an emulation.
type Environment struct {
	Label Label

	// the emulation preferences
	Prefs *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type. If prefs is nil then preferences are loaded from disk.
func NewEnvironment(label Label, prefs *preferences.Preferences) (*Environment, error) {
	env := &Environment{
		Label: label,
	}

	var err error
	if prefs == nil {
		prefs, err = preferences.NewPreferences()
		if err != nil {
			return nil, err
		}
	}
	env.Prefs = prefs

	return env, nil
}

// Normalise ensures the environment is in a known default state. Used by
// tests and checkpoint verification.
func (env *Environment) Normalise() {
	env.Prefs.SetDefaults()
}

// IsMainEmulation returns true if the environment is that of the main
// emulation.
func (env *Environment) IsMainEmulation() bool {
	return env.Label == MainEmulation
}

// AllowLogging implements the logger.Permission interface. A nil
// environment is allowed to log.
func (env *Environment) AllowLogging() bool {
	return env == nil || env.IsMainEmulation()
}
