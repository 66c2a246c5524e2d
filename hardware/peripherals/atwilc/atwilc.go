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

package atwilc

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/spi"
	"github.com/s32gsim/s32gsim/logger"
)

// Commands.
const (
	CmdRegRead  = 0xc9
	CmdRegWrite = 0xca
)

// ChipIDAddr is the address of the read-only chip ID register.
const (
	ChipIDAddr = 0x1000
	ChipID     = 0x001003a0
)

// Sentinel errors.
const (
	UnknownCommand = "atwilc: unknown command %02x"
)

type phase int

const (
	phaseCommand phase = iota
	phaseAddress
	phaseData
	phaseDone
)

// Module is the Wi-Fi module.
type Module struct {
	env     *environment.Environment
	address uint8

	phase   phase
	command uint8
	addr    uint32
	count   int
	data    uint32

	regs map[uint32]uint32
}

// NewModule is the preferred method of initialisation for the Module type.
func NewModule(env *environment.Environment, address uint8) *Module {
	m := &Module{
		env:     env,
		address: address,
	}
	m.Reset()
	return m
}

func (m *Module) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("atwilc %02x:", m.address))
	for _, a := range slices.Sorted(maps.Keys(m.regs)) {
		s.WriteString(fmt.Sprintf(" %06x=%08x", a, m.regs[a]))
	}
	return s.String()
}

// Reset the module. Written registers are forgotten.
func (m *Module) Reset() {
	m.regs = map[uint32]uint32{
		ChipIDAddr: ChipID,
	}
	m.phase = phaseCommand
}

// Register returns the value of a register. Unknown registers are zero.
func (m *Module) Register(addr uint32) uint32 {
	return m.regs[addr]
}

// Address implements the spi.Slave interface.
func (m *Module) Address() uint8 {
	return m.address
}

// Event implements the spi.EventHandler interface.
func (m *Module) Event(ev spi.Event) error {
	switch ev {
	case spi.StartSend, spi.StartSendAsync:
		if m.phase == phaseDone {
			m.phase = phaseCommand
		}
	case spi.Finish:
		m.phase = phaseCommand
	}
	return nil
}

// Send implements the spi.Sender interface.
func (m *Module) Send(data uint8) error {
	switch m.phase {
	case phaseCommand:
		if data != CmdRegRead && data != CmdRegWrite {
			m.phase = phaseDone
			return curated.Errorf(UnknownCommand, data)
		}
		m.command = data
		m.addr = 0
		m.count = 0
		m.phase = phaseAddress

	case phaseAddress:
		m.addr = (m.addr << 8) | uint32(data)
		m.count++
		if m.count == 3 {
			m.count = 0
			m.data = 0
			if m.command == CmdRegRead {
				m.data = m.regs[m.addr]
			}
			m.phase = phaseData
		}

	case phaseData:
		if m.command != CmdRegWrite {
			return nil
		}
		m.data = (m.data << 8) | uint32(data)
		m.count++
		if m.count == 4 {
			m.write(m.addr, m.data)
			m.phase = phaseDone
		}
	}

	return nil
}

func (m *Module) write(addr uint32, value uint32) {
	if addr == ChipIDAddr {
		logger.Logf(m.env, "atwilc", "write to chip id ignored")
		return
	}
	m.regs[addr] = value
}

// Recv implements the spi.Receiver interface.
func (m *Module) Recv() uint8 {
	if m.phase != phaseData || m.command != CmdRegRead || m.count >= 4 {
		return 0xff
	}
	v := uint8(m.data >> (24 - 8*m.count))
	m.count++
	return v
}
