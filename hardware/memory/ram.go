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

package memory

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/hardware/checkpoint"
)

// Sentinel errors.
const (
	LoadOutOfRange = "ram: load of %d bytes at offset 0x%x exceeds size of %s"
)

// RAM is a byte addressable memory device.
type RAM struct {
	name string
	data []uint8
}

// NewRAM is the preferred method of initialisation for the RAM type.
func NewRAM(name string, size uint32) *RAM {
	return &RAM{
		name: name,
		data: make([]uint8, size),
	}
}

func (ram *RAM) String() string {
	return fmt.Sprintf("%s [%d bytes]", ram.name, len(ram.data))
}

// Name returns the name of the RAM.
func (ram *RAM) Name() string {
	return ram.name
}

// AccessSizes implements the AccessSizer interface.
func (ram *RAM) AccessSizes() (int, int) {
	return 1, 4
}

// Read implements the Device interface.
func (ram *RAM) Read(offset uint32, size int) uint32 {
	switch size {
	case 1:
		return uint32(ram.data[offset])
	case 2:
		return uint32(binary.LittleEndian.Uint16(ram.data[offset:]))
	}
	return binary.LittleEndian.Uint32(ram.data[offset:])
}

// Write implements the Device interface.
func (ram *RAM) Write(offset uint32, size int, value uint32) {
	switch size {
	case 1:
		ram.data[offset] = uint8(value)
	case 2:
		binary.LittleEndian.PutUint16(ram.data[offset:], uint16(value))
	default:
		binary.LittleEndian.PutUint32(ram.data[offset:], value)
	}
}

// Load copies data into RAM at offset.
func (ram *RAM) Load(offset uint32, data []uint8) error {
	if uint64(offset)+uint64(len(data)) > uint64(len(ram.data)) {
		return curated.Errorf(LoadOutOfRange, len(data), offset, ram.name)
	}
	copy(ram.data[offset:], data)
	return nil
}

// Peek returns a copy of n bytes starting at offset. The returned slice is
// shorter than n if offset+n is beyond the end of the RAM.
func (ram *RAM) Peek(offset uint32, n int) []uint8 {
	if offset >= uint32(len(ram.data)) {
		return nil
	}
	end := min(uint64(offset)+uint64(n), uint64(len(ram.data)))
	return append([]uint8(nil), ram.data[offset:end]...)
}

// Reset clears the contents of RAM.
func (ram *RAM) Reset() {
	clear(ram.data)
}

// Hexdump returns a 16 bytes per line dump of the RAM contents.
func (ram *RAM) Hexdump(offset uint32, n int) string {
	s := strings.Builder{}
	d := ram.Peek(offset, n)
	for i := 0; i < len(d); i += 16 {
		s.WriteString(fmt.Sprintf("%08x |", offset+uint32(i)))
		for _, b := range d[i:min(i+16, len(d))] {
			s.WriteString(fmt.Sprintf(" %02x", b))
		}
		s.WriteString("\n")
	}
	return s.String()
}

// Snapshot returns a copy of the RAM.
func (ram *RAM) Snapshot() *RAM {
	n := *ram
	n.data = append([]uint8(nil), ram.data...)
	return &n
}

// Plumb copies the contents of a snapshot into the RAM.
func (ram *RAM) Plumb(snapshot *RAM) {
	copy(ram.data, snapshot.data)
}

const ramSectionVersion = 1

// SaveCheckpoint adds the RAM contents to the checkpoint.
func (ram *RAM) SaveCheckpoint(w *checkpoint.Writer) error {
	return w.Section(ram.name, ramSectionVersion, ram.data)
}

// LoadCheckpoint restores the RAM contents from the checkpoint.
func (ram *RAM) LoadCheckpoint(r *checkpoint.Reader) error {
	p, err := r.Section(ram.name, ramSectionVersion)
	if err != nil {
		return err
	}
	if len(p) != len(ram.data) {
		return curated.Errorf(checkpoint.BadSection, ram.name, "wrong length")
	}
	copy(ram.data, p)
	return nil
}
