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
	"fmt"
	"sort"
	"strings"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/memory/memorymap"
	"github.com/s32gsim/s32gsim/logger"
)

// Device is a memory mapped device.
type Device interface {
	Read(offset uint32, size int) uint32
	Write(offset uint32, size int, value uint32)
}

// AccessSizer is implemented by devices that accept accesses of sizes other
// than 4 bytes. Sizes are in bytes.
type AccessSizer interface {
	AccessSizes() (min int, max int)
}

// Sentinel errors.
const (
	OverlappingArea = "memory: %s overlaps %s"
	MappingSealed   = "memory: cannot map %s after the address map is sealed"
	EmptyArea       = "memory: %s has zero size"
)

type region struct {
	area memorymap.Area
	dev  Device
	min  int
	max  int
}

// Bus is the address map.
type Bus struct {
	env     *environment.Environment
	regions []region
	sealed  bool
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus(env *environment.Environment) *Bus {
	return &Bus{
		env: env,
	}
}

// Map a device into the address space.
func (bus *Bus) Map(name string, origin uint32, size uint32, dev Device) error {
	if bus.sealed {
		return curated.Errorf(MappingSealed, name)
	}
	if size == 0 {
		return curated.Errorf(EmptyArea, name)
	}

	r := region{
		area: memorymap.Area{Name: name, Origin: origin, Size: size},
		dev:  dev,
		min:  4,
		max:  4,
	}
	if s, ok := dev.(AccessSizer); ok {
		r.min, r.max = s.AccessSizes()
	}

	for _, o := range bus.regions {
		if uint64(origin) <= uint64(o.area.Memtop()) && uint64(o.area.Origin) <= uint64(origin)+uint64(size)-1 {
			return curated.Errorf(OverlappingArea, name, o.area.Name)
		}
	}

	bus.regions = append(bus.regions, r)
	sort.Slice(bus.regions, func(i, j int) bool {
		return bus.regions[i].area.Origin < bus.regions[j].area.Origin
	})

	return nil
}

// Seal the address map. No more devices can be mapped after this call.
func (bus *Bus) Seal() {
	bus.sealed = true
}

// Areas returns the list of mapped areas, sorted by origin.
func (bus *Bus) Areas() []memorymap.Area {
	a := make([]memorymap.Area, len(bus.regions))
	for i, r := range bus.regions {
		a[i] = r.area
	}
	return a
}

// Summary returns a table of the mapped areas.
func (bus *Bus) Summary() string {
	s := strings.Builder{}
	for _, r := range bus.regions {
		s.WriteString(fmt.Sprintf("%08x -> %08x\t%s\n", r.area.Origin, r.area.Memtop(), r.area.Name))
	}
	return s.String()
}

func (bus *Bus) lookup(address uint32) (*region, bool) {
	i := sort.Search(len(bus.regions), func(i int) bool {
		return bus.regions[i].area.Memtop() >= address
	})
	if i < len(bus.regions) && bus.regions[i].area.Origin <= address {
		return &bus.regions[i], true
	}
	return nil, false
}

// Lookup returns the name of the area containing the address and the offset
// of the address in that area.
func (bus *Bus) Lookup(address uint32) (string, uint32, bool) {
	r, ok := bus.lookup(address)
	if !ok {
		return "", 0, false
	}
	return r.area.Name, address - r.area.Origin, true
}

func (bus *Bus) validate(op string, address uint32, size int) (*region, bool) {
	r, ok := bus.lookup(address)
	if !ok {
		logger.Logf(bus.env, "memory", "%s of unmapped address %08x", op, address)
		return nil, false
	}

	if size < r.min || size > r.max || size&(size-1) != 0 {
		logger.Logf(bus.env, r.area.Name, "invalid %s size %d at offset 0x%x", op, size, address-r.area.Origin)
		return nil, false
	}

	if address%uint32(size) != 0 {
		logger.Logf(bus.env, r.area.Name, "unaligned %s at offset 0x%x", op, address-r.area.Origin)
		return nil, false
	}

	return r, true
}

// Read from the address. Size is in bytes.
func (bus *Bus) Read(address uint32, size int) uint32 {
	r, ok := bus.validate("read", address, size)
	if !ok {
		return 0
	}
	return r.dev.Read(address-r.area.Origin, size)
}

// Write to the address. Size is in bytes.
func (bus *Bus) Write(address uint32, size int, value uint32) {
	r, ok := bus.validate("write", address, size)
	if !ok {
		return
	}
	r.dev.Write(address-r.area.Origin, size, value)
}
