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

package checkpoint

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/s32gsim/s32gsim/curated"
)

// Magic identifies a checkpoint file.
const Magic = "S32GCKPT"

// Sentinel errors.
const (
	BadMagic        = "checkpoint: not a checkpoint file"
	Truncated       = "checkpoint: truncated: %v"
	MissingSection  = "checkpoint: missing section (%s)"
	VersionMismatch = "checkpoint: section %s is version %d, expected %d"
	BadSection      = "checkpoint: section %s: %v"
	DuplicateName   = "checkpoint: duplicate section (%s)"
)

type section struct {
	name    string
	version uint32
	payload []byte
}

// Writer collects sections for writing to a checkpoint file.
type Writer struct {
	sections []section
	names    map[string]bool
}

// NewWriter is the preferred method of initialisation for the Writer type.
func NewWriter() *Writer {
	return &Writer{
		names: make(map[string]bool),
	}
}

// Section adds a named section to the checkpoint. Section names must be
// unique.
func (w *Writer) Section(name string, version uint32, payload []byte) error {
	if w.names[name] {
		return curated.Errorf(DuplicateName, name)
	}
	w.names[name] = true
	w.sections = append(w.sections, section{
		name:    name,
		version: version,
		payload: payload,
	})
	return nil
}

// WriteTo implements the io.WriterTo interface.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(out)}

	cw.write([]byte(Magic))
	cw.write(binary.LittleEndian.AppendUint32(nil, uint32(len(w.sections))))
	for _, s := range w.sections {
		b := binary.LittleEndian.AppendUint16(nil, uint16(len(s.name)))
		b = append(b, s.name...)
		b = binary.LittleEndian.AppendUint32(b, s.version)
		b = binary.LittleEndian.AppendUint32(b, uint32(len(s.payload)))
		cw.write(b)
		cw.write(s.payload)
	}

	if cw.err == nil {
		cw.err = cw.w.Flush()
	}

	return cw.n, cw.err
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (cw *countingWriter) write(p []byte) {
	if cw.err != nil {
		return
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err
}

// Reader gives access to the sections of a checkpoint file.
type Reader struct {
	sections map[string]section
	order    []string
}

// NewReader reads an entire checkpoint from io.Reader.
func NewReader(in io.Reader) (*Reader, error) {
	r := &Reader{
		sections: make(map[string]section),
	}

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(in, magic); err != nil {
		return nil, curated.Errorf(Truncated, err)
	}
	if string(magic) != Magic {
		return nil, curated.Errorf(BadMagic)
	}

	var count uint32
	if err := binary.Read(in, binary.LittleEndian, &count); err != nil {
		return nil, curated.Errorf(Truncated, err)
	}

	for range count {
		var nameLen uint16
		if err := binary.Read(in, binary.LittleEndian, &nameLen); err != nil {
			return nil, curated.Errorf(Truncated, err)
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(in, name); err != nil {
			return nil, curated.Errorf(Truncated, err)
		}

		var hdr struct {
			Version uint32
			Length  uint32
		}
		if err := binary.Read(in, binary.LittleEndian, &hdr); err != nil {
			return nil, curated.Errorf(Truncated, err)
		}
		payload := make([]byte, hdr.Length)
		if _, err := io.ReadFull(in, payload); err != nil {
			return nil, curated.Errorf(Truncated, err)
		}

		s := section{
			name:    string(name),
			version: hdr.Version,
			payload: payload,
		}
		if _, ok := r.sections[s.name]; ok {
			return nil, curated.Errorf(DuplicateName, s.name)
		}
		r.sections[s.name] = s
		r.order = append(r.order, s.name)
	}

	return r, nil
}

// Section returns the payload of the named section. The version of the
// section must match the version argument.
func (r *Reader) Section(name string, version uint32) ([]byte, error) {
	s, ok := r.sections[name]
	if !ok {
		return nil, curated.Errorf(MissingSection, name)
	}
	if s.version != version {
		return nil, curated.Errorf(VersionMismatch, name, s.version, version)
	}
	return s.payload, nil
}

// Names returns the section names in the order they appear in the file.
func (r *Reader) Names() []string {
	return append([]string{}, r.order...)
}

// EncodeWords is a helper function that converts a slice of register values
// to a section payload.
func EncodeWords(words []uint32) []byte {
	b := make([]byte, 0, len(words)*4)
	for _, w := range words {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	return b
}

// DecodeWords is the inverse of EncodeWords. The number of words in the
// payload must equal the expected argument.
func DecodeWords(name string, payload []byte, expected int) ([]uint32, error) {
	if len(payload) != expected*4 {
		return nil, curated.Errorf(BadSection, name, "wrong length")
	}
	words := make([]uint32, expected)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(payload[i*4:])
	}
	return words, nil
}
