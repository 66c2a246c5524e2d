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
	"io"
	"os"

	"github.com/s32gsim/s32gsim/curated"
	"github.com/s32gsim/s32gsim/hardware/checkpoint"
	"github.com/s32gsim/s32gsim/logger"
)

type checkpointer interface {
	SaveCheckpoint(w *checkpoint.Writer) error
	LoadCheckpoint(r *checkpoint.Reader) error
}

// the components that take part in a checkpoint in the order they are
// written
func (soc *SoC) checkpointers() []checkpointer {
	c := []checkpointer{soc.CPUs, soc.SRAM}
	for _, b := range soc.Banks {
		c = append(c, b)
	}
	c = append(c, soc.RGM, soc.SPI0, soc.SPI1, soc.SPI0.Bus(), soc.SPI1.Bus())
	return c
}

// SaveCheckpoint adds every component of the SoC to the checkpoint.
func (soc *SoC) SaveCheckpoint(w *checkpoint.Writer) error {
	for _, c := range soc.checkpointers() {
		if err := c.SaveCheckpoint(w); err != nil {
			return err
		}
	}
	return nil
}

// LoadCheckpoint restores every component of the SoC from the checkpoint.
// Pending timers and bottom halves are cancelled. On error the SoC is left
// partially restored and should be reset.
func (soc *SoC) LoadCheckpoint(r *checkpoint.Reader) error {
	soc.Clock.Reset()
	for _, c := range soc.checkpointers() {
		if err := c.LoadCheckpoint(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteCheckpoint writes a checkpoint of the SoC to out.
func (soc *SoC) WriteCheckpoint(out io.Writer) error {
	w := checkpoint.NewWriter()
	if err := soc.SaveCheckpoint(w); err != nil {
		return err
	}
	_, err := w.WriteTo(out)
	return err
}

// ReadCheckpoint restores the SoC from a checkpoint read from in.
func (soc *SoC) ReadCheckpoint(in io.Reader) error {
	r, err := checkpoint.NewReader(in)
	if err != nil {
		return err
	}
	return soc.LoadCheckpoint(r)
}

// SaveCheckpointFile writes a checkpoint of the SoC to the named file.
func (soc *SoC) SaveCheckpointFile(fn string) error {
	f, err := os.Create(fn)
	if err != nil {
		return curated.Errorf("soc: checkpoint: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil {
			logger.Logf(soc.Env, "soc", "could not close checkpoint file: %v", err)
		}
	}()

	if err := soc.WriteCheckpoint(f); err != nil {
		return err
	}

	logger.Logf(soc.Env, "soc", "checkpoint saved to %s", fn)
	return nil
}

// LoadCheckpointFile restores the SoC from the named file.
func (soc *SoC) LoadCheckpointFile(fn string) error {
	f, err := os.Open(fn)
	if err != nil {
		return curated.Errorf("soc: checkpoint: %v", err)
	}
	defer f.Close()

	if err := soc.ReadCheckpoint(f); err != nil {
		return err
	}

	logger.Logf(soc.Env, "soc", "checkpoint loaded from %s", fn)
	return nil
}
