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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/s32gsim/s32gsim/environment"
	"github.com/s32gsim/s32gsim/hardware/soc"
	"github.com/s32gsim/s32gsim/logger"
	"github.com/s32gsim/s32gsim/modalflag"
	"github.com/s32gsim/s32gsim/monitor"
	"github.com/s32gsim/s32gsim/performance"
	"github.com/s32gsim/s32gsim/prefs"
	"github.com/s32gsim/s32gsim/script"
	"github.com/s32gsim/s32gsim/statsview"
	"github.com/s32gsim/s32gsim/version"
	"golang.org/x/sync/errgroup"
)

// exit values
const (
	exitOkay       = 0
	exitParseError = 10
	exitModeError  = 20
)

// how often the RUN mode echoes new log entries
const logInterval = 250 * time.Millisecond

func main() {
	// #ctrlc cancels the context. every mode treats cancellation as a normal
	// end to the session
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	exitVal := launch(ctx, os.Args[1:], os.Stdout)
	stop()

	os.Exit(exitVal)
}

// launch parses the command line and runs the selected mode. returns the
// value to be used with os.Exit()
func launch(ctx context.Context, args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "SCRIPT", "MONITOR", "DUMP", "CHECKPOINT", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOkay

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParseError
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md)

	case "SCRIPT":
		err = runScript(ctx, md)

	case "MONITOR":
		err = runMonitor(ctx, md)

	case "DUMP":
		err = dump(md)

	case "CHECKPOINT":
		err = checkpoint(ctx, md)

	case "PERFORMANCE":
		err = perform(ctx, md)

	case "VERSION":
		fmt.Fprintln(output, version.String())
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return exitModeError
	}

	return exitOkay
}

// machineFlags are the flags shared by every mode that creates a SoC.
type machineFlags struct {
	prefs *string
	image *string
	flash *string
	sd    *string
	log   *bool
}

func addMachineFlags(md *modalflag.Modes) machineFlags {
	return machineFlags{
		prefs: md.AddString("prefs", "", "preference overrides for this session (key::value; key::value)"),
		image: md.AddString("image", "", "boot image file. if empty the image is read from the boot flash"),
		flash: md.AddString("flash", "", "file to load into the boot flash"),
		sd:    md.AddString("sd", "", "file to use as the SD card"),
		log:   md.AddBool("log", false, "echo log to stdout"),
	}
}

// newMachine creates the SoC described by the flags. The returned function
// releases any files opened for the SoC.
func newMachine(md *modalflag.Modes, f machineFlags, boot bool) (*soc.SoC, func(), error) {
	if *f.log {
		logger.SetEcho(md.Output, true)
	} else {
		logger.SetEcho(nil, false)
	}

	prefs.PushCommandLineStack(*f.prefs)
	env, err := environment.NewEnvironment(environment.MainEmulation, nil)
	unused := prefs.PopCommandLineStack()
	if err != nil {
		return nil, nil, err
	}
	if unused != "" {
		logger.Logf(logger.Allow, "s32gsim", "unused preference overrides: %s", unused)
	}

	s, err := soc.NewSoC(env)
	if err != nil {
		return nil, nil, err
	}

	var files []*os.File
	done := func() {
		for _, f := range files {
			f.Close()
		}
	}

	if *f.flash != "" {
		if err := s.Flash.LoadFile(*f.flash); err != nil {
			return nil, nil, err
		}
	}

	if *f.sd != "" {
		sd, err := os.OpenFile(*f.sd, os.O_RDWR, 0)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, sd)
		st, err := sd.Stat()
		if err != nil {
			done()
			return nil, nil, err
		}
		s.InsertSD(sd, st.Size())
	}

	if !boot {
		return s, done, nil
	}

	var image io.ReaderAt
	if *f.image != "" {
		img, err := os.Open(*f.image)
		if err != nil {
			done()
			return nil, nil, err
		}
		defer img.Close()
		image = img
	}

	if err := s.LoadBootImage(image); err != nil {
		done()
		return nil, nil, err
	}

	return s, done, nil
}

func run(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	mf := addMachineFlags(md)
	duration := md.AddDuration("duration", 10*time.Millisecond, "amount of virtual time to run for")
	stats := md.AddBool("statsview", statsview.Available(), "run stats server (only available with statsview build tag)")
	save := md.AddString("checkpoint", "", "save a checkpoint file when the run ends")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	s, done, err := newMachine(md, mf, true)
	if err != nil {
		return err
	}
	defer done()

	if *stats {
		statsview.Launch(md.Output)
	}

	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	finished := make(chan struct{})

	g.Go(func() error {
		defer close(finished)
		return s.RunFor(ctx, *duration)
	})

	// new log entries are written in batches while the emulation is running
	// unless the log flag has asked for every entry as it happens
	g.Go(func() error {
		tick := time.NewTicker(logInterval)
		defer tick.Stop()
		for {
			select {
			case <-finished:
				return nil
			case <-ctx.Done():
				return nil
			case <-tick.C:
				if !*mf.log {
					logger.WriteRecent(md.Output)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if !*mf.log {
		logger.WriteRecent(md.Output)
	}

	fmt.Fprintf(md.Output, "ran %v of virtual time in %v\n", s.Clock.Now(), time.Since(start).Round(time.Millisecond))
	fmt.Fprint(md.Output, s.String())

	if *save != "" {
		if err := s.SaveCheckpointFile(*save); err != nil {
			return err
		}
	}

	return nil
}

func perform(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	mf := addMachineFlags(md)
	duration := md.AddDuration("duration", 5*time.Second, "wall clock time to run for")
	boot := md.AddBool("boot", false, "load the boot image before running")
	profile := md.AddBool("profile", false, "produce cpu and memory profiling reports")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	s, done, err := newMachine(md, mf, *boot)
	if err != nil {
		return err
	}
	defer done()

	return performance.Check(ctx, md.Output, *profile, s, *duration)
}

func runScript(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	mf := addMachineFlags(md)
	boot := md.AddBool("boot", false, "load the boot image before running the script")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("lua script required for %s mode", md)
	case 1:
		s, done, err := newMachine(md, mf, *boot)
		if err != nil {
			return err
		}
		defer done()

		return script.RunFile(ctx, s, md.GetArg(0), md.Output)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}
}

func runMonitor(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	mf := addMachineFlags(md)
	boot := md.AddBool("boot", true, "load the boot image before starting the monitor")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	s, done, err := newMachine(md, mf, *boot)
	if err != nil {
		return err
	}
	defer done()

	return monitor.Run(ctx, monitor.NewMonitor(s), os.Stdin, md.Output)
}

func dump(md *modalflag.Modes) error {
	md.NewMode()

	mf := addMachineFlags(md)
	restore := md.AddString("checkpoint", "", "checkpoint file to restore before dumping")

	md.AdditionalHelp(
		`The dump is a graphviz dot file of the CPU cluster, the reset module and the SPI
controllers. Memory and register banks are left out.`)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	s, done, err := newMachine(md, mf, false)
	if err != nil {
		return err
	}
	defer done()

	if *restore != "" {
		if err := s.LoadCheckpointFile(*restore); err != nil {
			return err
		}
	}

	st := s.Snapshot()
	st.SRAM = nil
	st.Flash = nil
	st.Banks = nil
	memviz.Map(md.Output, st)

	return nil
}

func checkpoint(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()
	md.AddSubModes("VERIFY", "SAVE")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch md.Mode() {
	case "VERIFY":
		md.NewMode()
		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		if len(md.RemainingArgs()) != 1 {
			return fmt.Errorf("one checkpoint file required for %s mode", md)
		}

		// verification is done in a secondary emulation so that the log
		// isn't cluttered
		env, err := environment.NewEnvironment("verify", nil)
		if err != nil {
			return err
		}
		env.Normalise()
		s, err := soc.NewSoC(env)
		if err != nil {
			return err
		}
		if err := s.LoadCheckpointFile(md.GetArg(0)); err != nil {
			return err
		}
		fmt.Fprintf(md.Output, "%s is a valid checkpoint\n", md.GetArg(0))
		fmt.Fprint(md.Output, s.CPUs.String())

	case "SAVE":
		md.NewMode()
		mf := addMachineFlags(md)
		duration := md.AddDuration("duration", 0, "amount of virtual time to run before saving")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		if len(md.RemainingArgs()) != 1 {
			return fmt.Errorf("one checkpoint file required for %s mode", md)
		}

		s, done, err := newMachine(md, mf, true)
		if err != nil {
			return err
		}
		defer done()

		if err := s.RunFor(ctx, *duration); err != nil {
			return err
		}
		if err := s.SaveCheckpointFile(md.GetArg(0)); err != nil {
			return err
		}
		fmt.Fprintf(md.Output, "checkpoint saved to %s\n", md.GetArg(0))
	}

	return nil
}
