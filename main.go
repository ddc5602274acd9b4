package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"github.com/prometheus/common/log"
	"github.com/prometheus/common/version"

	"github.com/Moistorious/GameboyEmulator/pkg/emulator"
)

const programName = "gbemu"

type runCmd struct {
	Base       string `help:"Address the ROM is loaded at" default:"0x0000"`
	Entry      string `help:"Initial program counter" default:"0x0000"`
	MemorySize int    `help:"Addressable memory in bytes (max 65536)" default:"8192"`
	MaxSteps   uint64 `help:"Stop after this many instructions (0 = until HALT)" default:"0"`
	LogLevel   string `help:"Log level (debug, info, warn, error). debug traces every instruction" default:"info"`

	Path string `arg name:"path" help:"Path to ROM (raw, .gz, .zip or .7z)" type:"path"`
}

func (r *runCmd) Run() error {
	logger := log.Base()
	if err := logger.SetLevel(r.LogLevel); err != nil {
		return err
	}

	base, err := parseAddress(r.Base)
	if err != nil {
		return errors.Wrap(err, "--base")
	}
	entry, err := parseAddress(r.Entry)
	if err != nil {
		return errors.Wrap(err, "--entry")
	}

	opts := []emulator.Option{
		emulator.WithLogger(logger),
		emulator.WithMemorySize(r.MemorySize),
		emulator.WithROMBase(base),
		emulator.WithEntryPoint(entry),
		emulator.WithStepLimit(r.MaxSteps),
	}
	if r.LogLevel == "debug" {
		opts = append(opts, emulator.WithTrace())
	}

	e, err := emulator.New(opts...)
	if err != nil {
		return err
	}

	if _, err := e.LoadROM(r.Path); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = e.Run(ctx)
	logger.Infof("Executed %d instructions, PC=%#06x %s state=%016x",
		e.CPU.Steps, e.CPU.ProgramCounter, e.CPU.Registers, e.CPU.Fingerprint())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type versionCmd struct{}

func (v *versionCmd) Run() error {
	fmt.Println(version.Print(programName))
	return nil
}

// parseAddress accepts decimal, or hex prefixed with 0x
func parseAddress(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

var root struct {
	Run     runCmd     `cmd help:"run ROM"`
	Version versionCmd `cmd help:"print version information"`
}

func main() {
	cli := kong.Parse(&root)
	err := cli.Run()
	cli.FatalIfErrorf(err)
}
