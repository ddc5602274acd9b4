package emulator

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/common/log"
)

// Emulator wires the CPU to its ROM and drives it
type Emulator struct {
	CPU *CPU

	options options
	logger  log.Logger
}

// New returns an emulator with zeroed registers and memory
func New(opts ...Option) (*Emulator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Base()
	}

	memory, err := NewMemory(o.memorySize)
	if err != nil {
		return nil, err
	}

	return &Emulator{
		CPU:     newCPU(memory, NewRegisters(), o),
		options: o,
		logger:  o.logger,
	}, nil
}

// LoadROM copies the ROM at path into memory at the configured base address
// and returns the number of bytes loaded
func (e *Emulator) LoadROM(path string) (int, error) {
	e.logger.Infof("loading ROM at %s", path)

	rom, err := readROM(path)
	if err != nil {
		return 0, err
	}

	if err := e.CPU.Memory.Load(e.options.romBase, rom.data); err != nil {
		return 0, errors.Wrapf(err, "ROM %s does not fit at %#06x", path, e.options.romBase)
	}

	e.logger.Infof("Loaded %d bytes from ROM at %#06x (xxhash %016x)", len(rom.data), e.options.romBase, rom.checksum)
	return len(rom.data), nil
}

// Run executes instructions until the CPU halts, an address is out of range,
// the step limit is reached, or ctx is done
func (e *Emulator) Run(ctx context.Context) error {
	return e.CPU.Run(ctx)
}
