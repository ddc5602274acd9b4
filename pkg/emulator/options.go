package emulator

import (
	"github.com/Moistorious/GameboyEmulator/pkg/ptr"
	"github.com/prometheus/common/log"
)

type options struct {
	memorySize          int
	romBase             uint16
	entryPoint          *uint16
	stepLimit           uint64
	trace               bool
	logger              log.Logger
	instructionCallback InstructionCallback
}

func defaultOptions() options {
	return options{
		memorySize: bytes08k,
	}
}

// Option configures the emulator
type Option func(o *options)

// WithMemorySize sets the number of addressable bytes (default 8kb, max 64kb)
func WithMemorySize(size int) Option {
	return func(o *options) {
		o.memorySize = size
	}
}

// WithROMBase sets the address the ROM is loaded at (default 0x0000)
func WithROMBase(address uint16) Option {
	return func(o *options) {
		o.romBase = address
	}
}

// WithEntryPoint sets the initial program counter (default 0x0000)
func WithEntryPoint(address uint16) Option {
	return func(o *options) {
		o.entryPoint = ptr.UInt16(address)
	}
}

// WithStepLimit stops Run after the given number of instructions. Zero
// means no limit.
func WithStepLimit(steps uint64) Option {
	return func(o *options) {
		o.stepLimit = steps
	}
}

// WithTrace logs every executed instruction at debug level
func WithTrace() Option {
	return func(o *options) {
		o.trace = true
	}
}

// WithLogger sets the logger used by the emulator (default log.Base())
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithInstructionCallback registers a callback invoked before every instruction
func WithInstructionCallback(callback InstructionCallback) Option {
	return func(o *options) {
		o.instructionCallback = callback
	}
}
