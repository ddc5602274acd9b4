package emulator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/common/log"
	"github.com/stretchr/testify/require"
)

func newTestEmulator(t *testing.T, program []byte, opts ...Option) *Emulator {
	t.Helper()

	path := filepath.Join(t.TempDir(), "program.gb")
	require.NoError(t, os.WriteFile(path, program, 0o644))

	opts = append([]Option{WithLogger(log.NewLogger(io.Discard))}, opts...)
	e, err := New(opts...)
	require.NoError(t, err)

	n, err := e.LoadROM(path)
	require.NoError(t, err)
	require.Equal(t, len(program), n)
	return e
}

func TestEmulatorPrograms(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		steps   int
		setup   func(t *testing.T, c *CPU)
		verify  func(t *testing.T, c *CPU)
	}{
		{
			name:    "LD A,5; XOR A",
			program: []byte{0x3E, 0x05, 0xAF},
			steps:   2,
			verify: func(t *testing.T, c *CPU) {
				require.Equal(t, uint8(0x00), c.Registers.Read8(RegisterA))
				require.True(t, c.Registers.Read1(FlagZ))
				require.Equal(t, uint16(3), c.ProgramCounter)
			},
		},
		{
			name:    "LD HL,0x1000; LD (HL),0x7F",
			program: []byte{0x21, 0x00, 0x10, 0x36, 0x7F},
			steps:   2,
			verify: func(t *testing.T, c *CPU) {
				v, err := c.Memory.Read8(0x1000)
				require.NoError(t, err)
				require.Equal(t, uint8(0x7F), v)
				require.Equal(t, uint16(5), c.ProgramCounter)
			},
		},
		{
			name:    "LD HL,0x1000; LD (HL),0x7F; NOP",
			program: []byte{0x21, 0x00, 0x10, 0x36, 0x7F},
			steps:   3,
			verify: func(t *testing.T, c *CPU) {
				v, err := c.Memory.Read8(0x1000)
				require.NoError(t, err)
				require.Equal(t, uint8(0x7F), v)
			},
		},
		{
			name:    "LD BC,0x1234; LD A,(BC)",
			program: []byte{0x01, 0x34, 0x12, 0x0A},
			steps:   2,
			setup: func(t *testing.T, c *CPU) {
				require.NoError(t, c.Memory.Write8(0x1234, 0x99))
			},
			verify: func(t *testing.T, c *CPU) {
				require.Equal(t, uint8(0x99), c.Registers.Read8(RegisterA))
			},
		},
		{
			name: "clear memory backwards with LD (HL-),A",
			// LD HL,0x1003; LD A,0xEE; LD (HL-),A x3; LD A,0x11; LD A,(HL+); HALT
			program: []byte{0x21, 0x03, 0x10, 0x3E, 0xEE, 0x32, 0x32, 0x32, 0x3E, 0x11, 0x2A, 0x76},
			steps:   8,
			verify: func(t *testing.T, c *CPU) {
				require.False(t, c.PowerOn)
				require.Equal(t, uint8(0x00), c.Registers.Read8(RegisterA)) // read (0x1000) which was not written
				require.Equal(t, uint16(0x1001), c.Registers.Read16(RegisterHL))
				for address := uint16(0x1001); address <= 0x1003; address++ {
					v, err := c.Memory.Read8(address)
					require.NoError(t, err)
					require.Equal(t, uint8(0xEE), v)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEmulator(t, tt.program)
			if tt.setup != nil {
				tt.setup(t, e.CPU)
			}

			step(t, e.CPU, tt.steps)
			tt.verify(t, e.CPU)
		})
	}
}

func TestEmulatorROMBaseAndEntryPoint(t *testing.T) {
	e := newTestEmulator(t, []byte{0x3E, 0x42, 0x76}, WithROMBase(0x0100), WithEntryPoint(0x0100))

	require.NoError(t, e.Run(context.Background()))

	require.Equal(t, uint8(0x42), e.CPU.Registers.Read8(RegisterA))
	require.Equal(t, uint16(0x0103), e.CPU.ProgramCounter)
}

func TestEmulatorStepLimit(t *testing.T) {
	e := newTestEmulator(t, []byte{0x00}, WithStepLimit(10))

	require.NoError(t, e.Run(context.Background()))

	require.Equal(t, uint64(10), e.CPU.Steps)
	require.True(t, e.CPU.PowerOn)
}

func TestEmulatorInstructionCallback(t *testing.T) {
	var mnemonics []string
	var addresses []uint16
	callback := func(mnemonic string, pc uint16) {
		mnemonics = append(mnemonics, mnemonic)
		addresses = append(addresses, pc)
	}

	e := newTestEmulator(t, []byte{0x00, 0x3E, 0x01, 0xCB, 0x47, 0xEE, 0x01, 0x76}, WithInstructionCallback(callback))
	require.NoError(t, e.Run(context.Background()))

	require.Equal(t, []string{"NOP", "LD8", "BIT", "XOR", "HALT"}, mnemonics)
	require.Equal(t, []uint16{0x0000, 0x0001, 0x0003, 0x0005, 0x0007}, addresses)
}

func TestEmulatorRejectsROMLargerThanMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "large.gb")
	require.NoError(t, os.WriteFile(path, make([]byte, 0x0200), 0o644))

	e, err := New(WithLogger(log.NewLogger(io.Discard)), WithMemorySize(0x0100))
	require.NoError(t, err)

	_, err = e.LoadROM(path)
	require.True(t, errors.Is(err, ErrAddressOutOfRange))
	require.Equal(t, make([]byte, 0x0100), e.CPU.Memory.data)
}

func TestEmulatorRejectsMissingROM(t *testing.T) {
	e, err := New(WithLogger(log.NewLogger(io.Discard)))
	require.NoError(t, err)

	_, err = e.LoadROM(filepath.Join(t.TempDir(), "missing.gb"))

	var loadErr *ROMLoadError
	require.True(t, errors.As(err, &loadErr))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNewRejectsInvalidMemorySize(t *testing.T) {
	_, err := New(WithMemorySize(bytes64k + 1))
	require.True(t, errors.Is(err, ErrInvalidMemorySize))
}
