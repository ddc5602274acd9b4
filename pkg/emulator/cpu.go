package emulator

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/pkg/errors"
	"github.com/prometheus/common/log"
)

// InstructionCallback is called with the mnemonic and address of every
// instruction before it is executed
type InstructionCallback func(mnemonic string, pc uint16)

// CPU owns the register file and memory, and executes one instruction per Step
type CPU struct {
	Memory         *Memory
	Registers      *Registers
	ProgramCounter uint16
	PowerOn        bool

	// Steps is the number of instructions executed
	Steps uint64

	stepLimit           uint64
	trace               bool
	logger              log.Logger
	instructionCallback InstructionCallback
}

func newCPU(memory *Memory, registers *Registers, opts options) *CPU {
	c := &CPU{
		Memory:              memory,
		Registers:           registers,
		PowerOn:             true,
		stepLimit:           opts.stepLimit,
		trace:               opts.trace,
		logger:              opts.logger,
		instructionCallback: opts.instructionCallback,
	}
	if opts.entryPoint != nil {
		c.ProgramCounter = *opts.entryPoint
	}
	if c.logger == nil {
		c.logger = log.Base()
	}
	return c
}

// Run executes instructions until HALT, a fatal error, the step limit, or
// until ctx is done
func (c *CPU) Run(ctx context.Context) error {
	for c.PowerOn {
		if c.stepLimit != 0 && c.Steps >= c.stepLimit {
			c.logger.Infof("Stopped after reaching the limit of %d steps", c.stepLimit)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step fetches, decodes and executes a single instruction
func (c *CPU) Step() error {
	if !c.PowerOn {
		return ErrHalted
	}

	pc := c.ProgramCounter
	opcode, err := c.fetch8()
	if err != nil {
		return errors.Wrapf(err, "fetch opcode at %#06x", pc)
	}

	inst := instructions[opcode]
	if inst.Mnemonic == mnemonicPrefixCB {
		// 0xCB is a prefix for a 2-byte opcode. Lookup the 2nd byte.
		opcode, err = c.fetch8()
		if err != nil {
			return errors.Wrapf(err, "fetch prefixed opcode at %#06x", pc)
		}
		inst = cbInstructions[opcode]
	}

	if c.trace {
		c.logger.Debugf("Execute %#06x %s", pc, inst)
	}
	if c.instructionCallback != nil {
		c.instructionCallback(inst.Mnemonic.String(), pc)
	}

	c.Steps++
	if err := c.execute(inst, pc); err != nil {
		return errors.Wrapf(err, "execute %s at %#06x", inst.opcodeName(), pc)
	}
	return nil
}

func (c *CPU) execute(inst instruction, pc uint16) error {
	switch inst.Mnemonic {
	case mnemonicUnimplemented:
		c.logger.Infof("Unimplemented instruction [%s] at %#06x skipped", inst.opcodeName(), pc)
		return nil
	case mnemonicNOP:
		// Intentionally left blank
	case mnemonicHALT:
		// HALT; stop running
		c.logger.Info("POWER OFF")
		c.PowerOn = false
	case mnemonicLD8:
		// LD8 $TARGET $VALUE; $TARGET=$VALUE
		v, err := c.read8(inst.Operands[1])
		if err != nil {
			return err
		}
		if err := c.write8(inst.Operands[0], v); err != nil {
			return err
		}
	case mnemonicLD16:
		// LD16 $TARGET $VALUE; $TARGET=$VALUE
		v, err := c.read16(inst.Operands[1])
		if err != nil {
			return err
		}
		c.write16(inst.Operands[0], v)
	case mnemonicXOR:
		// XOR $A $X; $A=$A^$X
		assertOperandType(inst.Operands[0], operandReg8)
		assertOperandType(inst.Operands[1], operandReg8, operandReg16Ptr, operandD8)

		x, err := c.read8(inst.Operands[1])
		if err != nil {
			return err
		}
		v := c.Registers.Read8(inst.Operands[0].RefRegister8) ^ x
		c.Registers.Write8(inst.Operands[0].RefRegister8, v)

		c.Registers.SetFlags(v == 0, false, false)
	case mnemonicBIT:
		// BIT n X: z=true if the n'th bit in X is unset
		assertOperandType(inst.Operands[0], operandConst8)
		assertOperandType(inst.Operands[1], operandReg8, operandReg16Ptr)

		x, err := c.read8(inst.Operands[1])
		if err != nil {
			return err
		}
		set := readBitN(x, inst.Operands[0].RefConst8)

		c.Registers.SetFlags(!set, false, true)
	default:
		panic(fmt.Sprintf("instruction %s has no implementation", inst))
	}

	// Some instructions automatically increment/decrement values after they complete
	for _, op := range inst.Operands {
		if op.IncrementReg16 || op.DecrementReg16 {
			assertOperandType(op, operandReg16, operandReg16Ptr)
			address := c.Registers.Read16(op.RefRegister16)
			if op.IncrementReg16 {
				address++
			} else {
				address--
			}
			c.Registers.Write16(op.RefRegister16, address)
		}
	}

	return nil
}

// fetch8 reads the byte at PC and advances PC
func (c *CPU) fetch8() (byte, error) {
	v, err := c.Memory.Read8(c.ProgramCounter)
	if err != nil {
		return 0, err
	}
	c.ProgramCounter++
	return v, nil
}

// fetch16 reads the (little-endian) word at PC and advances PC by 2
func (c *CPU) fetch16() (uint16, error) {
	v, err := c.Memory.Read16(c.ProgramCounter)
	if err != nil {
		return 0, err
	}
	c.ProgramCounter += 2
	return v, nil
}

func (c *CPU) read16(op operand) (uint16, error) {
	switch op.Type {
	case operandD16:
		return c.fetch16()
	case operandReg16:
		return c.Registers.Read16(op.RefRegister16), nil
	default:
		panic(fmt.Sprintf("unexpected operand (%s) encountered while reading 16bit value", op.Type))
	}
}

func (c *CPU) write16(op operand, v uint16) {
	switch op.Type {
	case operandReg16:
		c.Registers.Write16(op.RefRegister16, v)
	default:
		panic(fmt.Sprintf("unexpected operand (%s) encountered while writing 16bit value", op.Type))
	}
}

func (c *CPU) read8(op operand) (byte, error) {
	switch op.Type {
	case operandD8:
		return c.fetch8()
	case operandReg8:
		return c.Registers.Read8(op.RefRegister8), nil
	case operandReg16Ptr:
		address := c.Registers.Read16(op.RefRegister16)
		return c.Memory.Read8(address)
	case operandA16Ptr:
		address, err := c.fetch16()
		if err != nil {
			return 0, err
		}
		return c.Memory.Read8(address)
	default:
		panic(fmt.Sprintf("unexpected operand (%s) encountered while reading 8bit value", op.Type))
	}
}

func (c *CPU) write8(op operand, v byte) error {
	switch op.Type {
	case operandReg8:
		c.Registers.Write8(op.RefRegister8, v)
		return nil
	case operandReg16Ptr:
		address := c.Registers.Read16(op.RefRegister16)
		return c.Memory.Write8(address, v)
	case operandA16Ptr:
		address, err := c.fetch16()
		if err != nil {
			return err
		}
		return c.Memory.Write8(address, v)
	default:
		panic(fmt.Sprintf("unexpected operand (%s) encountered while writing 8bit value", op.Type))
	}
}

// Fingerprint hashes registers, PC and memory. Two CPUs with the same
// fingerprint are (almost certainly) in the same state.
func (c *CPU) Fingerprint() uint64 {
	digest := xxhash.New()
	digest.Write(c.Registers.data)

	pc := make([]byte, 2)
	binary.LittleEndian.PutUint16(pc, c.ProgramCounter)
	digest.Write(pc)

	digest.Write(c.Memory.data)
	return digest.Sum64()
}

func assertOperandType(op operand, expected ...operandType) {
	for _, e := range expected {
		if op.Type == e {
			return
		}
	}

	panic(fmt.Sprintf("unexpected operand type (%s) of operand: expected one of type %s", op.Type, expected))
}
