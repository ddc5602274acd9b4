package emulator

import (
	"fmt"
	"strings"
)

type mnemonic int

const (
	// mnemonicUnimplemented is any opcode the CPU does not support yet. It is
	// logged and otherwise skipped.
	mnemonicUnimplemented mnemonic = iota
	mnemonicNOP
	mnemonicHALT
	mnemonicLD8
	mnemonicLD16
	mnemonicXOR
	mnemonicBIT
	// mnemonicPrefixCB selects the instruction from the 2nd opcode byte (see cbInstructions)
	mnemonicPrefixCB
)

var mnemonicNames = map[mnemonic]string{
	mnemonicUnimplemented: "UNIMPL",
	mnemonicNOP:           "NOP",
	mnemonicHALT:          "HALT",
	mnemonicLD8:           "LD8",
	mnemonicLD16:          "LD16",
	mnemonicXOR:           "XOR",
	mnemonicBIT:           "BIT",
	mnemonicPrefixCB:      "PREFIX",
}

func (m mnemonic) String() string {
	name, ok := mnemonicNames[m]
	if !ok {
		panic(fmt.Sprintf("unable to determine name of mnemonic (%d)", m))
	}

	return name
}

// instruction is a decoded opcode
type instruction struct {
	// Opcode is 0x00-0xFF, or 0xCB00-0xCBFF for prefixed instructions
	Opcode   uint16
	Mnemonic mnemonic
	// Size of instruction in bytes (opcode(s) + operands)
	Size     uint16
	Operands []operand
}

type operand struct {
	Name string
	Type operandType

	RefRegister8  Register8
	RefRegister16 Register16
	RefConst8     uint8

	// IncrementReg16 and DecrementReg16 adjust RefRegister16 after the
	// instruction completed (HL+ and HL-)
	IncrementReg16 bool
	DecrementReg16 bool
}

type operandType int

// Operands for instructions
//
// The FooPtr variants of the operands are similar to their Foo counterpart,
// with the value of Foo interpreted as a pointer into the memory space. Any
// reads/writes to this operand are done on the dereferenced pointer.
const (
	// operandD8 is a 8bit value immediately following the opcode (i.e. PC+1)
	operandD8 operandType = iota

	// operandD16 is a 16bit value immediately following the opcode (i.e. PC+1 and PC+2)
	operandD16

	// operandA16Ptr is a 16bit address immediately following the opcode
	operandA16Ptr

	// operandReg8 is a 8bit register.
	// The exact register for an operand of this type is stored in RefRegister8.
	operandReg8

	// operandReg16 is a 16bit register.
	// The exact register for an operand of this type is stored in RefRegister16.
	operandReg16

	// operandReg16Ptr is the pointer variant of operandReg16
	operandReg16Ptr

	// operandConst8 is a static 8bit value encoded in the opcode, e.g. the bit index of BIT.
	operandConst8
)

var operandTypeNames = map[operandType]string{
	operandD8:       "d8",
	operandD16:      "d16",
	operandA16Ptr:   "a16ptr",
	operandReg8:     "reg8",
	operandReg16:    "reg16",
	operandReg16Ptr: "reg16ptr",
	operandConst8:   "const8",
}

func (o operandType) String() string {
	name, ok := operandTypeNames[o]
	if !ok {
		panic(fmt.Sprintf("unable to determine name of operand (%d)", o))
	}

	return name
}

func (inst instruction) String() string {
	var operandStrs []string
	for _, op := range inst.Operands {
		operandStrs = append(operandStrs, fmt.Sprintf("%-5s", op.Name))
	}

	return fmt.Sprintf("[%6s] %-6s %s", inst.opcodeName(), inst.Mnemonic, strings.Join(operandStrs, " "))
}

func (inst instruction) opcodeName() string {
	if inst.Opcode > 0xFF {
		// prefixed opcodes are marked with * like in the opcode tables
		return fmt.Sprintf("*0x%02X", inst.Opcode&0xFF)
	}
	return fmt.Sprintf("0x%02X", inst.Opcode)
}
