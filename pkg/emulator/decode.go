package emulator

// instructions and cbInstructions map every opcode to its decoded instruction.
// They are built once and never modified.
var (
	instructions   = buildTable(decode)
	cbInstructions = buildTable(decodeCB)
)

// registerCodes maps the 3bit register code used in opcodes to a register.
// Code 6 is (HL) and is never looked up here, see registerOperand.
var registerCodes = [8]Register8{
	RegisterB,
	RegisterC,
	RegisterD,
	RegisterE,
	RegisterH,
	RegisterL,
	RegisterF,
	RegisterA,
}

const registerCodeHL = 6

func buildTable(decoder func(opcode byte) instruction) [256]instruction {
	var table [256]instruction
	for i := range table {
		table[i] = decoder(byte(i))
	}
	return table
}

// decode maps an unprefixed opcode to an instruction, following the bit-field
// layout of the opcode tables (https://gbdev.io/gb-opcodes/optables/).
func decode(opcode byte) instruction {
	dest := (opcode >> 3) & 0x07
	src := opcode & 0x07

	switch {
	case opcode == 0x00:
		return newInstruction(opcode, mnemonicNOP)
	case opcode == 0x76:
		// Would be LD (HL),(HL) but is reserved for HALT
		return newInstruction(opcode, mnemonicHALT)
	case opcode == 0xCB:
		return newInstruction(opcode, mnemonicPrefixCB)
	case 0x40 <= opcode && opcode <= 0x7F:
		// LD r,r'
		return newInstruction(opcode, mnemonicLD8, registerOperand(dest), registerOperand(src))
	case opcode <= 0x3F && src == 0x06:
		// LD r,d8
		return newInstruction(opcode, mnemonicLD8, registerOperand(dest), d8Operand())
	case opcode == 0x01, opcode == 0x11, opcode == 0x21, opcode == 0x31:
		// LD rr,d16
		rr := [4]Register16{RegisterBC, RegisterDE, RegisterHL, RegisterSP}[opcode>>4]
		return newInstruction(opcode, mnemonicLD16, reg16Operand(rr), d16Operand())
	case opcode == 0x0A:
		return newInstruction(opcode, mnemonicLD8, reg8Operand(RegisterA), reg16PtrOperand(RegisterBC))
	case opcode == 0x1A:
		return newInstruction(opcode, mnemonicLD8, reg8Operand(RegisterA), reg16PtrOperand(RegisterDE))
	case opcode == 0x02:
		return newInstruction(opcode, mnemonicLD8, reg16PtrOperand(RegisterBC), reg8Operand(RegisterA))
	case opcode == 0x12:
		return newInstruction(opcode, mnemonicLD8, reg16PtrOperand(RegisterDE), reg8Operand(RegisterA))
	case opcode == 0x2A:
		return newInstruction(opcode, mnemonicLD8, reg8Operand(RegisterA), hlIncrementOperand())
	case opcode == 0x3A:
		return newInstruction(opcode, mnemonicLD8, reg8Operand(RegisterA), hlDecrementOperand())
	case opcode == 0x22:
		return newInstruction(opcode, mnemonicLD8, hlIncrementOperand(), reg8Operand(RegisterA))
	case opcode == 0x32:
		return newInstruction(opcode, mnemonicLD8, hlDecrementOperand(), reg8Operand(RegisterA))
	case opcode == 0xFA:
		return newInstruction(opcode, mnemonicLD8, reg8Operand(RegisterA), a16PtrOperand())
	case opcode == 0xEA:
		return newInstruction(opcode, mnemonicLD8, a16PtrOperand(), reg8Operand(RegisterA))
	case 0xA8 <= opcode && opcode <= 0xAF:
		// XOR A,r
		return newInstruction(opcode, mnemonicXOR, reg8Operand(RegisterA), registerOperand(src))
	case opcode == 0xEE:
		return newInstruction(opcode, mnemonicXOR, reg8Operand(RegisterA), d8Operand())
	}

	return newInstruction(opcode, mnemonicUnimplemented)
}

// decodeCB maps the 2nd byte of a 0xCB prefixed opcode to an instruction
func decodeCB(opcode byte) instruction {
	var inst instruction

	switch {
	case 0x40 <= opcode && opcode <= 0x7F:
		// BIT n,r
		bit := (opcode >> 3) & 0x07
		inst = newInstruction(opcode, mnemonicBIT, const8Operand(bit), registerOperand(opcode&0x07))
	default:
		inst = newInstruction(opcode, mnemonicUnimplemented)
	}

	inst.Opcode |= 0xCB00
	inst.Size++
	return inst
}

func newInstruction(opcode byte, m mnemonic, operands ...operand) instruction {
	size := uint16(1)
	for _, op := range operands {
		switch op.Type {
		case operandD8:
			size++
		case operandD16, operandA16Ptr:
			size += 2
		}
	}

	return instruction{
		Opcode:   uint16(opcode),
		Mnemonic: m,
		Size:     size,
		Operands: operands,
	}
}

// registerOperand resolves a 3bit register code, where code 6 is memory at HL
func registerOperand(code byte) operand {
	if code == registerCodeHL {
		return reg16PtrOperand(RegisterHL)
	}
	return reg8Operand(registerCodes[code])
}

func reg8Operand(r Register8) operand {
	return operand{Name: r.String(), Type: operandReg8, RefRegister8: r}
}

func reg16Operand(r Register16) operand {
	return operand{Name: r.String(), Type: operandReg16, RefRegister16: r}
}

func reg16PtrOperand(r Register16) operand {
	return operand{Name: "(" + r.String() + ")", Type: operandReg16Ptr, RefRegister16: r}
}

func hlIncrementOperand() operand {
	return operand{Name: "(HL+)", Type: operandReg16Ptr, RefRegister16: RegisterHL, IncrementReg16: true}
}

func hlDecrementOperand() operand {
	return operand{Name: "(HL-)", Type: operandReg16Ptr, RefRegister16: RegisterHL, DecrementReg16: true}
}

func d8Operand() operand {
	return operand{Name: "d8", Type: operandD8}
}

func d16Operand() operand {
	return operand{Name: "d16", Type: operandD16}
}

func a16PtrOperand() operand {
	return operand{Name: "(a16)", Type: operandA16Ptr}
}

func const8Operand(v uint8) operand {
	return operand{Name: string(rune('0' + v)), Type: operandConst8, RefConst8: v}
}
