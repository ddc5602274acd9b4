package emulator

import (
	"encoding/binary"
	"fmt"
)

// Register8 is the offset of an 8bit register in the register file
type Register8 uint

// Register16 is the offset of the low byte of a 16bit register in the register file
type Register16 uint

// Flag is the bit position of a flag in the F register
type Flag uint

const (
	RegisterF Register8 = 0
	RegisterA Register8 = 1
	RegisterC Register8 = 2
	RegisterB Register8 = 3
	RegisterE Register8 = 4
	RegisterD Register8 = 5
	RegisterL Register8 = 6
	RegisterH Register8 = 7
)

const (
	RegisterAF Register16 = 0
	RegisterBC Register16 = 2
	RegisterDE Register16 = 4
	RegisterHL Register16 = 6
	RegisterSP Register16 = 8
)

const (
	FlagZ Flag = 7 // Zero
	FlagN Flag = 6 // Subtract
	FlagH Flag = 5 // HalfCarry
	FlagC Flag = 4 // Carry
)

var register8Names = map[Register8]string{
	RegisterA: "A",
	RegisterF: "F",
	RegisterB: "B",
	RegisterC: "C",
	RegisterD: "D",
	RegisterE: "E",
	RegisterH: "H",
	RegisterL: "L",
}

var register16Names = map[Register16]string{
	RegisterAF: "AF",
	RegisterBC: "BC",
	RegisterDE: "DE",
	RegisterHL: "HL",
	RegisterSP: "SP",
}

var flagNames = map[Flag]string{
	FlagZ: "Z",
	FlagN: "N",
	FlagH: "H",
	FlagC: "C",
}

func (r Register8) String() string {
	name, ok := register8Names[r]
	if !ok {
		panic(fmt.Sprintf("unable to determine name of register (%d)", r))
	}

	return name
}

func (r Register16) String() string {
	name, ok := register16Names[r]
	if !ok {
		panic(fmt.Sprintf("unable to determine name of register (%d)", r))
	}

	return name
}

func (f Flag) String() string {
	name, ok := flagNames[f]
	if !ok {
		panic(fmt.Sprintf("unable to determine name of flag (%d)", f))
	}

	return name
}

// Registers is the register file of the CPU
type Registers struct {
	// data contains the registers A-F, H, L at predefined offsets (see RegisterX constants)
	//
	// The 8 bit registers may also be referenced in pairs as the 16 bit registers AF, BC, DE, and HL
	// (see RegisterXY constants). In this mode, the 8 bit registers are ordered using little-endian
	// (lowest order byte first), so a pair is never stored separately from its halves.
	//
	// Structure:
	// 16bit Hi   Lo   Comment
	// AF    A    F    Bit 7-4 of F are the Z, N, H, C flags
	// BC    B    C
	// DE    D    E
	// HL    H    L
	// SP    -    -    Stack pointer. Can't be addressed in 8bit
	data []byte
}

// NewRegisters returns a zeroed register file
func NewRegisters() *Registers {
	return &Registers{
		data: make([]byte, 10),
	}
}

// Read8 returns the value of an 8 bit register
func (r *Registers) Read8(register Register8) byte {
	return r.data[register]
}

// Write8 stores v in an 8 bit register
func (r *Registers) Write8(register Register8, v byte) {
	r.data[register] = v
}

// Read16 returns the value of a register pair
func (r *Registers) Read16(register Register16) uint16 {
	return binary.LittleEndian.Uint16(r.data[register : register+2])
}

// Write16 stores v in a register pair
func (r *Registers) Write16(register Register16, v uint16) {
	binary.LittleEndian.PutUint16(r.data[register:register+2], v)
}

// Read1 reports whether a flag is set
func (r *Registers) Read1(flag Flag) bool {
	return readBitN(r.data[RegisterF], uint8(flag))
}

// Write1 sets a single flag. It is the only way to change the carry flag.
func (r *Registers) Write1(flag Flag, v bool) {
	r.data[RegisterF] = writeBitN(r.data[RegisterF], uint8(flag), v)
}

// SetFlags sets Z, N and H, leaving C and the lower nibble of F untouched
func (r *Registers) SetFlags(zero, subtract, halfCarry bool) {
	r.Write1(FlagZ, zero)
	r.Write1(FlagN, subtract)
	r.Write1(FlagH, halfCarry)
}

func (r *Registers) String() string {
	return fmt.Sprintf("AF=%04x BC=%04x DE=%04x HL=%04x SP=%04x",
		r.Read16(RegisterAF), r.Read16(RegisterBC), r.Read16(RegisterDE), r.Read16(RegisterHL), r.Read16(RegisterSP))
}
