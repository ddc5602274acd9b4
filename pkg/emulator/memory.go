package emulator

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	bytes08k = 0x2000
	bytes16k = bytes08k * 2
	bytes32k = bytes16k * 2
	bytes64k = bytes32k * 2
)

// Memory is the addressable memory of the CPU
//
// The address space is uniform, i.e. there are no memory-mapped registers.
// 16bit values are stored little-endian (lowest order byte first).
type Memory struct {
	data []byte
}

// NewMemory returns zeroed memory of the given size (1 byte to 64kb)
func NewMemory(size int) (*Memory, error) {
	if size <= 0 || size > bytes64k {
		return nil, errors.Wrapf(ErrInvalidMemorySize, "%d bytes", size)
	}

	return &Memory{
		data: make([]byte, size),
	}, nil
}

// Capacity is the number of addressable bytes
func (m *Memory) Capacity() int {
	return len(m.data)
}

// Read8 returns the byte at address
func (m *Memory) Read8(address uint16) (byte, error) {
	if err := m.checkRange(address, 1); err != nil {
		return 0, err
	}
	return m.data[address], nil
}

// Write8 stores v at address
func (m *Memory) Write8(address uint16, v byte) error {
	if err := m.checkRange(address, 1); err != nil {
		return err
	}
	m.data[address] = v
	return nil
}

// Read16 returns the little-endian word at address and address+1
func (m *Memory) Read16(address uint16) (uint16, error) {
	if err := m.checkRange(address, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[address : int(address)+2]), nil
}

// Write16 stores v little-endian at address and address+1
func (m *Memory) Write16(address uint16, v uint16) error {
	if err := m.checkRange(address, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[address:int(address)+2], v)
	return nil
}

// Load copies data into memory starting at base. Nothing is written unless
// all of data fits.
func (m *Memory) Load(base uint16, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := m.checkRange(base, len(data)); err != nil {
		return err
	}
	copy(m.data[base:], data)
	return nil
}

func (m *Memory) checkRange(address uint16, width int) error {
	if int(address)+width > len(m.data) {
		return &AddressOutOfRangeError{
			Address:  address,
			Width:    width,
			Capacity: len(m.data),
		}
	}
	return nil
}
