package emulator

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestMemoryWordsAreLittleEndian(t *testing.T) {
	memory, err := NewMemory(bytes08k)
	require.NoError(t, err)

	require.NoError(t, memory.Write16(0x0100, 0x1234))

	lo, err := memory.Read8(0x0100)
	require.NoError(t, err)
	hi, err := memory.Read8(0x0101)
	require.NoError(t, err)
	require.Equal(t, uint8(0x34), lo)
	require.Equal(t, uint8(0x12), hi)

	v, err := memory.Read16(0x0100)
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), v)
}

func TestMemoryAccessOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		access func(m *Memory) error
	}{
		{
			name: "read byte at capacity",
			access: func(m *Memory) error {
				_, err := m.Read8(bytes08k)
				return err
			},
		},
		{
			name: "write byte at capacity",
			access: func(m *Memory) error {
				return m.Write8(bytes08k, 0xFF)
			},
		},
		{
			name: "read word straddling the end",
			access: func(m *Memory) error {
				_, err := m.Read16(bytes08k - 1)
				return err
			},
		},
		{
			name: "write word straddling the end",
			access: func(m *Memory) error {
				return m.Write16(bytes08k-1, 0xFFFF)
			},
		},
		{
			name: "write word at highest address",
			access: func(m *Memory) error {
				return m.Write16(0xFFFF, 0xFFFF)
			},
		},
		{
			name: "load past the end",
			access: func(m *Memory) error {
				return m.Load(bytes08k-2, []byte{0xFF, 0xFF, 0xFF})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memory, err := NewMemory(bytes08k)
			require.NoError(t, err)

			err = tt.access(memory)
			require.True(t, errors.Is(err, ErrAddressOutOfRange), "expected out of range error, got %v", err)

			var rangeErr *AddressOutOfRangeError
			require.True(t, errors.As(err, &rangeErr))
			require.Equal(t, bytes08k, rangeErr.Capacity)

			// no partial writes
			require.Equal(t, make([]byte, bytes08k), memory.data)
		})
	}
}

func TestMemoryWordAtLastAddressOfFullAddressSpace(t *testing.T) {
	memory, err := NewMemory(bytes64k)
	require.NoError(t, err)

	require.NoError(t, memory.Write8(0xFFFF, 0x42))
	_, err = memory.Read16(0xFFFF)
	require.True(t, errors.Is(err, ErrAddressOutOfRange))
}

func TestMemoryLoadCopiesBytesFromBase(t *testing.T) {
	memory, err := NewMemory(bytes08k)
	require.NoError(t, err)

	require.NoError(t, memory.Load(0x0010, []byte{0x01, 0x02, 0x03}))
	require.Equal(t, []byte{0x00, 0x01, 0x02, 0x03, 0x00}, memory.data[0x000F:0x0014])

	// an image filling memory exactly fits
	require.NoError(t, memory.Load(0x0000, make([]byte, bytes08k)))
}

func TestNewMemoryRejectsInvalidSizes(t *testing.T) {
	for _, size := range []int{-1, 0, bytes64k + 1} {
		_, err := NewMemory(size)
		require.True(t, errors.Is(err, ErrInvalidMemorySize), "size %d", size)
	}
}
