package emulator

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAddressOutOfRange is returned (wrapped) whenever an access falls
	// outside of the configured memory. It is fatal to the current run.
	ErrAddressOutOfRange = errors.New("address out of range")

	// ErrHalted is returned by Step once the CPU executed HALT.
	ErrHalted = errors.New("cpu halted")

	// ErrInvalidMemorySize is returned by New when the memory size is not
	// within 1 byte and 64kb.
	ErrInvalidMemorySize = errors.New("invalid memory size")

	// ErrROMTooLarge is returned when a ROM image exceeds the 64kb address space
	ErrROMTooLarge = errors.New("ROM larger than 64kb")
)

// AddressOutOfRangeError describes the offending access
type AddressOutOfRangeError struct {
	Address  uint16
	Width    int
	Capacity int
}

func (e *AddressOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %d byte access at %#06x exceeds memory of %d bytes", ErrAddressOutOfRange, e.Width, e.Address, e.Capacity)
}

// Is allows errors.Is(err, ErrAddressOutOfRange)
func (e *AddressOutOfRangeError) Is(target error) bool {
	return target == ErrAddressOutOfRange
}

// ROMLoadError is returned when a ROM image could not be read from disk
type ROMLoadError struct {
	Path string
	Err  error
}

func (e *ROMLoadError) Error() string {
	return fmt.Sprintf("unable to load ROM %s: %s", e.Path, e.Err)
}

func (e *ROMLoadError) Unwrap() error {
	return e.Err
}
