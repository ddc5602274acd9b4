package emulator

func readBitN(v byte, offset uint8) bool {
	return v&(1<<offset) > 0
}

func writeBitN(v byte, offset uint8, set bool) byte {
	if set {
		// Example v ORed 00100000 -> sets 5th bit to 1
		return v | (1 << offset)
	}
	// Example v ANDed 11011111 (negated) -> forces 5th bit to 0
	return v &^ (1 << offset)
}
