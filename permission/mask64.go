package permission

const maskBits = 64

// Mask64 is a capability bitmask. Bit positions come from a [Registry].
type Mask64 uint64

func (m Mask64) Has(bit int) bool {
	if bit < 0 || bit >= maskBits {
		return false
	}
	return (m & (1 << bit)) != 0
}

func (m *Mask64) Set(bit int) {
	if bit < 0 || bit >= maskBits {
		return
	}
	*m |= (1 << bit)
}

func (m *Mask64) Clear(bit int) {
	if bit < 0 || bit >= maskBits {
		return
	}
	*m &^= (1 << bit)
}

func (m Mask64) Raw() uint64 {
	return uint64(m)
}
