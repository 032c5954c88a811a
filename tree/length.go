package tree

// Length is a (chars, bytes) pair, used both as a size and as an absolute
// position measured from the start of the input.
type Length struct {
	Chars int
	Bytes int
}

// Add returns the sum of two lengths.
func (l Length) Add(other Length) Length {
	return Length{
		Chars: l.Chars + other.Chars,
		Bytes: l.Bytes + other.Bytes,
	}
}

// Sub returns l minus other. Callers must ensure other <= l component-wise;
// this is never used to represent a negative position.
func (l Length) Sub(other Length) Length {
	return Length{
		Chars: l.Chars - other.Chars,
		Bytes: l.Bytes - other.Bytes,
	}
}

// Less reports whether l is strictly smaller than other in chars. Bytes are
// not compared; char count is the canonical position axis used by the
// cursor and driver.
func (l Length) Less(other Length) bool {
	return l.Chars < other.Chars
}

// Equal reports whether l and other denote the same position/size.
func (l Length) Equal(other Length) bool {
	return l.Chars == other.Chars && l.Bytes == other.Bytes
}

// Zero is the zero-valued Length, used as the identity for Add.
var Zero = Length{}
