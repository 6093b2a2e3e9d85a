package container

// BytesPerPixel of a decoded frame.
const BytesPerPixel = 4

// Frame is a decoded image in display channel order B, G, R, A.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// RowBytes returns the length of one row of f in bytes.
func (f Frame) RowBytes() int { return f.Width * BytesPerPixel }

// Row returns row y of f.
func (f Frame) Row(y int) []byte {
	n := f.RowBytes()
	return f.Pix[y*n : (y+1)*n]
}

// Clone returns a copy of f that does not share pixel memory.
func (f Frame) Clone() Frame {
	f.Pix = append([]byte(nil), f.Pix...)
	return f
}

// SwapRB exchanges the first and third byte of every pixel, converting RGBA
// to BGRA and back.
func SwapRB(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
