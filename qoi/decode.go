package qoi

// DecodeInto decodes data into dst with c channels per pixel and returns the
// image header.  If c is zero the channel count of the header is used.  RGB
// images decoded with four channels get an opaque alpha channel.
//
// If dst is shorter than Header.Size(c) a *BufferTooSmallError is returned and
// dst is left untouched.  Data too short to hold the pixels the header claims
// fails with ErrUnexpectedEOF before the buffer size is considered.
func DecodeInto(dst, data []byte, c Channels) (Header, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return h, err
	}
	if c == 0 {
		c = h.Channels
	} else if !c.valid() {
		return h, ErrInvalidChannels
	}
	if err := h.fits(len(data)); err != nil {
		return h, err
	}
	required := h.Size(c)
	if len(dst) < required {
		return h, &BufferTooSmallError{Size: len(dst), Required: required}
	}

	var index [64]pixel
	px := pixel{a: 255}
	out := dst[:required]
	step := int(c)
	p := HeaderSize
	run := 0

	for o := 0; o < len(out); o += step {
		if run > 0 {
			run--
		} else {
			if p >= len(data) {
				return h, ErrUnexpectedEOF
			}
			b1 := data[p]
			p++
			switch {
			case b1 == opRGB:
				if p+3 > len(data) {
					return h, ErrUnexpectedEOF
				}
				px.r, px.g, px.b = data[p], data[p+1], data[p+2]
				p += 3
			case b1 == opRGBA:
				if p+4 > len(data) {
					return h, ErrUnexpectedEOF
				}
				px = pixel{data[p], data[p+1], data[p+2], data[p+3]}
				p += 4
			case b1&opMask == opIndex:
				px = index[b1]
			case b1&opMask == opDiff:
				px.r += (b1>>4)&3 - 2
				px.g += (b1>>2)&3 - 2
				px.b += b1&3 - 2
			case b1&opMask == opLuma:
				if p >= len(data) {
					return h, ErrUnexpectedEOF
				}
				b2 := data[p]
				p++
				vg := b1&0x3f - 32
				px.r += vg - 8 + b2>>4
				px.g += vg
				px.b += vg - 8 + b2&0x0f
			default:
				run = int(b1 & 0x3f)
			}
			index[px.hash()] = px
		}

		out[o] = px.r
		out[o+1] = px.g
		out[o+2] = px.b
		if step == 4 {
			out[o+3] = px.a
		}
	}

	if len(data)-p < paddingSize || [paddingSize]byte(data[p:p+paddingSize]) != padding {
		return h, ErrInvalidPadding
	}
	return h, nil
}

// Decode decodes data into a newly allocated buffer.
func Decode(data []byte, c Channels) (Header, []byte, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return h, nil, err
	}
	if c == 0 {
		c = h.Channels
	}
	if err := h.fits(len(data)); err != nil {
		return h, nil, err
	}
	pix := make([]byte, h.Size(c))
	h, err = DecodeInto(pix, data, c)
	if err != nil {
		return h, nil, err
	}
	return h, pix, nil
}
