package qoi

// Encode appends the encoding of pix, laid out as described by h, to dst and
// returns the extended buffer.
func Encode(dst, pix []byte, h Header) ([]byte, error) {
	if err := h.validate(); err != nil {
		return dst, err
	}
	step := int(h.Channels)
	if len(pix) != h.Size(0) {
		return dst, ErrPixelCount
	}

	dst = h.append(dst)

	var index [64]pixel
	prev := pixel{a: 255}
	px := prev
	run := 0
	last := len(pix) - step

	for o := 0; o < len(pix); o += step {
		px.r, px.g, px.b = pix[o], pix[o+1], pix[o+2]
		if step == 4 {
			px.a = pix[o+3]
		}

		if px == prev {
			run++
			if run == 62 || o == last {
				dst = append(dst, opRun|byte(run-1))
				run = 0
			}
			continue
		}

		if run > 0 {
			dst = append(dst, opRun|byte(run-1))
			run = 0
		}

		i := px.hash()
		switch {
		case index[i] == px:
			dst = append(dst, opIndex|i)
		case px.a != prev.a:
			index[i] = px
			dst = append(dst, opRGBA, px.r, px.g, px.b, px.a)
		default:
			index[i] = px
			vr := int8(px.r - prev.r)
			vg := int8(px.g - prev.g)
			vb := int8(px.b - prev.b)
			vgr := vr - vg
			vgb := vb - vg
			switch {
			case vr > -3 && vr < 2 && vg > -3 && vg < 2 && vb > -3 && vb < 2:
				dst = append(dst, opDiff|byte(vr+2)<<4|byte(vg+2)<<2|byte(vb+2))
			case vgr > -9 && vgr < 8 && vg > -33 && vg < 32 && vgb > -9 && vgb < 8:
				dst = append(dst, opLuma|byte(vg+32), byte(vgr+8)<<4|byte(vgb+8))
			default:
				dst = append(dst, opRGB, px.r, px.g, px.b)
			}
		}
		prev = px
	}

	return append(dst, padding[:]...), nil
}
