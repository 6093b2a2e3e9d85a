package display

import (
	"image/color"

	"github.com/fbplay/fbplay/cpu"
)

// Memory is a surface in ordinary memory.  It is used headless and in tests.
type Memory struct {
	mode Mode
	fb   []byte
}

// NewMemory allocates a cache line aligned surface of mode m.
func NewMemory(m Mode) (*Memory, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &Memory{mode: m, fb: cpu.MakeAligned(m.Size(), cpu.CacheLineSize)}, nil
}

func (m *Memory) Mode() Mode          { return m.mode }
func (m *Memory) Framebuffer() []byte { return m.fb }
func (m *Memory) Fill(c color.Color)  { fill(m.fb, m.mode, c) }
func (m *Memory) Close() error        { return nil }

// Row returns the visible pixels of row y.
func (m *Memory) Row(y int) []byte {
	off := y * m.mode.StrideBytes()
	return m.fb[off : off+m.mode.Width*BytesPerPixel]
}
