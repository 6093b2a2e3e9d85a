package display

import (
	"fmt"
	"image/color"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	fbiogetVScreenInfo = 0x4600
	fbiogetFScreenInfo = 0x4602
)

type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// fb_var_screeninfo from linux/fb.h
type fbVarScreenInfo struct {
	Xres, Yres               uint32
	XresVirtual, YresVirtual uint32
	Xoffset, Yoffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp fbBitfield
	Nonstd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	Pixclock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HsyncLen, VsyncLen       uint32
	Sync, Vmode, Rotate      uint32
	Colorspace               uint32
	Reserved                 [4]uint32
}

// fb_fix_screeninfo from linux/fb.h
type fbFixScreenInfo struct {
	ID                 [16]byte
	SmemStart          uintptr
	SmemLen            uint32
	Type, TypeAux      uint32
	Visual             uint32
	Xpanstep, Ypanstep uint16
	Ywrapstep          uint16
	LineLength         uint32
	MmioStart          uintptr
	MmioLen            uint32
	Accel              uint32
	Capabilities       uint16
	Reserved           [2]uint16
}

// FBDev is a Linux framebuffer device mapped into memory.
type FBDev struct {
	f    *os.File
	mem  []byte
	fb   []byte
	mode Mode
	id   string
}

func ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// OpenFBDev opens and maps the framebuffer device at path, usually
// /dev/fb0.  The device must be in a 32 bit mode with blue in the lowest
// byte.
func OpenFBDev(path string) (*FBDev, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	d, err := openFBDev(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func openFBDev(f *os.File) (*FBDev, error) {
	var vinfo fbVarScreenInfo
	var finfo fbFixScreenInfo
	if err := ioctl(f.Fd(), fbiogetVScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
		return nil, fmt.Errorf("FBIOGET_VSCREENINFO: %w", err)
	}
	if err := ioctl(f.Fd(), fbiogetFScreenInfo, unsafe.Pointer(&finfo)); err != nil {
		return nil, fmt.Errorf("FBIOGET_FSCREENINFO: %w", err)
	}

	if vinfo.BitsPerPixel != 32 || vinfo.Red.Offset != 16 || vinfo.Green.Offset != 8 || vinfo.Blue.Offset != 0 {
		return nil, fmt.Errorf("%w: %d bpp, red at %d, green at %d, blue at %d", ErrUnsupportedFormat,
			vinfo.BitsPerPixel, vinfo.Red.Offset, vinfo.Green.Offset, vinfo.Blue.Offset)
	}
	if finfo.LineLength%BytesPerPixel != 0 {
		return nil, fmt.Errorf("%w: line length %d", ErrUnsupportedFormat, finfo.LineLength)
	}
	mode := Mode{
		Width:  int(vinfo.Xres),
		Height: int(vinfo.Yres),
		Stride: int(finfo.LineLength / BytesPerPixel),
	}
	if err := mode.validate(); err != nil {
		return nil, err
	}

	size := int(finfo.SmemLen)
	if size == 0 {
		size = int(finfo.LineLength * vinfo.YresVirtual)
	}
	off := int(vinfo.Yoffset)*mode.StrideBytes() + int(vinfo.Xoffset)*BytesPerPixel
	if off+mode.Size() > size {
		return nil, fmt.Errorf("%w: %v at offset %d exceeds %d bytes of video memory", ErrInvalidMode, mode, off, size)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	id := string(finfo.ID[:])
	for i, c := range finfo.ID {
		if c == 0 {
			id = string(finfo.ID[:i])
			break
		}
	}
	return &FBDev{
		f:    f,
		mem:  mem,
		fb:   mem[off : off+mode.Size() : off+mode.Size()],
		mode: mode,
		id:   id,
	}, nil
}

func (d *FBDev) Mode() Mode          { return d.mode }
func (d *FBDev) Framebuffer() []byte { return d.fb }
func (d *FBDev) Fill(c color.Color)  { fill(d.fb, d.mode, c) }

// ID returns the driver identification string.
func (d *FBDev) ID() string { return d.id }

func (d *FBDev) Close() error {
	err := unix.Munmap(d.mem)
	if cerr := d.f.Close(); err == nil {
		err = cerr
	}
	d.mem, d.fb = nil, nil
	return err
}
