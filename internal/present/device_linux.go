//go:build linux

package present

import (
	"fmt"
	"log"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/tablerail/railalign/internal/pixfmt"
)

var presentLog = log.New(os.Stdout, "[railalign/present] ", log.LstdFlags|log.Lmicroseconds)

// Linux framebuffer ioctl requests, from linux/fb.h.
const (
	fbioGetVScreenInfo = 0x4600
	fbioPutVScreenInfo = 0x4601
	fbioGetFScreenInfo = 0x4602
	fbioBlank          = 0x4611
)

const (
	blankUnblank = 0
)

type fbBitfield struct {
	Offset, Length, MSBRight uint32
}

// varScreenInfo mirrors linux/fb.h's struct fb_var_screeninfo, trimmed to
// the fields this package reads.
type varScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp fbBitfield
	_                        [128]byte // remaining fields this package doesn't use
}

// fixScreenInfo mirrors linux/fb.h's struct fb_fix_screeninfo, trimmed to
// the fields this package reads.
type fixScreenInfo struct {
	ID           [16]byte
	SMemStart    uintptr
	SMemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MMIOStart    uintptr
	MMIOLen      uint32
	Accel        uint32
	Capabilities uint16
	_            [2]byte
	_            [2]uint32
}

// Device wraps a memory-mapped /dev/fb* device.
type Device struct {
	fd   int
	mem  []byte
	info Info
}

// OpenDevice opens the framebuffer device at path (conventionally
// /dev/fb0), reads its geometry and channel layout, and maps its memory.
// A bytes-per-pixel other than 2, 3 or 4 fails with
// *pixfmt.ErrUnsupportedFormat; every other failure is a plain wrapped
// error, which the pipeline classifies as a framebuffer map failure.
func OpenDevice(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("present: open %s: %w", path, err)
	}

	var vinfo varScreenInfo
	if err := ioctl(fd, fbioGetVScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("present: FBIOGET_VSCREENINFO: %w", err)
	}

	var finfo fixScreenInfo
	if err := ioctl(fd, fbioGetFScreenInfo, unsafe.Pointer(&finfo)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("present: FBIOGET_FSCREENINFO: %w", err)
	}

	bpp := int(vinfo.BitsPerPixel) / 8
	if bpp != 2 && bpp != 3 && bpp != 4 {
		unix.Close(fd)
		return nil, &pixfmt.ErrUnsupportedFormat{BytesPerPixel: bpp}
	}

	size := int(finfo.SMemLen)
	if size <= 0 {
		size = int(vinfo.XRes) * int(vinfo.YRes) * bpp
	}
	mem, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("present: mmap: %w", err)
	}

	info := Info{
		Width:         int(vinfo.XRes),
		Height:        int(vinfo.YRes),
		BytesPerPixel: bpp,
		Layout: pixfmt.Layout{
			Red:   pixfmt.Channel{Offset: uint(vinfo.Red.Offset), Length: uint(vinfo.Red.Length)},
			Green: pixfmt.Channel{Offset: uint(vinfo.Green.Offset), Length: uint(vinfo.Green.Length)},
			Blue:  pixfmt.Channel{Offset: uint(vinfo.Blue.Offset), Length: uint(vinfo.Blue.Length)},
			Alpha: pixfmt.Channel{Offset: uint(vinfo.Transp.Offset), Length: uint(vinfo.Transp.Length)},
		},
	}

	presentLog.Printf("opened %s: %dx%d @ %dbpp", path, info.Width, info.Height, info.BytesPerPixel)

	return &Device{fd: fd, mem: mem, info: info}, nil
}

// Info returns the device's geometry and channel layout.
func (d *Device) Info() Info { return d.info }

// Mem returns the mapped framebuffer memory.
func (d *Device) Mem() []byte { return d.mem }

// Unblank re-issues the "unblank display" ioctl, used periodically by the
// pipeline driver to recover from a screen blanked by the console.
func (d *Device) Unblank() error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), fbioBlank, uintptr(blankUnblank))
	if errno != 0 {
		return fmt.Errorf("present: FBIOBLANK: %w", errno)
	}
	return nil
}

// Close unmaps and closes the device.
func (d *Device) Close() error {
	if err := unix.Munmap(d.mem); err != nil {
		unix.Close(d.fd)
		return err
	}
	return unix.Close(d.fd)
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
