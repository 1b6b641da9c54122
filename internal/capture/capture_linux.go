//go:build linux

package capture

import (
	"fmt"
	"log"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

var captureLog = log.New(os.Stdout, "[railalign/capture] ", log.LstdFlags|log.Lmicroseconds)

const (
	v4l2BufTypeVideoCapture = 1
	v4l2FieldAny            = 0
	v4l2MemoryMMap          = 1

	v4l2CapVideoCapture = 0x00000001
	v4l2CapStreaming    = 0x04000000
	v4l2CapDeviceCaps   = 0x80000000

	requestedWidth  = 640
	requestedHeight = 480
)

// v4l2PixFormat mirrors linux/videodev2.h's struct v4l2_pix_format.
type v4l2PixFormat struct {
	Width        uint32
	Height       uint32
	Pixelformat  uint32
	Field        uint32
	Bytesperline uint32
	Sizeimage    uint32
	Colorspace   uint32
	Priv         uint32
	Flags        uint32
	YcbcrEnc     uint32
	Quantization uint32
	XferFunc     uint32
}

type v4l2Format struct {
	Type uint32
	_    [4]byte
	fmt  [200]byte
}

type v4l2Capability struct {
	Driver       [16]byte
	Card         [32]byte
	BusInfo      [32]byte
	Version      uint32
	Capabilities uint32
	DeviceCaps   uint32
	Reserved     [3]uint32
}

type v4l2RequestBuffers struct {
	Count    uint32
	Type     uint32
	Memory   uint32
	Reserved [2]uint32
}

type v4l2Timecode struct {
	Type     uint32
	Flags    uint32
	Frames   uint8
	Seconds  uint8
	Minutes  uint8
	Hours    uint8
	Userbits [4]uint8
}

type v4l2Buffer struct {
	Index     uint32
	Type      uint32
	Bytesused uint32
	Flags     uint32
	Field     uint32
	Timestamp unix.Timeval
	Timecode  v4l2Timecode
	Sequence  uint32
	Memory    uint32
	Offset    uint32
	_         uint32
	Length    uint32
	Reserved2 uint32
	Reserved  uint32
}

const (
	iocNRBits, iocTypeBits, iocSizeBits, iocDirBits = 8, 8, 14, 2
	iocNRShift                                      = 0
	iocTypeShift                                     = iocNRShift + iocNRBits
	iocSizeShift                                     = iocTypeShift + iocTypeBits
	iocDirShift                                      = iocSizeShift + iocSizeBits
	iocNone, iocWrite, iocRead                       = 0, 1, 2
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return (dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift)
}

func ior(typ, nr, size uintptr) uintptr  { return ioc(iocRead, typ, nr, size) }
func iow(typ, nr, size uintptr) uintptr  { return ioc(iocWrite, typ, nr, size) }
func iowr(typ, nr, size uintptr) uintptr { return ioc(iocRead|iocWrite, typ, nr, size) }

var (
	vidiocQuerycap  = ior(uintptr('V'), 0, unsafe.Sizeof(v4l2Capability{}))
	vidiocSFmt      = iowr(uintptr('V'), 5, unsafe.Sizeof(v4l2Format{}))
	vidiocReqbufs   = iowr(uintptr('V'), 8, unsafe.Sizeof(v4l2RequestBuffers{}))
	vidiocQuerybuf  = iowr(uintptr('V'), 9, unsafe.Sizeof(v4l2Buffer{}))
	vidiocQBuf      = iowr(uintptr('V'), 15, unsafe.Sizeof(v4l2Buffer{}))
	vidiocDQBuf     = iowr(uintptr('V'), 17, unsafe.Sizeof(v4l2Buffer{}))
	vidiocStreamOn  = iow(uintptr('V'), 18, unsafe.Sizeof(uint32(0)))
	vidiocStreamOff = iow(uintptr('V'), 19, unsafe.Sizeof(uint32(0)))
)

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

type mappedBuffer struct {
	data   []byte
	length uint32
}

// v4l2Source opens a single V4L2 device (the path given to Open), negotiates a capture
// format, and streams through one memory-mapped buffer.
type v4l2Source struct {
	fd             int
	buffers        []mappedBuffer
	format         Format
	pendingRequeue bool
	pendingIndex   uint32
}

// Open opens devicePath (conventionally /dev/video0), requests 640x480
// MJPG (falling back through YUYV/NV12/RGB24 if the driver refuses,
// matching the device's actual negotiation tolerance), and starts
// streaming with a single mmap buffer.
func Open(devicePath string) (Source, error) {
	fd, err := unix.Open(devicePath, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", devicePath, err)
	}

	src := &v4l2Source{fd: fd}
	if err := src.negotiate(); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := src.startStreaming(); err != nil {
		src.cleanup()
		return nil, err
	}
	return src, nil
}

func (s *v4l2Source) negotiate() error {
	var caps v4l2Capability
	if err := ioctl(s.fd, vidiocQuerycap, unsafe.Pointer(&caps)); err != nil {
		return fmt.Errorf("capture: VIDIOC_QUERYCAP: %w", err)
	}
	capsToCheck := caps.Capabilities
	if capsToCheck&v4l2CapDeviceCaps != 0 {
		capsToCheck = caps.DeviceCaps
	}
	if capsToCheck&v4l2CapVideoCapture == 0 {
		return fmt.Errorf("capture: device does not support video capture")
	}
	if capsToCheck&v4l2CapStreaming == 0 {
		return fmt.Errorf("capture: device does not support streaming I/O")
	}

	candidates := []uint32{FourCCMJPEG, FourCCYUYV, FourCCNV12, FourCCRGB24}
	var lastErr error
	for _, fourcc := range candidates {
		pix, err := s.setFormat(fourcc)
		if err != nil {
			lastErr = err
			continue
		}
		s.format = Format{
			Width:        int(pix.Width),
			Height:       int(pix.Height),
			FourCC:       pix.Pixelformat,
			BytesPerLine: int(pix.Bytesperline),
			FrameSize:    int(pix.Sizeimage),
		}
		if s.format.FourCC != fourcc {
			captureLog.Printf("requested fourcc 0x%x, driver negotiated 0x%x", fourcc, s.format.FourCC)
		}
		return nil
	}
	return fmt.Errorf("capture: VIDIOC_S_FMT: no candidate format accepted: %w", lastErr)
}

func (s *v4l2Source) setFormat(fourcc uint32) (v4l2PixFormat, error) {
	format := v4l2Format{Type: v4l2BufTypeVideoCapture}
	pix := (*v4l2PixFormat)(unsafe.Pointer(&format.fmt[0]))
	pix.Width = requestedWidth
	pix.Height = requestedHeight
	pix.Pixelformat = fourcc
	pix.Field = v4l2FieldAny

	if err := ioctl(s.fd, vidiocSFmt, unsafe.Pointer(&format)); err != nil {
		return v4l2PixFormat{}, err
	}
	if pix.Pixelformat != fourcc {
		return *pix, fmt.Errorf("driver rejected fourcc 0x%x", fourcc)
	}
	return *pix, nil
}

func (s *v4l2Source) startStreaming() error {
	req := v4l2RequestBuffers{Count: 1, Type: v4l2BufTypeVideoCapture, Memory: v4l2MemoryMMap}
	if err := ioctl(s.fd, vidiocReqbufs, unsafe.Pointer(&req)); err != nil {
		return fmt.Errorf("capture: VIDIOC_REQBUFS: %w", err)
	}
	if req.Count < 1 {
		return fmt.Errorf("capture: driver allocated no buffers")
	}

	s.buffers = make([]mappedBuffer, req.Count)
	for i := uint32(0); i < req.Count; i++ {
		buf := v4l2Buffer{Type: v4l2BufTypeVideoCapture, Memory: v4l2MemoryMMap, Index: i}
		if err := ioctl(s.fd, vidiocQuerybuf, unsafe.Pointer(&buf)); err != nil {
			return fmt.Errorf("capture: VIDIOC_QUERYBUF %d: %w", i, err)
		}
		data, err := unix.Mmap(s.fd, int64(buf.Offset), int(buf.Length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			return fmt.Errorf("capture: mmap buffer %d: %w", i, err)
		}
		s.buffers[i] = mappedBuffer{data: data, length: buf.Length}
		if err := ioctl(s.fd, vidiocQBuf, unsafe.Pointer(&buf)); err != nil {
			return fmt.Errorf("capture: VIDIOC_QBUF %d: %w", i, err)
		}
	}

	bufType := uint32(v4l2BufTypeVideoCapture)
	if err := ioctl(s.fd, vidiocStreamOn, unsafe.Pointer(&bufType)); err != nil {
		return fmt.Errorf("capture: VIDIOC_STREAMON: %w", err)
	}

	captureLog.Printf("streaming %dx%d fourcc=0x%x", s.format.Width, s.format.Height, s.format.FourCC)
	return nil
}

func (s *v4l2Source) Format() Format { return s.format }

// Next blocks until a frame is available. The returned RawFrame aliases the
// mapped buffer and is valid only until the next call to Next: with a ring
// of one buffer, the previously returned buffer is handed back to the
// kernel right before this call blocks for the next frame, never while the
// caller might still be reading it.
func (s *v4l2Source) Next() (RawFrame, Metadata, error) {
	if s.pendingRequeue {
		buf := v4l2Buffer{Type: v4l2BufTypeVideoCapture, Memory: v4l2MemoryMMap, Index: s.pendingIndex}
		if err := ioctl(s.fd, vidiocQBuf, unsafe.Pointer(&buf)); err != nil {
			return RawFrame{}, Metadata{}, fmt.Errorf("capture: VIDIOC_QBUF: %w", err)
		}
		s.pendingRequeue = false
	}

	for {
		buf := v4l2Buffer{Type: v4l2BufTypeVideoCapture, Memory: v4l2MemoryMMap}
		if err := ioctl(s.fd, vidiocDQBuf, unsafe.Pointer(&buf)); err != nil {
			if errno, ok := err.(unix.Errno); ok && (errno == unix.EAGAIN || errno == unix.EINTR) {
				time.Sleep(2 * time.Millisecond)
				continue
			}
			return RawFrame{}, Metadata{}, fmt.Errorf("capture: VIDIOC_DQBUF: %w", err)
		}

		index := buf.Index
		if int(index) >= len(s.buffers) {
			_ = ioctl(s.fd, vidiocQBuf, unsafe.Pointer(&buf))
			continue
		}

		data := s.buffers[index].data
		sz := int(buf.Bytesused)
		if sz <= 0 || sz > len(data) {
			sz = len(data)
		}

		meta := Metadata{
			Sequence:  buf.Sequence,
			Timestamp: time.Unix(int64(buf.Timestamp.Sec), int64(buf.Timestamp.Usec)*1000),
		}

		s.pendingIndex = index
		s.pendingRequeue = true

		return RawFrame{Bytes: data[:sz]}, meta, nil
	}
}

func (s *v4l2Source) cleanup() {
	bufType := uint32(v4l2BufTypeVideoCapture)
	_ = ioctl(s.fd, vidiocStreamOff, unsafe.Pointer(&bufType))
	for _, mb := range s.buffers {
		if mb.data != nil {
			_ = unix.Munmap(mb.data)
		}
	}
	_ = unix.Close(s.fd)
}

func (s *v4l2Source) Close() error {
	s.cleanup()
	return nil
}
