// Package pixfmt packs sRGB888 pixels into a framebuffer's native word
// layout. It is a pure function library with no device access; Pack returns
// a newly allocated slice on each call.
package pixfmt

import "fmt"

// Channel describes one color channel's position within a framebuffer word.
type Channel struct {
	Offset uint // bit offset of the channel's low bit within the word
	Length uint // bit width of the channel
}

// Layout describes a framebuffer's per-channel bit layout, as reported by
// FBIOGET_VSCREENINFO (or an equivalent driver query).
type Layout struct {
	Red, Green, Blue, Alpha Channel
}

// ErrUnsupportedFormat is returned when BytesPerPixel is not one of 2, 3, 4.
type ErrUnsupportedFormat struct {
	BytesPerPixel int
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("pixfmt: unsupported framebuffer bytes-per-pixel %d", e.BytesPerPixel)
}

// reduce5 and reduce6 map an 8-bit channel value down to 5 or 6 bits,
// precomputed to avoid a division per pixel on the hot path.
var reduce5 [256]byte
var reduce6 [256]byte

func init() {
	for v := 0; v < 256; v++ {
		reduce5[v] = byte((v*31 + 127) / 255)
		reduce6[v] = byte((v*63 + 127) / 255)
	}
}

// expand5 and expand6 are the inverses of reduce5/reduce6, used only by
// Unpack (test-only round-trip verification, not the runtime hot path).
func expand5(v byte) byte { return byte(int(v) * 255 / 31) }
func expand6(v byte) byte { return byte(int(v) * 255 / 63) }

// Pack maps an sRGB888 pixel to bytesPerPixel bytes in the framebuffer's
// native little-endian word order, per layout.
//
// bytesPerPixel ∈ {3,4} are packed as a 32-bit word and emitted in fixed
// [blue, green, red, alpha] byte order — the BGR(A) sequence observed on
// target hardware (blue.offset=0, green.offset=8, red.offset=16).
// bytesPerPixel == 2 reduces each channel to its target bit width via the
// precomputed 5-/6-bit tables and shift-ORs into a 16-bit little-endian word.
func Pack(layout Layout, bytesPerPixel int, r, g, b byte) ([]byte, error) {
	switch bytesPerPixel {
	case 3, 4:
		word := uint32(r)<<layout.Red.Offset | uint32(g)<<layout.Green.Offset | uint32(b)<<layout.Blue.Offset
		out := make([]byte, bytesPerPixel)
		out[0] = byte(word >> layout.Blue.Offset)
		out[1] = byte(word >> layout.Green.Offset)
		out[2] = byte(word >> layout.Red.Offset)
		if bytesPerPixel == 4 {
			out[3] = 0
		}
		return out, nil
	case 2:
		rv := reduceChannel(r, layout.Red.Length)
		gv := reduceChannel(g, layout.Green.Length)
		bv := reduceChannel(b, layout.Blue.Length)
		word := uint16(rv)<<layout.Red.Offset | uint16(gv)<<layout.Green.Offset | uint16(bv)<<layout.Blue.Offset
		return []byte{byte(word), byte(word >> 8)}, nil
	default:
		return nil, &ErrUnsupportedFormat{BytesPerPixel: bytesPerPixel}
	}
}

func reduceChannel(v byte, length uint) byte {
	switch length {
	case 6:
		return reduce6[v]
	default:
		return reduce5[v]
	}
}

// Unpack is the inverse of Pack, used by property tests to verify that
// quantized channels round-trip. It is not part of the runtime pipeline.
func Unpack(layout Layout, bytesPerPixel int, data []byte) (r, g, b byte, err error) {
	switch bytesPerPixel {
	case 3, 4:
		if len(data) < bytesPerPixel {
			return 0, 0, 0, fmt.Errorf("pixfmt: short buffer for unpack")
		}
		var word uint32
		word |= uint32(data[0]) << layout.Blue.Offset
		word |= uint32(data[1]) << layout.Green.Offset
		word |= uint32(data[2]) << layout.Red.Offset
		r = byte(word >> layout.Red.Offset)
		g = byte(word >> layout.Green.Offset)
		b = byte(word >> layout.Blue.Offset)
		return r, g, b, nil
	case 2:
		if len(data) < 2 {
			return 0, 0, 0, fmt.Errorf("pixfmt: short buffer for unpack")
		}
		word := uint16(data[0]) | uint16(data[1])<<8
		rv := byte(word>>layout.Red.Offset) & mask(layout.Red.Length)
		gv := byte(word>>layout.Green.Offset) & mask(layout.Green.Length)
		bv := byte(word>>layout.Blue.Offset) & mask(layout.Blue.Length)
		r = expandChannel(rv, layout.Red.Length)
		g = expandChannel(gv, layout.Green.Length)
		b = expandChannel(bv, layout.Blue.Length)
		return r, g, b, nil
	default:
		return 0, 0, 0, &ErrUnsupportedFormat{BytesPerPixel: bytesPerPixel}
	}
}

func expandChannel(v byte, length uint) byte {
	switch length {
	case 6:
		return expand6(v)
	default:
		return expand5(v)
	}
}

func mask(length uint) byte {
	return byte(1<<length - 1)
}

// RGB565 is the layout observed on most panels exposed as 16bpp framebuffers.
var RGB565 = Layout{
	Red:   Channel{Offset: 11, Length: 5},
	Green: Channel{Offset: 5, Length: 6},
	Blue:  Channel{Offset: 0, Length: 5},
}

// BGR32 is the layout observed on target hardware's 32-bit framebuffer.
var BGR32 = Layout{
	Blue:  Channel{Offset: 0, Length: 8},
	Green: Channel{Offset: 8, Length: 8},
	Red:   Channel{Offset: 16, Length: 8},
	Alpha: Channel{Offset: 24, Length: 8},
}
