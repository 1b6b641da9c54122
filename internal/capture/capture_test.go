package capture

import "testing"

func TestFourCCConstantsMatchExpectedASCII(t *testing.T) {
	cases := []struct {
		name string
		code uint32
		want string
	}{
		{"MJPEG", FourCCMJPEG, "MJPG"},
		{"YUYV", FourCCYUYV, "YUYV"},
		{"NV12", FourCCNV12, "NV12"},
		{"RGB24", FourCCRGB24, "RGB3"},
	}
	for _, tc := range cases {
		got := string([]byte{
			byte(tc.code),
			byte(tc.code >> 8),
			byte(tc.code >> 16),
			byte(tc.code >> 24),
		})
		if got != tc.want {
			t.Errorf("%s: got fourcc string %q, want %q", tc.name, got, tc.want)
		}
	}
}
