//go:build arm64

package present

// sourceCoord implements the 180° rotation selected at compile time for
// arm64 targets (the on-device panel is mounted upside down relative to the
// camera). Changing this to a different rotation requires a new build tag
// and a configuration value, not a runtime switch — see design notes.
func sourceCoord(x, y, fbW, fbH int) (int, int) {
	return fbW - 1 - x, fbH - 1 - y
}
