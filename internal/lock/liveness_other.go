//go:build !unix

package lock

// Alive reports whether the holder process still exists. Not supported on
// this platform; always unknown.
func (h *Holder) Alive() (alive, known bool) {
	return false, false
}
