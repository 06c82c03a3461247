//go:build unix

package lock

import (
	"os"

	"golang.org/x/sys/unix"
)

// Alive reports whether the holder process still exists, using signal 0.
// Only meaningful when the holder ran on this host; cross-host holders
// always report unknown (false, false).
//
// This is a diagnostic for operators deciding whether a marker was
// abandoned. The lock itself never acts on it: a dead holder is reported,
// never reaped.
func (h *Holder) Alive() (alive, known bool) {
	hostname, err := os.Hostname()
	if err != nil || hostname != h.Hostname {
		return false, false
	}

	return unix.Kill(h.PID, 0) == nil, true
}
