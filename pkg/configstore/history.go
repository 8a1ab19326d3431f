package configstore

import "time"

// SavedConfig is a rendered configuration written by "write memory" or
// "copy running-config".
type SavedConfig struct {
	Config      string
	Destination string // "startup-config" or a file path
	Timestamp   time.Time
}

// ring keeps the last len(buf) saved configurations.
type ring struct {
	buf  []SavedConfig
	next int
	full bool
}

func newRing(n int) *ring {
	if n <= 0 {
		n = 1
	}
	return &ring{buf: make([]SavedConfig, n)}
}

func (r *ring) add(c SavedConfig) {
	r.buf[r.next] = c
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

// newest returns the saved configurations, most recent first.
func (r *ring) newest() []SavedConfig {
	n := r.next
	if r.full {
		n = len(r.buf)
	}
	out := make([]SavedConfig, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, r.buf[(r.next-i+len(r.buf))%len(r.buf)])
	}
	return out
}
