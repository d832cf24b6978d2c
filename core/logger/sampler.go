package logger

import (
	"strconv"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// defaultDebugEvery keeps one high-volume debug line out of this many.
const defaultDebugEvery = 50

// debugSampler lets the first event through, then one in every n.
// A nil gate lets every event through.
type debugSampler struct {
	mu   sync.Mutex
	gate *rate.Sometimes
}

func newDebugSampler(every int) *debugSampler {
	s := &debugSampler{}
	s.Set(every)
	return s
}

// Set replaces the sampling period; every <= 1 disables sampling.
func (s *debugSampler) Set(every int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if every <= 1 {
		s.gate = nil
		return
	}
	s.gate = &rate.Sometimes{First: 1, Every: every}
}

// Allow reports whether the current event should be logged.
func (s *debugSampler) Allow() bool {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate == nil {
		return true
	}
	allowed := false
	gate.Do(func() { allowed = true })
	return allowed
}

// parseSampleRate reads "N" (one in N) or "a/b" (a in b, rounded to one in
// b/a). "0", "1" and "all" disable sampling; anything else falls back to
// the default.
func parseSampleRate(raw string) int {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		return defaultDebugEvery
	case "all", "0", "1":
		return 1
	}
	if num, den, ok := strings.Cut(raw, "/"); ok {
		a, err1 := strconv.Atoi(strings.TrimSpace(num))
		b, err2 := strconv.Atoi(strings.TrimSpace(den))
		if err1 != nil || err2 != nil || a <= 0 || b <= 0 {
			return defaultDebugEvery
		}
		if a >= b {
			return 1
		}
		return (b + a/2) / a
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return defaultDebugEvery
}
