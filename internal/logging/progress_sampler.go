package logging

import "math"

// ProgressSampler thins encode progress for log output: it lets a value
// through only once it reaches the next multiple of step percent.
type ProgressSampler struct {
	step float64
	next float64
}

// NewProgressSampler returns a sampler with the given step; non-positive
// steps fall back to 10.
func NewProgressSampler(step float64) *ProgressSampler {
	if step <= 0 {
		step = 10
	}
	return &ProgressSampler{step: step}
}

// ShouldLog reports whether percent should be logged. Unknown progress
// (negative) is never logged; a nil sampler logs everything.
func (s *ProgressSampler) ShouldLog(percent float64) bool {
	if s == nil {
		return true
	}
	if percent < 0 || percent < s.next {
		return false
	}
	percent = math.Min(percent, 100)
	if percent < s.next {
		return false
	}
	s.next = (math.Floor(percent/s.step) + 1) * s.step
	return true
}

// Reset starts sampling from zero again for a new job.
func (s *ProgressSampler) Reset() {
	if s != nil {
		s.next = 0
	}
}
