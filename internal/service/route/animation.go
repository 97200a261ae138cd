package route

import (
	"time"
)

// Animation is the snap-to-route reveal: both legs animate in lockstep
// from 0 to 1 over a fixed duration. Progress is a pure function of the
// monotonic clock, so correctness does not depend on frame rate.
type Animation struct {
	start    time.Time
	duration time.Duration
}

func NewAnimation(start time.Time, duration time.Duration) Animation {
	return Animation{start: start, duration: duration}
}

// Progress returns the animation progress in [0,1] at the given instant.
func (a Animation) Progress(now time.Time) float64 {
	if a.start.IsZero() {
		return 0
	}
	if a.duration <= 0 {
		return 1
	}

	elapsed := now.Sub(a.start)
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= a.duration {
		return 1
	}
	return float64(elapsed) / float64(a.duration)
}

// Done reports whether further animation ticks can be skipped.
func (a Animation) Done(now time.Time) bool {
	return a.Progress(now) >= 1
}
