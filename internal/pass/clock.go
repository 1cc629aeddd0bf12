package pass

import "time"

// Clock supplies wall-clock time and the blocking delay between samples.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock suspends the goroutine with time.Sleep, so the host stays idle
// between samples.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
