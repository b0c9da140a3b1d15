package model

// TimeEpsilon absorbs float drift when summed tick deltas are compared with a
// threshold in seconds. Sixty 0.05s ticks sum to 2.9999999999999973, not 3.
const TimeEpsilon = 1e-9

// Elapsed reports whether timer seconds have reached limit.
func Elapsed(timer, limit float64) bool {
	return timer >= limit-TimeEpsilon
}
