package bruteforce

import "time"

const (
	delayBase = time.Second
	delayCap  = 8 * time.Second
)

// ProgressiveDelay returns the artificial response delay for the given
// attempt number: 0 for non-positive counts, then 1s, 2s, 4s, 8s, with 8s
// repeating as the cap for everything beyond. Pure function so the schedule
// is testable without any stored state.
func ProgressiveDelay(attemptNumber int) time.Duration {
	if attemptNumber <= 0 {
		return 0
	}

	d := delayBase
	for i := 1; i < attemptNumber; i++ {
		d *= 2
		if d >= delayCap {
			return delayCap
		}
	}
	return d
}
