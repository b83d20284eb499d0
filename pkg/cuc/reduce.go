// CLAUDE:SUMMARY Reduction of raw stroke sums onto cục numbers 1..81.
package cuc

// MaxCuc is the largest cục number.
const MaxCuc = 81

// Reduce folds a raw accumulation into [1, 81]. Values above 81 wrap with
// period 80 (82 -> 2, 161 -> 1); values <= 0 clamp to 1. Reduce is
// idempotent on [1, 81].
func Reduce(v int) int {
	if v <= 0 {
		return 1
	}
	if v <= MaxCuc {
		return v
	}
	return (v-1)%80 + 1
}

// Valid reports whether n is a cục number.
func Valid(n int) bool {
	return n >= 1 && n <= MaxCuc
}
