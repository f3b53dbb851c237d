// Package scoring turns a sheet of per-question outcomes into the
// numbers the quiz pages display.
package scoring

// Score reports the number of correct answers, the streak still running
// at the end of the sheet, and the longest streak anywhere in it. A
// single pass suffices because the trailing run length is exactly the
// current streak.
func Score(correct []bool) (score, current, longest int) {
	run := 0
	for _, ok := range correct {
		if !ok {
			run = 0
			continue
		}
		score++
		run++
		if run > longest {
			longest = run
		}
	}
	return score, run, longest
}
