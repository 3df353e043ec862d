package bitap

// Score rates a candidate match with the given number of errors found at
// current when it was expected at expected. Lower is better.
func Score(errors, patternLen, current, expected, distance int) float64 {
	accuracy := float64(errors) / float64(patternLen)
	proximity := expected - current
	if proximity < 0 {
		proximity = -proximity
	}

	if distance == 0 {
		if proximity != 0 {
			return 1.0
		}
		return accuracy
	}

	return accuracy + float64(proximity)/float64(distance)
}
