package fuse

import "github.com/sirupsen/logrus"

// scoreAccumulator folds the field scores of one item.
type scoreAccumulator struct {
	total float64
	best  float64
}

// fold adds one weighted field score. Unweighted fields add to the total,
// weighted fields compete for the best score.
func (a scoreAccumulator) fold(weight, nScore float64) scoreAccumulator {
	if weight != 1 {
		a.best = min(a.best, nScore)
	} else {
		a.total += nScore
	}
	return a
}

// computeScore sets the aggregated score of an item. The mean of the
// unweighted field scores is used unless a weighted field lowered the best
// score below 1, in which case that best weighted score wins.
func (e *Engine) computeScore(kind collectionKind, r *itemResult) {
	acc := scoreAccumulator{total: 0, best: 1}

	for i := range r.output {
		out := &r.output[i]

		weight := 1.0
		if kind == kindRecords {
			if w, ok := e.weights[out.key]; ok {
				weight = w
			}
		}

		score := out.score
		if weight != 1 && score == 0 {
			score = 0.001
		}

		nScore := score * weight
		if weight == 1 {
			out.nScore = nScore
		}
		acc = acc.fold(weight, nScore)
	}

	if acc.best == 1 {
		r.score = acc.total / float64(len(r.output))
	} else {
		r.score = acc.best
	}

	e.trace(logrus.Fields{
		"index":  r.index,
		"fields": len(r.output),
		"total":  acc.total,
		"best":   acc.best,
		"score":  r.score,
	}, "computed score")
}
