package auc

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/rankeval/model"
)

// ErrDegenerateInput is returned when a ranking contains no positives or no
// negatives, which leaves one ROC axis undefined.
var ErrDegenerateInput = errors.New("degenerate input")

// Score computes the ROC-AUC of ranking with respect to positives.
//
// The number of positives is the cardinality of positives and the number of
// negatives is len(ranking) minus that, so ranking is expected to list every
// point of the dataset exactly once (as a full neighbor ranking does).
func Score(ranking []model.Neighbor, positives *roaring.Bitmap) (float64, error) {
	postot := 0
	if positives != nil {
		postot = int(positives.GetCardinality())
	}
	negtot := len(ranking) - postot

	if postot <= 0 || negtot <= 0 {
		return 0, fmt.Errorf("%w: %d positives, %d negatives", ErrDegenerateInput, postot, negtot)
	}

	var (
		poscur, negcur   int
		lastpos, lastneg float64
		area             float64
		fpostot, fnegtot = float64(postot), float64(negtot)
	)

	for _, n := range ranking {
		if positives.Contains(uint32(n.ID)) {
			poscur++
		} else {
			negcur++
		}
		posrate := float64(poscur) / fpostot
		negrate := float64(negcur) / fnegtot
		area += (negrate - lastneg) * lastpos
		lastneg = negrate
		lastpos = posrate
	}

	return area, nil
}

// Positives builds a membership bitmap from ids.
func Positives(ids []model.ID) *roaring.Bitmap {
	bm := roaring.New()
	for _, id := range ids {
		bm.Add(uint32(id))
	}
	return bm
}
