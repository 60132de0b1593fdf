// Package auc scores a ranked neighbor list against a set of positive IDs.
//
// The score is the area under the ROC curve traced while walking the ranking
// in ascending-distance order, accumulated with a lower-rectangle step rule:
// area grows only on negatives, weighted by the positive rate reached
// strictly before that negative. Consecutive positives add no area until the
// next negative. This is intentionally not the trapezoidal rule; scores are
// comparable only with other scores computed the same way.
//
//	1.0  all positives ranked before all negatives
//	~0.5 random ordering
//	0.0  all negatives ranked before all positives
package auc
