// Package rankeval measures the ranking quality of a distance function.
//
// Given a dataset, a ground-truth grouping of its points and a distance
// metric, an Evaluator ranks the whole dataset from every point and scores
// how well the point's own group is placed ahead of everything else with
// ROC-AUC. Scores are binned by the point's rank position within its group
// (ordered by distance to the group centroid) and reported per percentile.
//
// # Quick Start
//
//	store, labels, _ := dataset.Load(ctx, blobstore.NewLocalStore("./data"), "points.json.zst", nil)
//	ev, _ := rankeval.New(store, labels, distance.Euclidean{})
//	res, _ := ev.Run(ctx)
//	for _, row := range res.Rows {
//	    fmt.Println(row)
//	}
//
// # Weighted Metrics
//
//	m, _ := distance.NewMatrixWeighted(weights) // fails with ErrShape if not square
//	ev, _ := rankeval.New(store, labels, m)
//
// # Failure Model
//
// A run is all-or-nothing: any error moves the Evaluator to StateFailed and
// no partial result is returned. Empty groups and groups spanning the whole
// dataset fail the run unless WithGroupPolicy(PolicySkip) is set, in which
// case they are logged, counted in Result.SkippedGroups and left out.
//
// # Determinism
//
// Members of a group are scored in parallel (WithWorkers), but every bin is
// accumulated in member order by a single worker and partial bins are merged
// in a fixed order, so results are identical for any number of workers.
package rankeval
