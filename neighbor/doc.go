// Package neighbor produces exact whole-dataset neighbor rankings.
//
// A ranking lists every dataset ID exactly once, ascending by distance to
// the query, with ties broken by ascending ID. Only exact full scans are
// provided; truncated or approximate rankings would change AUC results.
package neighbor
