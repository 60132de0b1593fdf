// Package centroid computes group centroids and orders group members by
// their distance to the centroid.
package centroid
