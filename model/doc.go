// Package model defines core types used throughout rankeval.
//
// # Identity Types
//
//   - ID: Dense point identifier (uint32), usable as a roaring bitmap member
//
// # Data Types
//
//   - Vector: Fixed-dimensionality feature vector
//   - Group: Ground-truth group of point IDs sharing a label
//   - Neighbor: One entry of a ranked neighbor list (ID, distance)
package model
