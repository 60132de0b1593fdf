package model

import (
	"fmt"
	"slices"
)

// ID is a dense identifier for a point within a dataset.
// It is strictly 32-bit so membership sets can be stored in roaring bitmaps.
type ID uint32

// MaxID is the maximum possible value for an ID.
const MaxID = ^ID(0)

// Vector is a feature vector. Vectors are treated as immutable once they
// are handed to a store.
type Vector []float64

// Clone returns a deep copy of v.
func (v Vector) Clone() Vector {
	return slices.Clone(v)
}

// Dim returns the dimensionality of v.
func (v Vector) Dim() int { return len(v) }

// Group is a set of point IDs sharing a ground-truth label.
type Group struct {
	// Label is the ground-truth label of the group.
	Label string
	// Members holds the IDs of the group's points.
	Members []ID
}

// Size returns the number of members.
func (g Group) Size() int { return len(g.Members) }

// String returns a string representation of the Group.
func (g Group) String() string {
	return fmt.Sprintf("Group(%q:%d)", g.Label, len(g.Members))
}

// Neighbor is a single entry of a ranked neighbor list.
type Neighbor struct {
	ID       ID
	Distance float64
}

// Less orders neighbors ascending by distance, breaking ties by ID.
func (n Neighbor) Less(o Neighbor) bool {
	if n.Distance != o.Distance {
		return n.Distance < o.Distance
	}
	return n.ID < o.ID
}

// Compare is a three-way version of Less suitable for slices.SortFunc.
func (n Neighbor) Compare(o Neighbor) int {
	switch {
	case n.Less(o):
		return -1
	case o.Less(n):
		return 1
	default:
		return 0
	}
}

// SortNeighbors sorts ns ascending by (distance, ID).
func SortNeighbors(ns []Neighbor) {
	slices.SortFunc(ns, Neighbor.Compare)
}
