package dataset

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/rankeval/model"
)

var (
	// ErrInvalidPartition is returned when groups do not cover a store's IDs
	// exactly once.
	ErrInvalidPartition = errors.New("invalid partition")

	// ErrUnlabeled is returned by ByLabel for a store ID without a label.
	ErrUnlabeled = errors.New("unlabeled id")
)

// Partitioner supplies the ground-truth groups of a store.
type Partitioner interface {
	Partition(ctx context.Context, s Store) ([]model.Group, error)
}

// PartitionerFunc adapts a function to the Partitioner interface.
type PartitionerFunc func(ctx context.Context, s Store) ([]model.Group, error)

// Partition implements Partitioner.
func (f PartitionerFunc) Partition(ctx context.Context, s Store) ([]model.Group, error) {
	return f(ctx, s)
}

// ByLabel groups the IDs of a store by supplied labels.
// Groups are returned sorted by label with members in ascending ID order.
type ByLabel struct {
	labels map[model.ID]string
}

// NewByLabel creates a label partitioner. The map is copied.
func NewByLabel(labels map[model.ID]string) *ByLabel {
	cp := make(map[model.ID]string, len(labels))
	for id, l := range labels {
		cp[id] = l
	}
	return &ByLabel{labels: cp}
}

// Label returns the label of id.
func (p *ByLabel) Label(id model.ID) (string, bool) {
	l, ok := p.labels[id]
	return l, ok
}

// Partition implements Partitioner.
func (p *ByLabel) Partition(ctx context.Context, s Store) ([]model.Group, error) {
	byLabel := make(map[string][]model.ID)
	for i, id := range s.IDs() {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		l, ok := p.labels[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnlabeled, id)
		}
		byLabel[l] = append(byLabel[l], id)
	}

	groups := make([]model.Group, 0, len(byLabel))
	for l, members := range byLabel {
		groups = append(groups, model.Group{Label: l, Members: members})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Label < groups[j].Label })
	return groups, nil
}

// StaticPartition is a fixed list of groups.
type StaticPartition []model.Group

// Partition implements Partitioner. It returns a deep copy of the groups.
func (p StaticPartition) Partition(_ context.Context, _ Store) ([]model.Group, error) {
	out := make([]model.Group, len(p))
	for i, g := range p {
		out[i] = model.Group{Label: g.Label, Members: slices.Clone(g.Members)}
	}
	return out, nil
}

// Validate checks that groups cover every ID of s exactly once and reference
// no unknown IDs. Empty groups are allowed here; how they are treated is
// the caller's policy.
func Validate(s Store, groups []model.Group) error {
	ids := s.IDs()
	seen := bitset.New(uint(len(ids)))

	for _, g := range groups {
		for _, id := range g.Members {
			pos, ok := slices.BinarySearch(ids, id)
			if !ok {
				return fmt.Errorf("%w: group %q references unknown id %d", ErrInvalidPartition, g.Label, id)
			}
			if seen.Test(uint(pos)) {
				return fmt.Errorf("%w: id %d assigned more than once", ErrInvalidPartition, id)
			}
			seen.Set(uint(pos))
		}
	}

	if covered := seen.Count(); covered != uint(len(ids)) {
		missing, _ := seen.Complement().NextSet(0)
		return fmt.Errorf("%w: %d of %d ids uncovered (first: %d)", ErrInvalidPartition, uint(len(ids))-covered, len(ids), ids[missing])
	}
	return nil
}
