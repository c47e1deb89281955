// Package catalog provides the static registry of bookable lanes.
// The catalog is built once at startup and is read-only afterwards.
package catalog

import (
	"fmt"

	"github.com/lanekeeper/lanekeeper/internal/model"
)

// DefaultLaneCount matches the reference deployment.
const DefaultLaneCount = 14

// Catalog is a fixed registry of lanes.
type Catalog struct {
	lanes []model.Lane
	byID  map[int]model.Lane
}

// New builds a catalog of count lanes with ids 1..count.
// A non-positive count falls back to DefaultLaneCount.
func New(count int) *Catalog {
	if count <= 0 {
		count = DefaultLaneCount
	}

	lanes := make([]model.Lane, 0, count)
	byID := make(map[int]model.Lane, count)
	for i := 1; i <= count; i++ {
		lane := model.Lane{ID: i, Name: fmt.Sprintf("Lane %d", i)}
		lanes = append(lanes, lane)
		byID[i] = lane
	}

	return &Catalog{lanes: lanes, byID: byID}
}

// Lanes returns all lanes in id order. The returned slice is a copy.
func (c *Catalog) Lanes() []model.Lane {
	out := make([]model.Lane, len(c.lanes))
	copy(out, c.lanes)
	return out
}

// Get returns the lane with the given id.
func (c *Catalog) Get(id int) (model.Lane, bool) {
	lane, ok := c.byID[id]
	return lane, ok
}

// Contains reports whether a lane with the given id exists.
func (c *Catalog) Contains(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// Len returns the number of lanes.
func (c *Catalog) Len() int {
	return len(c.lanes)
}
