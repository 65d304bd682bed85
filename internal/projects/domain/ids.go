package domain

import (
	"sync"
	"time"
)

// ItemIDs hands out timestamp-derived ids for nested entities. Ids are
// strictly increasing for the life of the generator and never collide with
// the ids passed as taken.
type ItemIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewItemIDs() *ItemIDs {
	return &ItemIDs{now: time.Now}
}

// NewItemIDsWithClock is NewItemIDs with an injected clock, for tests.
func NewItemIDsWithClock(now func() time.Time) *ItemIDs {
	return &ItemIDs{now: now}
}

func (g *ItemIDs) Next(taken ...int64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	for _, t := range taken {
		if id <= t {
			id = t + 1
		}
	}
	g.last = id
	return id
}

func FeatureIDs(p Project) []int64 {
	ids := make([]int64, 0, len(p.Features))
	for _, f := range p.Features {
		ids = append(ids, f.ID)
	}
	return ids
}

func TaskIDs(p Project) []int64 {
	ids := make([]int64, 0, len(p.UIUXTasks))
	for _, t := range p.UIUXTasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func PhaseIDs(p Project) []int64 {
	ids := make([]int64, 0, len(p.Phases))
	for _, ph := range p.Phases {
		ids = append(ids, ph.ID)
	}
	return ids
}

func TechIDs(p Project) []int64 {
	ids := make([]int64, 0, len(p.TechStack))
	for _, t := range p.TechStack {
		ids = append(ids, t.ID)
	}
	return ids
}
