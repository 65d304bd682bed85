package service

import "github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"

// Reconcile picks the active project after a snapshot: the previous id while
// it still exists, otherwise the lexically smallest id, otherwise "" for an
// empty snapshot. Store enumeration order never matters.
func Reconcile(activeID string, snapshot []domain.Project) string {
	if activeID != "" {
		if _, ok := domain.Find(snapshot, activeID); ok {
			return activeID
		}
	}
	next := ""
	for _, p := range snapshot {
		if next == "" || p.ID < next {
			next = p.ID
		}
	}
	return next
}
