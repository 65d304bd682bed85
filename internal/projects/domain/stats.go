package domain

import "math"

// Stats are the aggregates shown on the overview and analytics panels.
type Stats struct {
	FeaturesTotal      int            `json:"features_total"`
	FeaturesDone       int            `json:"features_done"`
	FeaturesInProgress int            `json:"features_in_progress"`
	FeaturesNext       int            `json:"features_next"`
	FeatureCompletion  int            `json:"feature_completion"`
	TasksTotal         int            `json:"tasks_total"`
	TasksDone          int            `json:"tasks_done"`
	TaskCompletion     int            `json:"task_completion"`
	TasksByPriority    map[string]int `json:"tasks_by_priority"`
	PhaseCount         int            `json:"phase_count"`
	TechStackSize      int            `json:"tech_stack_size"`
}

// ComputeStats aggregates p. Absent collections count as empty.
func ComputeStats(p Project) Stats {
	s := Stats{
		TasksByPriority: map[string]int{PriorityHigh: 0, PriorityMedium: 0, PriorityLow: 0},
	}

	features := p.FeatureList()
	s.FeaturesTotal = len(features)
	for _, f := range features {
		switch f.Status {
		case StatusDone:
			s.FeaturesDone++
		case StatusProgress:
			s.FeaturesInProgress++
		case StatusNext:
			s.FeaturesNext++
		}
	}
	s.FeatureCompletion = Percent(s.FeaturesDone, s.FeaturesTotal)

	tasks := p.TaskList()
	s.TasksTotal = len(tasks)
	for _, t := range tasks {
		if t.Status == StatusDone {
			s.TasksDone++
		}
		if _, ok := s.TasksByPriority[t.Priority]; ok {
			s.TasksByPriority[t.Priority]++
		}
	}
	s.TaskCompletion = Percent(s.TasksDone, s.TasksTotal)

	s.PhaseCount = len(p.PhaseList())
	s.TechStackSize = len(p.TechList())
	return s
}

// Percent returns part/total as a whole percentage rounded half away from
// zero. An empty total yields 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
