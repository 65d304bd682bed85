package domain

import "fmt"

// Edits are pure: each returns a new Project built from a deep copy of p and
// never touches p itself. The controller stores the result with a full
// document replace.

// ProjectPatch edits the top-level display fields. Nil fields are kept.
type ProjectPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
}

type FeaturePatch struct {
	Name     *string `json:"name"`
	Status   *string `json:"status"`
	Files    *string `json:"files"`
	Category *string `json:"category"`
}

type TaskPatch struct {
	Name        *string `json:"name"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
}

type PhasePatch struct {
	Name     *string `json:"name"`
	Timeline *string `json:"timeline"`
	Color    *string `json:"color"`
}

type TechPatch struct {
	Category *string `json:"category"`
	Tech     *string `json:"tech"`
	Icon     *string `json:"icon"`
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func EditProject(p Project, patch ProjectPatch) Project {
	out := p.Clone()
	set(&out.Name, patch.Name)
	set(&out.Description, patch.Description)
	set(&out.Icon, patch.Icon)
	set(&out.Color, patch.Color)
	return out
}

// Features

func AddFeature(p Project, f Feature) Project {
	out := p.Clone()
	out.Features = append(out.FeatureList(), f)
	return out
}

func UpdateFeature(p Project, id int64, patch FeaturePatch) (Project, error) {
	out := p.Clone()
	for i := range out.Features {
		if out.Features[i].ID == id {
			f := &out.Features[i]
			set(&f.Name, patch.Name)
			set(&f.Status, patch.Status)
			set(&f.Files, patch.Files)
			set(&f.Category, patch.Category)
			return out, nil
		}
	}
	return p, fmt.Errorf("feature %d: %w", id, ErrItemNotFound)
}

func RemoveFeature(p Project, id int64) (Project, error) {
	out := p.Clone()
	kept := make([]Feature, 0, len(out.Features))
	for _, f := range out.FeatureList() {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(out.FeatureList()) {
		return p, fmt.Errorf("feature %d: %w", id, ErrItemNotFound)
	}
	out.Features = kept
	return out, nil
}

// UI/UX tasks

func AddTask(p Project, t Task) Project {
	out := p.Clone()
	out.UIUXTasks = append(out.TaskList(), t)
	return out
}

func UpdateTask(p Project, id int64, patch TaskPatch) (Project, error) {
	out := p.Clone()
	for i := range out.UIUXTasks {
		if out.UIUXTasks[i].ID == id {
			t := &out.UIUXTasks[i]
			set(&t.Name, patch.Name)
			set(&t.Status, patch.Status)
			set(&t.Description, patch.Description)
			set(&t.Priority, patch.Priority)
			return out, nil
		}
	}
	return p, fmt.Errorf("task %d: %w", id, ErrItemNotFound)
}

func RemoveTask(p Project, id int64) (Project, error) {
	out := p.Clone()
	kept := make([]Task, 0, len(out.UIUXTasks))
	for _, t := range out.TaskList() {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(out.TaskList()) {
		return p, fmt.Errorf("task %d: %w", id, ErrItemNotFound)
	}
	out.UIUXTasks = kept
	return out, nil
}

// Phases

func AddPhase(p Project, ph Phase) Project {
	out := p.Clone()
	out.Phases = append(out.PhaseList(), ph)
	return out
}

func UpdatePhase(p Project, id int64, patch PhasePatch) (Project, error) {
	out := p.Clone()
	i := phaseIndex(out, id)
	if i < 0 {
		return p, fmt.Errorf("phase %d: %w", id, ErrItemNotFound)
	}
	ph := &out.Phases[i]
	set(&ph.Name, patch.Name)
	set(&ph.Timeline, patch.Timeline)
	set(&ph.Color, patch.Color)
	return out, nil
}

func RemovePhase(p Project, id int64) (Project, error) {
	out := p.Clone()
	i := phaseIndex(out, id)
	if i < 0 {
		return p, fmt.Errorf("phase %d: %w", id, ErrItemNotFound)
	}
	out.Phases = append(out.Phases[:i], out.Phases[i+1:]...)
	return out, nil
}

func AddPhaseTask(p Project, phaseID int64, text string) (Project, error) {
	out := p.Clone()
	i := phaseIndex(out, phaseID)
	if i < 0 {
		return p, fmt.Errorf("phase %d: %w", phaseID, ErrItemNotFound)
	}
	out.Phases[i].Tasks = append(out.Phases[i].TaskList(), text)
	return out, nil
}

func UpdatePhaseTask(p Project, phaseID int64, index int, text string) (Project, error) {
	out := p.Clone()
	i := phaseIndex(out, phaseID)
	if i < 0 {
		return p, fmt.Errorf("phase %d: %w", phaseID, ErrItemNotFound)
	}
	if index < 0 || index >= len(out.Phases[i].Tasks) {
		return p, fmt.Errorf("phase %d task %d: %w", phaseID, index, ErrInvalidIndex)
	}
	out.Phases[i].Tasks[index] = text
	return out, nil
}

func RemovePhaseTask(p Project, phaseID int64, index int) (Project, error) {
	out := p.Clone()
	i := phaseIndex(out, phaseID)
	if i < 0 {
		return p, fmt.Errorf("phase %d: %w", phaseID, ErrItemNotFound)
	}
	tasks := out.Phases[i].Tasks
	if index < 0 || index >= len(tasks) {
		return p, fmt.Errorf("phase %d task %d: %w", phaseID, index, ErrInvalidIndex)
	}
	out.Phases[i].Tasks = append(tasks[:index], tasks[index+1:]...)
	return out, nil
}

func phaseIndex(p Project, id int64) int {
	for i, ph := range p.Phases {
		if ph.ID == id {
			return i
		}
	}
	return -1
}

// Tech stack

func AddTechItem(p Project, t TechItem) Project {
	out := p.Clone()
	out.TechStack = append(out.TechList(), t)
	return out
}

func UpdateTechItem(p Project, id int64, patch TechPatch) (Project, error) {
	out := p.Clone()
	for i := range out.TechStack {
		if out.TechStack[i].ID == id {
			t := &out.TechStack[i]
			set(&t.Category, patch.Category)
			set(&t.Tech, patch.Tech)
			set(&t.Icon, patch.Icon)
			return out, nil
		}
	}
	return p, fmt.Errorf("tech item %d: %w", id, ErrItemNotFound)
}

func RemoveTechItem(p Project, id int64) (Project, error) {
	out := p.Clone()
	kept := make([]TechItem, 0, len(out.TechStack))
	for _, t := range out.TechList() {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(out.TechList()) {
		return p, fmt.Errorf("tech item %d: %w", id, ErrItemNotFound)
	}
	out.TechStack = kept
	return out, nil
}
