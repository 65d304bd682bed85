package domain

// Projects loaded from different sources may omit empty collections, so every
// read of a nested collection goes through these accessors. They never return
// nil.

func (p Project) FeatureList() []Feature {
	if p.Features == nil {
		return []Feature{}
	}
	return p.Features
}

func (p Project) TaskList() []Task {
	if p.UIUXTasks == nil {
		return []Task{}
	}
	return p.UIUXTasks
}

func (p Project) PhaseList() []Phase {
	if p.Phases == nil {
		return []Phase{}
	}
	return p.Phases
}

func (p Project) TechList() []TechItem {
	if p.TechStack == nil {
		return []TechItem{}
	}
	return p.TechStack
}

func (ph Phase) TaskList() []string {
	if ph.Tasks == nil {
		return []string{}
	}
	return ph.Tasks
}

// Normalize returns p with every absent collection replaced by an empty one.
// Used before values leave the process so consumers always see arrays.
func (p Project) Normalize() Project {
	out := p.Clone()
	out.Features = out.FeatureList()
	out.UIUXTasks = out.TaskList()
	out.Phases = out.PhaseList()
	out.TechStack = out.TechList()
	for i := range out.Phases {
		out.Phases[i].Tasks = out.Phases[i].TaskList()
	}
	return out
}

// Clone returns a deep copy of p. Absent collections stay absent.
func (p Project) Clone() Project {
	out := p
	if p.Features != nil {
		out.Features = append([]Feature(nil), p.Features...)
	}
	if p.UIUXTasks != nil {
		out.UIUXTasks = append([]Task(nil), p.UIUXTasks...)
	}
	if p.TechStack != nil {
		out.TechStack = append([]TechItem(nil), p.TechStack...)
	}
	if p.Phases != nil {
		out.Phases = make([]Phase, len(p.Phases))
		for i, ph := range p.Phases {
			out.Phases[i] = ph
			if ph.Tasks != nil {
				out.Phases[i].Tasks = append([]string(nil), ph.Tasks...)
			}
		}
	}
	return out
}

// CloneAll deep-copies a project collection.
func CloneAll(projects []Project) []Project {
	if projects == nil {
		return nil
	}
	out := make([]Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out
}

// Find returns the project with the given id.
func Find(projects []Project, id string) (Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}
