package domain

// Defaults used when the dashboard adds a new entity.

func NewProjectDraft() Project {
	return Project{
		Name:        "New Project",
		Description: "Project description",
		Icon:        "🚀",
		Color:       "from-blue-500 to-purple-500",
		Features:    []Feature{},
		UIUXTasks:   []Task{},
		Phases:      []Phase{},
		TechStack:   []TechItem{},
	}
}

func NewFeature(id int64) Feature {
	return Feature{ID: id, Name: "New Feature", Status: StatusNext, Files: "files/paths", Category: "Core"}
}

func NewTask(id int64) Task {
	return Task{ID: id, Name: "New UI/UX Task", Status: StatusNext, Description: "Task description", Priority: PriorityMedium}
}

func NewPhase(id int64) Phase {
	return Phase{ID: id, Name: "New Phase", Timeline: "Timeline", Color: "bg-gray-100 border-gray-300", Tasks: []string{}}
}

func NewTechItem(id int64) TechItem {
	return TechItem{ID: id, Category: "New Category", Tech: "Technology description", Icon: "Settings"}
}

const NewPhaseTask = "New task"
