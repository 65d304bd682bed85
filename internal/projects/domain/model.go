package domain

// Project is one tracked project together with the four collections it owns.
// It is storage-agnostic: the same value travels through the repository,
// controller and HTTP layers. Nested collections may be nil when a document
// was stored without them; read them through the *List accessors.
type Project struct {
	ID          string     `json:"id" firestore:"-" yaml:"id,omitempty"`
	Name        string     `json:"name" firestore:"name" yaml:"name"`
	Description string     `json:"description" firestore:"description" yaml:"description"`
	Icon        string     `json:"icon" firestore:"icon" yaml:"icon"`
	Color       string     `json:"color" firestore:"color" yaml:"color"`
	Features    []Feature  `json:"features" firestore:"features" yaml:"features"`
	UIUXTasks   []Task     `json:"uiuxTasks" firestore:"uiuxTasks" yaml:"uiuxTasks"`
	Phases      []Phase    `json:"phases" firestore:"phases" yaml:"phases"`
	TechStack   []TechItem `json:"techStack" firestore:"techStack" yaml:"techStack"`
}

// Feature is a development feature tracked on the features tab.
type Feature struct {
	ID       int64  `json:"id" firestore:"id" yaml:"id"`
	Name     string `json:"name" firestore:"name" yaml:"name"`
	Status   string `json:"status" firestore:"status" yaml:"status"`
	Files    string `json:"files" firestore:"files" yaml:"files"`
	Category string `json:"category" firestore:"category" yaml:"category"`
}

// Task is a UI/UX task.
type Task struct {
	ID          int64  `json:"id" firestore:"id" yaml:"id"`
	Name        string `json:"name" firestore:"name" yaml:"name"`
	Status      string `json:"status" firestore:"status" yaml:"status"`
	Description string `json:"description" firestore:"description" yaml:"description"`
	Priority    string `json:"priority" firestore:"priority" yaml:"priority"`
}

// Phase is one roadmap phase. Its tasks are plain strings addressed by index.
type Phase struct {
	ID       int64    `json:"id" firestore:"id" yaml:"id"`
	Name     string   `json:"name" firestore:"name" yaml:"name"`
	Timeline string   `json:"timeline" firestore:"timeline" yaml:"timeline"`
	Color    string   `json:"color" firestore:"color" yaml:"color"`
	Tasks    []string `json:"tasks" firestore:"tasks" yaml:"tasks"`
}

// TechItem is one entry of the tech-stack inventory.
type TechItem struct {
	ID       int64  `json:"id" firestore:"id" yaml:"id"`
	Category string `json:"category" firestore:"category" yaml:"category"`
	Tech     string `json:"tech" firestore:"tech" yaml:"tech"`
	Icon     string `json:"icon" firestore:"icon" yaml:"icon"`
}

// Status values shared by features and UI/UX tasks.
const (
	StatusDone     = "done"
	StatusProgress = "progress"
	StatusNext     = "next"
)

// Task priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Statuses lists the valid status values in display order.
var Statuses = []string{StatusDone, StatusProgress, StatusNext}

// Priorities lists the valid priorities in display order.
var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

// FeatureCategories is the enumerated category set for features.
var FeatureCategories = []string{
	"Frontend", "Backend", "UI/UX", "API", "Database", "Auth", "Infrastructure", "Core", "AI/ML",
}

// TechIcons is the icon set offered when editing a tech item.
var TechIcons = []string{
	"FileText", "Shield", "Upload", "Database", "Zap", "Cloud", "Clock",
	"Video", "Users", "Settings", "Calendar", "Target", "Lightbulb",
}

// renderableIcons are icons a renderer understands beyond the editable set.
var renderableIcons = []string{"TrendingUp", "Play", "Mic", "Palette", "Layout"}

// DefaultIcon is rendered when a tech item names an unknown icon.
const DefaultIcon = "FileText"

// RenderIcon maps a stored icon name to one a renderer can draw.
func RenderIcon(name string) string {
	for _, icon := range TechIcons {
		if icon == name {
			return name
		}
	}
	for _, icon := range renderableIcons {
		if icon == name {
			return name
		}
	}
	return DefaultIcon
}
