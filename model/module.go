package model

type ModuleType string

const (
	ModuleTypeVideo ModuleType = "video"
	ModuleTypeQuiz  ModuleType = "quiz"
	ModuleTypeComic ModuleType = "comic"
)

type ModuleStatus string

const (
	ModuleStatusLocked    ModuleStatus = "locked"
	ModuleStatusUnlocked  ModuleStatus = "unlocked"
	ModuleStatusCompleted ModuleStatus = "completed"
)

// Module is one of the fixed learning units. Definitions are immutable;
// sessions carry their own ModuleState copies.
type Module struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        ModuleType `json:"type"`
}

// ModuleState is a session's view of a module. The definition fields are
// carried along so clients can render the module list from one response.
type ModuleState struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        ModuleType   `json:"type"`
	Status      ModuleStatus `json:"status"`
}

var moduleDefinitions = []Module{
	{
		ID:          1,
		Title:       "Info Capsule",
		Description: "Watch the animation",
		Type:        ModuleTypeVideo,
	},
	{
		ID:          2,
		Title:       "Fun Quiz",
		Description: "Who Wants to Be a Millionaire style",
		Type:        ModuleTypeQuiz,
	},
	{
		ID:          3,
		Title:       "Comic World",
		Description: "Read the story",
		Type:        ModuleTypeComic,
	},
}

// Modules returns a copy of the module definitions in unlock order.
func Modules() []Module {
	out := make([]Module, len(moduleDefinitions))
	copy(out, moduleDefinitions)
	return out
}

func ModuleCount() int {
	return len(moduleDefinitions)
}

func LookupModule(id int) (Module, bool) {
	for _, m := range Modules() {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// initialModuleStates seeds a fresh progression: the first module is
// unlocked and every later one is locked.
func initialModuleStates() []ModuleState {
	defs := Modules()
	states := make([]ModuleState, len(defs))
	for i, m := range defs {
		status := ModuleStatusLocked
		if i == 0 {
			status = ModuleStatusUnlocked
		}
		states[i] = ModuleState{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Type:        m.Type,
			Status:      status,
		}
	}
	return states
}
