package model

import (
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrModuleNotFound  = errors.New("module not found")
	ErrModuleLocked    = errors.New("module is locked")
)

// Session is a per-user progress record. It doubles as the gorm row for the
// SQL backed session store.
type Session struct {
	ID               string        `json:"id" gorm:"primaryKey;size:64"`
	UserName         string        `json:"user_name" gorm:"not null"`
	Modules          []ModuleState `json:"modules" gorm:"serializer:json;type:text;not null"`
	CurrentModule    int           `json:"current_module" gorm:"not null"`
	CompletedModules []int         `json:"completed_modules" gorm:"serializer:json;type:text;not null"`
	QuizCompleted    bool          `json:"quiz_completed" gorm:"not null"`
	CreatedAt        time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt        time.Time     `json:"updated_at" gorm:"not null"`
}

func NewSession(id, userName string, now time.Time) *Session {
	s := &Session{
		ID:               id,
		UserName:         userName,
		Modules:          initialModuleStates(),
		CompletedModules: []int{},
		QuizCompleted:    false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.CurrentModule = s.frontier()
	return s
}

// CompleteModule marks moduleID completed and unlocks its successor.
// Completing an already completed module changes nothing. The session is
// left untouched when an error is returned.
func (s *Session) CompleteModule(moduleID int, now time.Time) error {
	idx := s.indexOf(moduleID)
	if idx < 0 {
		return ErrModuleNotFound
	}

	switch s.Modules[idx].Status {
	case ModuleStatusLocked:
		return ErrModuleLocked
	case ModuleStatusCompleted:
		return nil
	}

	s.Modules[idx].Status = ModuleStatusCompleted
	if !s.IsCompleted(moduleID) {
		s.CompletedModules = append(s.CompletedModules, moduleID)
	}

	if next := s.indexOf(moduleID + 1); next >= 0 && s.Modules[next].Status == ModuleStatusLocked {
		s.Modules[next].Status = ModuleStatusUnlocked
	}

	s.CurrentModule = s.frontier()
	s.UpdatedAt = now
	return nil
}

func (s *Session) MarkQuizCompleted(now time.Time) {
	if s.QuizCompleted {
		return
	}
	s.QuizCompleted = true
	s.UpdatedAt = now
}

func (s *Session) IsCompleted(moduleID int) bool {
	for _, id := range s.CompletedModules {
		if id == moduleID {
			return true
		}
	}
	return false
}

func (s *Session) AllCompleted() bool {
	return len(s.CompletedModules) == ModuleCount()
}

// Clone returns a deep copy so callers can never alias a stored session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Modules = make([]ModuleState, len(s.Modules))
	copy(c.Modules, s.Modules)
	c.CompletedModules = make([]int, len(s.CompletedModules))
	copy(c.CompletedModules, s.CompletedModules)
	return &c
}

func (s *Session) indexOf(moduleID int) int {
	for i := range s.Modules {
		if s.Modules[i].ID == moduleID {
			return i
		}
	}
	return -1
}

// frontier is the first module that is not completed, or 0 once all are.
func (s *Session) frontier() int {
	for _, m := range s.Modules {
		if m.Status != ModuleStatusCompleted {
			return m.ID
		}
	}
	return 0
}
