package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statuses(s *Session) []ModuleStatus {
	out := make([]ModuleStatus, len(s.Modules))
	for i, m := range s.Modules {
		out[i] = m.Status
	}
	return out
}

func TestNewSession_InitialState(t *testing.T) {
	now := time.Now()
	s := NewSession("s1", "Alice", now)

	require.Len(t, s.Modules, 3)
	assert.Equal(t, []ModuleStatus{ModuleStatusUnlocked, ModuleStatusLocked, ModuleStatusLocked}, statuses(s))
	assert.Empty(t, s.CompletedModules)
	assert.NotNil(t, s.CompletedModules)
	assert.False(t, s.QuizCompleted)
	assert.Equal(t, 1, s.CurrentModule)
	assert.Equal(t, "Info Capsule", s.Modules[0].Title)
	assert.Equal(t, ModuleTypeComic, s.Modules[2].Type)
}

func TestNewSession_DoesNotShareModuleState(t *testing.T) {
	a := NewSession("a", "Alice", time.Now())
	b := NewSession("b", "Bob", time.Now())

	require.NoError(t, a.CompleteModule(1, time.Now()))

	assert.Equal(t, ModuleStatusUnlocked, b.Modules[0].Status)
	assert.Equal(t, ModuleStatusLocked, b.Modules[1].Status)
}

func TestCompleteModule_UnlocksNext(t *testing.T) {
	s := NewSession("s1", "Alice", time.Now())

	require.NoError(t, s.CompleteModule(1, time.Now()))

	assert.Equal(t, []ModuleStatus{ModuleStatusCompleted, ModuleStatusUnlocked, ModuleStatusLocked}, statuses(s))
	assert.Equal(t, []int{1}, s.CompletedModules)
	assert.Equal(t, 2, s.CurrentModule)
	assert.False(t, s.AllCompleted())
}

func TestCompleteModule_AllInOrder(t *testing.T) {
	s := NewSession("s1", "Alice", time.Now())

	for id := 1; id <= 3; id++ {
		require.NoError(t, s.CompleteModule(id, time.Now()))
	}

	assert.True(t, s.AllCompleted())
	assert.Equal(t, []ModuleStatus{ModuleStatusCompleted, ModuleStatusCompleted, ModuleStatusCompleted}, statuses(s))
	assert.Equal(t, 0, s.CurrentModule)
}

func TestCompleteModule_Idempotent(t *testing.T) {
	once := NewSession("s1", "Alice", time.Unix(0, 0))
	twice := NewSession("s1", "Alice", time.Unix(0, 0))

	require.NoError(t, once.CompleteModule(1, time.Unix(10, 0)))
	require.NoError(t, twice.CompleteModule(1, time.Unix(10, 0)))
	require.NoError(t, twice.CompleteModule(1, time.Unix(20, 0)))

	assert.Equal(t, once, twice)
	assert.Equal(t, []int{1}, twice.CompletedModules)
}

func TestCompleteModule_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		moduleID int
		wantErr  error
	}{
		{name: "zero", moduleID: 0, wantErr: ErrModuleNotFound},
		{name: "past the end", moduleID: 4, wantErr: ErrModuleNotFound},
		{name: "negative", moduleID: -1, wantErr: ErrModuleNotFound},
		{name: "locked", moduleID: 3, wantErr: ErrModuleLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("s1", "Alice", time.Now())
			before := s.Clone()

			err := s.CompleteModule(tt.moduleID, time.Now())

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, s)
		})
	}
}

func TestMarkQuizCompleted(t *testing.T) {
	s := NewSession("s1", "Alice", time.Unix(0, 0))

	s.MarkQuizCompleted(time.Unix(5, 0))
	s.MarkQuizCompleted(time.Unix(9, 0))

	assert.True(t, s.QuizCompleted)
	assert.Equal(t, time.Unix(5, 0), s.UpdatedAt)
	assert.Empty(t, s.CompletedModules)
}

func TestClone_IsDeep(t *testing.T) {
	s := NewSession("s1", "Alice", time.Now())
	c := s.Clone()

	c.Modules[0].Status = ModuleStatusCompleted
	c.CompletedModules = append(c.CompletedModules, 1)

	assert.Equal(t, ModuleStatusUnlocked, s.Modules[0].Status)
	assert.Empty(t, s.CompletedModules)
}

func TestModules_ReturnsCopy(t *testing.T) {
	defs := Modules()
	defs[0].Title = "changed"

	m, ok := LookupModule(1)
	require.True(t, ok)
	assert.Equal(t, "Info Capsule", m.Title)

	_, ok = LookupModule(9)
	assert.False(t, ok)
}

func TestCompleteModule_LockedAfterProgressLeavesCompletionsAlone(t *testing.T) {
	s := NewSession("s1", "Alice", time.Unix(0, 0))
	require.NoError(t, s.CompleteModule(1, time.Unix(1, 0)))

	err := s.CompleteModule(3, time.Unix(2, 0))

	assert.ErrorIs(t, err, ErrModuleLocked)
	assert.Equal(t, []int{1}, s.CompletedModules)
	assert.Equal(t, ModuleStatusLocked, s.Modules[2].Status)
	assert.Equal(t, 2, s.CurrentModule)
	assert.Equal(t, time.Unix(1, 0), s.UpdatedAt)
}

func TestInitialStatesFollowCatalogue(t *testing.T) {
	defs := Modules()
	s := NewSession("s1", "Alice", time.Now())

	require.Len(t, s.Modules, len(defs))
	for i, def := range defs {
		assert.Equal(t, def.ID, s.Modules[i].ID)
		assert.Equal(t, def.Title, s.Modules[i].Title)
		assert.Equal(t, def.Type, s.Modules[i].Type)

		found, ok := LookupModule(def.ID)
		require.True(t, ok)
		assert.Equal(t, def, found)
	}

	_, ok := LookupModule(len(defs) + 1)
	assert.False(t, ok)
}
