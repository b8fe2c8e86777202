package seeders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lac-hong-legacy/mooc_api/model"
	"github.com/lac-hong-legacy/mooc_api/services/repositories"
	log "github.com/sirupsen/logrus"
)

// demoSession describes a learner frozen at one point of the course.
type demoSession struct {
	id        string
	userName  string
	completed []int
	quizDone  bool
}

var demoSessions = []demoSession{
	{id: "demo-fresh", userName: "Demo Newcomer"},
	{id: "demo-after-video", userName: "Demo Viewer", completed: []int{1}},
	{id: "demo-after-quiz", userName: "Demo Quizzer", completed: []int{1, 2}, quizDone: true},
	{id: "demo-complete", userName: "Demo Graduate", completed: []int{1, 2, 3}, quizDone: true},
}

// DemoSessionIDs lists the ids SeedDemoSessions writes.
func DemoSessionIDs() []string {
	ids := make([]string, len(demoSessions))
	for i, d := range demoSessions {
		ids[i] = d.id
	}
	return ids
}

type SessionSeeder struct {
	repo *repositories.SessionRepository
	now  func() time.Time
}

func NewSessionSeeder(repo *repositories.SessionRepository) *SessionSeeder {
	return &SessionSeeder{repo: repo, now: time.Now}
}

// SeedDemoSessions inserts the demo learners. Ids already present are left as they are.
func (s *SessionSeeder) SeedDemoSessions(ctx context.Context) error {
	for _, demo := range demoSessions {
		_, err := s.repo.Get(ctx, demo.id)
		if err == nil {
			log.WithField("session_id", demo.id).Info("Demo session exists, skipping")
			continue
		}
		if !errors.Is(err, model.ErrSessionNotFound) {
			return err
		}

		session, err := buildDemoSession(demo, s.now())
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, session); err != nil {
			return fmt.Errorf("create %s: %w", demo.id, err)
		}

		log.WithFields(log.Fields{
			"session_id": demo.id,
			"completed":  session.CompletedModules,
		}).Info("Seeded demo session")
	}
	return nil
}

func (s *SessionSeeder) ClearDemoSessions(ctx context.Context) error {
	for _, id := range DemoSessionIDs() {
		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
	}
	return nil
}

// buildDemoSession replays completions in order so the unlock rules hold.
func buildDemoSession(demo demoSession, now time.Time) (*model.Session, error) {
	session := model.NewSession(demo.id, demo.userName, now)
	for _, moduleID := range demo.completed {
		if err := session.CompleteModule(moduleID, now); err != nil {
			return nil, fmt.Errorf("demo %s module %d: %w", demo.id, moduleID, err)
		}
	}
	if demo.quizDone {
		session.MarkQuizCompleted(now)
	}
	return session, nil
}
