package seeders

import (
	"context"

	"github.com/lac-hong-legacy/mooc_api/services/repositories"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	repo *repositories.SessionRepository
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{repo: repositories.NewSessionRepository(db)}
}

// SeedAll migrates the schema and inserts the demo sessions.
func (s *MainSeeder) SeedAll(ctx context.Context) error {
	log.Info("Starting database seeding...")

	if err := s.repo.Migrate(); err != nil {
		log.WithError(err).Error("Migration failed")
		return err
	}

	if err := NewSessionSeeder(s.repo).SeedDemoSessions(ctx); err != nil {
		log.WithError(err).Error("Demo session seeding failed")
		return err
	}

	log.Info("Database seeding completed successfully!")
	return nil
}

// Reseed drops the demo sessions and writes them again from scratch.
func (s *MainSeeder) Reseed(ctx context.Context) error {
	if err := s.repo.Migrate(); err != nil {
		return err
	}
	if err := NewSessionSeeder(s.repo).ClearDemoSessions(ctx); err != nil {
		return err
	}
	return s.SeedAll(ctx)
}
