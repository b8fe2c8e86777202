package repositories

import (
	"context"
	"errors"

	"github.com/lac-hong-legacy/mooc_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository is the SQL session backing. Each update runs in its own
// transaction; on postgres the row is locked with SELECT ... FOR UPDATE.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Migrate creates or updates the sessions table.
func (ds *SessionRepository) Migrate() error {
	return ds.db.AutoMigrate(&model.Session{})
}

func (ds *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	return ds.db.WithContext(ctx).Create(session).Error
}

func (ds *SessionRepository) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	var session model.Session
	if err := ds.db.WithContext(ctx).Where("id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (ds *SessionRepository) Update(ctx context.Context, sessionID string, fn func(*model.Session) error) (*model.Session, error) {
	var session model.Session

	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		if err := q.Where("id = ?", sessionID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.ErrSessionNotFound
			}
			return err
		}

		if err := fn(&session); err != nil {
			return err
		}

		return tx.Save(&session).Error
	})
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// Delete removes a session; deleting a missing id is not an error.
func (ds *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return ds.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&model.Session{}).Error
}
