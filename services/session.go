package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/lac-hong-legacy/mooc_api/dto"
	"github.com/lac-hong-legacy/mooc_api/model"
	"github.com/lac-hong-legacy/mooc_api/services/repositories"
	"github.com/lac-hong-legacy/mooc_api/shared"
	log "github.com/sirupsen/logrus"
)

// SessionService owns every session record and enforces the module unlock
// order. All mutations go through SessionStore.Update so concurrent requests
// for the same session are serialized by the backing.
type SessionService struct {
	appContext.DefaultService

	backend string
	store   SessionStore

	now   func() time.Time
	newID func() string
}

const SESSION_SVC = "session_svc"

func NewSessionService(store SessionStore) *SessionService {
	return &SessionService{
		backend: SessionStoreMemory,
		store:   store,
		now:     time.Now,
		newID:   newSessionID,
	}
}

// newSessionID returns a random (v4) UUID. Time ordered variants are avoided
// so ids cannot be enumerated.
func newSessionID() string {
	return uuid.New().String()
}

func (svc SessionService) Id() string {
	return SESSION_SVC
}

func (svc *SessionService) Configure(ctx *appContext.Context) error {
	svc.backend = strings.ToLower(os.Getenv("SESSION_STORE"))
	if svc.backend == "" {
		svc.backend = SessionStoreMemory
	}
	svc.now = time.Now
	svc.newID = newSessionID

	return svc.DefaultService.Configure(ctx)
}

func (svc *SessionService) Start() error {
	switch svc.backend {
	case SessionStoreMemory:
		svc.store = NewMemorySessionStore()
	case SessionStoreRedis:
		svc.store = NewRedisSessionStore(svc.Service(REDIS_SVC).(*RedisService))
	case SessionStoreSqlite, SessionStorePostgres:
		repo := repositories.NewSessionRepository(svc.Service(DATABASE_SVC).(*DatabaseService).Db())
		if err := repo.Migrate(); err != nil {
			log.Printf("Failed to migrate database: %v", err)
			return err
		}
		svc.store = repo
	default:
		return errors.New("unknown SESSION_STORE: " + svc.backend)
	}

	log.WithField("backend", svc.backend).Info("Session store ready")
	return nil
}

func (svc *SessionService) CreateSession(ctx context.Context, userName string) (*model.Session, error) {
	if strings.TrimSpace(userName) == "" {
		return nil, shared.NewBadRequestError(nil, "user_name is required")
	}

	session := model.NewSession(svc.newID(), userName, svc.now())
	if err := svc.store.Create(ctx, session); err != nil {
		return nil, svc.storeError(err)
	}

	sessionsCreatedTotal.Inc()
	log.WithFields(log.Fields{
		"session_id": session.ID,
		"backend":    svc.backend,
	}).Debug("Session created")

	return session, nil
}

func (svc *SessionService) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := svc.store.Get(ctx, sessionID)
	if err != nil {
		return nil, svc.storeError(err)
	}
	return session, nil
}

func (svc *SessionService) GetModules(ctx context.Context, sessionID string) ([]model.ModuleState, error) {
	session, err := svc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Modules, nil
}

// CompleteModule returns the updated module list and whether every module is
// now completed.
func (svc *SessionService) CompleteModule(ctx context.Context, sessionID string, moduleID int) ([]model.ModuleState, bool, error) {
	var newlyCompleted bool
	session, err := svc.store.Update(ctx, sessionID, func(s *model.Session) error {
		newlyCompleted = !s.IsCompleted(moduleID)
		return s.CompleteModule(moduleID, svc.now())
	})
	if err != nil {
		return nil, false, svc.storeError(err)
	}

	if newlyCompleted {
		modulesCompletedTotal.WithLabelValues(moduleLabel(moduleID)).Inc()
	}
	return session.Modules, session.AllCompleted(), nil
}

// SubmitQuiz records that the external quiz was finished. Answers are only
// checked for shape; scoring happens inside the quiz widget.
func (svc *SessionService) SubmitQuiz(ctx context.Context, sessionID string, submission dto.QuizSubmission) error {
	log.WithFields(log.Fields{
		"session_id": sessionID,
		"answers":    len(submission.Answers),
	}).Debug("Quiz submitted")
	return svc.markQuizCompleted(ctx, sessionID, "submit")
}

func (svc *SessionService) CompleteQuizManual(ctx context.Context, sessionID string) error {
	return svc.markQuizCompleted(ctx, sessionID, "manual")
}

func (svc *SessionService) markQuizCompleted(ctx context.Context, sessionID, method string) error {
	_, err := svc.store.Update(ctx, sessionID, func(s *model.Session) error {
		s.MarkQuizCompleted(svc.now())
		return nil
	})
	if err != nil {
		return svc.storeError(err)
	}

	quizCompletionsTotal.WithLabelValues(method).Inc()
	return nil
}

func (svc *SessionService) storeError(err error) error {
	if _, ok := shared.GetAppError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return shared.NewNotFoundError(err, "Session not found")
	case errors.Is(err, model.ErrModuleNotFound):
		return shared.NewNotFoundError(err, "Module not found")
	case errors.Is(err, model.ErrModuleLocked):
		return shared.NewBadRequestError(err, "Module is locked")
	}

	log.WithFields(log.Fields{
		"backend": svc.backend,
		"error":   err.Error(),
	}).Error("Session store failure")
	return shared.NewInternalError(err, "Session store failure")
}
