package handlers

import (
	"context"

	"github.com/lac-hong-legacy/mooc_api/dto"
	"github.com/lac-hong-legacy/mooc_api/model"
)

type SessionServiceInterface interface {
	CreateSession(ctx context.Context, userName string) (*model.Session, error)
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	GetModules(ctx context.Context, sessionID string) ([]model.ModuleState, error)
	CompleteModule(ctx context.Context, sessionID string, moduleID int) ([]model.ModuleState, bool, error)
	SubmitQuiz(ctx context.Context, sessionID string, submission dto.QuizSubmission) error
	CompleteQuizManual(ctx context.Context, sessionID string) error
}

type ContentServiceInterface interface {
	GetModuleContent(ctx context.Context, moduleID int) (interface{}, error)
}

type AssetServiceInterface interface {
	Resolve(ctx context.Context, kind, filename string) (*dto.AssetLocation, error)
}
