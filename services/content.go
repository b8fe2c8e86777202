package services

import (
	"context"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/mooc_api/dto"
	"github.com/lac-hong-legacy/mooc_api/model"
	"github.com/lac-hong-legacy/mooc_api/shared"
)

const (
	videoFilename = "animation-odl.MP4"
	quizViewURL   = "https://view.genially.com/682cd17f7e26505a343ccfa1"
	quizIframe    = `<div style="width: 100%;"><div style="position: relative; padding-bottom: 56.25%; padding-top: 0; height: 0;"><iframe title="Millionaire Quiz" frameborder="0" width="1200px" height="675px" style="position: absolute; top: 0; left: 0; width: 100%; height: 100%;" src="` + quizViewURL + `" type="text/html" allowscriptaccess="always" allowfullscreen="true" scrolling="yes" allownetworking="all"></iframe> </div> </div>`
)

var comicPages = []struct {
	title       string
	description string
	filename    string
}{
	{"A New Friend", "Sarah is new to the community and feels nervous about making connections.", "comic-1.jpeg"},
	{"Building Bridges", "The community welcomes Sarah with open arms and understanding.", "comic-2.jpeg"},
	{"Growing Together", "Through shared activities, new friendships begin to bloom.", "comic-3.jpeg"},
	{"Supporting Each Other", "The community comes together to celebrate their diversity.", "comic-4.jpeg"},
}

type assetLocator interface {
	PublicURL(kind, filename string) string
	Exists(ctx context.Context, kind, filename string) (bool, error)
}

// ContentService serves the fixed payload behind each module.
type ContentService struct {
	appContext.DefaultService
	assets assetLocator
}

const CONTENT_SVC = "content_svc"

func NewContentService(assets assetLocator) *ContentService {
	return &ContentService{assets: assets}
}

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentService) Start() error {
	svc.assets = svc.Service(ASSET_SVC).(*AssetService)
	return nil
}

func (svc *ContentService) GetModuleContent(ctx context.Context, moduleID int) (interface{}, error) {
	module, ok := model.LookupModule(moduleID)
	if !ok {
		return nil, shared.NewNotFoundError(model.ErrModuleNotFound, "Module not found")
	}

	switch module.Type {
	case model.ModuleTypeVideo:
		return svc.videoContent(ctx)
	case model.ModuleTypeQuiz:
		return svc.quizContent(), nil
	case model.ModuleTypeComic:
		return svc.comicContent(), nil
	}

	return nil, shared.NewNotFoundError(model.ErrModuleNotFound, "Module not found")
}

func (svc *ContentService) videoContent(ctx context.Context) (*dto.VideoContentResponse, error) {
	exists, err := svc.assets.Exists(ctx, shared.AssetKindVideos, videoFilename)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewNotFoundError(errAssetNotFound, "Video file not found")
	}

	return &dto.VideoContentResponse{
		Type:        model.ModuleTypeVideo,
		Title:       "Understanding Peace",
		Description: "Educational video about promoting peace and understanding",
		VideoURL:    svc.assets.PublicURL(shared.AssetKindVideos, videoFilename),
		Filename:    videoFilename,
	}, nil
}

func (svc *ContentService) quizContent() *dto.QuizContentResponse {
	return &dto.QuizContentResponse{
		Type:             model.ModuleTypeQuiz,
		Title:            "Millionaire Quiz: Peace Knowledge",
		Description:      "Test your understanding with this interactive millionaire-style quiz",
		QuizType:         shared.QuizTypeGenially,
		IframeURL:        quizViewURL,
		IframeHTML:       quizIframe,
		CompletionMethod: shared.CompletionMethodManual,
	}
}

func (svc *ContentService) comicContent() *dto.ComicContentResponse {
	pages := make([]dto.ComicPage, len(comicPages))
	for i, p := range comicPages {
		pages[i] = dto.ComicPage{
			ID:          i + 1,
			Title:       p.title,
			Description: p.description,
			ImageURL:    svc.assets.PublicURL(shared.AssetKindComics, p.filename),
		}
	}

	return &dto.ComicContentResponse{
		Type:  model.ModuleTypeComic,
		Title: "Visual Journey: The Power of Unity",
		Pages: pages,
	}
}
