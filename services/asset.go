package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/mooc_api/dto"
	"github.com/lac-hong-legacy/mooc_api/shared"
	log "github.com/sirupsen/logrus"
)

const (
	AssetProviderLocal = "local"
	AssetProviderBlob  = "blob"
	AssetProviderMinio = "minio"

	defaultBlobBaseURL = "https://odlwebsitestorage.blob.core.windows.net"
)

var errAssetNotFound = errors.New("asset not found")

var assetContentTypes = map[string]string{
	shared.AssetKindVideos: "video/mp4",
	shared.AssetKindComics: "image/jpeg",
}

var assetNotFoundMessages = map[string]string{
	shared.AssetKindVideos: "Video not found",
	shared.AssetKindComics: "Comic image not found",
}

// AssetProvider locates media files. PublicURL is what content payloads
// embed; Locate decides how a request for the file is answered.
type AssetProvider interface {
	PublicURL(kind, filename string) string
	Locate(ctx context.Context, kind, filename string) (*dto.AssetLocation, error)
}

type AssetService struct {
	appContext.DefaultService

	providerName  string
	staticDir     string
	blobBaseURL   string
	presignExpiry time.Duration

	provider AssetProvider
}

const ASSET_SVC = "asset_svc"

func NewAssetService(provider AssetProvider) *AssetService {
	return &AssetService{provider: provider}
}

func (svc AssetService) Id() string {
	return ASSET_SVC
}

func (svc *AssetService) Configure(ctx *appContext.Context) error {
	svc.providerName = strings.ToLower(os.Getenv("ASSET_PROVIDER"))
	if svc.providerName == "" {
		svc.providerName = AssetProviderLocal
	}

	svc.staticDir = os.Getenv("STATIC_DIR")
	if svc.staticDir == "" {
		svc.staticDir = "./static"
	}

	svc.blobBaseURL = os.Getenv("BLOB_BASE_URL")
	if svc.blobBaseURL == "" {
		svc.blobBaseURL = defaultBlobBaseURL
	}

	svc.presignExpiry = time.Hour
	if v := os.Getenv("MINIO_PRESIGN_EXPIRY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid MINIO_PRESIGN_EXPIRY: %w", err)
		}
		svc.presignExpiry = d
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *AssetService) Start() error {
	switch svc.providerName {
	case AssetProviderLocal:
		svc.provider = NewLocalAssetProvider(svc.staticDir)
	case AssetProviderBlob:
		svc.provider = NewBlobAssetProvider(svc.blobBaseURL)
	case AssetProviderMinio:
		svc.provider = NewMinioAssetProvider(svc.Service(MINIO_SVC).(*MinIOService), svc.presignExpiry)
	default:
		return errors.New("unknown ASSET_PROVIDER: " + svc.providerName)
	}

	log.WithField("provider", svc.providerName).Info("Asset provider ready")
	return nil
}

func (svc *AssetService) PublicURL(kind, filename string) string {
	return svc.provider.PublicURL(kind, filename)
}

// Exists reports whether the file can be served; provider failures other
// than a missing file are returned as errors.
func (svc *AssetService) Exists(ctx context.Context, kind, filename string) (bool, error) {
	_, err := svc.Resolve(ctx, kind, filename)
	if err == nil {
		return true, nil
	}
	if appErr, ok := shared.GetAppError(err); ok && appErr.StatusCode == 404 {
		return false, nil
	}
	return false, err
}

func (svc *AssetService) Resolve(ctx context.Context, kind, filename string) (*dto.AssetLocation, error) {
	notFound, known := assetNotFoundMessages[kind]
	if !known {
		return nil, shared.NewNotFoundError(errAssetNotFound, "Asset not found")
	}
	if !validAssetName(filename) {
		return nil, shared.NewNotFoundError(errAssetNotFound, notFound)
	}

	location, err := svc.provider.Locate(ctx, kind, filename)
	if errors.Is(err, errAssetNotFound) {
		return nil, shared.NewNotFoundError(err, notFound)
	}
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to locate asset")
	}
	return location, nil
}

// validAssetName only admits a single path element.
func validAssetName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

func apiAssetPath(kind, filename string) string {
	return "/api/" + kind + "/" + filename
}

type LocalAssetProvider struct {
	root string
}

func NewLocalAssetProvider(root string) *LocalAssetProvider {
	return &LocalAssetProvider{root: root}
}

func (p *LocalAssetProvider) PublicURL(kind, filename string) string {
	return apiAssetPath(kind, filename)
}

func (p *LocalAssetProvider) Locate(_ context.Context, kind, filename string) (*dto.AssetLocation, error) {
	path := filepath.Join(p.root, kind, filename)

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, errAssetNotFound
	}
	if err != nil {
		return nil, err
	}

	return &dto.AssetLocation{
		Kind:        kind,
		Filename:    filename,
		ContentType: assetContentTypes[kind],
		FilePath:    path,
	}, nil
}

// BlobAssetProvider points at a public blob container laid out as
// <base>/<kind>/<filename>. Existence is left to the blob host.
type BlobAssetProvider struct {
	baseURL string
}

func NewBlobAssetProvider(baseURL string) *BlobAssetProvider {
	return &BlobAssetProvider{baseURL: strings.TrimRight(baseURL, "/")}
}

func (p *BlobAssetProvider) PublicURL(kind, filename string) string {
	return p.baseURL + "/" + kind + "/" + filename
}

func (p *BlobAssetProvider) Locate(_ context.Context, kind, filename string) (*dto.AssetLocation, error) {
	return &dto.AssetLocation{
		Kind:        kind,
		Filename:    filename,
		ContentType: assetContentTypes[kind],
		RedirectURL: p.PublicURL(kind, filename),
	}, nil
}

// MinioAssetProvider redirects to short lived presigned URLs, so payloads
// keep pointing at the API route.
type MinioAssetProvider struct {
	minio  *MinIOService
	expiry time.Duration
}

func NewMinioAssetProvider(minioSvc *MinIOService, expiry time.Duration) *MinioAssetProvider {
	return &MinioAssetProvider{minio: minioSvc, expiry: expiry}
}

func (p *MinioAssetProvider) PublicURL(kind, filename string) string {
	return apiAssetPath(kind, filename)
}

func (p *MinioAssetProvider) Locate(ctx context.Context, kind, filename string) (*dto.AssetLocation, error) {
	objectName := kind + "/" + filename

	info, err := p.minio.GetFileInfo(ctx, objectName)
	if errors.Is(err, errObjectNotFound) {
		return nil, errAssetNotFound
	}
	if err != nil {
		return nil, err
	}

	presigned, err := p.minio.GetFileURL(ctx, objectName, p.expiry)
	if err != nil {
		return nil, err
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = assetContentTypes[kind]
	}

	return &dto.AssetLocation{
		Kind:        kind,
		Filename:    filename,
		ContentType: contentType,
		RedirectURL: presigned,
	}, nil
}
