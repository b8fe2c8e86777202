package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	docs "github.com/lac-hong-legacy/mooc_api/docs"
	"github.com/lac-hong-legacy/mooc_api/middleware"
	"github.com/lac-hong-legacy/mooc_api/services/handlers"
	"github.com/lac-hong-legacy/mooc_api/shared"
)

type HttpService struct {
	appContext.DefaultService

	sessionSvc    handlers.SessionServiceInterface
	contentSvc    handlers.ContentServiceInterface
	assetSvc      handlers.AssetServiceInterface
	monitoringSvc *MonitoringService

	port             int
	frontendDist     string
	corsOrigins      string
	sessionRateLimit int
	sessionBackend   string
	traceRequests    bool

	limiterStorage fiber.Storage
	app            *fiber.App
}

const HTTP_SVC = "http_svc"

const defaultSessionRateLimit = 30

func NewHttpService(sessionSvc handlers.SessionServiceInterface, contentSvc handlers.ContentServiceInterface, assetSvc handlers.AssetServiceInterface, monitoringSvc *MonitoringService) *HttpService {
	return &HttpService{
		sessionSvc:       sessionSvc,
		contentSvc:       contentSvc,
		assetSvc:         assetSvc,
		monitoringSvc:    monitoringSvc,
		port:             8000,
		sessionRateLimit: defaultSessionRateLimit,
	}
}

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *appContext.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	svc.sessionRateLimit = defaultSessionRateLimit
	if limit := os.Getenv("SESSION_RATE_LIMIT"); limit != "" {
		var err error
		if svc.sessionRateLimit, err = strconv.Atoi(limit); err != nil {
			return fmt.Errorf("invalid SESSION_RATE_LIMIT: %w", err)
		}
	}

	svc.sessionBackend = strings.ToLower(os.Getenv("SESSION_STORE"))
	svc.frontendDist = os.Getenv("FRONTEND_DIST")
	svc.corsOrigins = os.Getenv("CORS_ALLOW_ORIGINS")
	svc.traceRequests = strings.EqualFold(os.Getenv("LOG_LEVEL"), "TRACE")

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.sessionSvc = svc.Service(SESSION_SVC).(*SessionService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.assetSvc = svc.Service(ASSET_SVC).(*AssetService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	if svc.sessionBackend == SessionStoreRedis {
		svc.limiterStorage = NewRedisLimiterStorage(svc.Service(REDIS_SVC).(*RedisService).GetClient())
	}

	svc.app = svc.App()

	log.WithField("port", svc.port).Info("HTTP server listening")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.ShutdownWithTimeout(10 * time.Second)
	}
}

// App builds the fiber application with every route mounted.
func (svc *HttpService) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               SERVICE_NAME,
		ErrorHandler:          svc.HandleError,
		JSONEncoder:           shared.JSONMarshal,
		JSONDecoder:           shared.JSONUnmarshal,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if svc.traceRequests {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	if svc.monitoringSvc != nil {
		app.Use(MonitoringMiddleware(svc.monitoringSvc))
		app.Get("/metrics", svc.monitoringSvc.MetricsHandler())
		app.Get("/health", svc.monitoringSvc.HealthHandler)
	}

	docs.SwaggerInfo.BasePath = "/"
	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api", middleware.CORS(middleware.CORSConfig{AllowOrigins: svc.corsOrigins}))

	sessionHandler := handlers.NewSessionHandler(svc.sessionSvc)
	contentHandler := handlers.NewContentHandler(svc.contentSvc)
	assetHandler := handlers.NewAssetHandler(svc.assetSvc)

	api.Post("/session/start", middleware.SessionRateLimit(svc.sessionRateLimit, time.Minute, svc.limiterStorage), sessionHandler.StartSession)
	api.Get("/session/:sessionId", sessionHandler.GetSession)
	api.Get("/session/:sessionId/modules", sessionHandler.GetModules)
	api.Post("/session/:sessionId/module/:moduleId/complete", sessionHandler.CompleteModule)
	api.Post("/session/:sessionId/quiz/submit", sessionHandler.SubmitQuiz)
	api.Post("/session/:sessionId/quiz/complete", sessionHandler.CompleteQuiz)

	api.Get("/module/:moduleId/content", contentHandler.GetModuleContent)

	api.Get("/videos/:filename", assetHandler.ServeVideo)
	api.Get("/comics/:filename", assetHandler.ServeComic)

	api.All("/*", func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(nil, "API endpoint not found")
	})

	svc.mountFrontend(app)

	return app
}

// mountFrontend serves the built single page app, falling back to
// index.html for client side routes.
func (svc *HttpService) mountFrontend(app *fiber.App) {
	if svc.frontendDist == "" {
		app.Get("/", func(c *fiber.Ctx) error {
			return shared.ResponseOK(c, fiber.Map{
				"message": "Frontend not built. Run 'npm run build' in frontend directory.",
			})
		})
		return
	}

	index := filepath.Join(svc.frontendDist, "index.html")
	app.Static("/", svc.frontendDist)
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile(index)
	})
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")

	return shared.ResponseOK(c, fiber.Map{"message": "pong"})
}

func (svc *HttpService) HandleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			log.WithFields(log.Fields{
				"method": c.Method(),
				"path":   c.Path(),
				"error":  err.Error(),
			}).Error("Request failed")
		}
		return writeError(c, appErr.StatusCode, appErr.Message)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return writeError(c, fiberErr.Code, fiberErr.Message)
	}

	log.WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"error":  err.Error(),
	}).Error("Unhandled request error")
	return shared.ResponseInternalError(c)
}

func writeError(c *fiber.Ctx, code int, message string) error {
	switch code {
	case fiber.StatusBadRequest:
		return shared.ResponseBadRequest(c, message)
	case fiber.StatusNotFound:
		return shared.ResponseNotFound(c, message)
	}
	return shared.ResponseError(c, code, message)
}
