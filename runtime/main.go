package main

import (
	"os"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/lac-hong-legacy/mooc_api/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"
)

// @title MOOC Learning API
// @version 1.0
// @description Guided three module learning flow: video, quiz and comic.
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using process environment")
	}

	configureLogging(os.Getenv("LOG_LEVEL"))

	ctx, err := context.NewCtx(serviceList()...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure services")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service context stopped")
		return
	}
}

// serviceList registers backing services before their consumers.
// HttpService blocks in Start so it is always last.
func serviceList() []context.Service {
	var list []context.Service

	switch strings.ToLower(os.Getenv("SESSION_STORE")) {
	case services.SessionStoreRedis:
		list = append(list, &services.RedisService{})
	case services.SessionStoreSqlite, services.SessionStorePostgres:
		list = append(list, &services.DatabaseService{})
	}

	if strings.ToLower(os.Getenv("ASSET_PROVIDER")) == services.AssetProviderMinio {
		list = append(list, &services.MinIOService{})
	}

	return append(list,
		&services.MonitoringService{},
		&services.AssetService{},
		&services.ContentService{},
		&services.SessionService{},

		&services.HttpService{},
	)
}

func configureLogging(level string) {
	zl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		zl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(zl)

	ll, err := logrus.ParseLevel(level)
	if err != nil {
		ll = logrus.InfoLevel
	}
	logrus.SetLevel(ll)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
