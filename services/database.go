package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseService opens the SQL session backing. The driver follows
// SESSION_STORE: "sqlite" reads DB_DATABASE, "postgres" reads DATABASE_URL or
// the individual DB_* variables.
type DatabaseService struct {
	appContext.DefaultService
	db *gorm.DB

	driver   string
	database string
}

const DATABASE_SVC = "database_svc"

func (ds DatabaseService) Id() string {
	return DATABASE_SVC
}

// Db Access to raw gorm db
func (ds DatabaseService) Db() *gorm.DB {
	return ds.db
}

func (ds *DatabaseService) Configure(ctx *appContext.Context) error {
	ds.driver = strings.ToLower(os.Getenv("SESSION_STORE"))

	switch ds.driver {
	case SessionStoreSqlite:
		ds.database = os.Getenv("DB_DATABASE")
		if ds.database == "" {
			ds.database = "mooc.db"
		}
	case SessionStorePostgres:
		ds.database = PostgresDSNFromEnv()
	default:
		return fmt.Errorf("database service needs SESSION_STORE=sqlite|postgres, got %q", ds.driver)
	}

	return ds.DefaultService.Configure(ctx)
}

// PostgresDSNFromEnv prefers DATABASE_URL over the individual DB_* variables.
func PostgresDSNFromEnv() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		envOr("DB_HOST", "localhost"),
		envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", "postgres"),
		envOr("DB_NAME", "mooc_api"),
		envOr("DB_PORT", "5432"),
		envOr("DB_SSLMODE", "disable"),
		envOr("DB_TIMEZONE", "UTC"),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Start opens the connection, retrying with backoff.
func (ds *DatabaseService) Start() (err error) {
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		ds.db, err = OpenDatabase(ds.driver, ds.database)
		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					break
				}
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	log.WithField("driver", ds.driver).Info("Database connected")
	return nil
}

func (ds *DatabaseService) Shutdown() {
	if ds.db == nil {
		return
	}
	if sqlDB, err := ds.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// sqliteBusyTimeoutMs bounds how long a writer waits on another
// connection's lock before failing with "database is locked".
const sqliteBusyTimeoutMs = 5000

func OpenDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case SessionStoreSqlite:
		dialector = sqlite.Open(sqliteDSN(dsn))
	case SessionStorePostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	if driver == SessionStoreSqlite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows one writer; a single connection makes concurrent
		// transactions queue in the pool instead of failing on the file lock
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d", dsn, sep, sqliteBusyTimeoutMs)
}
