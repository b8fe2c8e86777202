package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lac-hong-legacy/mooc_api/seed/seeders"
	"github.com/lac-hong-legacy/mooc_api/services"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	var (
		mode   = flag.String("type", "all", "Type of seeding: all, reseed")
		driver = flag.String("driver", "", "Database driver: sqlite or postgres (overrides SESSION_STORE)")
		dsn    = flag.String("db", "", "SQLite path or postgres DSN (overrides DB_DATABASE / DATABASE_URL)")
		help   = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	dbDriver := strings.ToLower(*driver)
	if dbDriver == "" {
		dbDriver = strings.ToLower(os.Getenv("SESSION_STORE"))
	}
	if dbDriver != services.SessionStorePostgres {
		dbDriver = services.SessionStoreSqlite
	}

	databaseDSN := *dsn
	if databaseDSN == "" {
		if dbDriver == services.SessionStorePostgres {
			databaseDSN = services.PostgresDSNFromEnv()
		} else if databaseDSN = os.Getenv("DB_DATABASE"); databaseDSN == "" {
			databaseDSN = "mooc.db"
		}
	}

	db, err := services.OpenDatabase(dbDriver, databaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.WithField("driver", dbDriver).Info("Connected to database")

	mainSeeder := seeders.NewMainSeeder(db)
	ctx := context.Background()

	switch *mode {
	case "all":
		err = mainSeeder.SeedAll(ctx)
	case "reseed":
		err = mainSeeder.Reseed(ctx)
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all' or 'reseed'", *mode)
	}
	if err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Infof("Seeded demo sessions: %s", strings.Join(seeders.DemoSessionIDs(), ", "))
}

func showHelp() {
	log.Info(`
Demo session seeder

Usage: go run ./seed [flags]

Flags:
  -type string     all (default) or reseed
  -driver string   sqlite or postgres (default from SESSION_STORE, else sqlite)
  -db string       SQLite path or postgres DSN
  -help            Show this help message

Environment Variables:
  SESSION_STORE  - sqlite or postgres
  DB_DATABASE    - SQLite path (default: mooc.db)
  DATABASE_URL   - postgres DSN, or DB_HOST/DB_USER/DB_PASSWORD/DB_NAME/DB_PORT
`)
}
