package app

import (
	"fmt"
	"os"

	"github.com/scholarity/scholarity-api/api"
	"github.com/scholarity/scholarity-api/config"
	"github.com/scholarity/scholarity-api/database"
	"github.com/scholarity/scholarity-api/router"
	"github.com/scholarity/scholarity-api/services/cron"
	"github.com/scholarity/scholarity-api/services/storage"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		db, ok := store.GetDB().(*gorm.DB)
		if !ok {
			print("Warning: Failed to get database connection for cron jobs\n")
		} else {
			cronManager = cron.NewCronManager(db)
			if err := cronManager.Start(); err != nil {
				print("Warning: Failed to start cron jobs\n")
				print("Error: ", err.Error(), "\n")
				// Don't fail the app, just log the warning
			}
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Object storage for course assets; nil when not configured
	spaces, err := storage.FromEnv(getEnv)
	if err != nil {
		print("Warning: Failed to initialize object storage: ", err.Error(), "\n")
		spaces = nil
	}

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (security middleware attached inside)
	router.SetupRoutes(app, store, spaces)

	// Get the PORT & Start the Server
	return server.Run()
}
