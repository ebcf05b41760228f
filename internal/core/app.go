package core

import (
	"database/sql"
	"fmt"
	"log"

	"cinelog/internal/catalog"
	"cinelog/internal/config"
	"cinelog/internal/db"
	"cinelog/internal/jobs"
	"cinelog/internal/persistence"
	"cinelog/internal/session"
	"cinelog/internal/store"
	"cinelog/internal/websocket"
	"cinelog/migrations"
)

// App holds the shared components of the application: configuration, the
// local database, the two upstream API clients and the session registry.
type App struct {
	cfg        *config.Config
	database   *sql.DB
	st         *store.Store
	catalog    *catalog.Client
	cache      *catalog.Cache
	persist    *persistence.Client
	sessions   *session.Manager
	wsHub      *websocket.Hub
	jobManager *jobs.JobManager

	Version string
}

// New sets up and returns a new App instance: loads configuration, opens
// the local database, runs migrations and constructs the upstream clients.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database, migrations.FS); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	app := NewWith(cfg, database)
	log.Println("Core application setup complete.")
	return app, nil
}

// NewWith assembles an App from an already-loaded config and an open,
// migrated database. Tests use it to point the upstream clients at fake
// servers.
func NewWith(cfg *config.Config, database *sql.DB) *App {
	catalogClient := catalog.New(cfg.Catalog.BaseURL, cfg.Catalog.APIKey)

	app := &App{
		cfg:      cfg,
		database: database,
		st:       store.New(database),
		catalog:  catalogClient,
		cache:    catalog.NewCache(catalogClient),
		persist:  persistence.New(cfg.Persistence.BaseURL),
		sessions: session.NewManager(),
		wsHub:    websocket.NewHub(),
	}
	app.jobManager = jobs.NewManager(app)
	jobs.RegisterAll(app.jobManager)
	return app
}

func (a *App) Config() *config.Config           { return a.cfg }
func (a *App) DB() *sql.DB                      { return a.database }
func (a *App) Store() *store.Store              { return a.st }
func (a *App) Catalog() *catalog.Client         { return a.catalog }
func (a *App) CatalogCache() *catalog.Cache     { return a.cache }
func (a *App) Persistence() *persistence.Client { return a.persist }
func (a *App) Sessions() *session.Manager       { return a.sessions }
func (a *App) WsHub() *websocket.Hub            { return a.wsHub }
func (a *App) JobManager() *jobs.JobManager     { return a.jobManager }

// Close gracefully closes the application's resources.
func (a *App) Close() {
	if a.database != nil {
		a.database.Close()
	}
}
