package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gatherly/gatherly/internal/config"
	"github.com/gatherly/gatherly/internal/database"
	"github.com/gatherly/gatherly/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, database, router, and server lifecycle.
type Application struct {
	cfg       config.Application
	connector *database.Connector
	router    *mux.Router
	srv       *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
// The database connection itself is not opened here: the Connector hands it
// out lazily on first use.
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	connector := database.NewConnector(cfg.Database.URI)

	r := mux.NewRouter()

	// Build dependencies (services, handlers...)
	deps := BuildDependencies(connector)

	// Middleware chain
	SetupMiddleware(r)

	// Routes
	RegisterRoutes(r, deps)

	// Frontend
	if cfg.Frontend.Enabled {
		frontend := rest.NewFrontendHandler("frontend", "index.html")
		r.PathPrefix("/").Handler(frontend)
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, connector: connector, router: r, srv: srv}, nil
}

// Run verifies connectivity, applies migrations, and serves HTTP. A missing
// database URI fails here with the configuration error, before the server
// starts accepting requests.
func (a *Application) Run() error {
	if _, err := a.connector.Acquire(context.Background()); err != nil {
		return err
	}
	if err := database.Migrate(a.cfg.Database.URI); err != nil {
		return err
	}

	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}

// Shutdown stops the HTTP server and closes the database handle.
func (a *Application) Shutdown(ctx context.Context) error {
	if err := a.srv.Shutdown(ctx); err != nil {
		return err
	}
	return a.connector.Shutdown()
}
