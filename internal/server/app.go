// Package server wires the key registry server: it opens the database,
// applies migrations, and runs the gRPC endpoint, the optional HTTP gateway
// and the optional audit archiver until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/keyregistry/internal/dbx"
	"github.com/dmitrijs2005/keyregistry/internal/logging"
	"github.com/dmitrijs2005/keyregistry/internal/server/archive"
	"github.com/dmitrijs2005/keyregistry/internal/server/config"
	"github.com/dmitrijs2005/keyregistry/internal/server/gateway"
	"github.com/dmitrijs2005/keyregistry/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/keyregistry/internal/server/services"

	gs "github.com/dmitrijs2005/keyregistry/internal/server/grpc"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	registryService *services.RegistryService
	sessionService  *services.SessionService
	repomanager     repomanager.RepositoryManager
}

// openDB opens the configured database and checks it is reachable.
func openDB(ctx context.Context, c *config.Config) (*sql.DB, dbx.Dialect, error) {
	dialect, err := dbx.ParseDialect(c.DatabaseDriver)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(dialect.DriverName(), c.DatabaseDSN)
	if err != nil {
		return nil, "", fmt.Errorf("db open error: %w", err)
	}
	if dialect == dbx.SQLite {
		// one writer keeps SQLite from returning SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("db ping error: %w", err)
	}
	return db, dialect, nil
}

func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	db, dialect, err := openDB(ctx, c)
	if err != nil {
		return nil, err
	}

	m, err := repomanager.NewSQLRepositoryManager(dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	rs, err := services.NewRegistryService(db, m, c, l)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	ss := services.NewSessionService(db, m, c, l)

	return &App{
		config:          c,
		logger:          l,
		db:              db,
		registryService: rs,
		sessionService:  ss,
		repomanager:     m,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.registryService, app.sessionService)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPGateway(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gateway.NewServer(app.config.EndpointAddrHTTP, app.logger, app.registryService, app.db)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// startArchiver ships the audit journal to object storage. A failure to
// build the S3 client only disables archiving.
func (app *App) startArchiver(ctx context.Context) {
	client, err := archive.NewS3Client(ctx, app.config)
	if err != nil {
		app.logger.Error(ctx, "archiver disabled", "error", err.Error())
		return
	}

	a := archive.NewArchiver(app.db, app.repomanager, client, app.config, app.logger)
	_ = a.Run(ctx)
}

// Run starts every configured component and blocks until ctx is cancelled,
// a shutdown signal arrives or a listener fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrHTTP != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHTTPGateway(ctx, cancelFunc)
		}()
	}

	if app.config.S3Bucket != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startArchiver(ctx)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err.Error())
	}
	app.logger.Info(context.Background(), "App stopped")
}
