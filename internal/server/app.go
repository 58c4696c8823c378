// Package server assembles the friendbook server: logger, database pool,
// schema migrations, user service and the gRPC endpoint, and runs it until
// the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/friendbook/internal/cryptox"
	"github.com/dmitrijs2005/friendbook/internal/logging"
	"github.com/dmitrijs2005/friendbook/internal/server/config"
	"github.com/dmitrijs2005/friendbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/friendbook/internal/server/services"

	gs "github.com/dmitrijs2005/friendbook/internal/server/grpc"
)

// seams for tests
var (
	openDB         = repomanager.OpenDB
	newRepoManager = func() repomanager.RepositoryManager { return repomanager.NewPostgresRepositoryManager() }
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
}

// NewApp opens the database, applies pending migrations and builds the
// services. Logs go to out.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, out)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	if err := cryptox.ValidateCost(c.BcryptCost); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	logger.Info(ctx, "Database ready")

	us := services.NewUserService(db, rm, cryptox.NewBcryptHasher(c.BcryptCost), c)

	return &App{config: c, logger: logger, db: db, userService: us}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves gRPC until ctx is cancelled or a termination signal arrives,
// then closes the database pool.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.config.SecretKey)
	runErr := s.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", runErr)
	}

	if err := app.db.Close(); err != nil && runErr == nil {
		return err
	}
	app.logger.Info(ctx, "App stopped")
	return runErr
}
