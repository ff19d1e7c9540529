package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"

	"FinSight/internal/domain/repository"
	"FinSight/internal/handler/api"
	"FinSight/internal/session"
	"FinSight/pkg/config"
	xhttp "FinSight/pkg/http"
	applogger "FinSight/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server, session store and
// event sink, with graceful shutdown on SIGINT/SIGTERM.
type App struct {
	cfg            *config.Config
	logger         *applogger.Logger
	advisorHandler *api.AdvisorHandler
	streamHandler  *api.StreamHandler
	sessions       *session.Store
	sink           repository.EventSink
	httpServer     *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	advisorHandler *api.AdvisorHandler,
	streamHandler *api.StreamHandler,
	sessions *session.Store,
	sink repository.EventSink,
) *App {
	return &App{
		cfg:            cfg,
		logger:         logger,
		advisorHandler: advisorHandler,
		streamHandler:  streamHandler,
		sessions:       sessions,
		sink:           sink,
	}
}

type routes struct {
	handlers []xhttp.Handler
}

func (r routes) RegisterRoutes(e *echo.Echo) {
	for _, h := range r.handlers {
		h.RegisterRoutes(e)
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	handlers := []xhttp.Handler{a.advisorHandler}
	if a.cfg.Stream.Enabled {
		handlers = append(handlers, a.streamHandler)
	}

	a.httpServer = xhttp.NewServer(routes{handlers: handlers},
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("sink", a.cfg.Sink.Type),
		applogger.Bool("stream", a.cfg.Stream.Enabled),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	a.sessions.Close()

	if err := a.sink.Close(); err != nil {
		a.logger.Warn("event sink close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
