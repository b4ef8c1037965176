package gateway

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	apiv1 "github.com/Titan-M/mailsift/pkg/api/v1"
	"github.com/Titan-M/mailsift/pkg/classify"
	"github.com/Titan-M/mailsift/pkg/common"
	"github.com/Titan-M/mailsift/pkg/gmail"
	"github.com/Titan-M/mailsift/pkg/repository"
	syncsvc "github.com/Titan-M/mailsift/pkg/sync"
	"github.com/Titan-M/mailsift/pkg/types"
)

const shutdownTimeout = 15 * time.Second

type Gateway struct {
	Config      types.AppConfig
	RedisClient *common.RedisClient
	BackendRepo repository.BackendRepository
	httpServer  *http.Server
	echo        *echo.Echo
	ctx         context.Context
	cancelFunc  context.CancelFunc

	baseRouteGroup *echo.Group
	rootRouteGroup *echo.Group

	gmailClient *gmail.Client
	googleOAuth *gmail.GoogleOAuth
	classifier  *classify.Classifier
	syncService *syncsvc.Service
}

func NewGateway() (*Gateway, error) {
	configManager, err := common.NewConfigManager[types.AppConfig]()
	if err != nil {
		return nil, err
	}
	config := configManager.GetConfig()

	// Setup logging
	if config.DebugMode {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}
	if config.PrettyLogs {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	var redisClient *common.RedisClient
	var backendRepo repository.BackendRepository

	// Local mode: no Postgres configured, keep everything in memory
	if config.Database.Postgres.Host == "" {
		log.Info().Msg("running in local mode - using in-memory storage")
		backendRepo = repository.NewMemoryBackend()
	} else {
		redisClient, err = common.NewRedisClient(config.Database.Redis, common.WithClientName("MailsiftGateway"))
		if err != nil {
			return nil, err
		}

		pgBackend, err := repository.NewPostgresBackend(config.Database.Postgres)
		if err != nil {
			return nil, err
		}
		if err := pgBackend.RunMigrations(); err != nil {
			return nil, fmt.Errorf("failed to run postgres migrations: %w", err)
		}
		backendRepo = pgBackend
	}

	gmailClient := gmail.NewClient(config.Gmail)
	classifier := classify.NewClassifier(
		classify.NewBackendClient(config.Classifier),
		classify.NewGeminiClient(config.Summarizer),
	)
	pacer := syncsvc.NewDelayPacer(config.Sync.PacingDelay)
	syncService := syncsvc.New(gmailClient, classifier, backendRepo, pacer)

	ctx, cancel := context.WithCancel(context.Background())
	gateway := &Gateway{
		Config:      config,
		RedisClient: redisClient,
		BackendRepo: backendRepo,
		ctx:         ctx,
		cancelFunc:  cancel,
		gmailClient: gmailClient,
		googleOAuth: gmail.NewGoogleOAuth(config.Gmail.OAuth),
		classifier:  classifier,
		syncService: syncService,
	}

	return gateway, nil
}

func (g *Gateway) initHTTP() error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())

	g.echo = e
	g.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", g.Config.Server.Host, g.Config.Server.Port),
		Handler: e,
	}

	g.baseRouteGroup = e.Group(apiv1.HttpServerBaseRoute)
	g.rootRouteGroup = e.Group(apiv1.HttpServerRootRoute)

	return nil
}

func (g *Gateway) registerServices() error {
	// Health check works without auth
	apiv1.NewHealthGroup(g.baseRouteGroup.Group("/health"), g.BackendRepo, g.RedisClient)

	usersGroup := g.baseRouteGroup.Group("/users", apiv1.NewAuthMiddleware(g.Config.Server.AuthToken))

	apiv1.NewEmailsGroup(usersGroup.Group("/:user_id/emails"), g.BackendRepo)
	apiv1.NewSyncGroup(usersGroup.Group("/:user_id/sync"), g.BackendRepo, g.syncService, g.googleOAuth, g.RedisClient, g.Config.Sync)

	log.Info().Msg("email and sync APIs registered")
	return nil
}

// StartAsync starts the gateway server without blocking.
// Use this when embedding the gateway in another process (e.g., CLI).
func (g *Gateway) StartAsync() error {
	if err := g.initHTTP(); err != nil {
		return fmt.Errorf("failed to initialize http server: %w", err)
	}

	if err := g.registerServices(); err != nil {
		return fmt.Errorf("failed to register services: %w", err)
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", g.Config.Server.Host, g.Config.Server.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			log.Error().Err(err).Msg("failed to listen on http")
			return
		}

		if err := g.httpServer.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server error")
		}
	}()

	log.Info().
		Str("host", g.Config.Server.Host).
		Int("port", g.Config.Server.Port).
		Msg("gateway http server running")

	return nil
}

func (g *Gateway) Start() error {
	if err := g.StartAsync(); err != nil {
		return err
	}

	terminationSignal := make(chan os.Signal, 1)
	signal.Notify(terminationSignal, os.Interrupt, syscall.SIGTERM)
	<-terminationSignal

	log.Info().Msg("termination signal received. shutting down...")
	g.shutdown()

	return nil
}

// Shutdown gracefully shuts down the gateway (exported for external use)
func (g *Gateway) Shutdown() {
	g.shutdown()
}

func (g *Gateway) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return g.httpServer.Shutdown(ctx)
	})

	if g.RedisClient != nil {
		eg.Go(func() error {
			return g.RedisClient.Close()
		})
	}

	if closer, ok := g.BackendRepo.(interface{ Close() error }); ok {
		eg.Go(func() error {
			return closer.Close()
		})
	}

	if err := eg.Wait(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}

	g.cancelFunc()
}
