package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/openhacks/internal/app/auth"
	appControllers "github.com/yigit/openhacks/internal/app/controllers"
	appMigrations "github.com/yigit/openhacks/internal/app/migrations"
	appRepos "github.com/yigit/openhacks/internal/app/repositories"
	appRoutes "github.com/yigit/openhacks/internal/app/routes"
	appServices "github.com/yigit/openhacks/internal/app/services"
	"github.com/yigit/openhacks/internal/config"
	"github.com/yigit/openhacks/internal/db"
	appMiddleware "github.com/yigit/openhacks/internal/middleware"
	pkgAuth "github.com/yigit/openhacks/internal/pkg/auth"
	"github.com/yigit/openhacks/internal/pkg/filestorage"
	"github.com/yigit/openhacks/internal/pkg/helpers"
	"github.com/yigit/openhacks/internal/pkg/logger"
	"github.com/yigit/openhacks/internal/pkg/relay"
	"github.com/yigit/openhacks/internal/pkg/search"
	"github.com/yigit/openhacks/internal/pkg/websocket"
	"github.com/yigit/openhacks/internal/seed"
)

// relayBackend both publishes announcements and feeds them back to the hub
type relayBackend interface {
	relay.Publisher
	relay.Subscriber
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos         *appRepos.Repositories
	Submissions   *appRepos.SubmissionStore
	Announcements *appRepos.AnnouncementStore

	AuthzService *appAuth.AuthorizationService
	Verifier     *pkgAuth.IdentityVerifier
	FileStorage  *filestorage.LocalStorage
	SearchIndex  search.Index
	Relay        relayBackend
	Hub          *websocket.Hub
	Bridge       *relay.Bridge

	IdentityService     appServices.IdentityService
	EventService        appServices.EventService
	RegistrationService appServices.RegistrationService
	TeamService         appServices.TeamService
	InviteService       appServices.InviteService
	SubmissionService   appServices.SubmissionService
	JudgingService      appServices.JudgingService
	AnnouncementService appServices.AnnouncementService
	ProfileService      appServices.ProfileService

	EventController        *appControllers.EventController
	RegistrationController *appControllers.RegistrationController
	TeamController         *appControllers.TeamController
	SubmissionController   *appControllers.SubmissionController
	JudgingController      *appControllers.JudgingController
	AnnouncementController *appControllers.AnnouncementController
	ProfileController      *appControllers.ProfileController
	WSHandler              *websocket.Handler

	AuthMiddleware *appMiddleware.AuthMiddleware
	RateLimiter    *appMiddleware.RateLimiter
	Logger         zerolog.Logger

	natsConn *nats.Conn
	stopHub  context.CancelFunc
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the relational store connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, appMigrations.Files())
	if err := migrator.Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// SetupDocumentStore connects to MongoDB
func SetupDocumentStore(cfg *config.Config, lgr zerolog.Logger) (*db.MongoDB, error) {
	lgr.Info().Str("database", cfg.Mongo.Database).Msg("Establishing document store connection...")
	mongoDB, err := db.NewMongoDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to document store")
		return nil, err
	}
	lgr.Info().Msg("Document store connection successfully established.")
	return mongoDB, nil
}

// BuildDependencies initializes stores, infrastructure, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, mongoDB *db.MongoDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deps.Repos = appRepos.NewRepositories(database.Pool)
	deps.Submissions = appRepos.NewSubmissionStore(mongoDB.Database)
	deps.Announcements = appRepos.NewAnnouncementStore(mongoDB.Database)
	if err := deps.Submissions.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create submission indexes: %w", err)
	}
	if err := deps.Announcements.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create announcement indexes: %w", err)
	}

	var err error
	deps.Verifier, err = pkgAuth.NewIdentityVerifier(pkgAuth.IdentityConfig{
		HMACSecret:   cfg.Identity.HMACSecret,
		PublicKeyPEM: cfg.Identity.PublicKeyPEM,
		Issuer:       cfg.Identity.Issuer,
		Audience:     cfg.Identity.Audience,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity verifier: %w", err)
	}

	// The URL prefix must match the static file serving route
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.BaseURL()+"/uploads", int64(cfg.Server.MaxUploadMB)<<20)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.SearchIndex = setupSearch(ctx, cfg, lgr)

	if err := deps.setupRelay(cfg, lgr); err != nil {
		return nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	deps.stopHub = stopHub
	deps.Hub = websocket.NewHub(logger.Component("websocket"))
	go deps.Hub.Run(hubCtx)

	deps.Bridge = relay.NewBridge(deps.Relay, deps.Hub, logger.Component("relay"))
	if err := deps.Bridge.Start(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to start relay bridge: %w", err)
	}

	// Initialize services
	repos := deps.Repos
	deps.AuthzService = appAuth.NewAuthorizationService(repos.EventRepository, repos.TeamRepository)

	deps.IdentityService = appServices.NewIdentityService(repos.UserRepository, logger.Component("identity"))
	deps.EventService = appServices.NewEventService(
		repos.EventRepository,
		repos.UserRepository,
		repos.RegistrationRepository,
		repos.TeamRepository,
		deps.Submissions,
		deps.Announcements,
		deps.AuthzService,
		deps.SearchIndex,
		logger.Component("events"),
	)
	deps.RegistrationService = appServices.NewRegistrationService(
		repos.EventRepository,
		repos.RegistrationRepository,
		repos.TeamRepository,
		repos.UserRepository,
		deps.AuthzService,
		time.Now,
		logger.Component("registrations"),
	)
	deps.TeamService = appServices.NewTeamService(
		repos.EventRepository,
		repos.TeamRepository,
		repos.RegistrationRepository,
		repos.UserRepository,
		deps.AuthzService,
		time.Now,
		logger.Component("teams"),
	)
	deps.InviteService = appServices.NewInviteService(
		repos.EventRepository,
		repos.TeamRepository,
		repos.InviteRepository,
		repos.RegistrationRepository,
		repos.UserRepository,
		deps.AuthzService,
		time.Now,
		logger.Component("invites"),
	)
	deps.SubmissionService = appServices.NewSubmissionService(
		repos.EventRepository,
		repos.TeamRepository,
		deps.Submissions,
		deps.AuthzService,
		cfg.Submissions.AllowedHosts,
		logger.Component("submissions"),
	)
	deps.JudgingService = appServices.NewJudgingService(
		repos.EventRepository,
		repos.RoundRepository,
		repos.ScoreRepository,
		deps.Submissions,
		repos.UserRepository,
		deps.AuthzService,
		appServices.ScoreBounds{Min: cfg.Scoring.Min, Max: cfg.Scoring.Max},
		logger.Component("judging"),
	)
	deps.AnnouncementService = appServices.NewAnnouncementService(
		repos.EventRepository,
		deps.Announcements,
		deps.Relay,
		deps.AuthzService,
		logger.Component("announcements"),
	)
	deps.ProfileService = appServices.NewProfileService(
		repos.UserRepository,
		repos.EventRepository,
		repos.RegistrationRepository,
		deps.FileStorage,
		logger.Component("profile"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Verifier, deps.IdentityService)
	deps.RateLimiter = appMiddleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	deps.EventController = appControllers.NewEventController(deps.EventService)
	deps.RegistrationController = appControllers.NewRegistrationController(deps.RegistrationService)
	deps.TeamController = appControllers.NewTeamController(deps.TeamService, deps.InviteService)
	deps.SubmissionController = appControllers.NewSubmissionController(deps.SubmissionService)
	deps.JudgingController = appControllers.NewJudgingController(deps.JudgingService)
	deps.AnnouncementController = appControllers.NewAnnouncementController(deps.AnnouncementService)
	deps.ProfileController = appControllers.NewProfileController(deps.ProfileService)
	deps.WSHandler = websocket.NewHandler(deps.Hub, repos.EventRepository, logger.Component("websocket"))

	if cfg.Database.Seed {
		// Log the error but don't fail the startup
		if err := seed.CreateDefaultData(ctx, repos, deps.Verifier, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
		}
	}

	return deps, nil
}

// setupRelay picks NATS when enabled, otherwise the in-process relay
func (deps *Dependencies) setupRelay(cfg *config.Config, lgr zerolog.Logger) error {
	if !cfg.NATS.Enabled {
		lgr.Info().Msg("NATS disabled, relaying announcements in process")
		deps.Relay = relay.NewLocalPublisher()
		return nil
	}

	conn, err := relay.Connect(cfg.NATS.URL, logger.Component("nats"))
	if err != nil {
		lgr.Error().Err(err).Str("url", cfg.NATS.URL).Msg("Failed to connect to NATS")
		return fmt.Errorf("failed to connect to nats: %w", err)
	}
	deps.natsConn = conn
	deps.Relay = relay.NewNATSPublisher(conn, cfg.NATS.SubjectPrefix, relay.BreakerConfig{
		Name:             "nats-announcements",
		FailureThreshold: uint32(cfg.NATS.BreakerFailures),
		MaxRequests:      uint32(cfg.NATS.BreakerHalfOpens),
		Timeout:          helpers.ParseDuration(cfg.NATS.BreakerTimeout, 30*time.Second),
	}, logger.Component("relay"))
	lgr.Info().Str("url", cfg.NATS.URL).Msg("Relaying announcements through NATS")
	return nil
}

// setupSearch returns the Elasticsearch index, or the disabled index when search is off or unreachable
func setupSearch(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) search.Index {
	if !cfg.Search.Enabled {
		lgr.Info().Msg("Search index disabled, falling back to database search")
		return search.Disabled{}
	}

	client, err := search.NewClient(cfg.Search.Addresses)
	if err != nil {
		lgr.Warn().Err(err).Msg("Search index unavailable, falling back to database search")
		return search.Disabled{}
	}

	index := search.NewElasticIndex(client, cfg.Search.Index, logger.Component("search"))
	if err := index.EnsureIndex(ctx); err != nil {
		lgr.Warn().Err(err).Str("index", cfg.Search.Index).Msg("Search index unavailable, falling back to database search")
		return search.Disabled{}
	}
	lgr.Info().Str("index", cfg.Search.Index).Msg("Search index ready")
	return index
}

// Close stops the relay bridge, the hub and the NATS connection
func (deps *Dependencies) Close() {
	if deps.Bridge != nil {
		deps.Bridge.Stop()
	}
	if deps.stopHub != nil {
		deps.stopHub()
		<-deps.Hub.Done()
	}
	if deps.natsConn != nil {
		if err := deps.natsConn.Drain(); err != nil {
			deps.Logger.Warn().Err(err).Msg("Failed to drain NATS connection")
		}
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.MaxMultipartMemory = deps.FileStorage.MaxBytes()
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.Metrics(),
		appMiddleware.CORS(cfg.Server.CORSOrigins),
	)
	router.NoRoute(appMiddleware.NoRoute)

	appRoutes.SetupSwagger(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	setupStaticFileServing(router, cfg, lgr)

	appRoutes.SetupRouter(router,
		deps.EventController,
		deps.RegistrationController,
		deps.TeamController,
		deps.SubmissionController,
		deps.JudgingController,
		deps.AnnouncementController,
		deps.ProfileController,
		deps.WSHandler,
		deps.AuthMiddleware,
		deps.RateLimiter,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

// setupStaticFileServing serves uploaded files under /uploads
func setupStaticFileServing(router *gin.Engine, cfg *config.Config, lgr zerolog.Logger) {
	uploadPath := cfg.Server.StoragePath

	if _, err := os.Stat(uploadPath); os.IsNotExist(err) {
		if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
			lgr.Error().Err(err).Str("path", uploadPath).Msg("Failed to create uploads directory")
			return
		}
	}

	router.Static("/uploads", uploadPath)
	lgr.Info().Str("path", uploadPath).Msg("Static file serving configured for uploads directory")
}
