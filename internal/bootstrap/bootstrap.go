package bootstrap

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/fathima-sithara/social-connect/internal/config"
	"github.com/fathima-sithara/social-connect/internal/database"
	"github.com/fathima-sithara/social-connect/internal/handlers"
	"github.com/fathima-sithara/social-connect/internal/platform"
	"github.com/fathima-sithara/social-connect/internal/repository"
	"github.com/fathima-sithara/social-connect/internal/services"
	"github.com/fathima-sithara/social-connect/internal/storage"
	"github.com/fathima-sithara/social-connect/internal/utils"
)

type AppContext struct {
	Config  *config.Config
	Logger  *zap.SugaredLogger
	Mongo   *mongo.Client
	Redis   *redis.Client
	JWT     *utils.JWTManager
	Handler *handlers.Handler
}

type CleanupFn func(context.Context)

// Init wires config, logger, stores, the platform adapter registry and
// the service layer, returning the assembled handler plus a cleanup
// function for shutdown.
func Init(configPath string) (*AppContext, CleanupFn, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := utils.NewLogger(cfg.App.Env == "development")
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("starting service in %s environment", cfg.App.Env)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		return nil, nil, err
	}

	jwtMgr, err := utils.NewJWTManager(jwtSecret(cfg), cfg.AccessTTL)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewLocalStore(cfg.Upload.Dir, logger)
	if err != nil {
		return nil, nil, err
	}

	publishers := platform.Registry{
		platform.Twitter: platform.NewTwitter(platform.TwitterConfig{
			ConsumerKey:    cfg.Platforms.Twitter.ConsumerKey,
			ConsumerSecret: cfg.Platforms.Twitter.ConsumerSecret,
			Timeout:        cfg.PlatformTimeout,
		}),
		platform.LinkedIn: platform.NewLinkedIn(platform.LinkedInConfig{Timeout: cfg.PlatformTimeout}),
		platform.Facebook: platform.NewFacebook(platform.FacebookConfig{Timeout: cfg.PlatformTimeout}),
		platform.TikTok:   platform.NewTikTok(platform.TikTokConfig{Timeout: cfg.PlatformTimeout}),
	}

	userRepo := repository.NewMongoUserRepo(db, cfg.Mongo.UsersCollection)
	postRepo := repository.NewMongoPostRepo(db, cfg.Mongo.PostsCollection)

	authSvc := services.NewAuthService(userRepo, rdb, jwtMgr, cfg.RefreshTTL, logger)
	accountSvc := services.NewAccountService(userRepo, publishers, logger)
	publishSvc := services.NewPublishService(userRepo, postRepo, publishers, store, cfg.CleanupGrace, logger)

	h := handlers.NewHandler(authSvc, accountSvc, publishSvc, store, logger)

	app := &AppContext{
		Config:  cfg,
		Logger:  logger,
		Mongo:   mongoClient,
		Redis:   rdb,
		JWT:     jwtMgr,
		Handler: h,
	}
	cleanup := func(ctx context.Context) {
		if cerr := logger.Sync(); cerr != nil {
			log.Printf("logger sync: %v", cerr)
		}
		if cerr := mongoClient.Disconnect(ctx); cerr != nil {
			logger.Errorf("mongodb disconnect: %v", cerr)
		}
		if cerr := rdb.Close(); cerr != nil {
			logger.Errorf("redis close: %v", cerr)
		}
	}
	return app, cleanup, nil
}

func jwtSecret(cfg *config.Config) string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return cfg.JWT.Secret
}
