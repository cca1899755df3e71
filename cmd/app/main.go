package main

import (
	"log"

	"go.uber.org/zap"
	"gorm.io/gorm"

	dbadapter "snapfeed/internal/adapters/database"
	"snapfeed/internal/adapters/httpapi"
	storageadapter "snapfeed/internal/adapters/storage"
	"snapfeed/internal/config"
	"snapfeed/internal/core/auth"
	"snapfeed/internal/core/comment"
	commentapp "snapfeed/internal/core/comment/service"
	"snapfeed/internal/core/post"
	postapp "snapfeed/internal/core/post/service"
	"snapfeed/internal/core/user"
	userapp "snapfeed/internal/core/user/service"
)

func main() {
	logger, err := config.NewLogger()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db, err := config.OpenDB(cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to connect to the database", zap.Error(err))
	}
	defer closeResources(db, logger)

	if err := db.AutoMigrate(
		&user.User{},
		&user.Subscribe{},
		&post.Post{},
		&post.MediaFile{},
		&post.Like{},
		&comment.Comment{},
	); err != nil {
		logger.Fatal("error during migrations", zap.Error(err))
	}
	logger.Info("✅ Database migrations completed")

	store, err := storageadapter.NewDiskStore(cfg.MediaRoot)
	if err != nil {
		logger.Fatal("failed to prepare media root", zap.Error(err))
	}

	userRepo := dbadapter.NewUserRepositoryDatabase(db)
	subRepo := dbadapter.NewSubscribeRepositoryDatabase(db)
	postRepo := dbadapter.NewPostRepositoryDatabase(db)
	commentRepo := dbadapter.NewCommentRepositoryDatabase(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	userSvc := userapp.NewUserService(userRepo, subRepo, tokens, cfg.BcryptCost, logger)
	postSvc := postapp.NewPostService(postRepo, userRepo, commentRepo, store, logger)
	commentSvc := commentapp.NewCommentService(commentRepo, postRepo, userRepo, logger)

	r := httpapi.SetupRoutes(userSvc, postSvc, commentSvc, tokens, userRepo, store, logger)

	logger.Info("App is running...", zap.String("port", cfg.AppPort))
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}

func closeResources(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("error closing database connection", zap.Error(err))
	}
}
