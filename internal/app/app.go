package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/khabarhub/khabar/internal/config"
	"github.com/khabarhub/khabar/internal/db"
	"github.com/khabarhub/khabar/internal/markdown"
	"github.com/khabarhub/khabar/internal/repository"
	"github.com/khabarhub/khabar/internal/service"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	AuthService    *service.AuthService
	UserService    *service.UserService
	PostService    *service.PostService
	CommentService *service.CommentService
	EmailService   *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	postRepository := repository.NewPostRepository(database)
	commentRepository := repository.NewCommentRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.ClientURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
		cfg.VerifyCodeExpiry,
		cfg.ResetTokenExpiry,
	)
	userService := service.NewUserService(userRepository, emailService)
	postService := service.NewPostService(postRepository, markdown.NewRenderer())
	commentService := service.NewCommentService(commentRepository, postRepository, userRepository)

	return &App{
		Cfg:            cfg,
		DB:             database,
		AuthService:    authService,
		UserService:    userService,
		PostService:    postService,
		CommentService: commentService,
		EmailService:   emailService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
