package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/devlink/devlink-api/docs"
	"github.com/devlink/devlink-api/internal/api/handler"
	"github.com/devlink/devlink-api/internal/api/middleware"
	"github.com/devlink/devlink-api/internal/core/service"
	"github.com/devlink/devlink-api/internal/infrastructure/config"
	mongodb "github.com/devlink/devlink-api/internal/infrastructure/db/mongo"
	redisdb "github.com/devlink/devlink-api/internal/infrastructure/db/redis"
	"github.com/devlink/devlink-api/internal/infrastructure/github"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("devlink"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	profileRepo := mongodb.NewProfileRepository(db)
	postRepo := mongodb.NewPostRepository(db)

	githubClient := github.NewClient(github.Config{
		ClientID:     cfg.Github.ClientID,
		ClientSecret: cfg.Github.ClientSecret,
	})
	repoCache := redisdb.NewRepoCache(rdb)

	userService := service.NewUserService(userRepo, cfg.JWTSecret, 0, log)
	profileService := service.NewProfileService(profileRepo, userRepo, githubClient, repoCache, log)
	postService := service.NewPostService(postRepo, userRepo, log)

	userHandler := handler.NewUserHandler(userService)
	profileHandler := handler.NewProfileHandler(profileService)
	postHandler := handler.NewPostHandler(postService)

	private := middleware.Auth(cfg.JWTSecret)

	// --- User & auth routes ---
	e.POST("/api/users", userHandler.Register)
	e.POST("/api/auth", userHandler.Login)
	e.GET("/api/auth", userHandler.Current, private)

	// --- Profile routes ---
	e.GET("/api/profile/me", profileHandler.Me, private)
	e.POST("/api/profile", profileHandler.Upsert, private)
	e.GET("/api/profile", profileHandler.List)
	e.GET("/api/profile/user/:user_id", profileHandler.ByUser)
	e.DELETE("/api/profile", profileHandler.DeleteAccount, private)
	e.PUT("/api/profile/experience", profileHandler.AddExperience, private)
	e.DELETE("/api/profile/experience/:exp_id", profileHandler.RemoveExperience, private)
	e.PUT("/api/profile/education", profileHandler.AddEducation, private)
	e.DELETE("/api/profile/education/:edu_id", profileHandler.RemoveEducation, private)
	e.GET("/api/profile/github/:username", profileHandler.GithubRepos)

	// --- Post routes ---
	e.POST("/api/posts", postHandler.Create, private)
	e.GET("/api/posts", postHandler.List, private)
	e.GET("/api/posts/:id", postHandler.Get, private)
	e.DELETE("/api/posts/:id", postHandler.Delete, private)
	e.PUT("/api/posts/like/:id", postHandler.Like, private)
	e.PUT("/api/posts/unlike/:id", postHandler.Unlike, private)
	e.POST("/api/posts/comment/:id", postHandler.AddComment, private)
	e.DELETE("/api/posts/comment/:id/:comment_id", postHandler.RemoveComment, private)

	// --- Operational surface ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
