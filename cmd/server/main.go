package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campuskit/campus-admin-api/api/swagger"
	"github.com/campuskit/campus-admin-api/internal/handler"
	"github.com/campuskit/campus-admin-api/internal/middleware"
	"github.com/campuskit/campus-admin-api/internal/models"
	"github.com/campuskit/campus-admin-api/internal/repository"
	"github.com/campuskit/campus-admin-api/internal/service"
	"github.com/campuskit/campus-admin-api/pkg/cache"
	"github.com/campuskit/campus-admin-api/pkg/config"
	"github.com/campuskit/campus-admin-api/pkg/database"
	"github.com/campuskit/campus-admin-api/pkg/logger"
	corsmiddleware "github.com/campuskit/campus-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campuskit/campus-admin-api/pkg/middleware/requestid"
)

// @title Campus Admin API
// @version 1.0.0
// @description University management REST API
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, stats caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	metricsService := service.NewMetricsService()

	departmentRepo := repository.NewDepartmentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	classRepo := repository.NewClassRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	departmentService := service.NewDepartmentService(departmentRepo, validate, logr)
	subjectService := service.NewSubjectService(subjectRepo, departmentRepo, validate, logr)
	classService := service.NewClassService(classRepo, subjectRepo, userRepo, validate, logr)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, userRepo, classRepo, validate, logr)
	userService := service.NewUserService(userRepo, validate, logr)
	statsService := service.NewStatsService(statsRepo, cacheRepo, cfg.Stats.CacheTTL, logr)
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.Auth.JWTSecret,
		AccessTokenExpiry:  cfg.Auth.TokenExpiration,
		RefreshTokenExpiry: cfg.Auth.RefreshExpiration,
		Issuer:             "campus-admin-api",
	})

	departmentHandler := handler.NewDepartmentHandler(departmentService)
	subjectHandler := handler.NewSubjectHandler(subjectService)
	classHandler := handler.NewClassHandler(classService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	userHandler := handler.NewUserHandler(userService)
	statsHandler := handler.NewStatsHandler(statsService)
	authHandler := handler.NewAuthHandler(authService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authService), authHandler.Me)

	if cfg.Auth.Enabled {
		api.Use(middleware.JWT(authService))
	} else {
		// Keep the surface open but still attach claims when a token is
		// presented, so access logs and handlers can identify the caller.
		api.Use(middleware.OptionalJWT(authService))
	}
	adminOnly := requireAdmin(cfg.Auth.Enabled)

	departments := api.Group("/departments")
	departments.GET("", departmentHandler.List)
	departments.GET("/:id", departmentHandler.Get)
	departments.POST("", adminOnly, departmentHandler.Create)

	subjects := api.Group("/subjects")
	subjects.GET("", subjectHandler.List)
	subjects.POST("", adminOnly, subjectHandler.Create)

	classes := api.Group("/classes")
	classes.GET("", classHandler.List)
	classes.GET("/:id", classHandler.Get)
	classes.POST("", adminOnly, classHandler.Create)
	classes.GET("/:id/users", classHandler.Members)
	classes.GET("/:id/roster/export", classHandler.ExportRoster)

	enrollments := api.Group("/enrollments")
	enrollments.GET("", enrollmentHandler.List)
	enrollments.POST("", enrollmentHandler.Create)
	enrollments.POST("/join", enrollmentHandler.Join)

	users := api.Group("/users")
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.GET("/:id/departments", userHandler.Departments)
	users.GET("/:id/subjects", userHandler.Subjects)
	users.GET("/:id/classes", userHandler.Classes)

	stats := api.Group("/stats")
	stats.GET("/overview", statsHandler.Overview)
	stats.GET("/latest", statsHandler.Latest)
	stats.GET("/charts", statsHandler.Charts)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// requireAdmin gates mutating catalog routes behind the admin role when auth
// is enabled, and is a no-op otherwise.
func requireAdmin(authEnabled bool) gin.HandlerFunc {
	if !authEnabled {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RequireRoles(models.RoleAdmin)
}
