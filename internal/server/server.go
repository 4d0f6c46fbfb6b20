package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"anoa.com/collegeattendance/internal/auth"
	"anoa.com/collegeattendance/internal/config"
	"anoa.com/collegeattendance/internal/middleware"

	attendanceHttp "anoa.com/collegeattendance/internal/modules/attendance/delivery/http"
	attendanceRepo "anoa.com/collegeattendance/internal/modules/attendance/repository"
	attendanceService "anoa.com/collegeattendance/internal/modules/attendance/service"

	reportHttp "anoa.com/collegeattendance/internal/modules/report/delivery/http"
	reportService "anoa.com/collegeattendance/internal/modules/report/service"

	rosterRepo "anoa.com/collegeattendance/internal/modules/roster/repository"

	scheduleHttp "anoa.com/collegeattendance/internal/modules/schedule/delivery/http"
	scheduleRepo "anoa.com/collegeattendance/internal/modules/schedule/repository"
	scheduleService "anoa.com/collegeattendance/internal/modules/schedule/service"

	searchHttp "anoa.com/collegeattendance/internal/modules/search/delivery/http"
	searchService "anoa.com/collegeattendance/internal/modules/search/service"

	userHttp "anoa.com/collegeattendance/internal/modules/user/delivery/http"
	userRepo "anoa.com/collegeattendance/internal/modules/user/repository"
	userService "anoa.com/collegeattendance/internal/modules/user/service"

	"anoa.com/collegeattendance/pkg/ratelimiter"
	"anoa.com/collegeattendance/pkg/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	cfg         *config.Config
	log         *zap.Logger
}

// Deps are the external clients the server is built on. Redis and
// Meilisearch are optional.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client
	Meili meilisearch.ServiceManager
	Log   *zap.Logger
	Now   func() time.Time
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	log := deps.Log
	db := deps.DB

	validator.RegisterJSONTagNames()

	var directory searchService.Directory
	if deps.Meili != nil {
		directory = searchService.NewMeiliDirectory(deps.Meili, log)
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	revoked := auth.NewRevocationStore(deps.Redis)
	limiter := ratelimiter.New(deps.Redis)

	userRepo := userRepo.NewUserRepository(db)
	rosterRepo := rosterRepo.NewRosterRepository(db)
	scheduleRepo := scheduleRepo.NewScheduleRepository(db)
	attendanceRepo := attendanceRepo.NewAttendanceRepository(db)

	var indexer userService.StudentIndexer
	if directory != nil {
		indexer = directory
	}
	authSvc := userService.NewAuthService(userRepo, issuer, revoked, limiter, userService.LoginThrottle{
		MaxAttempts: cfg.LoginMaxAttempts,
		Window:      cfg.LoginLockout,
	}, indexer, log)
	authHandler := userHttp.NewAuthHandler(authSvc)

	scheduleSvc := scheduleService.NewScheduleService(scheduleRepo, rosterRepo, log)
	scheduleHandler := scheduleHttp.NewScheduleHandler(scheduleSvc)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, scheduleSvc, log, deps.Now)
	attendanceHandler := attendanceHttp.NewAttendanceHandler(attendanceSvc)

	reportSvc := reportService.NewReportService(attendanceRepo, scheduleRepo, rosterRepo)
	reportHandler := reportHttp.NewReportHandler(reportSvc)

	searchSvc := searchService.NewSearchService(directory, rosterRepo, log)
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger(log, "/healthz", "/metrics"))

	s := &Server{
		engine:      router,
		db:          db,
		redisClient: deps.Redis,
		cfg:         cfg,
		log:         log,
	}

	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(userRepo, issuer, revoked)

	api := router.Group("/api")

	// Public routes (no auth required)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		student := protected.Group("/student")
		student.Use(authMiddleware.RequireStudent())
		{
			student.GET("/dashboard", reportHandler.StudentDashboard)
			student.GET("/attendance", reportHandler.StudentAttendance)
		}

		faculty := protected.Group("/faculty")
		faculty.Use(authMiddleware.RequireFaculty())
		{
			faculty.GET("/dashboard", reportHandler.FacultyDashboard)
			faculty.GET("/students", reportHandler.BatchSummaries)
			faculty.GET("/students/search", searchHandler.SearchStudents)
			faculty.GET("/students/:id", reportHandler.StudentForFaculty)

			faculty.POST("/schedules", scheduleHandler.CreateSchedule)
			faculty.GET("/schedules", scheduleHandler.ListSchedules)
			faculty.GET("/schedules/:id", scheduleHandler.GetSchedule)
			faculty.GET("/schedules/:id/students", scheduleHandler.ListEligibleStudents)
			faculty.GET("/schedules/:id/attendance", attendanceHandler.GetSheet)
			faculty.PUT("/schedules/:id/attendance", attendanceHandler.MarkAttendance)
		}
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbHealthy := false
	if sqlDB, err := s.db.DB(); err == nil {
		dbHealthy = sqlDB.PingContext(ctx) == nil
	}

	redisStatus := "disabled"
	if s.redisClient != nil {
		redisStatus = "ok"
		if err := s.redisClient.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		}
	}

	status := http.StatusOK
	if !dbHealthy || redisStatus == "down" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "db": dbHealthy, "redis": redisStatus})
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
