package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/hrportal/hradmin/internal/config"
	"github.com/hrportal/hradmin/internal/http/handlers"
	"github.com/hrportal/hradmin/internal/http/middlewares"
	"github.com/hrportal/hradmin/internal/observability"
)

const (
	serviceName  = "hradmin-api"
	maxBodyBytes = 1 << 20

	loginRateLimit  = 10
	loginRateWindow = time.Minute

	// per user; each e-mail regenerates the report in the worker
	emailRateLimit  = 20
	emailRateWindow = time.Minute
)

type ReportService interface {
	handlers.ReportGenerator
	handlers.ReportInvalidator
}

type JobStore interface {
	handlers.JobEnqueuer
	handlers.JobsReader
}

// Deps is everything the router needs. Prom and Ping are optional.
type Deps struct {
	Log    *slog.Logger
	Config config.Config

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Ping     func(ctx context.Context) error

	Auth   handlers.Authenticator
	Tokens middlewares.TokenVerifier

	Employees  handlers.EmployeeStore
	Attendance handlers.AttendanceStore
	Reports    ReportService
	Jobs       JobStore
}

func NewRouter(d Deps) (*gin.Engine, error) {
	if d.Config.Env != "dev" && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	// /api/Employees redirects to /api/employees
	r.RedirectFixedPath = true

	r.Use(gin.Recovery())
	if d.Config.TracingEnabled {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders(d.Config.Env == "prod"))
	r.Use(middlewares.CORSMiddleware(d.Config.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// health
	h := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")

	// auth
	authHandler := handlers.NewAuthHandler(d.Auth)
	loginLimiter := middlewares.NewRateLimiter(loginRateLimit, loginRateWindow)

	authGroup := api.Group("/auth", middlewares.RequireJSON())
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)

	// everything below needs a bearer token
	authMW := middlewares.NewAuthMiddleware(d.Tokens)
	secured := api.Group("", authMW.RequireAuth())
	withJSON := middlewares.RequireJSON()

	employeesHandler := handlers.NewEmployeesHandler(d.Employees, d.Reports)
	secured.GET("/employees", employeesHandler.List)
	secured.POST("/employees", withJSON, employeesHandler.Create)
	secured.GET("/employees/:id", employeesHandler.Get)
	secured.PUT("/employees/:id", withJSON, employeesHandler.Update)
	secured.DELETE("/employees/:id", employeesHandler.Delete)

	attendanceHandler := handlers.NewAttendanceHandler(d.Attendance, d.Reports)
	secured.GET("/Attendance", attendanceHandler.List)
	secured.POST("/Attendance", withJSON, attendanceHandler.Create)
	secured.GET("/Attendance/:id", attendanceHandler.Get)

	reportsHandler := handlers.NewReportsHandler(d.Reports, d.Jobs, d.Config.WorkerMaxAttempts)
	emailLimiter := middlewares.NewRateLimiter(emailRateLimit, emailRateWindow)
	secured.GET("/Reports/:report/:format", reportsHandler.Download)
	secured.POST("/Reports/:report/:format/email",
		emailLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP),
		withJSON,
		reportsHandler.Email,
	)

	jobsHandler := handlers.NewJobsHandler(d.Jobs)
	secured.GET("/jobs/:id", jobsHandler.Get)
	secured.POST("/jobs/:id/retry", jobsHandler.Retry)

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondError(ctx, http.StatusNotFound, "not_found", "Route not found", nil)
	})

	return r, nil
}
