package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// auth endpoints: 5 requests per second with a burst of 10 per client IP
const (
	authRateLimit = rate.Limit(5)
	authRateBurst = 10
)

type Handlers struct {
	Auth         AuthHandler
	User         UserHandler
	Attendance   AttendanceHandler
	WFH          WFHHandler
	Task         TaskHandler
	Dashboard    DashboardHandler
	Notification NotificationHandler
}

type RouterOptions struct {
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
	// Redis enables Idempotency-Key handling on mutating attendance and WFH endpoints. May be nil.
	Redis redis.Cmdable
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "geoattend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Idempotent-Replayed"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	idempotent := middleware.Idempotency(opts.Redis)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimitByIP(authRateLimit, authRateBurst))
				r.Post("/register", h.Auth.Register)
				r.Post("/login", h.Auth.Login)
			})
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)
		})

		r.Get("/managers", h.User.ListManagers)

		// SSE authenticates with its own short-lived token
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/me", h.User.Me)

			r.Route("/attendance", func(r chi.Router) {
				r.With(idempotent).Post("/entry", h.Attendance.MarkEntry)
				r.With(idempotent).Post("/exit", h.Attendance.MarkExit)
				r.Get("/today", h.Attendance.Today)
				r.Get("/history", h.Attendance.History)
			})

			r.Route("/wfh/requests", func(r chi.Router) {
				r.With(idempotent).Post("/", h.WFH.Submit)
				r.Get("/", h.WFH.List)
				r.With(middleware.RequireManager).Post("/{requestID}/respond", h.WFH.Respond)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", h.Task.List)
				r.Post("/{taskID}/complete", h.Task.Complete)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", h.Task.Create)
					r.Get("/assigned", h.Task.ListAssigned)
					r.Post("/{taskID}/assign", h.Task.Assign)
					r.Post("/{taskID}/approve", h.Task.Approve)
					r.Get("/{taskID}/review", h.Task.Review)
				})
			})

			r.Route("/employee", func(r chi.Router) {
				r.Get("/tasks", h.Task.MyTasks)
				r.Get("/team-tasks", h.Task.TeamTasks)
			})

			r.Route("/manager", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/employees", h.User.ListMyEmployees)
				r.Get("/employees/{employeeID}/attendance", h.Attendance.TeamMemberHistory)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/employee", h.Dashboard.Employee)
				r.With(middleware.RequireManager).Get("/manager", h.Dashboard.Manager)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Patch("/read", h.Notification.MarkAsRead)
				r.Get("/sse-token", h.Notification.GetSSEToken)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
