package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/config"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/handler/http/middleware"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	appCfg config.AppConfig,
	attendanceHandler AttendanceHandler,
	regularizationHandler RegularizationHandler,
	leaveHandler LeaveHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-engine"),
		slog.String("env", appCfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/my", attendanceHandler.GetMyAttendance)

				// Manager or owner only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", attendanceHandler.List)
					r.Post("/", attendanceHandler.ManualUpsert)
					r.Get("/export", attendanceHandler.Export)
					r.Post("/import", attendanceHandler.Import)
					r.Post("/mark-absent", attendanceHandler.MarkAbsent)
					r.Put("/{id}", attendanceHandler.Update)
				})

				r.Get("/{id}", attendanceHandler.Get)
				r.Get("/{id}/logs", attendanceHandler.ListLogs)
			})

			r.Route("/regularizations", func(r chi.Router) {
				r.Post("/", regularizationHandler.Create)
				r.Get("/my", regularizationHandler.ListMine)
				r.Post("/{id}/cancel", regularizationHandler.Cancel)

				// Manager or owner only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", regularizationHandler.List)
					r.Post("/{id}/approve", regularizationHandler.Approve)
					r.Post("/{id}/reject", regularizationHandler.Reject)
				})

				r.Get("/{id}", regularizationHandler.Get)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", leaveHandler.Create)
				r.Get("/my", leaveHandler.ListMine)
				r.Post("/{id}/cancel", leaveHandler.Cancel)

				// Manager or owner only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", leaveHandler.List)
					r.Post("/{id}/approve", leaveHandler.Approve)
					r.Post("/{id}/reject", leaveHandler.Reject)
				})

				r.Get("/{id}", leaveHandler.Get)
			})
		})
	})

	return r
}
