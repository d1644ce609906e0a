package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/ethos-hrms/hrms-backend-go/internal/handler/http/middleware"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/jwt"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// NewLogger builds the ECS JSON request logger shared with slog.Default.
func NewLogger(w io.Writer, level slog.Level, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ethos-hrms"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)
}

// tokenFromQuery reads ?token= for EventSource clients.
func tokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("token")
}

func NewRouter(
	logger *slog.Logger,
	corsOrigins []string,
	JWTService jwt.Service,
	policy *user.Policy,
	m *metrics.Metrics,
	leaveHandler LeaveHandler,
	attendanceHandler AttendanceHandler,
	notificationHandler NotificationHandler,
	employeeHandler EmployeeHandler,
	dashboardHandler DashboardHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", m.Handler())

	can := func(action user.Action) func(http.Handler) http.Handler {
		return middleware.RequirePermission(policy, action)
	}

	r.Route("/api/v1", func(r chi.Router) {

		// EventSource cannot send headers; the stream takes a short-lived token.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), tokenFromQuery))
			r.Use(middleware.Authenticate(JWTService, jwt.TokenTypeSSE))
			r.With(can(user.ActionNotificationViewOwn)).Get("/notifications/stream", notificationHandler.Stream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.Authenticate(JWTService, jwt.TokenTypeAccess))
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Get("/employees/me", employeeHandler.GetMe)
			r.Get("/dashboard/pending", dashboardHandler.GetPendingCounts)

			r.Route("/leave", func(r chi.Router) {
				r.With(can(user.ActionLeaveViewOwn)).Get("/balances/my", leaveHandler.GetMyBalances)
				r.With(can(user.ActionLeaveViewAll)).Get("/on-leave-today", leaveHandler.OnLeaveToday)

				r.Route("/requests", func(r chi.Router) {
					r.With(can(user.ActionLeaveCreate)).Post("/", leaveHandler.CreateRequest)
					r.With(can(user.ActionLeaveViewOwn)).Get("/my", leaveHandler.GetMyRequests)
					r.With(can(user.ActionLeaveViewAll)).Get("/", leaveHandler.ListRequests)

					r.Route("/{id}", func(r chi.Router) {
						// Ownership decides between view_own and view_all.
						r.Get("/", leaveHandler.GetRequest)
						r.With(can(user.ActionLeaveApprove)).Post("/approve", leaveHandler.ApproveRequest)
						r.With(can(user.ActionLeaveApprove)).Post("/reject", leaveHandler.RejectRequest)
						r.With(can(user.ActionLeaveCancel)).Post("/cancel", leaveHandler.CancelRequest)
					})
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(can(user.ActionAttendanceViewOwn)).Get("/my", attendanceHandler.GetMyAttendance)

				r.Route("/corrections", func(r chi.Router) {
					r.With(can(user.ActionAttendanceCreateCorrection)).Post("/", attendanceHandler.CreateCorrection)
					r.With(can(user.ActionAttendanceViewOwn)).Get("/my", attendanceHandler.GetMyCorrections)
					r.With(can(user.ActionAttendanceViewAll)).Get("/", attendanceHandler.ListCorrections)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", attendanceHandler.GetCorrection)
						r.With(can(user.ActionAttendanceApprove)).Post("/approve", attendanceHandler.ApproveCorrection)
						r.With(can(user.ActionAttendanceApprove)).Post("/reject", attendanceHandler.RejectCorrection)
					})
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Use(can(user.ActionNotificationViewOwn))
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/read", notificationHandler.MarkAsRead)
				r.Post("/read-all", notificationHandler.MarkAllAsRead)
				r.Post("/sse-token", notificationHandler.GetSSEToken)
			})
		})
	})
	return r
}
