package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loopcycle/loopcycle-backend/api/controllers"
	"github.com/loopcycle/loopcycle-backend/api/middleware"
	"github.com/loopcycle/loopcycle-backend/internal/assignments"
	"github.com/loopcycle/loopcycle-backend/internal/drivers"
	"github.com/loopcycle/loopcycle-backend/internal/notifications"
	"github.com/loopcycle/loopcycle-backend/internal/requests"
	"github.com/loopcycle/loopcycle-backend/pkg/config"
	"github.com/loopcycle/loopcycle-backend/pkg/db"
	"github.com/loopcycle/loopcycle-backend/pkg/enums"
	"github.com/loopcycle/loopcycle-backend/pkg/logger"
	"github.com/loopcycle/loopcycle-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	requestsService requests.Service,
	assignmentsService assignments.Service,
	driversService drivers.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", controllers.CreateRequest(requestsService, logg))
			r.Get("/", controllers.ListMyRequests(requestsService, logg))
			r.Get("/{id}", controllers.GetRequest(requestsService, logg))
			r.Post("/{id}/cancel", controllers.CancelRequest(requestsService, logg))
			r.Get("/{id}/assignments", controllers.RequestAssignmentHistory(assignmentsService, logg))
			r.Get("/{id}/assignments/active", controllers.RequestActiveAssignment(assignmentsService, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/{id}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})

		r.Route("/driver", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleDriver), logg))
			r.Route("/assignments", func(r chi.Router) {
				r.Get("/", controllers.ListMyAssignments(assignmentsService, logg))
				r.Post("/{id}/respond", controllers.RespondAssignment(assignmentsService, logg))
				r.Post("/{id}/complete", controllers.CompleteAssignment(assignmentsService, logg))
			})
			r.Put("/availability", controllers.SetAvailability(driversService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Route("/assignments", func(r chi.Router) {
				r.Post("/", controllers.AssignDriver(assignmentsService, logg))
				r.Get("/{id}", controllers.AssignmentDetail(assignmentsService, logg))
				r.Post("/{id}/reassign", controllers.ReassignDriver(assignmentsService, logg))
			})
			r.Post("/requests/{id}/approve", controllers.ApproveRequest(requestsService, logg))
			r.Get("/drivers/available", controllers.AvailableDrivers(driversService, logg))
		})
	})

	return r
}
