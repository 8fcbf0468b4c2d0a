package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raditmaulana/bengkelhub-backend/api/controllers"
	"github.com/raditmaulana/bengkelhub-backend/api/middleware"
	"github.com/raditmaulana/bengkelhub-backend/internal/assistant"
	"github.com/raditmaulana/bengkelhub-backend/internal/inventory"
	"github.com/raditmaulana/bengkelhub-backend/internal/lifecycle"
	"github.com/raditmaulana/bengkelhub-backend/internal/mechanics"
	"github.com/raditmaulana/bengkelhub-backend/internal/notifications"
	"github.com/raditmaulana/bengkelhub-backend/internal/pos"
	"github.com/raditmaulana/bengkelhub-backend/internal/records"
	"github.com/raditmaulana/bengkelhub-backend/internal/reports"
	"github.com/raditmaulana/bengkelhub-backend/internal/session"
	"github.com/raditmaulana/bengkelhub-backend/internal/tracking"
	"github.com/raditmaulana/bengkelhub-backend/pkg/db"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
	"github.com/raditmaulana/bengkelhub-backend/pkg/metrics"
	"github.com/raditmaulana/bengkelhub-backend/pkg/redis"
)

// RouterParams carry every dependency the HTTP surface needs.
type RouterParams struct {
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        redis.Pinger
	HTTPMetrics  *metrics.HTTPMetrics
	MetricsPage  http.Handler
	Sessions     session.Service
	Tracking     tracking.Service
	Assistant    assistant.Service
	Records      records.Service
	Lifecycle    lifecycle.Service
	Mechanics    mechanics.Service
	Inventory    inventory.Service
	POS          pos.Service
	Reports      reports.Service
	Notification notifications.Service
}

// NewRouter assembles the full HTTP surface. Role gates are driven by the
// simulated session role; admin passes every gate.
func NewRouter(params RouterParams) http.Handler {
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(params.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, map[string]controllers.Pinger{
			"database": params.DB,
			"redis":    params.Redis,
		}))
	})

	if params.MetricsPage != nil {
		r.Handle("/metrics", params.MetricsPage)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Post("/track", controllers.Track(params.Tracking, logg))
		r.Post("/assistant/chat", controllers.AssistantChat(params.Assistant, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ResolveRole(params.Sessions, logg))

		r.Route("/session", func(r chi.Router) {
			r.Post("/role", controllers.SwitchRole(params.Sessions, logg))
			r.Get("/role", controllers.CurrentRole(params.Sessions, logg))
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", controllers.ListServices(params.Records, logg))
			r.Get("/{code}", controllers.GetService(params.Records, logg))
			r.With(middleware.RequireRole(logg, enums.RoleAdvisor)).
				Post("/", controllers.CreateService(params.Records, logg))
			r.With(middleware.RequireRole(logg, enums.RoleAdvisor)).
				Patch("/{code}", controllers.UpdateService(params.Records, logg))
			r.With(middleware.RequireRole(logg, enums.RoleMechanic)).
				Post("/{code}/start", controllers.StartService(params.Lifecycle, logg))
			r.With(middleware.RequireRole(logg, enums.RoleMechanic)).
				Post("/{code}/complete", controllers.CompleteService(params.Lifecycle, logg))
		})

		r.Route("/mechanics", func(r chi.Router) {
			r.Get("/", controllers.ListMechanics(params.Mechanics, logg))
			r.With(middleware.RequireRole(logg, enums.RoleAdvisor)).
				Post("/{code}/toggle", controllers.ToggleMechanic(params.Mechanics, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.ListInventory(params.Inventory, logg))
			r.With(middleware.RequireRole(logg, enums.RoleAdvisor)).
				Post("/", controllers.AddInventoryItem(params.Inventory, logg))
		})

		r.Route("/pos", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleCashier))
			r.Get("/ready", controllers.ReadyForPayment(params.POS, logg))
			r.Post("/select", controllers.SelectRecord(params.POS, logg))
			r.Get("/session", controllers.CurrentSession(params.POS, logg))
			r.Delete("/session", controllers.AbandonSession(params.POS, logg))
			r.Post("/items", controllers.AddCartItem(params.POS, logg))
			r.Patch("/items/{itemId}", controllers.SetCartQuantity(params.POS, logg))
			r.Delete("/items/{itemId}", controllers.RemoveCartItem(params.POS, logg))
			r.Post("/labor", controllers.SetLaborCost(params.POS, logg))
			r.Post("/checkout", controllers.Checkout(params.POS, logg))
		})

		r.Get("/history", controllers.History(params.Reports, logg))
		r.Get("/dashboard", controllers.Dashboard(params.Reports, logg))
		r.Get("/notifications", controllers.ListNotifications(params.Notification, logg))
	})

	return r
}
