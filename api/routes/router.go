package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riveroslabs/merchant-console-backend/api/controllers"
	"github.com/riveroslabs/merchant-console-backend/api/middleware"
	"github.com/riveroslabs/merchant-console-backend/internal/auth"
	"github.com/riveroslabs/merchant-console-backend/internal/customers"
	"github.com/riveroslabs/merchant-console-backend/internal/paymentprofiles"
	"github.com/riveroslabs/merchant-console-backend/internal/subscriptions"
	"github.com/riveroslabs/merchant-console-backend/pkg/config"
	"github.com/riveroslabs/merchant-console-backend/pkg/logger"
	pkgredis "github.com/riveroslabs/merchant-console-backend/pkg/redis"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    *pkgredis.Client
	Registry *prometheus.Registry

	AuthService            auth.Service
	CustomersService       customers.Service
	PaymentProfilesService paymentprofiles.Service
	SubscriptionsService   subscriptions.Service
}

// New assembles the full route tree.
func New(deps Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.CORS(deps.Config.App.IsDev(), deps.Config.App.PublicBaseURL))

	healthCtrl := controllers.NewHealthController(deps.Logger, readinessPinger(deps.Redis))
	authCtrl := controllers.NewAuthController(deps.AuthService, deps.Logger)
	customersCtrl := controllers.NewCustomersController(deps.CustomersService, deps.Logger)
	paymentProfilesCtrl := controllers.NewPaymentProfilesController(deps.PaymentProfilesService, deps.Logger)
	subscriptionsCtrl := controllers.NewSubscriptionsController(deps.SubscriptionsService, deps.Logger)

	r.Get("/health/live", healthCtrl.Live)
	r.Get("/health/ready", healthCtrl.Ready)

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(loginRateLimit(deps)).Post("/login", authCtrl.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(deps.Config.JWT, deps.Logger))

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", customersCtrl.List)
				r.Post("/", customersCtrl.EnsureProfile)

				r.Route("/{profileID}", func(r chi.Router) {
					r.Get("/", customersCtrl.Detail)
					r.Post("/hosted-form-tokens", paymentProfilesCtrl.HostedFormToken)

					r.Route("/payment-profiles/{paymentProfileID}", func(r chi.Router) {
						r.Get("/", paymentProfilesCtrl.Get)
						r.Delete("/", paymentProfilesCtrl.Delete)
						r.Post("/refresh", paymentProfilesCtrl.Refresh)
					})
				})
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Post("/", subscriptionsCtrl.Create)
				r.Get("/{subscriptionID}", subscriptionsCtrl.Get)
				r.Post("/{subscriptionID}/cancel", subscriptionsCtrl.Cancel)
			})
		})
	})

	return r
}

// readinessPinger avoids handing a typed nil *pkgredis.Client to the
// health controller's interface field.
func readinessPinger(client *pkgredis.Client) pkgredis.Pinger {
	if client == nil {
		return nil
	}
	return client
}

// loginRateLimit passes a true nil store when Redis is not configured so
// the limiter disables itself instead of wrapping a typed nil.
func loginRateLimit(deps Dependencies) func(http.Handler) http.Handler {
	if deps.Redis == nil {
		return middleware.LoginRateLimit(nil, deps.Config.AuthRateLimit, deps.Logger)
	}
	return middleware.LoginRateLimit(deps.Redis, deps.Config.AuthRateLimit, deps.Logger)
}
