package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/crossborder-pricing/api/controllers"
	"github.com/angelmondragon/crossborder-pricing/api/middleware"
	"github.com/angelmondragon/crossborder-pricing/internal/exchange"
	"github.com/angelmondragon/crossborder-pricing/internal/payments"
	"github.com/angelmondragon/crossborder-pricing/internal/quote"
	"github.com/angelmondragon/crossborder-pricing/pkg/config"
	"github.com/angelmondragon/crossborder-pricing/pkg/db"
	"github.com/angelmondragon/crossborder-pricing/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	registry *prometheus.Registry,
	rateService exchange.Service,
	quoteService quote.Service,
	paymentsService payments.Service,
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
		r.Get("/ready", controllers.HealthReady(cfg, dbP, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/quotes/price", controllers.PriceQuote(quoteService, logg))

		r.Get("/exchange-rates", controllers.GetExchangeRate(rateService, logg))
		r.Delete("/exchange-rates", controllers.InvalidateExchangeRate(rateService, logg))

		r.Route("/quotes/{quoteID}", func(r chi.Router) {
			r.Post("/payment-summary", controllers.PaymentSummary(paymentsService, logg))
			r.Post("/payments", controllers.RecordPayment(paymentsService, logg))
		})
	})

	return r
}
