package api

import (
	"net/http"

	appmw "github.com/example/ec-shop/internal/api/middleware"
	"github.com/example/ec-shop/internal/auth"
	"github.com/example/ec-shop/internal/domain/user"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterConfig wires the handler groups and cross-cutting middleware.
type RouterConfig struct {
	Auth     *AuthHandlers
	Products *ProductHandlers
	Carts    *CartHandlers
	Orders   *OrderHandlers
	Payments *PaymentHandlers

	Tokens   *auth.TokenManager
	Logger   zerolog.Logger
	Registry *prometheus.Registry
	Limiter  *appmw.RateLimiter
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(appmw.RequestLogger(cfg.Logger))
	r.Use(appmw.Recoverer(cfg.Logger))

	if cfg.Registry != nil {
		metrics := appmw.NewHTTPMetrics(cfg.Registry)
		r.Use(metrics.Handler)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Handler)
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.Auth.Register)
			r.Post("/login", cfg.Auth.Login)
			r.Post("/refresh", cfg.Auth.Refresh)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.Products.List)
			r.Get("/{id}", cfg.Products.Get)

			r.Group(func(r chi.Router) {
				r.Use(appmw.Authenticate(cfg.Tokens))
				r.Use(appmw.RequireRole(user.RoleAdmin))
				r.Post("/", cfg.Products.Create)
				r.Put("/{id}", cfg.Products.Update)
				r.Delete("/{id}", cfg.Products.Delete)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(appmw.Authenticate(cfg.Tokens))
			r.Get("/", cfg.Carts.Get)
			r.Delete("/", cfg.Carts.Clear)
			r.Post("/items", cfg.Carts.AddItem)
			r.Put("/items/{itemID}", cfg.Carts.UpdateItem)
			r.Delete("/items/{itemID}", cfg.Carts.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(appmw.Authenticate(cfg.Tokens))
			r.Get("/", cfg.Orders.List)
			r.Get("/{id}", cfg.Orders.Get)
		})

		r.Route("/payment", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(appmw.Authenticate(cfg.Tokens))
				r.Post("/create-checkout-session", cfg.Payments.CreateCheckoutSession)
			})

			// Gateway callbacks are authenticated by signature, and the
			// browser redirects carry no credentials.
			r.Post("/webhook", cfg.Payments.Webhook)
			r.Get("/payment-success", cfg.Payments.PaymentSuccess)
			r.Get("/payment-cancelled", cfg.Payments.PaymentCancelled)
		})
	})

	return r
}
