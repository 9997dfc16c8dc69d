package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/vendor-inventory/docs"
	"github.com/rogerio-castellano/vendor-inventory/internal/http/handlers"
	mw "github.com/rogerio-castellano/vendor-inventory/internal/http/middleware"
	rl "github.com/rogerio-castellano/vendor-inventory/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

var (
	limiter        *rl.Limiter
	metricsHandler http.Handler
	trustProxy     bool
)

// SetRateLimiter enables per-client rate limiting on the API routes.
func SetRateLimiter(l *rl.Limiter) {
	limiter = l
}

func SetMetricsHandler(h http.Handler) {
	metricsHandler = h
}

// SetTrustProxy makes the router take the client address from
// X-Forwarded-For and X-Real-IP. Without a proxy that overwrites those
// headers, clients could pick a fresh rate limit bucket per request.
func SetTrustProxy(trust bool) {
	trustProxy = trust
}

func NewRouter() http.Handler {
	r := chi.NewRouter()
	if trustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(mw.RequestID)
	r.Use(mw.AccessLog)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Use(mw.Session)

		r.Get("/dashboard", handlers.GetDashboardHandler)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", handlers.GetProductsHandler)
			r.Post("/", handlers.CreateProductHandler)
			r.Get("/{id}", handlers.GetProductByIDHandler)
			r.Put("/{id}", handlers.UpdateProductHandler)
			r.Delete("/{id}", handlers.DeleteProductHandler)
			r.Get("/{id}/skus", handlers.GetSKUsHandler)
			r.Post("/{id}/skus", handlers.CreateSKUHandler)
			r.Put("/{id}/skus/{sku}", handlers.UpdateSKUHandler)
			r.Post("/{id}/images", handlers.UploadImagesHandler)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", handlers.GetInventoryHandler)
			r.Get("/low-stock", handlers.GetLowStockHandler)
			r.Get("/{id}/skus/{sku}", handlers.GetStockHandler)
			r.Post("/{id}/skus/{sku}/adjust", handlers.AdjustStockHandler)
			r.Get("/{id}/skus/{sku}/history", handlers.GetStockHistoryHandler)
		})

		r.Get("/transactions", handlers.GetTransactionsHandler)
		r.Post("/orders/{event}", handlers.SendOrderEventHandler)
		r.Get("/vendor/profile", handlers.GetVendorProfileHandler)
		r.Put("/vendor/profile", handlers.UpdateVendorProfileHandler)
	})

	return r
}
