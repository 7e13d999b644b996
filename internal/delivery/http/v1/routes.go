package v1

import (
	"net/http"

	"gymbook-promotions/internal/delivery/http/middleware"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Promotion      *PromotionHandler
	AdminPromotion *AdminPromotionHandler
	Health         *HealthHandler
	Metrics        http.Handler
}

// NewRouter registers the public, authenticated and admin routes.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /api/v1/packages/{id}/promotions", h.Promotion.ListPackagePromotions)

	// Authenticated
	mux.Handle("POST /api/v1/checkout/quote", middleware.AuthMiddleware(http.HandlerFunc(h.Promotion.Quote)))

	// Admin
	mux.Handle("GET /api/v1/admin/packages/{id}/promotions/audit", middleware.AuthMiddleware(middleware.AdminMiddleware(http.HandlerFunc(h.AdminPromotion.AuditPackage))))

	// Health Check
	mux.HandleFunc("GET /api/v1/health", h.Health.Health)
	mux.HandleFunc("GET /health", h.Health.Health) // Support root health check for Load Balancers

	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	return mux
}
