package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/internal/service"
	"github.com/parasjain182005/Travel-Website/pkg/health"
	"github.com/parasjain182005/Travel-Website/pkg/httputil"
	"github.com/parasjain182005/Travel-Website/pkg/middleware"
)

// Services are the application services the router exposes.
type Services struct {
	Tours    *service.TourService
	Reviews  *service.ReviewService
	Users    *service.UserService
	Bookings *service.BookingService
}

// RouterConfig holds transport settings for NewRouter.
type RouterConfig struct {
	ServiceName    string
	CORS           middleware.CORSConfig
	RequestTimeout time.Duration
	SecureCookies  bool
	// RateLimiter guards /api/v1. Nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
	// PprofCIDRs enables /debug/pprof for the listed networks.
	PprofCIDRs []string
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(
	svc Services,
	validate middleware.TokenValidator,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Metrics(cfg.ServiceName))
	r.Use(chimw.SetHeader("X-Content-Type-Options", "nosniff"))
	r.Use(chimw.SetHeader("X-Frame-Options", "SAMEORIGIN"))
	r.Use(chimw.SetHeader("Referrer-Policy", "no-referrer"))
	r.Use(middleware.CORS(cfg.CORS))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{Message: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.Response{Message: "Method not allowed"})
	})

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	if len(cfg.PprofCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)
	}

	authn := middleware.Auth(validate)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	moderators := middleware.RequireRole(domain.RoleAdmin, domain.RoleModerator)

	authHandler := NewAuthHandler(svc.Users, cfg.SecureCookies, logger)
	tourHandler := NewTourHandler(svc.Tours, svc.Reviews, logger)
	reviewHandler := NewReviewHandler(svc.Reviews, logger)
	userHandler := NewUserHandler(svc.Users, logger)
	bookingHandler := NewBookingHandler(svc.Bookings, logger)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Handler)
		}
		if cfg.RequestTimeout > 0 {
			r.Use(chimw.Timeout(cfg.RequestTimeout))
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/tours", func(r chi.Router) {
			r.Get("/", tourHandler.ListTours)
			r.Get("/search", tourHandler.SearchTours)
			r.Get("/featured", tourHandler.ListFeatured)
			r.Get("/count", tourHandler.CountTours)
			r.Get("/{id}", tourHandler.GetTour)
			r.Get("/{id}/reviews", tourHandler.ListReviews)
			r.Get("/{id}/rating", tourHandler.GetRating)

			r.Group(func(r chi.Router) {
				r.Use(authn, adminOnly)
				r.Post("/", tourHandler.CreateTour)
				r.Put("/{id}", tourHandler.UpdateTour)
				r.Delete("/{id}", tourHandler.DeleteTour)
			})
			r.With(authn, moderators).Post("/{id}/rating/recompute", tourHandler.RecomputeRating)
		})

		r.Route("/review", func(r chi.Router) {
			r.Get("/{id}", reviewHandler.GetReview)

			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.Post("/{id}", reviewHandler.CreateReview)
				r.Put("/{id}", reviewHandler.UpdateReview)
				r.Delete("/{id}", reviewHandler.DeleteReview)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authn)
			r.With(adminOnly).Get("/", userHandler.ListUsers)
			r.With(adminOnly).Get("/active", userHandler.ListActiveUsers)
			r.Get("/{id}", userHandler.GetUser)
			r.Put("/{id}", userHandler.UpdateUser)
			r.Delete("/{id}", userHandler.DeactivateUser)
		})

		r.Route("/book", func(r chi.Router) {
			r.Use(authn)
			r.Post("/", bookingHandler.CreateBooking)
			r.Get("/mine", bookingHandler.ListMyBookings)
			r.With(adminOnly).Get("/", bookingHandler.ListBookings)
			r.With(adminOnly).Get("/by-email", bookingHandler.ListBookingsByEmail)
			r.Get("/{id}", bookingHandler.GetBooking)
		})
	})

	return r
}
