package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okellodev/dukani/internal/api/handlers"
	mw "github.com/okellodev/dukani/internal/api/middleware"
	"github.com/okellodev/dukani/internal/config"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/service"
	"github.com/okellodev/dukani/internal/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router  *chi.Mux
	Expirer *service.ExpirerService
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	principalStore := store.NewPrincipalStore(db)
	tenantStore := store.NewTenantStore(db)
	subscriptionStore := store.NewSubscriptionStore(db)
	membershipStore := store.NewMembershipStore(db)
	catalogStore := store.NewCatalogStore(db)
	saleStore := store.NewSaleStore(db)
	bookingStore := store.NewBookingStore(db)
	billingStore := store.NewBillingStore(db)
	statsStore := store.NewStatsStore(db)

	// Services
	authSvc := service.NewAuthService(principalStore, config.JWTSecret(), config.JWTTTL(), logger)
	policySvc := service.NewPolicyService(tenantStore, membershipStore)
	tenantSvc := service.NewTenantService(policySvc, tenantStore, subscriptionStore, logger)
	staffSvc := service.NewStaffService(policySvc, principalStore, membershipStore, logger)
	catalogSvc := service.NewCatalogService(policySvc, catalogStore, logger)
	saleSvc := service.NewSaleService(policySvc, saleStore, logger)
	bookingSvc := service.NewBookingService(policySvc, bookingStore, logger)
	billingSvc := service.NewBillingService(policySvc, billingStore, logger)
	statsSvc := service.NewStatsService(policySvc, statsStore)
	expirerSvc := service.NewExpirerService(subscriptionStore, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authSvc)
	tenantHandler := handlers.NewTenantHandler(tenantSvc)
	staffHandler := handlers.NewStaffHandler(staffSvc)
	catalogHandler := handlers.NewCatalogHandler(catalogSvc)
	saleHandler := handlers.NewSaleHandler(saleSvc)
	bookingHandler := handlers.NewBookingHandler(bookingSvc)
	billingHandler := handlers.NewBillingHandler(billingSvc)
	statsHandler := handlers.NewStatsHandler(statsSvc)

	r := chi.NewRouter()

	app := &App{
		Router:  r,
		Expirer: expirerSvc,
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Metrics)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health and metrics (no auth)
	r.Get("/health", healthHandler(db))
	r.Handle("/metrics", promhttp.Handler())

	// Registration and login (no auth)
	r.Post("/v1/auth/register", authHandler.Register)
	r.Post("/v1/auth/login", authHandler.Login)

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.Auth(authSvc))

		r.Post("/tenants", tenantHandler.Create)

		r.Route("/tenants/{tenantID}", func(r chi.Router) {
			r.Get("/", tenantHandler.Get)
			r.Get("/subscription", tenantHandler.GetSubscription)
			r.Get("/stats", statsHandler.Get)

			// Staff
			r.Route("/staff", func(r chi.Router) {
				r.Get("/", staffHandler.List)
				r.Post("/", staffHandler.Invite)
				r.Delete("/{principalID}", staffHandler.Remove)
			})

			// Catalog
			r.Route("/items", func(r chi.Router) {
				r.Get("/", catalogHandler.List)
				r.Post("/", catalogHandler.Create)
			})

			// Sales
			r.Route("/sales", func(r chi.Router) {
				r.Post("/", saleHandler.Create)
				r.Get("/{saleID}", saleHandler.GetByID)
			})

			// Resource units and reservations
			r.Route("/units", func(r chi.Router) {
				r.Get("/", bookingHandler.ListUnits)
				r.Post("/", bookingHandler.CreateUnit)
			})
			r.Post("/reservations", bookingHandler.CreateReservation)

			// Lessees and rent payments
			r.Route("/lessees", func(r chi.Router) {
				r.Post("/", billingHandler.CreateLessee)
				r.Post("/{lesseeID}/payments", billingHandler.RecordRentPayment)
			})

			// Students and fee payments
			r.Route("/students", func(r chi.Router) {
				r.Post("/", billingHandler.CreateStudent)
				r.Post("/{studentID}/payments", billingHandler.RecordFeePayment)
			})
		})
	})

	return app
}

// NewRouter returns just the chi.Mux for tests and embedding.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// Ensure stores satisfy the domain interfaces at compile time.
var (
	_ domain.PrincipalStore    = (*store.PrincipalStore)(nil)
	_ domain.TenantStore       = (*store.TenantStore)(nil)
	_ domain.SubscriptionStore = (*store.SubscriptionStore)(nil)
	_ domain.MembershipStore   = (*store.MembershipStore)(nil)
	_ domain.CatalogStore      = (*store.CatalogStore)(nil)
	_ domain.SaleStore         = (*store.SaleStore)(nil)
	_ domain.BookingStore      = (*store.BookingStore)(nil)
	_ domain.BillingStore      = (*store.BillingStore)(nil)
	_ domain.StatsStore        = (*store.StatsStore)(nil)
)
