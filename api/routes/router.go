package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openstorehq/openstore-backend/api/controllers"
	"github.com/openstorehq/openstore-backend/api/middleware"
	"github.com/openstorehq/openstore-backend/internal/admin"
	"github.com/openstorehq/openstore-backend/internal/auth"
	"github.com/openstorehq/openstore-backend/internal/categories"
	"github.com/openstorehq/openstore-backend/internal/identity"
	"github.com/openstorehq/openstore-backend/internal/merchants"
	"github.com/openstorehq/openstore-backend/internal/products"
	"github.com/openstorehq/openstore-backend/pkg/config"
	"github.com/openstorehq/openstore-backend/pkg/db"
	"github.com/openstorehq/openstore-backend/pkg/logger"
	"github.com/openstorehq/openstore-backend/pkg/metrics"
	"github.com/openstorehq/openstore-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs. The guard chain
// is assembled here: bearer auth and ownership for the merchant surface,
// API key auth for storefronts, bearer auth plus the super-admin check for
// the admin surface.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	Registry     *prometheus.Registry
	HTTPMetrics  *metrics.HTTPMetrics
	Resolver     identity.Resolver
	UserRepo     *identity.Repository
	MerchantRepo *merchants.Repository

	AuthService     auth.Service
	RegisterService auth.RegisterService
	MerchantService merchants.Service
	ProductService  products.Service
	CategoryService categories.Service
	AdminService    admin.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Recoverer(logg),
		middleware.CORS(),
		middleware.Metrics(p.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, p.Redis, logg))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.Register(p.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.Login(p.AuthService, logg))
	})

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoriesList(p.CategoryService, logg))
		r.Get("/{categoryId}", controllers.CategoriesGet(p.CategoryService, logg))
	})

	r.Route("/api/v1/merchants", func(r chi.Router) {
		r.Use(middleware.BearerAuth(p.Resolver, logg))

		r.Post("/", controllers.MerchantCreate(p.MerchantService, logg))
		r.Get("/", controllers.MerchantListOwn(p.MerchantService, logg))

		r.Route("/{merchantId}", func(r chi.Router) {
			r.Use(middleware.MerchantOwner(p.MerchantRepo, logg))

			r.Get("/", controllers.MerchantGet(p.MerchantService, logg))
			r.Patch("/", controllers.MerchantUpdate(p.MerchantService, logg))
			r.Delete("/", controllers.MerchantDelete(p.MerchantService, logg))
			r.Post("/rotate-key", controllers.MerchantRotateAPIKey(p.MerchantService, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductList(p.ProductService, logg))
				r.Post("/", controllers.ProductCreate(p.ProductService, logg))
				r.Get("/{productId}", controllers.ProductGet(p.ProductService, logg))
				r.Patch("/{productId}", controllers.ProductUpdate(p.ProductService, logg))
				r.Delete("/{productId}", controllers.ProductDelete(p.ProductService, logg))
			})
		})
	})

	r.Route("/api/storefront/v1", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(p.MerchantRepo, logg))

		r.Get("/profile", controllers.StorefrontProfile(logg))
		r.Get("/products", controllers.StorefrontProducts(p.ProductService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.BearerAuth(p.Resolver, logg))
		r.Use(middleware.RequireSuperAdmin(p.UserRepo, logg))

		r.Get("/stats", controllers.AdminStats(p.AdminService, logg))
		r.Get("/health", controllers.AdminHealth(p.AdminService, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUsersList(p.AdminService, logg))
			r.Get("/{userId}", controllers.AdminUsersGet(p.AdminService, logg))
			r.Patch("/{userId}/role", controllers.AdminUsersUpdateRole(p.AdminService, logg))
			r.Delete("/{userId}", controllers.AdminUsersDelete(p.AdminService, logg))
		})

		r.Route("/merchants", func(r chi.Router) {
			r.Get("/", controllers.AdminMerchantsList(p.AdminService, logg))
			r.Get("/{merchantId}", controllers.AdminMerchantsGet(p.AdminService, logg))
			r.Patch("/{merchantId}/status", controllers.AdminMerchantsSetStatus(p.AdminService, logg))
			r.Delete("/{merchantId}", controllers.AdminMerchantsDelete(p.AdminService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminCategoriesList(p.CategoryService, logg))
			r.Post("/", controllers.AdminCategoriesCreate(p.CategoryService, logg))
			r.Get("/{categoryId}", controllers.AdminCategoriesGet(p.CategoryService, logg))
			r.Patch("/{categoryId}", controllers.AdminCategoriesUpdate(p.CategoryService, logg))
			r.Delete("/{categoryId}", controllers.AdminCategoriesDelete(p.CategoryService, logg))
		})
	})

	return r
}
