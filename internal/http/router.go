// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/viabcheck/eco-backend/internal/config"
	"github.com/viabcheck/eco-backend/internal/http/handlers"
	"github.com/viabcheck/eco-backend/internal/http/middleware"
	"github.com/viabcheck/eco-backend/internal/repo"
	"github.com/viabcheck/eco-backend/internal/services"
)

// Stores bundles every CSV-backed store the API depends on.
type Stores struct {
	Buildings       *repo.BuildingStore
	Measures        *repo.MeasureStore
	Energy          *repo.EnergyStore
	Financials      *repo.FinancialStore
	Params          *repo.ParameterStore
	Users           *repo.UserStore
	Requests        *repo.RequestStore
	Recommendations *repo.RecommendationStore
}

// OpenStores opens every store under dataDir. Catalog stores tolerate missing
// files (they start empty); the mutable record stores are created with header
// rows when absent, and only those can fail.
func OpenStores(dataDir string) (Stores, error) {
	st := Stores{
		Buildings:  repo.NewBuildingStore(filepath.Join(dataDir, "buildings.csv")),
		Measures:   repo.NewMeasureStore(filepath.Join(dataDir, "retrofit_measures.csv")),
		Energy:     repo.NewEnergyStore(filepath.Join(dataDir, "energy_consumption.csv")),
		Financials: repo.NewFinancialStore(filepath.Join(dataDir, "financials.csv")),
		Params:     repo.NewParameterStore(filepath.Join(dataDir, "parameters.csv")),
	}
	var err error
	if st.Users, err = repo.NewUserStore(filepath.Join(dataDir, "users.csv")); err != nil {
		return st, err
	}
	if st.Requests, err = repo.NewRequestStore(filepath.Join(dataDir, "requests.csv")); err != nil {
		return st, err
	}
	if st.Recommendations, err = repo.NewRecommendationStore(filepath.Join(dataDir, "recommendations.csv")); err != nil {
		return st, err
	}
	return st, nil
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting, CORS
// and security headers, health and metrics endpoints, and then mounts the
// versioned public API under /api/v*.
//
// advisor may be nil; recommendation generation then uses the in-process
// rule-based selection.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Rate limiter (per user/IP)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, st Stores, advisor services.Advisor, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress JSON payloads (building lists and measure tables are large)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← stores
	econ := services.NewMeasureService(st.Energy)
	if cfg.CostFactor > 0 {
		econ.CostFactor = cfg.CostFactor
	}
	if cfg.HeatPrice > 0 {
		econ.HeatPriceEURPerKWh = cfg.HeatPrice
	}
	calc := &services.CalculatorService{
		Buildings:  st.Buildings,
		Energy:     st.Energy,
		Financials: st.Financials,
		Params:     st.Params,
		Measures:   st.Measures,
	}
	buildingSvc := &services.BuildingService{
		Catalog:  st.Buildings,
		Calc:     calc,
		Measures: st.Measures,
		Econ:     econ,
	}
	userSvc := &services.UserService{Users: st.Users, Buildings: st.Buildings}
	requestSvc := &services.RequestService{Requests: st.Requests, Users: st.Users, Buildings: st.Buildings}
	recSvc := &services.RecommendationService{
		Buildings: st.Buildings,
		Measures:  st.Measures,
		Econ:      econ,
		Advisor:   advisor,
		Store:     st.Recommendations,
	}
	h := handlers.New(buildingSvc, calc, userSvc, requestSvc, recSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Buildings and address cascade
		api.GET("/buildings", h.ListBuildings)
		api.GET("/buildings/search", h.SearchBuildings)
		api.GET("/buildings/streets", h.ListStreets)
		api.GET("/buildings/numbers", h.ListHouseNumbers)
		api.GET("/buildings/:slug", h.GetBuilding)
		api.GET("/buildings/:slug/measures", h.ListBuildingMeasures)

		// Window retrofit calculator
		api.POST("/calculator", h.RunCalculator)

		// Users
		api.POST("/users", h.CreateUser)
		api.GET("/users/:id", h.GetUser)
		api.PATCH("/users/:id", h.UpdateUserProfile)
		api.GET("/users/:id/request", h.GetUserRequest)

		// Requests
		api.POST("/requests", h.SubmitRequest)
		api.GET("/requests", h.ListRequests)

		// Recommendations
		api.POST("/recommendations", h.GenerateRecommendation)
		api.GET("/recommendations/:building_id", h.GetLatestRecommendation)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
