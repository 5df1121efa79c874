package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketday/fleamarket-api/internal/config"
	"github.com/marketday/fleamarket-api/internal/presentation/http/handler"
	"github.com/marketday/fleamarket-api/internal/presentation/http/middleware"
	"github.com/marketday/fleamarket-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Clerk        *handler.ClerkHandler
	Item         *handler.ItemHandler
	Receipt      *handler.ReceiptHandler
	Compensation *handler.CompensationHandler
	Vendor       *handler.VendorHandler
	Stats        *handler.StatsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// route is one row of the routing table: where a request goes and which
// session level it needs. The table is walked once at startup.
type route struct {
	method   string
	path     string
	handler  gin.HandlerFunc
	clerk    bool
	overseer bool
}

func table(h *Handlers) []route {
	return []route{
		// Public
		{"POST", "/counter/validate", h.Clerk.ValidateCounter, false, false},
		{"POST", "/clerk/login", h.Clerk.Login, false, false},

		// Clerk session
		{"POST", "/clerk/logout", h.Clerk.Logout, true, false},
		{"POST", "/items", h.Item.Register, true, false},
		{"GET", "/items/:code", h.Item.Find, true, false},
		{"POST", "/items/checkin", h.Item.Checkin, true, false},
		{"POST", "/items/checkout", h.Item.Checkout, true, false},
		{"POST", "/items/missing", h.Item.MarkMissing, true, false},
		{"GET", "/vendors/:vendor_id/items", h.Item.ListByVendor, true, false},
		{"POST", "/vendors/:vendor_id/abandon", h.Item.Abandon, true, false},

		{"POST", "/receipts", h.Receipt.Start, true, false},
		{"POST", "/receipts/reserve", h.Receipt.Reserve, true, false},
		{"POST", "/receipts/release", h.Receipt.Release, true, false},
		{"POST", "/receipts/:id/finish", h.Receipt.Finish, true, false},
		{"POST", "/receipts/:id/abort", h.Receipt.Abort, true, false},
		{"GET", "/receipts/:id", h.Receipt.Get, true, false},
		{"POST", "/receipts/:id/activate", h.Receipt.Activate, true, false},
		{"GET", "/receipts/by-item/:code", h.Receipt.GetByItem, true, false},

		{"POST", "/vendors/:vendor_id/compensations", h.Compensation.Start, true, false},
		{"POST", "/compensations/:id/items", h.Compensation.AddItem, true, false},
		{"POST", "/compensations/:id/finish", h.Compensation.Finish, true, false},
		{"POST", "/compensations", h.Compensation.Compensate, true, false},
		{"GET", "/vendors/:vendor_id/compensable", h.Compensation.Compensable, true, false},

		{"POST", "/vendors", h.Vendor.Create, true, false},
		{"GET", "/vendors/:vendor_id", h.Vendor.Get, true, false},
		{"GET", "/vendors", h.Vendor.Find, true, false},

		{"GET", "/stats/sales.csv", h.Stats.Sales, true, false},
		{"GET", "/stats/registrations.csv", h.Stats.Registrations, true, false},

		// Overseer only
		{"POST", "/clerks", h.Clerk.Create, true, true},
		{"GET", "/items", h.Item.Search, true, true},
		{"PUT", "/items", h.Item.Edit, true, true},
		{"POST", "/items/lost", h.Item.MarkLost, true, true},
		{"GET", "/receipts/pending/all", h.Receipt.ListPending, true, true},
	}
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	auth := middleware.AuthMiddleware(deps.JWTManager)
	overseer := middleware.RequireOverseer()

	rateLimiter := middleware.NewCounterRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
		BurstSize:         deps.Cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	limit := rateLimiter.Middleware()

	v1 := router.Group("/api/v1")
	for _, r := range table(h) {
		chain := make([]gin.HandlerFunc, 0, 4)
		if r.clerk {
			chain = append(chain, auth, limit)
		}
		if r.overseer {
			chain = append(chain, overseer)
		}
		chain = append(chain, r.handler)
		v1.Handle(r.method, r.path, chain...)
	}

	return router
}
