// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"seatwise/internal/bookings"
	"seatwise/internal/events"
	"seatwise/internal/shared/config"
	"seatwise/internal/shared/database"
	"seatwise/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	publisher    bookings.ConfirmationPublisher
	eventService events.Service // For dependency injection
}

// NewRouter creates a new router instance. publisher may be nil when
// the notification pipeline is disabled.
func NewRouter(cfg *config.Config, db *database.DB, publisher bookings.ConfirmationPublisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	root := engine.Group("")
	{
		// Event routes first: the booking engine borrows the event
		// service as its inventory
		r.setupEventRoutes(root)
		r.setupBookingRoutes(root)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Endpoint not found",
		})
	})
}

// setupHealthRoutes sets up health check routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}

// setupEventRoutes configures event management routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo)

	if r.db.GetRedis() != nil {
		eventService.SetCacheService(cache.NewService(r.db.GetRedis()), r.config.Redis.EventCacheTTL)
	}

	// Store event service for dependency injection
	r.eventService = eventService

	eventController := events.NewController(eventService)
	events.SetupEventRoutes(rg, eventController)
}

// setupBookingRoutes configures the reservation routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, r.eventService, r.publisher)
	bookingController := bookings.NewController(bookingService)

	bookings.SetupBookingRoutes(rg, bookingController)
}
