// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"ticketly/internal/events"
	"ticketly/internal/notifications"
	"ticketly/internal/orders"
	"ticketly/internal/realtime"
	"ticketly/internal/seats"
	"ticketly/internal/shared/config"
	"ticketly/internal/shared/database"
	"ticketly/pkg/cache"
	"ticketly/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer

	// Services kept for cross-package wiring and background workers
	eventService events.Service
	seatService  seats.Service
	orderService orders.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	RegisterValidators()

	r.setupHealthRoutes(engine)

	cacheService := cache.NewService(r.db.GetRedisClient())
	broadcaster := realtime.NewRedisBroadcaster(r.db.GetRedisClient())

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupEventRoutes(api, cacheService)
		r.setupSeatRoutes(api, cacheService, broadcaster)
		r.setupOrderRoutes(api)
	}

	// Cross-package wiring happens after all services exist.
	r.eventService.SetSeatPlanner(r.seatService)
	r.seatService.SetEventDirectory(&seatsEventDirectory{events: r.eventService})
	r.orderService.SetSeatService(&ordersSeatService{seats: r.seatService})
	r.orderService.SetEventDirectory(&ordersEventDirectory{events: r.eventService})
	r.orderService.SetNotifier(&confirmationNotifier{producer: r.producer})
}

// SeatService exposes the seat arbiter for the expiration worker.
func (r *Router) SeatService() seats.Service {
	return r.seatService
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "ticketly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "ticketly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupEventRoutes configures event management routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup, cacheService cache.Service) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo)
	eventService.SetCacheService(cacheService)
	eventController := events.NewController(eventService)

	r.eventService = eventService

	events.SetupEventRoutes(rg, eventController)
}

// setupSeatRoutes configures the seat status and hold routes
func (r *Router) setupSeatRoutes(rg *gin.RouterGroup, cacheService cache.Service, broadcaster realtime.Broadcaster) {
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
	seatService := seats.NewService(seatRepo, r.config.SeatHold.TTL, r.config.SeatHold.MaxPerHold)
	seatService.SetCacheService(cacheService)
	seatService.SetBroadcaster(broadcaster)
	seatController := seats.NewController(seatService)

	r.seatService = seatService

	limiter := ratelimit.NewRateLimiter(r.db.GetRedisClient(), r.config.SeatHold.MaxPerMinute, time.Minute)
	seats.SetupSeatRoutes(rg, seatController, ratelimit.Middleware(limiter))
}

// setupOrderRoutes configures checkout, order lookup and the payment webhook
func (r *Router) setupOrderRoutes(rg *gin.RouterGroup) {
	var provider orders.PaymentProvider
	if r.config.MockPayments() {
		provider = orders.NewMockProvider()
	} else {
		provider = orders.NewStripeProvider(r.config.Payment.ProviderKey, r.config.Payment.WebhookSecret)
	}

	orderRepo := orders.NewRepository(r.db.GetPostgreSQL())
	orderService := orders.NewService(orderRepo, provider)
	orderController := orders.NewController(orderService)

	r.orderService = orderService

	orders.SetupOrderRoutes(rg, orderController)
}
