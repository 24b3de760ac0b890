package seats

import (
	"github.com/gin-gonic/gin"
)

// SetupSeatRoutes registers the seat endpoints. holdLimiter guards the
// grant path only; reads and releases are never rate limited.
func SetupSeatRoutes(router *gin.RouterGroup, controller Controller, holdLimiter gin.HandlerFunc) {
	seats := router.Group("/seats")
	{
		seats.GET("/event/:eventId/status", controller.GetEventSeatStatus) // GET /api/v1/seats/event/:eventId/status
		seats.GET("/event/:eventId/plan", controller.GetSeatPlan)          // GET /api/v1/seats/event/:eventId/plan
		seats.DELETE("/release", controller.ReleaseHold)                   // DELETE /api/v1/seats/release

		if holdLimiter != nil {
			seats.POST("/hold", holdLimiter, controller.HoldSeats) // POST /api/v1/seats/hold
		} else {
			seats.POST("/hold", controller.HoldSeats)
		}
	}
}
