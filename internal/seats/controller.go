package seats

import (
	"net/http"

	"ticketly/internal/shared/middleware"
	"ticketly/internal/shared/utils/response"
	"ticketly/internal/shared/utils/strictbind"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	GetEventSeatStatus(c *gin.Context)
	GetSeatPlan(c *gin.Context)
	HoldSeats(c *gin.Context)
	ReleaseHold(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetEventSeatStatus(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	status, err := ctrl.service.GetEventSeatStatus(c.Request.Context(), eventID, middleware.SessionID(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat status retrieved successfully", status, nil)
}

func (ctrl *controller) GetSeatPlan(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	plan, err := ctrl.service.GetSeatPlan(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat plan retrieved successfully", plan, nil)
}

func (ctrl *controller) HoldSeats(c *gin.Context) {
	var req HoldSeatsRequest
	if err := strictbind.JSON(c, &req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	hold, err := ctrl.service.HoldSeats(c.Request.Context(), middleware.SessionID(c), middleware.UserID(c), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seats held successfully", hold, nil)
}

func (ctrl *controller) ReleaseHold(c *gin.Context) {
	var req ReleaseHoldRequest
	if err := strictbind.JSON(c, &req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	released, err := ctrl.service.ReleaseHold(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Hold released successfully", released, nil)
}
