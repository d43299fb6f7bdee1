package bookings

import (
	"errors"
	"net/http"

	"seatwise/internal/shared/apperrors"
	"seatwise/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	CreateBooking(c *gin.Context)
	ListBookings(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest,
			"eventId, sectionId, and a positive integer qty are required", nil, err.Error())
		return
	}

	confirmation, err := ctrl.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", confirmation, nil)
}

func (ctrl *controller) ListBookings(c *gin.Context) {
	list, err := ctrl.service.ListBookings(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", list, nil)
}

// respondBookingError maps engine errors onto status codes. Malformed
// ids are a 400, distinct from the 404 of a well-formed id that
// matches nothing; insufficient seats is a 400 whose message reports
// requested vs available.
func (ctrl *controller) respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidQuantity):
		response.RespondJSON(c, "error", http.StatusBadRequest, apperrors.ErrInvalidQuantity.Error(), nil, nil)
	case errors.Is(err, apperrors.ErrInvalidID):
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid ID format", nil, nil)
	case errors.Is(err, apperrors.ErrEventNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
	case errors.Is(err, apperrors.ErrSectionNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Section not found in this event", nil, nil)
	default:
		if ise, ok := apperrors.IsInsufficientSeats(err); ok {
			response.RespondJSON(c, "error", http.StatusBadRequest, ise.Error(), nil, map[string]int{
				"requested": ise.Requested,
				"available": ise.Available,
			})
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
	}
}
