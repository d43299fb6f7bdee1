package events

import (
	"errors"
	"net/http"

	"seatwise/internal/shared/apperrors"
	"seatwise/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest,
			"Event name and at least one section (name, price, capacity) are required",
			nil, bindingErrorDetails(err))
		return
	}

	event, err := ctrl.service.CreateEvent(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", event, nil)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID format", nil, nil)
		return
	}

	event, err := ctrl.service.GetEventByID(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEventNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", event, nil)
}

// bindingErrorDetails flattens validator errors into field messages;
// other binding failures (malformed JSON, wrong types) pass through
// as a single string.
func bindingErrorDetails(err error) interface{} {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		return details
	}
	return err.Error()
}
