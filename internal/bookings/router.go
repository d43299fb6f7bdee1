package bookings

import (
	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller Controller) {
	bookings := router.Group("/bookings")
	{
		bookings.POST("", controller.CreateBooking) // POST /bookings - Reserve seats
		bookings.GET("", controller.ListBookings)   // GET /bookings - Ledger, newest first
	}

	// Alias kept for clients that book via POST /book
	router.POST("/book", controller.CreateBooking)
}
