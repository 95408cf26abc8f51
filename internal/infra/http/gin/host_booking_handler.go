package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	availabilityapp "staybook/internal/app/handlers/availability"
	bookingapp "staybook/internal/app/handlers/booking"
	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/queries"
)

type HostBookingHTTP interface {
	List(c *gin.Context)
	Confirm(c *gin.Context)
	Decline(c *gin.Context)
	BlockDates(c *gin.Context)
	ReleaseBlock(c *gin.Context)
}

type HostBookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h HostBookingHandler) List(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	query := bookingapp.ListHostBookingsQuery{HostID: host.ID, Status: c.Query("status")}
	result, err := queries.Ask[bookingapp.ListHostBookingsQuery, dto.HostBookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostBookingHandler) Confirm(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	cmd := bookingapp.ConfirmHostBookingCommand{HostID: host.ID, BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookingapp.ConfirmHostBookingCommand, *bookingapp.HostBookingActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type declineBookingRequest struct {
	Reason string `json:"reason"`
}

func (h HostBookingHandler) Decline(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req declineBookingRequest
	_ = c.ShouldBindJSON(&req)
	cmd := bookingapp.DeclineHostBookingCommand{HostID: host.ID, BookingID: c.Param("id"), Reason: req.Reason}
	result, err := commands.Dispatch[bookingapp.DeclineHostBookingCommand, *bookingapp.HostBookingActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type blockDatesRequest struct {
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Reference string `json:"reference"`
}

func (h HostBookingHandler) BlockDates(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	var req blockDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := availabilityapp.BlockDatesCommand{
		HostID:    host.ID,
		ListingID: c.Param("id"),
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Reference: req.Reference,
	}
	result, err := commands.Dispatch[availabilityapp.BlockDatesCommand, dto.Calendar](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostBookingHandler) ReleaseBlock(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	cmd := availabilityapp.ReleaseBlockCommand{
		HostID:    host.ID,
		ListingID: c.Param("id"),
		Reference: c.Param("reference"),
	}
	result, err := commands.Dispatch[availabilityapp.ReleaseBlockCommand, dto.Calendar](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ HostBookingHTTP = HostBookingHandler{}
