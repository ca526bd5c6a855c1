package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/event-registration/internal/application"
	"github.com/oksasatya/event-registration/internal/domain/entity"
	"github.com/oksasatya/event-registration/pkg/response"
	"github.com/oksasatya/event-registration/pkg/validation"
)

type EventHandler struct {
	Events   *application.EventService
	Registry *application.RegistryService
	Logger   *logrus.Logger
}

func NewEventHandler(events *application.EventService, registry *application.RegistryService, logger *logrus.Logger) *EventHandler {
	return &EventHandler{Events: events, Registry: registry, Logger: logger}
}

type createEventRequest struct {
	Title    string     `json:"title" binding:"required,max=255"`
	Datetime string     `json:"datetime" binding:"required"`
	Location string     `json:"location" binding:"required,max=255"`
	Capacity flexNumber `json:"capacity" binding:"required"`
}

type registrationRequest struct {
	UserID  flexID `json:"userId" binding:"required"`
	EventID flexID `json:"eventId" binding:"required"`
}

type eventResponse struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Datetime time.Time `json:"datetime"`
	Location string    `json:"location"`
	Capacity int       `json:"capacity"`
}

func toEventResponse(e *entity.Event) eventResponse {
	return eventResponse{ID: e.ID, Title: e.Title, Datetime: e.Datetime.UTC(), Location: e.Location, Capacity: e.Capacity}
}

func (h *EventHandler) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ev, err := h.Events.CreateEvent(c.Request.Context(), application.CreateEventInput{
		Title:    req.Title,
		Datetime: req.Datetime,
		Location: req.Location,
		Capacity: string(req.Capacity),
	})
	if err != nil {
		renderError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"eventId": ev.ID}, "Event created successfully.", nil)
}

func (h *EventHandler) Register(c *gin.Context) {
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	reg, err := h.Registry.Register(c.Request.Context(), int64(req.UserID), int64(req.EventID))
	if err != nil {
		renderError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"userId":       reg.UserID,
		"eventId":      reg.EventID,
		"registeredAt": reg.RegisteredAt.UTC(),
	}, "Registration successful.", nil)
}

func (h *EventHandler) Details(c *gin.Context) {
	id, ok := parseIDParam(c.Query("eventId"))
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid eventId provided", nil)
		return
	}
	ev, err := h.Events.GetEventDetails(c.Request.Context(), id)
	if err != nil {
		renderError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventResponse(ev), "Event details fetched successfully.", nil)
}

func (h *EventHandler) Upcoming(c *gin.Context) {
	events, err := h.Events.ListUpcomingEvents(c.Request.Context())
	if err != nil {
		renderError(c, h.Logger, err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	msg := "Upcoming events fetched successfully."
	if len(out) == 0 {
		msg = "No upcoming events found."
	}
	response.Success(c, http.StatusOK, out, msg, gin.H{"count": len(out)})
}

func (h *EventHandler) Stats(c *gin.Context) {
	id, ok := parseIDParam(c.Query("eventId"))
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid eventId provided", nil)
		return
	}
	st, err := h.Events.GetEventStats(c.Request.Context(), id)
	if err != nil {
		renderError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"eventId":                st.EventID,
		"eventTitle":             st.EventTitle,
		"totalRegistrations":     st.TotalRegistrations,
		"remainingCapacity":      st.RemainingCapacity,
		"percentageCapacityUsed": st.PercentageCapacityUsed,
	}, "Event statistics fetched successfully.", nil)
}

// Search looks up events by title or location: GET /events/search?q=go&size=10
func (h *EventHandler) Search(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "size must be an integer", nil)
			return
		}
		size = n
	}
	docs, err := h.Events.SearchEvents(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		renderError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, docs, "search results", gin.H{"count": len(docs)})
}

func (h *EventHandler) Export(c *gin.Context) {
	id, ok := parseIDParam(c.Query("eventId"))
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid eventId provided", nil)
		return
	}
	res, err := h.Events.ExportRegistrants(c.Request.Context(), id)
	if err != nil {
		renderError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": res.URL, "registrations": res.Registrations}, "export uploaded", nil)
}
