package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/event-registration/internal/interface/http"
	"github.com/oksasatya/event-registration/internal/interface/middleware"
)

// EventModule serves /events/*.
type EventModule struct {
	Handler *handlers.EventHandler
	Redis   *redis.Client
}

func NewEventModule(h *handlers.EventHandler, rdb *redis.Client) *EventModule {
	return &EventModule{Handler: h, Redis: rdb}
}

func (m *EventModule) Register(rg *gin.RouterGroup) {
	writeLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), nil)
	exportLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	ev := rg.Group("/events")
	ev.Use(middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil))
	{
		ev.POST("/create", writeLimiter, m.Handler.Create)
		ev.POST("/register", writeLimiter, m.Handler.Register)
		ev.GET("/details", m.Handler.Details)
		ev.GET("/upcoming", m.Handler.Upcoming)
		ev.GET("/stats", m.Handler.Stats)
		ev.GET("/search", m.Handler.Search)
		ev.POST("/export", exportLimiter, m.Handler.Export)
	}
}
