package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/event-registration/internal/interface/http"
	"github.com/oksasatya/event-registration/internal/interface/middleware"
)

// UserModule serves /users/*.
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	users := rg.Group("/users")
	users.POST("/create", limiter, m.Handler.Create)
	users.DELETE("/cancelregistration", limiter, m.Handler.CancelRegistration)
}
