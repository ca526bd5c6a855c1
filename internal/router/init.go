package router

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/event-registration/internal/application"
	"github.com/oksasatya/event-registration/internal/container"
	"github.com/oksasatya/event-registration/internal/infrastructure/search"
	handlers "github.com/oksasatya/event-registration/internal/interface/http"
	"github.com/oksasatya/event-registration/internal/interface/middleware"
	"github.com/oksasatya/event-registration/internal/router/modules"
	"github.com/oksasatya/event-registration/pkg/helpers"
)

// Services groups the application services built from the container.
type Services struct {
	Events   *application.EventService
	Registry *application.RegistryService
	Users    *application.UserService
}

// BuildServices wires services from the container. Optional backends that
// were not configured are left out rather than passed as typed nils.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	gw := container.GetGateway()

	var pub application.ActivityPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	var searcher application.EventSearcher
	if es := container.GetES(); es != nil {
		searcher = search.NewEventIndex(es, cfg.ESEventsIndex)
	}
	var uploader application.ObjectUploader
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		uploader = &helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket}
	}

	return Services{
		Events:   application.NewEventService(gw, container.GetRedis(), cfg.EventCacheTTL, pub, searcher, uploader, logger),
		Registry: application.NewRegistryService(gw, pub, logger, cfg.AllowPastCancellation),
		Users:    application.NewUserService(gw, logger),
	}
}

// debugVars serves the expvar counters to private-network clients.
var debugVars = ModuleFunc(func(rg *gin.RouterGroup) {
	rg.GET("/debug/vars", middleware.OnlyIf(middleware.AllowPrivateIP()), gin.WrapH(expvar.Handler()))
})

// InitModules builds the services and registers every module. Call once at startup.
func InitModules(r *Registry) {
	svc := BuildServices()
	logger := container.GetLogger()
	rdb := container.GetRedis()

	r.Add(
		modules.NewEventModule(handlers.NewEventHandler(svc.Events, svc.Registry, logger), rdb),
		modules.NewUserModule(handlers.NewUserHandler(svc.Users, svc.Registry, logger), rdb),
	)
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(debugVars)
	}
}
