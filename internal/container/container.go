package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/event-registration/config"
	"github.com/oksasatya/event-registration/internal/domain/repository"
	"github.com/oksasatya/event-registration/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Router modules are auto-wired from these. Optional clients stay nil when
// their backend is not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	gateway     repository.Gateway
	redisClient *redis.Client
	gcsClient   *storage.Client
	rabbitPub   *helpers.RabbitPublisher
	esClient    *elasticsearch.Client
)

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetGateway(g repository.Gateway)         { gateway = g }
func GetGateway() repository.Gateway          { return gateway }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetGCS(s *storage.Client)                { gcsClient = s }
func GetGCS() *storage.Client                 { return gcsClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
