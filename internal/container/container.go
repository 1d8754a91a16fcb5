package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bienesraices/config"
	"github.com/oksasatya/bienesraices/internal/application"
	"github.com/oksasatya/bienesraices/internal/infrastructure/search"
	"github.com/oksasatya/bienesraices/pkg/helpers"
	"github.com/oksasatya/bienesraices/pkg/mailer"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager
	cookies    *helpers.Manager

	dispatcher *mailer.Dispatcher

	images        application.ImageStore
	propertyIndex *search.PropertyIndex
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}

func SetCookies(m *helpers.Manager) { cookies = m }
func GetCookies() *helpers.Manager {
	if cookies != nil {
		return cookies
	}
	return helpers.NewCookie("", false)
}

func SetDispatcher(d *mailer.Dispatcher) { dispatcher = d }
func GetDispatcher() *mailer.Dispatcher  { return dispatcher }

// SetImageStore selects where uploaded property pictures go (GCS or local disk).
func SetImageStore(s application.ImageStore) { images = s }
func GetImageStore() application.ImageStore  { return images }

func SetPropertyIndex(x *search.PropertyIndex) { propertyIndex = x }

// GetPropertyIndex never returns nil; without Elasticsearch the index reports disabled.
func GetPropertyIndex() *search.PropertyIndex {
	if propertyIndex != nil {
		return propertyIndex
	}
	return search.NewPropertyIndex(nil, "")
}
